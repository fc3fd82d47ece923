// Package thermal estimates heating time, cooling time, required heater power
// and continuous-flow temperature loss for a liquid-filled vessel.
//
// The vessel is a single lumped thermal mass (liquid plus steel shell)
// exchanging heat with the room through one convective surface. Every solver
// integrates that heat balance with explicit Euler steps of fixed size and is
// a pure function of its parameters, so calls may run concurrently.
package thermal
