package testutil

import (
	"sort"
	"sync"

	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

// FakeCalculator is a reusable fake implementing ports.Calculator.
// Put ONLY what multiple test packages need here.
type FakeCalculator struct {
	mu sync.Mutex

	Record ports.Record
	Err    error

	Calls      int
	LastSolver thermal.Solver
	LastValues params.Values
}

func NewFakeCalculator() *FakeCalculator {
	return &FakeCalculator{
		Record: ports.Record{"outcome": "converged", "heating_seconds": 293.5},
	}
}

func (f *FakeCalculator) Run(s thermal.Solver, v params.Values) (ports.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastSolver = s
	f.LastValues = v.Clone()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(ports.Record, len(f.Record))
	for k, val := range f.Record {
		out[k] = val
	}
	return out, nil
}

func (f *FakeCalculator) Snapshot() (int, thermal.Solver, params.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls, f.LastSolver, f.LastValues
}

// FakeStore is an in-memory ports.ParameterStore.
type FakeStore struct {
	mu sync.Mutex

	Default   params.Values
	Snapshots map[string]params.Values
	SaveErr   error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Default: params.Defaults(), Snapshots: map[string]params.Values{}}
}

func (f *FakeStore) Defaults() (params.Values, []error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Default.Clone(), nil
}

func (f *FakeStore) Load(name string) (params.Values, []error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Snapshots[name]
	if !ok {
		return nil, nil, params.ErrSnapshotNotFound
	}
	return v.Clone(), nil, nil
}

func (f *FakeStore) Save(name string, v params.Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Snapshots[name] = v.Clone()
	return nil
}

func (f *FakeStore) Names() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Snapshots))
	for n := range f.Snapshots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
