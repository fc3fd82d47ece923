package thermal

import (
	"math"
	"time"
)

type CoolingParams struct {
	InitialTemperature float64 // °C
	FinalTemperature   float64 // °C
	Vessel             Vessel
	Boundary           Boundary
}

func (p CoolingParams) Validate() error {
	if err := finite("initial_temp", p.InitialTemperature); err != nil {
		return err
	}
	if err := finite("final_temp", p.FinalTemperature); err != nil {
		return err
	}
	if err := p.Vessel.Validate(); err != nil {
		return err
	}
	if err := p.Boundary.Validate(); err != nil {
		return err
	}
	if p.FinalTemperature >= p.InitialTemperature {
		return invalid("final_temp", ErrFinalNotBelowInitial)
	}
	return nil
}

type CoolingResult struct {
	Outcome          Outcome
	Elapsed          time.Duration
	FinalTemperature float64 // °C actually reached

	// EnergyLost is integrated step by step from the convective loss.
	EnergyLost float64 // J

	// The split by mass is allocated after the run from the net temperature
	// drop and each mass's capacity.
	WaterEnergyLost float64 // J
	ShellEnergyLost float64 // J

	// Average powers over Elapsed.
	PowerLost      float64 // W
	WaterPowerLost float64 // W
	ShellPowerLost float64 // W
}

func (r CoolingResult) Converged() bool {
	return r.Outcome == OutcomeConverged
}

func (r CoolingResult) Summary() string {
	if !r.Converged() {
		return "Over 3 hours"
	}
	return minutesSeconds(r.Elapsed)
}

// WaterEnergyLostWh, ShellEnergyLostWh and TotalEnergyLostWh express the
// capacity-based split in watt-hours.
func (r CoolingResult) WaterEnergyLostWh() float64 { return r.WaterEnergyLost / 3600 }
func (r CoolingResult) ShellEnergyLostWh() float64 { return r.ShellEnergyLost / 3600 }
func (r CoolingResult) TotalEnergyLostWh() float64 {
	return r.WaterEnergyLostWh() + r.ShellEnergyLostWh()
}

// EnergyBalanceError is the relative gap between the integrated loss and the
// capacity-based loss. Both describe the same heat, so the gap is pure
// floating-point integration error.
func (r CoolingResult) EnergyBalanceError() float64 {
	lumped := r.WaterEnergyLost + r.ShellEnergyLost
	if lumped == 0 {
		return math.Abs(r.EnergyLost)
	}
	return math.Abs(r.EnergyLost-lumped) / math.Abs(lumped)
}

// CoolingTime integrates passive loss until the final temperature is reached
// or CoolingTimeCap of simulated time has elapsed.
func CoolingTime(p CoolingParams, opts ...Option) (CoolingResult, error) {
	if err := p.Validate(); err != nil {
		return CoolingResult{}, err
	}
	o := newRunOptions(StepDuration, opts)

	capacity := p.Vessel.Capacity()
	dt := StepDuration.Seconds()
	maxSteps := int(CoolingTimeCap / StepDuration)

	var res CoolingResult
	temp := p.InitialTemperature
	steps := 0
	o.record(steps, StepDuration, temp)
	for temp > p.FinalTemperature && steps < maxSteps {
		loss := p.Boundary.LossRate(temp)
		res.EnergyLost += loss * dt
		temp = Step(temp, 0, loss, capacity, dt)
		steps++
		o.record(steps, StepDuration, temp)
	}

	res.Elapsed = time.Duration(steps) * StepDuration
	res.FinalTemperature = temp
	res.Outcome = OutcomeConverged
	if temp > p.FinalTemperature {
		res.Outcome = OutcomeTimedOut
	}

	drop := p.InitialTemperature - temp
	res.WaterEnergyLost = drop * p.Vessel.WaterCapacity()
	res.ShellEnergyLost = drop * p.Vessel.ShellCapacity()

	seconds := res.Elapsed.Seconds()
	res.WaterPowerLost = res.WaterEnergyLost / seconds
	res.ShellPowerLost = res.ShellEnergyLost / seconds
	res.PowerLost = res.WaterPowerLost + res.ShellPowerLost
	return res, nil
}
