package thermal

import (
	"fmt"
	"time"
)

type HeatingParams struct {
	InitialTemperature float64 // °C
	TargetTemperature  float64 // °C
	HeaterPower        float64 // W
	Vessel             Vessel
	Boundary           Boundary
}

func (p HeatingParams) Validate() error {
	if err := finite("initial_temp", p.InitialTemperature); err != nil {
		return err
	}
	if err := finite("target_temp", p.TargetTemperature); err != nil {
		return err
	}
	if err := finite("heater_power", p.HeaterPower); err != nil {
		return err
	}
	if err := p.Vessel.Validate(); err != nil {
		return err
	}
	if err := p.Boundary.Validate(); err != nil {
		return err
	}
	if p.HeaterPower < 0 {
		return invalid("heater_power", ErrNegativePower)
	}
	if p.TargetTemperature < p.InitialTemperature {
		return invalid("target_temp", ErrTargetBelowInitial)
	}
	return nil
}

type HeatingResult struct {
	Outcome          Outcome
	Elapsed          time.Duration
	FinalTemperature float64 // °C
	EnergySupplied   float64 // J delivered by the heater
	EnergyLost       float64 // J lost to the room
}

func (r HeatingResult) Converged() bool {
	return r.Outcome == OutcomeConverged
}

// Summary renders the elapsed time the way an operator reads it.
func (r HeatingResult) Summary() string {
	if !r.Converged() {
		return "Over 1 hour"
	}
	return minutesSeconds(r.Elapsed)
}

// HeatingTime integrates with constant heater power until the target
// temperature is reached or HeatingTimeCap of simulated time has elapsed.
// A heater too weak to overcome the loss at the target ends on the cap.
func HeatingTime(p HeatingParams, opts ...Option) (HeatingResult, error) {
	if err := p.Validate(); err != nil {
		return HeatingResult{}, err
	}
	o := newRunOptions(StepDuration, opts)

	capacity := p.Vessel.Capacity()
	dt := StepDuration.Seconds()
	maxSteps := int(HeatingTimeCap / StepDuration)

	var res HeatingResult
	temp := p.InitialTemperature
	steps := 0
	o.record(steps, StepDuration, temp)
	for temp < p.TargetTemperature && steps < maxSteps {
		loss := p.Boundary.LossRate(temp)
		res.EnergySupplied += p.HeaterPower * dt
		res.EnergyLost += loss * dt
		temp = Step(temp, p.HeaterPower, loss, capacity, dt)
		steps++
		o.record(steps, StepDuration, temp)
	}

	res.Elapsed = time.Duration(steps) * StepDuration
	res.FinalTemperature = temp
	res.Outcome = OutcomeConverged
	if temp < p.TargetTemperature {
		res.Outcome = OutcomeTimedOut
	}
	return res, nil
}

func minutesSeconds(d time.Duration) string {
	total := d.Seconds()
	minutes := int(total / 60)
	seconds := int(total) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
