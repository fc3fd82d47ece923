package thermal

import (
	"math"
	"time"
)

// BrewingParams describes a heated vessel drained at FlowRate and refilled
// with liquid at InletTemperature.
type BrewingParams struct {
	InitialTemperature float64 // °C
	Vessel             Vessel
	HeaterPower        float64 // W
	FlowRate           float64 // mL/s
	Duration           float64 // s
	InletTemperature   float64 // °C
}

func (p BrewingParams) Validate() error {
	if err := finite("initial_temp", p.InitialTemperature); err != nil {
		return err
	}
	if err := finite("applied_heater_power", p.HeaterPower); err != nil {
		return err
	}
	if err := finite("brewing_flow_rate", p.FlowRate); err != nil {
		return err
	}
	if err := finite("brewing_time_duration", p.Duration); err != nil {
		return err
	}
	if err := finite("plumbing_temperature", p.InletTemperature); err != nil {
		return err
	}
	if err := p.Vessel.Validate(); err != nil {
		return err
	}
	if p.HeaterPower < 0 {
		return invalid("applied_heater_power", ErrNegativePower)
	}
	if p.FlowRate <= 0 {
		return invalid("brewing_flow_rate", ErrNonPositiveFlowRate)
	}
	if p.Duration <= 0 {
		return invalid("brewing_time_duration", ErrNonPositiveDuration)
	}
	if p.Duration > MaxBrewingDuration.Seconds() {
		return invalid("brewing_time_duration", ErrDurationTooLong)
	}
	if p.steps() < 1 {
		return invalid("brewing_time_duration", ErrDurationTooShort)
	}
	return nil
}

func (p BrewingParams) steps() int {
	return int(math.Floor(p.Duration/FlowStepDuration.Seconds() + 1e-9))
}

type BrewingResult struct {
	FinalTemperature float64 // °C
	TemperatureLost  float64 // °C, initial minus final

	InitialBrewedTemperature float64 // °C after the first step
	AverageBrewedTemperature float64 // °C over all steps
	FinalBrewedTemperature   float64 // °C

	TotalVolumeML float64
	TotalVolumeL  float64

	EnergyLost     float64 // J carried away by the stream
	EnergyLossRate float64 // W, EnergyLost / duration

	Steps   int
	Elapsed time.Duration
}

// Brew runs the continuous-flow solver for the whole duration. The stream
// carries away mass flow × specific heat × (temperature − inlet) each step;
// the vessel's own capacity stays constant.
func Brew(p BrewingParams, opts ...Option) (BrewingResult, error) {
	if err := p.Validate(); err != nil {
		return BrewingResult{}, err
	}
	o := newRunOptions(FlowStepDuration, opts)

	capacity := p.Vessel.Capacity()
	massFlow := p.FlowRate * WaterDensity / 1000 // kg/s
	dt := FlowStepDuration.Seconds()
	steps := p.steps()

	var res BrewingResult
	temp := p.InitialTemperature
	o.record(0, FlowStepDuration, temp)
	for i := 0; i < steps; i++ {
		flowLoss := massFlow * WaterSpecificHeat * (temp - p.InletTemperature)
		res.EnergyLost += flowLoss * dt
		temp = Step(temp, p.HeaterPower, flowLoss, capacity, dt)
		if i == 0 {
			res.InitialBrewedTemperature = temp
		}
		res.AverageBrewedTemperature += temp / float64(steps)
		o.record(i+1, FlowStepDuration, temp)
	}

	res.FinalTemperature = temp
	res.FinalBrewedTemperature = temp
	res.TemperatureLost = p.InitialTemperature - temp
	res.TotalVolumeML = p.FlowRate * p.Duration
	res.TotalVolumeL = res.TotalVolumeML / 1000
	res.EnergyLossRate = res.EnergyLost / p.Duration
	res.Steps = steps
	res.Elapsed = time.Duration(steps) * FlowStepDuration
	return res, nil
}
