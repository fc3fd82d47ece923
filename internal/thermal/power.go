package thermal

// CalibrationIterations is the fixed number of refinement passes. There is no
// tolerance check.
const CalibrationIterations = 10

// LossAccounting selects how long each refinement pass integrates the loss.
type LossAccounting int

const (
	// LossUntilTarget stops a pass as soon as the target is reached, so the
	// loss fed to the next estimate only covers the part of the duration the
	// pass actually used.
	LossUntilTarget LossAccounting = iota
	// LossFullDuration always integrates the whole duration.
	LossFullDuration
)

type PowerParams struct {
	InitialTemperature float64 // °C
	TargetTemperature  float64 // °C
	Duration           float64 // s
	Vessel             Vessel
	Boundary           Boundary
	Accounting         LossAccounting
}

func (p PowerParams) Validate() error {
	if err := finite("initial_temp", p.InitialTemperature); err != nil {
		return err
	}
	if err := finite("target_temp", p.TargetTemperature); err != nil {
		return err
	}
	if err := finite("time_required", p.Duration); err != nil {
		return err
	}
	if err := p.Vessel.Validate(); err != nil {
		return err
	}
	if err := p.Boundary.Validate(); err != nil {
		return err
	}
	if p.Duration <= 0 {
		return invalid("time_required", ErrNonPositiveDuration)
	}
	if p.Duration > MaxCalibrationDuration.Seconds() {
		return invalid("time_required", ErrDurationTooLong)
	}
	if p.TargetTemperature < p.InitialTemperature {
		return invalid("target_temp", ErrTargetBelowInitial)
	}
	return nil
}

type PowerResult struct {
	// Power is the calibrated constant heater power.
	Power float64 // W

	PowerToWater float64 // W
	PowerToShell float64 // W
	PowerLost    float64 // W, from the last refinement pass
	TotalPower   float64 // W

	// Energy over the requested duration, power × duration / 3600.
	WaterEnergyWh float64
	ShellEnergyWh float64
	LostEnergyWh  float64
	TotalEnergyWh float64

	// EnergyLost is the loss integrated by the last refinement pass.
	EnergyLost float64 // J
	// InnerSteps is the number of steps the last refinement pass ran.
	InnerSteps int
	// Estimates holds the first estimate followed by each refined one.
	Estimates []float64
}

// CalibratePower finds the constant heater power that carries the vessel
// from the initial to the target temperature within the duration, net of
// convective loss.
//
// The first estimate evaluates the loss at the mean of the initial and target
// temperatures over the whole duration. Each of the CalibrationIterations
// passes then simulates with the current estimate and replaces it with
// (heat to water + heat to shell + simulated loss) / duration.
func CalibratePower(p PowerParams, opts ...Option) (PowerResult, error) {
	if err := p.Validate(); err != nil {
		return PowerResult{}, err
	}
	o := newRunOptions(StepDuration, opts)

	rise := p.TargetTemperature - p.InitialTemperature
	toWater := p.Vessel.WaterCapacity() * rise
	toShell := p.Vessel.ShellCapacity() * rise
	meanLoss := p.Duration * p.Boundary.Coefficient * p.Boundary.SurfaceArea *
		((p.TargetTemperature+p.InitialTemperature)/2 - p.Boundary.AmbientTemperature)

	power := (toWater + toShell + meanLoss) / p.Duration
	res := PowerResult{Estimates: make([]float64, 0, CalibrationIterations+1)}
	res.Estimates = append(res.Estimates, power)

	for i := 0; i < CalibrationIterations; i++ {
		trace := &runOptions{stride: 1}
		if i == CalibrationIterations-1 {
			trace = o
		}
		res.EnergyLost, res.InnerSteps = p.refine(power, trace)
		power = (toWater + toShell + res.EnergyLost) / p.Duration
		res.Estimates = append(res.Estimates, power)
	}

	hours := p.Duration / 3600
	res.Power = power
	res.PowerToWater = toWater / p.Duration
	res.PowerToShell = toShell / p.Duration
	res.PowerLost = res.EnergyLost / p.Duration
	res.TotalPower = res.PowerToWater + res.PowerToShell + res.PowerLost
	res.WaterEnergyWh = res.PowerToWater * hours
	res.ShellEnergyWh = res.PowerToShell * hours
	res.LostEnergyWh = res.PowerLost * hours
	res.TotalEnergyWh = res.TotalPower * hours
	return res, nil
}

// refine runs one pass at the given power and returns the energy lost while
// it ran and how many steps it took.
func (p PowerParams) refine(power float64, o *runOptions) (float64, int) {
	capacity := p.Vessel.Capacity()
	dt := StepDuration.Seconds()

	var lost float64
	temp := p.InitialTemperature
	steps := 0
	o.record(steps, StepDuration, temp)
	for float64(steps)*dt < p.Duration {
		if p.Accounting == LossUntilTarget && temp >= p.TargetTemperature {
			break
		}
		loss := p.Boundary.LossRate(temp)
		lost += loss * dt
		temp = Step(temp, power, loss, capacity, dt)
		steps++
		o.record(steps, StepDuration, temp)
	}
	return lost, steps
}
