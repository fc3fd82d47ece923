package thermal

import "time"

const (
	// StepDuration is the integration step of the heating, cooling and power solvers.
	StepDuration = 100 * time.Millisecond
	// FlowStepDuration is the finer step of the brewing solver.
	FlowStepDuration = 10 * time.Millisecond

	HeatingTimeCap = time.Hour
	CoolingTimeCap = 3 * time.Hour

	// Longest duration accepted by CalibratePower and Brew.
	MaxCalibrationDuration = 24 * time.Hour
	MaxBrewingDuration     = 24 * time.Hour
)

// Boundary is the convective surface between the vessel and the room.
type Boundary struct {
	AmbientTemperature float64 // °C
	Coefficient        float64 // W/(m²·°C), 0 for a perfectly insulated vessel
	SurfaceArea        float64 // m²
}

func (b Boundary) Validate() error {
	if err := finite("room_temp", b.AmbientTemperature); err != nil {
		return err
	}
	if err := finite("heat_transfer_coeff", b.Coefficient); err != nil {
		return err
	}
	if err := finite("surface_area", b.SurfaceArea); err != nil {
		return err
	}
	if b.Coefficient < 0 {
		return invalid("heat_transfer_coeff", ErrNegativeCoefficient)
	}
	if b.SurfaceArea < 0 {
		return invalid("surface_area", ErrNegativeSurfaceArea)
	}
	return nil
}

// LossRate is the heat flowing out to the room at temperature t, in W.
// It is negative when the vessel is colder than the room.
func (b Boundary) LossRate(t float64) float64 {
	return b.Coefficient * b.SurfaceArea * (t - b.AmbientTemperature)
}

// Step advances temperature t by one explicit Euler step of dt seconds:
// the heater supplies heaterPower while lossRate leaves the thermal capacity.
func Step(t, heaterPower, lossRate, capacity, dt float64) float64 {
	return t + (heaterPower*dt-lossRate*dt)/capacity
}
