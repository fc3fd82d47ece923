package thermal

import (
	"math"
	"time"
)

// AnalyticHeatingTime solves C·dT/dt = P − hA·(T − Tamb) in closed form.
// It is a fast estimate only: HeatingTime stays the reference and the two
// differ by the Euler discretisation error. A target at or beyond the
// steady-state temperature, or one reached after HeatingTimeCap, reports
// OutcomeTimedOut with the cap as elapsed time.
func AnalyticHeatingTime(p HeatingParams) (time.Duration, Outcome, error) {
	if err := p.Validate(); err != nil {
		return 0, OutcomeUnknown, err
	}
	if p.TargetTemperature == p.InitialTemperature {
		return 0, OutcomeConverged, nil
	}

	capacity := p.Vessel.Capacity()
	hA := p.Boundary.Coefficient * p.Boundary.SurfaceArea

	var seconds float64
	if hA == 0 {
		if p.HeaterPower == 0 {
			return HeatingTimeCap, OutcomeTimedOut, nil
		}
		seconds = capacity * (p.TargetTemperature - p.InitialTemperature) / p.HeaterPower
	} else {
		steady := p.Boundary.AmbientTemperature + p.HeaterPower/hA
		if p.TargetTemperature >= steady {
			return HeatingTimeCap, OutcomeTimedOut, nil
		}
		seconds = capacity / hA * math.Log((steady-p.InitialTemperature)/(steady-p.TargetTemperature))
	}

	d := time.Duration(seconds * float64(time.Second))
	if d > HeatingTimeCap {
		return HeatingTimeCap, OutcomeTimedOut, nil
	}
	return d, OutcomeConverged, nil
}
