package thermal

import (
	"errors"
	"math"
	"testing"
)

func TestBoundaryValidate(t *testing.T) {
	tests := []struct {
		name   string
		params Boundary
		want   error
	}{
		{
			name:   "Valid params",
			params: Boundary{AmbientTemperature: 20, Coefficient: 15, SurfaceArea: 0.5},
			want:   nil,
		},
		{
			name:   "Insulated vessel",
			params: Boundary{AmbientTemperature: 20},
			want:   nil,
		},
		{
			name:   "Negative coefficient",
			params: Boundary{AmbientTemperature: 20, Coefficient: -5, SurfaceArea: 0.5},
			want:   ErrNegativeCoefficient,
		},
		{
			name:   "Negative surface area",
			params: Boundary{AmbientTemperature: 20, Coefficient: 5, SurfaceArea: -1},
			want:   ErrNegativeSurfaceArea,
		},
		{
			name:   "NaN room temperature",
			params: Boundary{AmbientTemperature: math.NaN(), Coefficient: 5, SurfaceArea: 1},
			want:   ErrNotFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.Validate()
			if tt.want == nil {
				if got != nil {
					t.Errorf("Got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) || !errors.Is(got, ErrInvalidParameters) {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundaryLossRate(t *testing.T) {
	tests := []struct {
		name        string
		ambientTemp float64
		vesselTemp  float64
		want        func(float64) bool
	}{
		{
			name:        "Vessel loses heat if room is colder",
			ambientTemp: 5,
			vesselTemp:  20,
			want:        func(result float64) bool { return result > 0 },
		},
		{
			name:        "Vessel gains heat if room is warmer",
			ambientTemp: 30,
			vesselTemp:  20,
			want:        func(result float64) bool { return result < 0 },
		},
		{
			name:        "No exchange at room temperature",
			ambientTemp: 20,
			vesselTemp:  20,
			want:        func(result float64) bool { return result == 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Boundary{AmbientTemperature: tt.ambientTemp, Coefficient: 15, SurfaceArea: 0.5}
			result := b.LossRate(tt.vesselTemp)
			if !tt.want(result) {
				t.Errorf("Test %q failed: got %v, vessel %v", tt.name, result, tt.vesselTemp)
			}
		})
	}
}

func TestStep(t *testing.T) {
	// 1000 W for 1 s into 1000 J/°C raises 1 °C.
	if got := Step(50, 1000, 0, 1000, 1); got != 51 {
		t.Fatalf("Step heating = %v, want 51", got)
	}
	// Loss and heater cancel out.
	if got := Step(50, 225, 225, 24930, 0.1); got != 50 {
		t.Fatalf("Step balanced = %v, want 50", got)
	}
	// Pure loss drops the temperature.
	if got := Step(70, 0, 375, 24930, 0.1); got >= 70 {
		t.Fatalf("Step cooling = %v, want < 70", got)
	}
}
