package thermal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVesselCapacity(t *testing.T) {
	v := Vessel{LiquidVolume: 5, ShellVolume: 0.001}

	assert.InDelta(t, 5.0, v.WaterMass(), 1e-12)
	assert.InDelta(t, 8.0, v.ShellMass(), 1e-12)
	assert.InDelta(t, 20930.0, v.WaterCapacity(), 1e-9)
	assert.InDelta(t, 4000.0, v.ShellCapacity(), 1e-9)
	assert.InDelta(t, 24930.0, v.Capacity(), 1e-9)
	assert.Equal(t, v.WaterCapacity()+v.ShellCapacity(), v.Capacity())
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 2*4186.0+3*500.0, Capacity(2, 4186, 3, 500))
	assert.InDelta(t, 10.0, Mass(0.00125, SteelDensity), 1e-9)
}

func TestVesselValidate(t *testing.T) {
	tests := []struct {
		name   string
		vessel Vessel
		want   error
	}{
		{"valid", Vessel{LiquidVolume: 5, ShellVolume: 0.001}, nil},
		{"zero liquid", Vessel{LiquidVolume: 0, ShellVolume: 0.001}, ErrNonPositiveVolume},
		{"negative liquid", Vessel{LiquidVolume: -1, ShellVolume: 0.001}, ErrNonPositiveVolume},
		{"zero shell", Vessel{LiquidVolume: 5, ShellVolume: 0}, ErrNonPositiveVolume},
		{"infinite liquid", Vessel{LiquidVolume: math.Inf(1), ShellVolume: 0.001}, ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vessel.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidParameters)

			var pe *ParamError
			if assert.True(t, errors.As(err, &pe)) {
				assert.NotEmpty(t, pe.Field)
			}
		})
	}
}
