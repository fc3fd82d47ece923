package params

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

func TestDefaultsBuildValidParams(t *testing.T) {
	v := Defaults()

	require.NoError(t, v.Heating().Validate())
	require.NoError(t, v.Cooling().Validate())
	require.NoError(t, v.Power().Validate())
	require.NoError(t, v.Brewing().Validate())

	want := thermal.HeatingParams{
		InitialTemperature: 50,
		TargetTemperature:  70,
		HeaterPower:        2000,
		Vessel:             thermal.Vessel{LiquidVolume: 5, ShellVolume: 0.001},
		Boundary:           thermal.Boundary{AmbientTemperature: 20, Coefficient: 15, SurfaceArea: 0.5},
	}
	if diff := cmp.Diff(want, v.Heating()); diff != "" {
		t.Fatalf("Heating() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsIsACopy(t *testing.T) {
	v := Defaults()
	v["ht_initial_temp"] = 1
	assert.Equal(t, 50.0, Defaults()["ht_initial_temp"])
}

func TestGetFallsBackToBuiltin(t *testing.T) {
	v := Values{"ht_initial_temp": 42}
	assert.Equal(t, 42.0, v.Get("ht_initial_temp"))
	assert.Equal(t, 70.0, v.Get("ht_target_temp"))
	assert.Equal(t, 0.0, v.Get("not_a_field"))
}

func TestKeys(t *testing.T) {
	tests := []struct {
		solver thermal.Solver
		want   int
	}{
		{thermal.SolverHeating, 8},
		{thermal.SolverPower, 8},
		{thermal.SolverCooling, 7},
		{thermal.SolverBrewing, 7},
		{thermal.SolverUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.solver.String(), func(t *testing.T) {
			assert.Len(t, Keys(tt.solver), tt.want)
		})
	}
	assert.Contains(t, Keys(thermal.SolverPower), "pc_time_required")
}

func TestOverlay(t *testing.T) {
	base := Defaults()

	got, err := base.Overlay(thermal.SolverHeating, map[string]float64{"heater_power": 3000})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got["ht_heater_power"])
	assert.Equal(t, 2000.0, base["ht_heater_power"], "overlay must not mutate the receiver")

	_, err = base.Overlay(thermal.SolverHeating, map[string]float64{"flow_rate": 1})
	require.ErrorIs(t, err, ErrUnknownField)
	require.ErrorIs(t, err, thermal.ErrInvalidParameters)

	var pe *thermal.ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "flow_rate", pe.Field)

	_, err = base.Overlay(thermal.SolverUnknown, map[string]float64{"initial_temp": 1})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestStrip(t *testing.T) {
	got := Defaults().Strip(thermal.SolverBrewing)
	assert.Equal(t, map[string]float64{
		"initial_temp":           95,
		"water_volume":           5,
		"stainless_steel_volume": 0.001,
		"applied_heater_power":   0,
		"brewing_flow_rate":      5,
		"brewing_time_duration":  20,
		"plumbing_temperature":   20,
	}, got)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    float64
		wantErr bool
	}{
		{"float", 1.5, 1.5, false},
		{"int", 3, 3, false},
		{"int64", int64(4), 4, false},
		{"string", "2.25", 2.25, false},
		{"bad string", "abc", 0, true},
		{"nan string", "NaN", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMap(t *testing.T) {
	v, warnings := FromMap(map[string]any{
		"ht_initial_temp": 45,
		"ht_target_temp":  "oops",
		"unrelated":       "ignored",
	})

	assert.Equal(t, 45.0, v["ht_initial_temp"])
	assert.Equal(t, 70.0, v["ht_target_temp"])
	assert.NotContains(t, v, "unrelated")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "ht_target_temp")
}
