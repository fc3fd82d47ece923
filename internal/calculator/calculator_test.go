package calculator

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Agrid-Dev/boilercalc/internal/metrics"
	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

func newTestService(t *testing.T) (*Service, *prometheus.Registry, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	reg := prometheus.NewRegistry()
	return New(zap.New(core), metrics.New(reg)), reg, logs
}

func TestRun_HeatingDefaults(t *testing.T) {
	s, reg, logs := newTestService(t)

	rec, err := s.Run(thermal.SolverHeating, params.Defaults())
	require.NoError(t, err)

	assert.Equal(t, "converged", rec["outcome"])
	secs, ok := rec["heating_seconds"].(float64)
	require.True(t, ok)
	assert.Greater(t, secs, 280.0)
	assert.Less(t, secs, 310.0)
	assert.GreaterOrEqual(t, rec["final_temp"].(float64), 70.0)

	assert.Equal(t, 1, gatherCount(t, reg, "boilercalc_solver_runs_total"))
	assert.Equal(t, 1, logs.FilterMessage("solver run").Len())
}

func TestRun_AllSolversProduceRecords(t *testing.T) {
	s, _, _ := newTestService(t)
	want := map[thermal.Solver]string{
		thermal.SolverHeating: "heating_result",
		thermal.SolverCooling: "cooling_result",
		thermal.SolverPower:   "power_w",
		thermal.SolverBrewing: "final_brewed_temp",
	}
	for _, solver := range thermal.Solvers() {
		t.Run(solver.String(), func(t *testing.T) {
			rec, err := s.Run(solver, params.Defaults())
			require.NoError(t, err)
			assert.Contains(t, rec, want[solver])
		})
	}
}

func TestRun_RecordEchoesInputs(t *testing.T) {
	s, _, _ := newTestService(t)
	v := params.Defaults()
	v["ct_final_temp"] = 45

	rec, err := s.Run(thermal.SolverCooling, v)
	require.NoError(t, err)

	inputs, ok := rec["inputs"].(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, v.Strip(thermal.SolverCooling), inputs)
	assert.Equal(t, 45.0, inputs["final_temp"])
	assert.NotContains(t, inputs, "heater_power")
}

func TestRun_PowerRecord(t *testing.T) {
	s, _, _ := newTestService(t)

	rec, err := s.Run(thermal.SolverPower, params.Defaults())
	require.NoError(t, err)

	assert.Equal(t, thermal.CalibrationIterations, rec["iterations"])
	power := rec["power_w"].(float64)
	assert.InDelta(t, 1962.0, power, 30)
	assert.InDelta(t, rec["total_power"].(float64),
		rec["power_to_water"].(float64)+rec["power_to_steel"].(float64)+rec["power_lost"].(float64), 1e-6)
}

func TestRun_InvalidParameters(t *testing.T) {
	s, reg, logs := newTestService(t)

	v := params.Defaults()
	v["ct_final_temp"] = 80

	_, err := s.Run(thermal.SolverCooling, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, thermal.ErrInvalidParameters)
	assert.ErrorIs(t, err, thermal.ErrFinalNotBelowInitial)

	assert.Equal(t, 1, gatherCount(t, reg, "boilercalc_solver_invalid_parameters_total"))
	assert.Equal(t, 1, logs.FilterMessage("rejected parameters").Len())
	assert.Equal(t, 0, gatherCount(t, reg, "boilercalc_solver_runs_total"))
}

func TestRun_UnknownSolver(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.Run(thermal.SolverUnknown, params.Defaults())
	require.Error(t, err)
	assert.False(t, errors.Is(err, thermal.ErrInvalidParameters))
}

func TestRun_NilDependencies(t *testing.T) {
	s := New(nil, nil)

	rec, err := s.Run(thermal.SolverBrewing, params.Defaults())
	require.NoError(t, err)
	assert.InDelta(t, 0.1, rec["total_brewed_volume"].(float64), 1e-9)
}

func gatherCount(t *testing.T, reg *prometheus.Registry, name string) int {
	t.Helper()
	n, err := testutil.GatherAndCount(reg, name)
	require.NoError(t, err)
	return n
}
