package calculator

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Agrid-Dev/boilercalc/internal/metrics"
	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

// Service runs the thermal solvers on parameter tables and flattens the
// results. It holds no simulation state and is safe for concurrent use.
type Service struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log, metrics: m}
}

func (s *Service) Run(solver thermal.Solver, values params.Values) (ports.Record, error) {
	if !solver.Valid() {
		return nil, fmt.Errorf("run %v: %w", solver, errUnknownSolver)
	}
	start := time.Now()

	var (
		rec       ports.Record
		outcome   thermal.Outcome
		simulated time.Duration
		err       error
	)
	switch solver {
	case thermal.SolverHeating:
		var res thermal.HeatingResult
		res, err = thermal.HeatingTime(values.Heating())
		rec, outcome, simulated = HeatingRecord(res), res.Outcome, res.Elapsed
	case thermal.SolverCooling:
		var res thermal.CoolingResult
		res, err = thermal.CoolingTime(values.Cooling())
		rec, outcome, simulated = CoolingRecord(res), res.Outcome, res.Elapsed
	case thermal.SolverPower:
		p := values.Power()
		var res thermal.PowerResult
		res, err = thermal.CalibratePower(p)
		rec, outcome = PowerRecord(res), thermal.OutcomeConverged
		simulated = time.Duration(res.InnerSteps) * thermal.StepDuration
	case thermal.SolverBrewing:
		var res thermal.BrewingResult
		res, err = thermal.Brew(values.Brewing())
		rec, outcome, simulated = BrewingRecord(res), thermal.OutcomeConverged, res.Elapsed
	}

	if err != nil {
		if errors.Is(err, thermal.ErrInvalidParameters) {
			s.metrics.ObserveInvalid(solver.String())
			s.log.Info("rejected parameters", zap.Stringer("solver", solver), zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", solver, err)
	}
	rec["inputs"] = values.Strip(solver)

	took := time.Since(start)
	s.metrics.ObserveRun(solver.String(), outcome.String(), simulated, took)
	s.log.Debug("solver run",
		zap.Stringer("solver", solver),
		zap.Stringer("outcome", outcome),
		zap.Duration("elapsed", simulated),
		zap.Duration("took", took),
	)
	return rec, nil
}

var errUnknownSolver = errors.New("unknown solver")
