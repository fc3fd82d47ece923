package thermal

import "fmt"

// Outcome tells whether a solver met its target before the time cap.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeConverged
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "converged":
		return OutcomeConverged, nil
	case "timed_out":
		return OutcomeTimedOut, nil
	default:
		return OutcomeUnknown, fmt.Errorf("invalid outcome: %q", s)
	}
}

// Solver identifies one of the four calculations.
type Solver int

const (
	SolverUnknown Solver = iota
	SolverHeating
	SolverCooling
	SolverPower
	SolverBrewing
)

func (s Solver) Valid() bool {
	return s == SolverHeating || s == SolverCooling || s == SolverPower || s == SolverBrewing
}

func (s Solver) String() string {
	switch s {
	case SolverHeating:
		return "heating"
	case SolverCooling:
		return "cooling"
	case SolverPower:
		return "power"
	case SolverBrewing:
		return "brewing"
	default:
		return "unknown"
	}
}

// ParseSolver is used by transports to route requests.
func ParseSolver(s string) (Solver, error) {
	switch s {
	case "heating":
		return SolverHeating, nil
	case "cooling":
		return SolverCooling, nil
	case "power":
		return SolverPower, nil
	case "brewing":
		return SolverBrewing, nil
	default:
		return SolverUnknown, fmt.Errorf("invalid solver: %q", s)
	}
}

// Solvers lists the valid solvers in display order.
func Solvers() []Solver {
	return []Solver{SolverHeating, SolverPower, SolverCooling, SolverBrewing}
}
