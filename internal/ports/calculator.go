package ports

import (
	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

// Record is the flat result of one calculation, keyed by field name.
type Record map[string]any

// Calculator is the port used by controllers (HTTP/MQTT/Modbus).
type Calculator interface {
	Run(solver thermal.Solver, values params.Values) (Record, error)
}

// ParameterStore persists the default table and named snapshots.
type ParameterStore interface {
	Defaults() (params.Values, []error)
	Load(name string) (params.Values, []error, error)
	Save(name string, values params.Values) error
	Names() ([]string, error)
}
