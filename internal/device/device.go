package device

import (
	"sync"

	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

// Device is a named boiler with its current parameter table. Requests only
// carry the fields they change; the rest comes from here.
type Device struct {
	ID string

	mu     sync.RWMutex
	values params.Values
}

func New(id string, values params.Values) *Device {
	return &Device{ID: id, values: values.Clone()}
}

func (d *Device) Values() params.Values {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.values.Clone()
}

// Replace swaps the whole table, e.g. when a snapshot is restored.
func (d *Device) Replace(values params.Values) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = values.Clone()
}

// Resolve overlays the unprefixed request fields of one solver on the
// current table without changing it.
func (d *Device) Resolve(s thermal.Solver, fields map[string]float64) (params.Values, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.values.Overlay(s, fields)
}

// Update sets prefixed keys (ht_heater_power, ...) on the current table.
// Nothing is written if any key is unknown.
func (d *Device) Update(fields map[string]float64) error {
	for k := range fields {
		if !params.Known(k) {
			return &thermal.ParamError{Field: k, Err: params.ErrUnknownField}
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range fields {
		d.values[k] = v
	}
	return nil
}
