package params

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

var ErrUnknownField = errors.New("unknown field")

// Values is a flat table of input fields keyed by their prefixed name
// (ht_initial_temp, pc_time_required, ...).
type Values map[string]float64

var builtin = Values{
	// Heating time
	"ht_initial_temp":           50.0,
	"ht_target_temp":            70.0,
	"ht_water_volume":           5.0,
	"ht_heater_power":           2000.0,
	"ht_room_temp":              20.0,
	"ht_heat_transfer_coeff":    15.0,
	"ht_surface_area":           0.5,
	"ht_stainless_steel_volume": 0.001,
	// Required power
	"pc_initial_temp":           50.0,
	"pc_target_temp":            70.0,
	"pc_water_volume":           5.0,
	"pc_stainless_steel_volume": 0.001,
	"pc_time_required":          300.0,
	"pc_room_temp":              20.0,
	"pc_heat_transfer_coeff":    15.0,
	"pc_surface_area":           0.5,
	// Cooling time
	"ct_initial_temp":           70.0,
	"ct_final_temp":             50.0,
	"ct_water_volume":           5.0,
	"ct_room_temp":              20.0,
	"ct_heat_transfer_coeff":    15.0,
	"ct_surface_area":           0.5,
	"ct_stainless_steel_volume": 0.001,
	// Brewing
	"br_initial_temp":           95.0,
	"br_water_volume":           5.0,
	"br_stainless_steel_volume": 0.001,
	"br_applied_heater_power":   0.0,
	"br_brewing_flow_rate":      5.0,
	"br_brewing_time_duration":  20.0,
	"br_plumbing_temperature":   20.0,
}

// Defaults returns a copy of the built-in table.
func Defaults() Values {
	return maps.Clone(builtin)
}

// Known reports whether key is a field of the built-in table.
func Known(key string) bool {
	_, ok := builtin[key]
	return ok
}

// Keys returns the sorted prefixed keys of one solver.
func Keys(s thermal.Solver) []string {
	prefix := Prefix(s)
	var keys []string
	for k := range builtin {
		if prefix != "" && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func Prefix(s thermal.Solver) string {
	switch s {
	case thermal.SolverHeating:
		return "ht_"
	case thermal.SolverPower:
		return "pc_"
	case thermal.SolverCooling:
		return "ct_"
	case thermal.SolverBrewing:
		return "br_"
	default:
		return ""
	}
}

// Get returns the value of key, falling back to the built-in default.
func (v Values) Get(key string) float64 {
	if f, ok := v[key]; ok {
		return f
	}
	return builtin[key]
}

// Clone copies v, filling every missing key from the built-in table.
func (v Values) Clone() Values {
	out := Defaults()
	maps.Copy(out, v)
	return out
}

// Overlay returns a copy of v with the unprefixed fields of one solver's
// request replaced. Fields that solver does not take are rejected.
func (v Values) Overlay(s thermal.Solver, fields map[string]float64) (Values, error) {
	out := v.Clone()
	prefix := Prefix(s)
	for field, f := range fields {
		key := prefix + field
		if prefix == "" || !Known(key) {
			return nil, &thermal.ParamError{Field: field, Err: ErrUnknownField}
		}
		out[key] = f
	}
	return out, nil
}

// Strip returns one solver's fields without their prefix.
func (v Values) Strip(s thermal.Solver) map[string]float64 {
	prefix := Prefix(s)
	out := make(map[string]float64)
	for _, k := range Keys(s) {
		out[strings.TrimPrefix(k, prefix)] = v.Get(k)
	}
	return out
}

func (v Values) Heating() thermal.HeatingParams {
	return thermal.HeatingParams{
		InitialTemperature: v.Get("ht_initial_temp"),
		TargetTemperature:  v.Get("ht_target_temp"),
		HeaterPower:        v.Get("ht_heater_power"),
		Vessel: thermal.Vessel{
			LiquidVolume: v.Get("ht_water_volume"),
			ShellVolume:  v.Get("ht_stainless_steel_volume"),
		},
		Boundary: thermal.Boundary{
			AmbientTemperature: v.Get("ht_room_temp"),
			Coefficient:        v.Get("ht_heat_transfer_coeff"),
			SurfaceArea:        v.Get("ht_surface_area"),
		},
	}
}

func (v Values) Cooling() thermal.CoolingParams {
	return thermal.CoolingParams{
		InitialTemperature: v.Get("ct_initial_temp"),
		FinalTemperature:   v.Get("ct_final_temp"),
		Vessel: thermal.Vessel{
			LiquidVolume: v.Get("ct_water_volume"),
			ShellVolume:  v.Get("ct_stainless_steel_volume"),
		},
		Boundary: thermal.Boundary{
			AmbientTemperature: v.Get("ct_room_temp"),
			Coefficient:        v.Get("ct_heat_transfer_coeff"),
			SurfaceArea:        v.Get("ct_surface_area"),
		},
	}
}

func (v Values) Power() thermal.PowerParams {
	return thermal.PowerParams{
		InitialTemperature: v.Get("pc_initial_temp"),
		TargetTemperature:  v.Get("pc_target_temp"),
		Duration:           v.Get("pc_time_required"),
		Vessel: thermal.Vessel{
			LiquidVolume: v.Get("pc_water_volume"),
			ShellVolume:  v.Get("pc_stainless_steel_volume"),
		},
		Boundary: thermal.Boundary{
			AmbientTemperature: v.Get("pc_room_temp"),
			Coefficient:        v.Get("pc_heat_transfer_coeff"),
			SurfaceArea:        v.Get("pc_surface_area"),
		},
	}
}

func (v Values) Brewing() thermal.BrewingParams {
	return thermal.BrewingParams{
		InitialTemperature: v.Get("br_initial_temp"),
		Vessel: thermal.Vessel{
			LiquidVolume: v.Get("br_water_volume"),
			ShellVolume:  v.Get("br_stainless_steel_volume"),
		},
		HeaterPower:      v.Get("br_applied_heater_power"),
		FlowRate:         v.Get("br_brewing_flow_rate"),
		Duration:         v.Get("br_brewing_time_duration"),
		InletTemperature: v.Get("br_plumbing_temperature"),
	}
}

// ParseFloat accepts the scalar types a YAML/JSON/env source can produce.
func ParseFloat(raw any) (float64, error) {
	var f float64
	switch x := raw.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", x, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", f)
	}
	return f, nil
}

// FromMap converts a loosely typed mapping into Values. Unknown keys are
// ignored; unparsable values keep the built-in default and are reported.
func FromMap(raw map[string]any) (Values, []error) {
	out := Defaults()
	var warnings []error
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !Known(key) {
			continue
		}
		f, err := ParseFloat(raw[key])
		if err != nil {
			warnings = append(warnings, fmt.Errorf("parameter %s: %w, using default %v", key, err, builtin[key]))
			continue
		}
		out[key] = f
	}
	return out, warnings
}
