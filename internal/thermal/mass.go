package thermal

import "math"

const (
	WaterSpecificHeat = 4186.0 // J/(kg·°C)
	WaterDensity      = 1.0    // kg/L
	SteelDensity      = 8000.0 // kg/m³
	SteelSpecificHeat = 500.0  // J/(kg·°C)
)

// Mass returns volume × density. Liquid volumes are in liters with a density
// in kg/L, shell volumes in m³ with a density in kg/m³.
func Mass(volume, density float64) float64 {
	return volume * density
}

// Capacity returns the combined thermal capacity Σ(mass × specific heat) in J/°C.
func Capacity(m1, c1, m2, c2 float64) float64 {
	return m1*c1 + m2*c2
}

// Vessel is the lumped thermal mass: the liquid it holds plus its steel shell.
type Vessel struct {
	LiquidVolume float64 // L
	ShellVolume  float64 // m³
}

func (v Vessel) Validate() error {
	if err := finite("liquid_volume", v.LiquidVolume); err != nil {
		return err
	}
	if err := finite("shell_volume", v.ShellVolume); err != nil {
		return err
	}
	if v.LiquidVolume <= 0 {
		return invalid("liquid_volume", ErrNonPositiveVolume)
	}
	if v.ShellVolume <= 0 {
		return invalid("shell_volume", ErrNonPositiveVolume)
	}
	if v.Capacity() <= 0 {
		return invalid("capacity", ErrNonPositiveCapacity)
	}
	return nil
}

func (v Vessel) WaterMass() float64 {
	return Mass(v.LiquidVolume, WaterDensity)
}

func (v Vessel) ShellMass() float64 {
	return Mass(v.ShellVolume, SteelDensity)
}

func (v Vessel) WaterCapacity() float64 {
	return v.WaterMass() * WaterSpecificHeat
}

func (v Vessel) ShellCapacity() float64 {
	return v.ShellMass() * SteelSpecificHeat
}

func (v Vessel) Capacity() float64 {
	return Capacity(v.WaterMass(), WaterSpecificHeat, v.ShellMass(), SteelSpecificHeat)
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, ErrNotFinite)
	}
	return nil
}
