package calculator

import (
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

func HeatingRecord(r thermal.HeatingResult) ports.Record {
	return ports.Record{
		"outcome":           r.Outcome.String(),
		"heating_result":    r.Summary(),
		"heating_seconds":   r.Elapsed.Seconds(),
		"final_temp":        r.FinalTemperature,
		"energy_supplied_j": r.EnergySupplied,
		"energy_lost_j":     r.EnergyLost,
	}
}

func CoolingRecord(r thermal.CoolingResult) ports.Record {
	return ports.Record{
		"outcome":                  r.Outcome.String(),
		"cooling_result":           r.Summary(),
		"cooling_seconds":          r.Elapsed.Seconds(),
		"final_temp":               r.FinalTemperature,
		"energy_lost_j":            r.EnergyLost,
		"total_power_lost_wh":      r.TotalEnergyLostWh(),
		"water_power_lost_wh":      r.WaterEnergyLostWh(),
		"steel_power_lost_wh":      r.ShellEnergyLostWh(),
		"total_power_lost_w":       r.PowerLost,
		"water_power_lost_w":       r.WaterPowerLost,
		"steel_power_lost_w":       r.ShellPowerLost,
		"energy_balance_rel_error": r.EnergyBalanceError(),
	}
}

func PowerRecord(r thermal.PowerResult) ports.Record {
	return ports.Record{
		"power_w":           r.Power,
		"instant_power":     r.TotalPower,
		"total_power":       r.TotalEnergyWh,
		"power_to_water":    r.WaterEnergyWh,
		"power_to_steel":    r.ShellEnergyWh,
		"power_lost":        r.LostEnergyWh,
		"power_to_water_w":  r.PowerToWater,
		"power_to_steel_w":  r.PowerToShell,
		"power_lost_w":      r.PowerLost,
		"energy_lost_j":     r.EnergyLost,
		"iterations":        len(r.Estimates) - 1,
		"last_pass_seconds": float64(r.InnerSteps) * thermal.StepDuration.Seconds(),
	}
}

func BrewingRecord(r thermal.BrewingResult) ports.Record {
	return ports.Record{
		"final_temp":          r.FinalTemperature,
		"lost_temp":           r.TemperatureLost,
		"initial_brewed_temp": r.InitialBrewedTemperature,
		"average_brewed_temp": r.AverageBrewedTemperature,
		"final_brewed_temp":   r.FinalBrewedTemperature,
		"total_brewed_volume": r.TotalVolumeL,
		"total_volume_ml":     r.TotalVolumeML,
		"brewing_energy_loss": r.EnergyLossRate,
		"energy_lost_j":       r.EnergyLost,
		"brewing_seconds":     r.Elapsed.Seconds(),
	}
}
