// Package dashboard generates the widget configurations rendered by the
// platform's front end. Every function is a pure data constructor over
// the fixed statistic catalog; card "type" strings are the front end's
// plugin identifiers and must be reproduced verbatim.
package dashboard

import "github.com/mhagen/solarstats/internal/models"

// Card is a nested key-value widget description for the front-end renderer.
type Card map[string]interface{}

// SolarProductionCard charts hourly solar production sums.
func SolarProductionCard() Card {
	return Card{
		"type":         "statistics-graph",
		"title":        "Solar production",
		"entities":     []interface{}{models.StatSolarProduction},
		"stat_types":   []interface{}{"sum"},
		"period":       "hour",
		"chart_type":   "bar",
		"days_to_show": 1,
	}
}

// GridExchangeCard charts grid import against export.
func GridExchangeCard() Card {
	return Card{
		"type":       "statistics-graph",
		"title":      "Grid exchange",
		"entities":   []interface{}{models.StatGridImport, models.StatGridExport},
		"stat_types": []interface{}{"sum"},
		"period":     "hour",
		"chart_type": "bar",
	}
}

// BatteryCard charts battery state of charge alongside charge/discharge
// energy.
func BatteryCard() Card {
	return Card{
		"type":       "statistics-graph",
		"title":      "Battery",
		"entities":   []interface{}{models.StatBatterySOC, models.StatBatteryCharge, models.StatBatteryDischarge},
		"stat_types": []interface{}{"mean", "sum"},
		"period":     "hour",
	}
}

// SavingsCard charts energy cost against export compensation and the
// optimizer's projected gain.
func SavingsCard() Card {
	return Card{
		"type":       "statistics-graph",
		"title":      "Cost & compensation",
		"entities":   []interface{}{models.StatEnergyCost, models.StatCompensation, models.StatOptimizationGain},
		"stat_types": []interface{}{"sum", "mean"},
		"period":     "day",
	}
}

// EnergyDateSelectionRow is the period picker the energy cards share.
func EnergyDateSelectionRow() Card {
	return Card{
		"type": "energy-date-selection",
	}
}

// EnergyDistributionCard shows the live solar/grid/battery flow diagram.
func EnergyDistributionCard() Card {
	return Card{
		"type":           "energy-distribution",
		"link_dashboard": true,
	}
}

// SelfConsumptionGaugeCard shows the share of solar production consumed
// on-site.
func SelfConsumptionGaugeCard() Card {
	return Card{
		"type": "energy-solar-consumed-gauge",
	}
}

// View assembles the full dashboard view consumed by the renderer.
func View() Card {
	return Card{
		"title": "Solar statistics",
		"path":  "solarstats",
		"cards": []interface{}{
			EnergyDateSelectionRow(),
			EnergyDistributionCard(),
			SelfConsumptionGaugeCard(),
			SolarProductionCard(),
			GridExchangeCard(),
			BatteryCard(),
			SavingsCard(),
		},
	}
}
