package dashboard

import "github.com/mhagen/solarstats/internal/models"

// EnergySources returns the energy-dashboard source mapping wiring the
// catalog statistics into the platform's energy configuration. Field
// names and nesting must match the consumer exactly.
func EnergySources() Card {
	return Card{
		"energy_sources": []interface{}{
			Card{
				"type":             "solar",
				"stat_energy_from": models.StatSolarProduction,
			},
			Card{
				"type": "grid",
				"flow_from": []interface{}{
					Card{
						"stat_energy_from": models.StatGridImport,
						"stat_cost":        models.StatEnergyCost,
					},
				},
				"flow_to": []interface{}{
					Card{
						"stat_energy_to":    models.StatGridExport,
						"stat_compensation": models.StatCompensation,
					},
				},
			},
			Card{
				"type":             "battery",
				"stat_energy_from": models.StatBatteryDischarge,
				"stat_energy_to":   models.StatBatteryCharge,
			},
		},
	}
}
