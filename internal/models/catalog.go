package models

// Statistic identifiers for the fixed energy/financial catalog. The
// "solarstats:" prefix namespaces them as externally-managed statistics
// in the platform's store.
const (
	StatSolarProduction  = "solarstats:solar_production"
	StatGridImport       = "solarstats:grid_import"
	StatGridExport       = "solarstats:grid_export"
	StatBatteryCharge    = "solarstats:battery_charge"
	StatBatteryDischarge = "solarstats:battery_discharge"
	StatEnergyCost       = "solarstats:energy_cost"
	StatCompensation     = "solarstats:energy_compensation"
	StatBatterySOC       = "solarstats:battery_soc"
	StatOptimizationGain = "solarstats:optimization_gain"
)

// Catalog returns the metadata for every statistic this module manages.
// Registered once on startup, before any summaries are submitted.
func Catalog() []StatisticMetadata {
	return []StatisticMetadata{
		{StatisticID: StatSolarProduction, Name: "Solar production", UnitOfMeasurement: "kWh", HasSum: true},
		{StatisticID: StatGridImport, Name: "Grid import", UnitOfMeasurement: "kWh", HasSum: true},
		{StatisticID: StatGridExport, Name: "Grid export", UnitOfMeasurement: "kWh", HasSum: true},
		{StatisticID: StatBatteryCharge, Name: "Battery charge", UnitOfMeasurement: "kWh", HasSum: true},
		{StatisticID: StatBatteryDischarge, Name: "Battery discharge", UnitOfMeasurement: "kWh", HasSum: true},
		{StatisticID: StatEnergyCost, Name: "Energy cost", UnitOfMeasurement: "EUR", HasSum: true},
		{StatisticID: StatCompensation, Name: "Energy compensation", UnitOfMeasurement: "EUR", HasSum: true},
		{StatisticID: StatBatterySOC, Name: "Battery state of charge", UnitOfMeasurement: "%", HasMean: true},
		{StatisticID: StatOptimizationGain, Name: "Optimization gain", UnitOfMeasurement: "EUR", HasMean: true},
	}
}
