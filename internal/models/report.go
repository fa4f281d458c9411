// Package models defines the data structures for the solar report engine.
package models

// SystemSizing describes the recommended panel array for a property.
type SystemSizing struct {
	RecommendedSizeKW   float64 `json:"recommended_size_kw"`
	ActualSizeKW        float64 `json:"actual_size_kw"`
	NumPanels           int     `json:"num_panels"`
	PanelWattage        float64 `json:"panel_wattage"`
	RequiredRoofAreaSqm float64 `json:"required_roof_area_sqm"`
}

// ProductionEstimate holds the expected energy output of the sized array.
type ProductionEstimate struct {
	AnnualProductionKWh  float64 `json:"annual_production_kwh"`
	DailyProductionKWh   float64 `json:"daily_production_kwh"`
	MonthlyProductionKWh float64 `json:"monthly_production_kwh"`
}

// FinancialAnalysis holds cost, savings and return figures over the system lifetime.
type FinancialAnalysis struct {
	InstallationCost   float64 `json:"installation_cost"`
	AnnualSavings      float64 `json:"annual_savings"`
	MonthlySavings     float64 `json:"monthly_savings"`
	PaybackPeriodYears float64 `json:"payback_period_years"`
	Total25YearSavings float64 `json:"total_25_year_savings"`
	Net25YearSavings   float64 `json:"net_25_year_savings"`
	ROIPercentage      float64 `json:"roi_percentage"`
}

// EnvironmentalImpact holds CO2 offset figures derived from production.
type EnvironmentalImpact struct {
	CO2OffsetAnnualTons  float64 `json:"co2_offset_annual_tons"`
	CO2Offset25YearsTons float64 `json:"co2_offset_25_years_tons"`
	TreesEquivalent      float64 `json:"trees_equivalent"`
}

// ReportBundle aggregates the four calculation results for one request.
// It is constructed once per request and never mutated.
type ReportBundle struct {
	System        SystemSizing        `json:"system"`
	Production    ProductionEstimate  `json:"production"`
	Financial     FinancialAnalysis   `json:"financial"`
	Environmental EnvironmentalImpact `json:"environmental"`
}

// Location is a resolved geographic position.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// MonthlyProduction is one entry of the synthesized monthly irradiance curve.
type MonthlyProduction struct {
	Month              string  `json:"month"`
	SolarIrradiance    float64 `json:"solar_irradiance"`
	ProductionKWh      float64 `json:"production_kwh"`
	ClearSkyIrradiance float64 `json:"clear_sky_irradiance"`
	Temperature        float64 `json:"temperature"`
}

// SolarData is the normalized irradiance bundle for a location.
type SolarData struct {
	Monthly                 []MonthlyProduction `json:"monthly"`
	AnnualAverageKWhM2Day   float64             `json:"annual_average_kwh_m2_day"`
	AnnualTotalKWhM2        float64             `json:"annual_total_kwh_m2"`
	YearlyEnergyDcKWh       float64             `json:"yearly_energy_dc_kwh"`
	MaxArrayPanelsCount     int                 `json:"max_array_panels_count"`
	MaxArrayAreaMeters2     float64             `json:"max_array_area_meters2"`
	MaxSunshineHoursPerYear float64             `json:"max_sunshine_hours_per_year"`
	PanelsCount             int                 `json:"panels_count"`
	Location                Location            `json:"location"`
	BestMonth               MonthlyProduction   `json:"best_month"`
	WorstMonth              MonthlyProduction   `json:"worst_month"`
}

// Narrative holds the four prose sections of the report. After fallback
// substitution all fields are non-empty.
type Narrative struct {
	ExecutiveSummary    string `json:"executive_summary"`
	FinancialInsight    string `json:"financial_insight"`
	EnvironmentalImpact string `json:"environmental_impact"`
	Recommendations     string `json:"recommendations"`
}

// ReportSummary is the condensed result returned to the submitting client.
type ReportSummary struct {
	SystemSize       float64 `json:"system_size"`
	NumPanels        int     `json:"num_panels"`
	AnnualProduction float64 `json:"annual_production"`
	AnnualSavings    float64 `json:"annual_savings"`
	PaybackPeriod    float64 `json:"payback_period"`
	CO2Offset        float64 `json:"co2_offset"`
}

// Summary condenses a ReportBundle into the response object.
func (b *ReportBundle) Summary() ReportSummary {
	return ReportSummary{
		SystemSize:       b.System.ActualSizeKW,
		NumPanels:        b.System.NumPanels,
		AnnualProduction: b.Production.AnnualProductionKWh,
		AnnualSavings:    b.Financial.AnnualSavings,
		PaybackPeriod:    b.Financial.PaybackPeriodYears,
		CO2Offset:        b.Environmental.CO2OffsetAnnualTons,
	}
}
