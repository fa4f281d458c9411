// Package calculator implements the solar sizing, production, financial and
// environmental calculation pipeline. All functions are pure: no I/O, no
// hidden state, identical inputs produce identical bundles.
package calculator

import (
	"math"

	"solar-report-engine/internal/config"
	"solar-report-engine/internal/models"
)

const (
	// systemLifetimeYears is the financial/environmental horizon.
	systemLifetimeYears = 25

	// productionPerformanceRatio is the fixed performance ratio applied to
	// production estimates. It is intentionally distinct from the
	// configurable derate factor used for sizing; the two must not be
	// unified, as that would change payback arithmetic.
	productionPerformanceRatio = 0.75

	// savingsEscalationRate is the annual electricity price escalation used
	// by the 25-year annuity factor.
	savingsEscalationRate = 0.03

	// defaultPeakSunHours substitutes for non-positive irradiance input.
	defaultPeakSunHours = 4.0

	// panelFootprintSqm is the fixed per-panel roof footprint.
	panelFootprintSqm = 2.0

	// treesPerTonCO2 converts annual CO2 tons to a tree-planting equivalent.
	treesPerTonCO2 = 48
)

// Calculator holds the configuration constants of the calculation engine.
type Calculator struct {
	derateFactor          float64
	installationCostPerKW float64
	panelWattage          float64
	co2PerKWh             float64
}

// New creates a Calculator from application configuration.
func New(cfg *config.Config) *Calculator {
	return &Calculator{
		derateFactor:          cfg.SystemPerformanceRatio,
		installationCostPerKW: cfg.InstallationCostPerKW,
		panelWattage:          cfg.PanelWattage,
		co2PerKWh:             cfg.CO2PerKWh,
	}
}

// EstimateAnnualConsumption derives yearly consumption from a monthly bill
// using the reference electricity rate. The reference rate is the configured
// default, not the per-request rate.
func EstimateAnnualConsumption(monthlyBill, referenceRate float64) float64 {
	return (monthlyBill / referenceRate) * 12
}

// SystemSize recommends an array size for the given annual consumption and
// peak sun hours. Non-positive peak sun hours fall back to the default. Panel
// count truncates the raw kW-to-panel ratio and adds one panel of margin, so
// the installed size always covers the recommendation.
func (c *Calculator) SystemSize(annualConsumptionKWh, peakSunHours float64) models.SystemSizing {
	if peakSunHours <= 0 {
		peakSunHours = defaultPeakSunHours
	}

	recommendedKW := annualConsumptionKWh / (365 * peakSunHours * c.derateFactor)
	numPanels := int(recommendedKW*1000/c.panelWattage) + 1
	actualKW := float64(numPanels) * c.panelWattage / 1000

	return models.SystemSizing{
		RecommendedSizeKW:   round2(recommendedKW),
		ActualSizeKW:        round2(actualKW),
		NumPanels:           numPanels,
		PanelWattage:        c.panelWattage,
		RequiredRoofAreaSqm: round2(float64(numPanels) * panelFootprintSqm),
	}
}

// EnergyProduction estimates output of an installed array. Uses the fixed
// production performance ratio, not the sizing derate factor.
func (c *Calculator) EnergyProduction(actualSizeKW, peakSunHours float64) models.ProductionEstimate {
	annual := actualSizeKW * 365 * peakSunHours * productionPerformanceRatio

	return models.ProductionEstimate{
		AnnualProductionKWh:  round0(annual),
		DailyProductionKWh:   round1(annual / 365),
		MonthlyProductionKWh: round0(annual / 12),
	}
}

// FinancialAnalysis computes cost, savings and return figures. Savings are
// based on offset energy, capped at consumption: production beyond what the
// household buys earns nothing here. Payback is clamped to the system
// lifetime and is never NaN or infinite.
func (c *Calculator) FinancialAnalysis(annualConsumptionKWh, annualProductionKWh, actualSizeKW, electricityRate float64) models.FinancialAnalysis {
	installationCost := actualSizeKW * c.installationCostPerKW

	offsetKWh := math.Min(annualProductionKWh, annualConsumptionKWh)
	annualSavings := offsetKWh * electricityRate

	annuityFactor := (math.Pow(1+savingsEscalationRate, systemLifetimeYears) - 1) / savingsEscalationRate
	total25YearSavings := annualSavings * annuityFactor

	var paybackYears float64
	if annualSavings > 0 {
		paybackYears = installationCost / annualSavings
	} else {
		paybackYears = systemLifetimeYears + 1
	}
	paybackYears = round1(math.Min(paybackYears, systemLifetimeYears))

	net25YearSavings := total25YearSavings - installationCost

	var roiPercentage float64
	if installationCost > 0 {
		roiPercentage = (net25YearSavings / installationCost) * 100
	}

	return models.FinancialAnalysis{
		InstallationCost:   round0(installationCost),
		AnnualSavings:      round0(annualSavings),
		MonthlySavings:     round0(annualSavings / 12),
		PaybackPeriodYears: paybackYears,
		Total25YearSavings: round0(total25YearSavings),
		Net25YearSavings:   round0(net25YearSavings),
		ROIPercentage:      round1(roiPercentage),
	}
}

// EnvironmentalImpact converts annual production into CO2 offset figures.
func (c *Calculator) EnvironmentalImpact(annualProductionKWh float64) models.EnvironmentalImpact {
	co2AnnualTons := annualProductionKWh * c.co2PerKWh

	return models.EnvironmentalImpact{
		CO2OffsetAnnualTons:  round1(co2AnnualTons),
		CO2Offset25YearsTons: round1(co2AnnualTons * systemLifetimeYears),
		TreesEquivalent:      round0(co2AnnualTons * treesPerTonCO2),
	}
}

// CompleteReport sequences the four calculations, threading the rounded
// installed size and annual production as the hand-off values between stages.
func (c *Calculator) CompleteReport(annualConsumptionKWh, peakSunHours, electricityRate float64) models.ReportBundle {
	system := c.SystemSize(annualConsumptionKWh, peakSunHours)
	production := c.EnergyProduction(system.ActualSizeKW, peakSunHours)
	financial := c.FinancialAnalysis(annualConsumptionKWh, production.AnnualProductionKWh, system.ActualSizeKW, electricityRate)
	environmental := c.EnvironmentalImpact(production.AnnualProductionKWh)

	return models.ReportBundle{
		System:        system,
		Production:    production,
		Financial:     financial,
		Environmental: environmental,
	}
}

func round0(v float64) float64 { return math.Round(v) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
