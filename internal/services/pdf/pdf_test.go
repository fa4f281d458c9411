package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-report-engine/internal/models"
)

func testBundle() *models.ReportBundle {
	return &models.ReportBundle{
		System: models.SystemSizing{
			RecommendedSizeKW:   4.38,
			ActualSizeKW:        4.4,
			NumPanels:           11,
			PanelWattage:        400,
			RequiredRoofAreaSqm: 22,
		},
		Production: models.ProductionEstimate{
			AnnualProductionKWh:  4215,
			DailyProductionKWh:   11.5,
			MonthlyProductionKWh: 351,
		},
		Financial: models.FinancialAnalysis{
			InstallationCost:   13200,
			AnnualSavings:      1050,
			MonthlySavings:     88,
			PaybackPeriodYears: 12.6,
			Total25YearSavings: 38282,
			Net25YearSavings:   25082,
			ROIPercentage:      190.0,
		},
		Environmental: models.EnvironmentalImpact{
			CO2OffsetAnnualTons:  3.0,
			CO2Offset25YearsTons: 75.0,
			TreesEquivalent:      142,
		},
	}
}

func testSolarData() *models.SolarData {
	monthly := []models.MonthlyProduction{
		{Month: "Jan", SolarIrradiance: 1.2, ProductionKWh: 300},
		{Month: "Feb", SolarIrradiance: 1.7, ProductionKWh: 420},
		{Month: "Mar", SolarIrradiance: 2.4, ProductionKWh: 600},
		{Month: "Apr", SolarIrradiance: 3.1, ProductionKWh: 780},
		{Month: "May", SolarIrradiance: 3.6, ProductionKWh: 900},
		{Month: "Jun", SolarIrradiance: 3.9, ProductionKWh: 960},
		{Month: "Jul", SolarIrradiance: 3.6, ProductionKWh: 900},
		{Month: "Aug", SolarIrradiance: 3.1, ProductionKWh: 780},
		{Month: "Sep", SolarIrradiance: 2.6, ProductionKWh: 660},
		{Month: "Oct", SolarIrradiance: 1.9, ProductionKWh: 480},
		{Month: "Nov", SolarIrradiance: 1.2, ProductionKWh: 300},
		{Month: "Dec", SolarIrradiance: 1.0, ProductionKWh: 240},
	}
	return &models.SolarData{
		Monthly:               monthly,
		AnnualAverageKWhM2Day: 2.5,
		YearlyEnergyDcKWh:     7320,
		MaxArrayAreaMeters2:   80,
		BestMonth:             monthly[5],
		WorstMonth:            monthly[11],
		Location:              models.Location{Latitude: 51.5, Longitude: -0.12},
	}
}

func testNarrative() *models.Narrative {
	return &models.Narrative{
		ExecutiveSummary:    "A 4.4 kW system is recommended.",
		FinancialInsight:    "Annual savings around 1050.",
		EnvironmentalImpact: "Roughly 3 tons of CO2 offset per year.",
		Recommendations:     "Get quotes from certified installers.",
	}
}

func generate(t *testing.T, solar *models.SolarData, narrative *models.Narrative) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.pdf")
	gen := New(path)

	err := gen.Generate("Jane Doe", "jane@example.com", "10 Downing St, London", solar, testBundle(), narrative)
	require.NoError(t, err)

	return path
}

func TestGenerate_ProducesPDF(t *testing.T) {
	path := generate(t, testSolarData(), testNarrative())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestGenerate_ToleratesMissingNarrative(t *testing.T) {
	path := generate(t, testSolarData(), nil)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestGenerate_ToleratesMissingChartData(t *testing.T) {
	solar := testSolarData()
	solar.Monthly = nil

	path := generate(t, solar, testNarrative())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestGenerate_ToleratesNilSolarData(t *testing.T) {
	path := generate(t, nil, testNarrative())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestPath(t *testing.T) {
	gen := New("temp/report.pdf")
	assert.Equal(t, "temp/report.pdf", gen.Path())
}
