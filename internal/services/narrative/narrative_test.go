package narrative

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-report-engine/internal/models"
)

func testBundle() *models.ReportBundle {
	return &models.ReportBundle{
		System: models.SystemSizing{
			ActualSizeKW: 4.4,
			NumPanels:    11,
			PanelWattage: 400,
		},
		Production: models.ProductionEstimate{AnnualProductionKWh: 4215},
		Financial: models.FinancialAnalysis{
			InstallationCost:   13200,
			AnnualSavings:      1050,
			PaybackPeriodYears: 12.6,
			Net25YearSavings:   25082,
			ROIPercentage:      190.0,
		},
		Environmental: models.EnvironmentalImpact{
			CO2OffsetAnnualTons: 3.0,
			TreesEquivalent:     142,
		},
	}
}

func chatBody(content string) string {
	resp := `{"choices": [{"message": {"content": ` + content + `}}]}`
	return resp
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(chatBody(`"{\"executive_summary\": \"A strong system.\", \"financial_insight\": \"Good savings.\", \"environmental_impact\": \"Low carbon.\", \"recommendations\": \"Install soon.\"}"`)))
	}))
	defer srv.Close()

	g := NewWithAPIURL("test-key", srv.URL)
	narrative := g.Generate(context.Background(), testBundle(), "London, UK", 3.5)

	assert.Equal(t, "A strong system.", narrative.ExecutiveSummary)
	assert.Equal(t, "Good savings.", narrative.FinancialInsight)
	assert.Equal(t, "Low carbon.", narrative.EnvironmentalImpact)
	assert.Equal(t, "Install soon.", narrative.Recommendations)
}

func TestGenerate_StripsMarkdownFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(`"` + "```json\\n" +
			`{\"executive_summary\": \"S\", \"financial_insight\": \"F\", \"environmental_impact\": \"E\", \"recommendations\": \"R\"}` +
			"\\n```" + `"`)))
	}))
	defer srv.Close()

	g := NewWithAPIURL("test-key", srv.URL)
	narrative := g.Generate(context.Background(), testBundle(), "London, UK", 3.5)

	assert.Equal(t, "S", narrative.ExecutiveSummary)
	assert.Equal(t, "R", narrative.Recommendations)
}

func TestGenerate_MalformedJSONFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(`"this is not JSON at all"`)))
	}))
	defer srv.Close()

	g := NewWithAPIURL("test-key", srv.URL)
	narrative := g.Generate(context.Background(), testBundle(), "London, UK", 3.5)

	assertAllSectionsPresent(t, narrative)
	assert.Contains(t, narrative.ExecutiveSummary, "London, UK")
}

func TestGenerate_UpstreamErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewWithAPIURL("test-key", srv.URL)
	narrative := g.Generate(context.Background(), testBundle(), "London, UK", 3.5)

	assertAllSectionsPresent(t, narrative)
}

func TestGenerate_MissingSectionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(`"{\"executive_summary\": \"only one section\"}"`)))
	}))
	defer srv.Close()

	g := NewWithAPIURL("test-key", srv.URL)
	narrative := g.Generate(context.Background(), testBundle(), "London, UK", 3.5)

	assertAllSectionsPresent(t, narrative)
}

func TestFallback_Deterministic(t *testing.T) {
	bundle := testBundle()

	first := Fallback(bundle, "London, UK")
	second := Fallback(bundle, "London, UK")

	assert.Equal(t, first, second)
	assertAllSectionsPresent(t, first)
	assert.Contains(t, first.FinancialInsight, "13200")
	assert.Contains(t, first.EnvironmentalImpact, "142 trees")
}

func assertAllSectionsPresent(t *testing.T, n models.Narrative) {
	t.Helper()
	require.NotEmpty(t, n.ExecutiveSummary)
	require.NotEmpty(t, n.FinancialInsight)
	require.NotEmpty(t, n.EnvironmentalImpact)
	require.NotEmpty(t, n.Recommendations)
}
