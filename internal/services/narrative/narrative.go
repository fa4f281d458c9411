// Package narrative generates the four prose sections of a solar report via
// the OpenAI chat completions API, with a deterministic template fallback
// built straight from the report numbers.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"solar-report-engine/internal/models"
	"solar-report-engine/internal/utils"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// Generator produces report narrative text.
type Generator struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New creates a narrative generator.
func New(apiKey string) *Generator {
	return &Generator{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		model:  "gpt-4",
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithAPIURL creates a generator against a custom endpoint, used in tests.
func NewWithAPIURL(apiKey, apiURL string) *Generator {
	g := New(apiKey)
	g.apiURL = apiURL
	return g
}

// Generate produces the four narrative sections for a report. Any upstream
// failure degrades to the deterministic fallback; Generate never returns an
// error and every field of the result is non-empty.
func (g *Generator) Generate(ctx context.Context, bundle *models.ReportBundle, address string, peakSunHours float64) models.Narrative {
	content, err := g.complete(ctx, buildPrompt(bundle, address, peakSunHours))
	if err != nil {
		utils.GetLogger().Warn("Narrative generation failed, using fallback", zap.Error(err))
		return Fallback(bundle, address)
	}

	parsed, err := parseNarrative(content)
	if err != nil {
		utils.GetLogger().Warn("Narrative response malformed, using fallback",
			zap.Error(err),
			zap.String("content", truncate(content, 200)),
		)
		return Fallback(bundle, address)
	}

	return parsed
}

// complete performs one chat completion call.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a solar energy consultant. Return ONLY valid JSON, no markdown, no explanations."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   600,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}

	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

// parseNarrative strips markdown fences and unmarshals the four sections.
func parseNarrative(content string) (models.Narrative, error) {
	content = stripFences(content)

	var narrative models.Narrative
	if err := json.Unmarshal([]byte(content), &narrative); err != nil {
		return models.Narrative{}, fmt.Errorf("parse narrative JSON: %w", err)
	}

	if narrative.ExecutiveSummary == "" || narrative.FinancialInsight == "" ||
		narrative.EnvironmentalImpact == "" || narrative.Recommendations == "" {
		return models.Narrative{}, fmt.Errorf("narrative response missing sections")
	}

	return narrative, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(content string) string {
	if !strings.Contains(content, "```") {
		return content
	}
	parts := strings.Split(content, "```")
	if len(parts) < 2 {
		return content
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

func buildPrompt(bundle *models.ReportBundle, address string, peakSunHours float64) string {
	return fmt.Sprintf(`Generate 4 short paragraphs for a solar energy report:

Location: %s
Peak Sun Hours: %.2f kWh/m2/day
System: %.2f kW (%d panels)
Annual Production: %.0f kWh
Installation Cost: %.0f
Annual Savings: %.0f
Payback: %.1f years
25-Year Profit: %.0f
CO2 Offset: %.1f tons/year

Return ONLY valid JSON with these keys:
{
  "executive_summary": "2-3 sentences about system benefits and ROI",
  "financial_insight": "2-3 sentences about costs and savings",
  "environmental_impact": "2-3 sentences about CO2 and environmental benefits",
  "recommendations": "2-3 sentences about next steps"
}`,
		address,
		peakSunHours,
		bundle.System.ActualSizeKW,
		bundle.System.NumPanels,
		bundle.Production.AnnualProductionKWh,
		bundle.Financial.InstallationCost,
		bundle.Financial.AnnualSavings,
		bundle.Financial.PaybackPeriodYears,
		bundle.Financial.Net25YearSavings,
		bundle.Environmental.CO2OffsetAnnualTons,
	)
}

// Fallback builds deterministic narrative text from the report numbers. It is
// usable standalone and needs no external call.
func Fallback(bundle *models.ReportBundle, address string) models.Narrative {
	system := bundle.System
	financial := bundle.Financial
	environmental := bundle.Environmental

	return models.Narrative{
		ExecutiveSummary: fmt.Sprintf(
			"Based on analysis for %s, a %.2f kW solar system with %d panels is recommended. "+
				"This system offers excellent returns with a %.1f-year payback and %.0f net profit over 25 years.",
			address, system.ActualSizeKW, system.NumPanels,
			financial.PaybackPeriodYears, financial.Net25YearSavings),
		FinancialInsight: fmt.Sprintf(
			"Installation cost: %.0f. Annual savings: %.0f. "+
				"Investment recovered in %.1f years with %.1f%% ROI over system lifetime.",
			financial.InstallationCost, financial.AnnualSavings,
			financial.PaybackPeriodYears, financial.ROIPercentage),
		EnvironmentalImpact: fmt.Sprintf(
			"Annual CO2 offset: %.1f metric tons, equivalent to planting %d trees yearly. "+
				"Significant long-term carbon footprint reduction.",
			environmental.CO2OffsetAnnualTons, int(environmental.TreesEquivalent)),
		Recommendations: "Get quotes from 3+ certified installers. Check UK government solar incentives and grants. " +
			"Consider battery storage. Verify roof structural capacity for 25+ year installation.",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
