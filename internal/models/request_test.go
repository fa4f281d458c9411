package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReportRequest() *ReportRequest {
	return &ReportRequest{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Address:     "10 Downing Street, London",
		MonthlyBill: 87.5,
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validReportRequest().Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	cases := map[string]func(*ReportRequest){
		"empty name":    func(r *ReportRequest) { r.Name = "" },
		"blank name":    func(r *ReportRequest) { r.Name = "   " },
		"empty email":   func(r *ReportRequest) { r.Email = "" },
		"empty address": func(r *ReportRequest) { r.Address = "" },
		"zero bill":     func(r *ReportRequest) { r.MonthlyBill = 0 },
		"negative bill": func(r *ReportRequest) { r.MonthlyBill = -10 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validReportRequest()
			mutate(req)
			assert.ErrorIs(t, req.Validate(), ErrMissingRequiredFields)
		})
	}
}

func TestValidate_InvalidEmail(t *testing.T) {
	for _, email := range []string{"no-at-sign", "@nothing", "trailing@", "a@b", "a@.com"} {
		req := validReportRequest()
		req.Email = email
		assert.ErrorIs(t, req.Validate(), ErrInvalidEmail, "email %q should be rejected", email)
	}
}

func TestValidate_Coordinates(t *testing.T) {
	req := validReportRequest()
	req.Latitude = "51.5"
	req.Longitude = "-0.12"
	require.NoError(t, req.Validate())

	lat, lon, err := req.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, 51.5, lat)
	assert.Equal(t, -0.12, lon)
}

func TestValidate_BadCoordinates(t *testing.T) {
	cases := [][2]string{
		{"not-a-number", "0"},
		{"0", "not-a-number"},
		{"91", "0"},
		{"0", "181"},
		{"-90.5", "0"},
	}

	for _, pair := range cases {
		req := validReportRequest()
		req.Latitude = pair[0]
		req.Longitude = pair[1]
		assert.ErrorIs(t, req.Validate(), ErrInvalidCoordinates, "coords %v should be rejected", pair)
	}
}

func TestHasCoordinates(t *testing.T) {
	req := validReportRequest()
	assert.False(t, req.HasCoordinates())

	req.Latitude = "51.5"
	assert.False(t, req.HasCoordinates(), "one coordinate is not enough")

	req.Longitude = "-0.12"
	assert.True(t, req.HasCoordinates())
}

func TestSummary(t *testing.T) {
	bundle := &ReportBundle{
		System:        SystemSizing{ActualSizeKW: 4.4, NumPanels: 11},
		Production:    ProductionEstimate{AnnualProductionKWh: 4215},
		Financial:     FinancialAnalysis{AnnualSavings: 1050, PaybackPeriodYears: 12.6},
		Environmental: EnvironmentalImpact{CO2OffsetAnnualTons: 3.0},
	}

	summary := bundle.Summary()
	assert.Equal(t, 4.4, summary.SystemSize)
	assert.Equal(t, 11, summary.NumPanels)
	assert.Equal(t, 4215.0, summary.AnnualProduction)
	assert.Equal(t, 1050.0, summary.AnnualSavings)
	assert.Equal(t, 12.6, summary.PaybackPeriod)
	assert.Equal(t, 3.0, summary.CO2Offset)
}
