package models

import (
	"strconv"
	"strings"
)

// ReportRequest is a validated form submission asking for a solar report.
type ReportRequest struct {
	Name            string
	Email           string
	Address         string
	Latitude        string
	Longitude       string
	MonthlyBill     float64
	RoofArea        float64
	ElectricityRate float64
}

// HasCoordinates reports whether the submitter supplied explicit coordinates,
// which bypasses address geocoding.
func (r *ReportRequest) HasCoordinates() bool {
	return r.Latitude != "" && r.Longitude != ""
}

// Coordinates parses the explicit latitude/longitude fields.
func (r *ReportRequest) Coordinates() (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, ErrInvalidCoordinates
	}
	return lat, lon, nil
}

// Validate checks the required fields of a report request.
func (r *ReportRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Address) == "" ||
		r.MonthlyBill <= 0 {
		return ErrMissingRequiredFields
	}

	if !isValidEmail(r.Email) {
		return ErrInvalidEmail
	}

	if r.HasCoordinates() {
		if _, _, err := r.Coordinates(); err != nil {
			return err
		}
	}

	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}

	// Basic check: must contain @ and have content before and after
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Must have a dot after @
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
