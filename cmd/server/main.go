// Package main provides the HTTP server for the solar report engine. It
// exposes the report submission endpoint, a delivery self-test and a health
// check, and wires the pipeline collaborators from configuration.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"

	"solar-report-engine/internal/config"
	"solar-report-engine/internal/models"
	"solar-report-engine/internal/services/archive"
	"solar-report-engine/internal/services/calculator"
	"solar-report-engine/internal/services/geocoder"
	"solar-report-engine/internal/services/mailer"
	"solar-report-engine/internal/services/narrative"
	"solar-report-engine/internal/services/report"
	"solar-report-engine/internal/services/solarapi"
	"solar-report-engine/internal/utils"
)

// Server holds all dependencies
type Server struct {
	config  *config.Config
	reports *report.Service
	mailer  mailer.Mailer
}

// Response represents a standard API response
type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Summary *models.ReportSummary `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func main() {
	// Initialize logger first
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		log.Fatalf("Failed to create report directory %s: %v", cfg.ReportDir, err)
	}

	server := &Server{config: cfg}

	// Optional collaborators degrade to nil when unconfigured.
	var narrator report.Narrator
	if cfg.OpenAIAPIKey != "" {
		narrator = narrative.New(cfg.OpenAIAPIKey)
	}

	server.mailer = buildMailer(cfg)

	var archiver report.Archiver
	if cfg.S3ArchiveBucket != "" {
		a, err := archive.New(context.Background(), cfg)
		if err != nil {
			log.Printf("Warning: Could not initialize report archiver: %v", err)
		} else {
			archiver = a
		}
	}

	server.reports = report.New(
		cfg,
		calculator.New(cfg),
		geocoder.New(cfg.GoogleAPIKey),
		solarapi.New(cfg.GoogleAPIKey),
		narrator,
		report.PDFRenderer{},
		server.mailer,
		archiver,
	)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-report", server.generateReportHandler)
	mux.HandleFunc("/test-email", server.testEmailHandler)
	mux.HandleFunc("/health", server.healthHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)
	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)

	log.Printf("Solar Report Engine")
	log.Printf("Email delivery: %s", configuredFlag(cfg.DeliveryConfigured()))
	log.Printf("Narrative (OpenAI): %s", configuredFlag(cfg.OpenAIAPIKey != ""))
	log.Printf("Geocoding/Solar (Google): %s", configuredFlag(cfg.GoogleAPIKey != ""))
	log.Printf("Rate: %.2f/kWh | Cost: %.0f/kW | Performance ratio: %.0f%%",
		cfg.DefaultElectricityRate, cfg.InstallationCostPerKW, cfg.SystemPerformanceRatio*100)
	log.Printf("Listening on http://localhost:%s", cfg.Port)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildMailer selects the delivery channel from configuration. Returns nil
// when delivery is unconfigured, which disables the pipeline's send step.
func buildMailer(cfg *config.Config) mailer.Mailer {
	if cfg.EmailProvider == "ses" {
		if !cfg.SESConfigured() {
			log.Printf("Warning: EMAIL_PROVIDER=ses but SES_SENDER_EMAIL is not set")
			return nil
		}
		m, err := mailer.NewSESMailer(context.Background(), cfg)
		if err != nil {
			log.Printf("Warning: Could not initialize SES mailer: %v", err)
			return nil
		}
		return m
	}

	if !cfg.SMTPConfigured() {
		return nil
	}
	return mailer.NewSMTPMailer(cfg)
}

func (s *Server) generateReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseReportForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid input: " + err.Error(),
		})
		return
	}

	result, err := s.reports.Generate(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if stageErr, ok := models.AsStageError(err); ok {
			switch stageErr.Stage {
			case models.StageValidate, models.StageGeocode:
				status = http.StatusBadRequest
			}
		}
		writeJSON(w, status, Response{
			Success: false,
			Error:   errorMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Summary: &result.Summary,
	})
}

func (s *Server) testEmailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.mailer == nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Email delivery not configured",
		})
		return
	}

	if err := s.mailer.TestConnection(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"delivery":  s.config.DeliveryConfigured(),
		"narrative": s.config.OpenAIAPIKey != "",
		"solar":     s.config.GoogleAPIKey != "",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// parseReportForm reads and converts the submission form fields. Conversion
// failures are reported before pipeline validation runs.
func parseReportForm(r *http.Request) (*models.ReportRequest, error) {
	req := &models.ReportRequest{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Address:   strings.TrimSpace(r.FormValue("address")),
		Latitude:  strings.TrimSpace(r.FormValue("latitude")),
		Longitude: strings.TrimSpace(r.FormValue("longitude")),
	}

	if v := strings.TrimSpace(r.FormValue("monthly_bill")); v != "" {
		bill, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("monthly_bill must be a number")
		}
		req.MonthlyBill = bill
	}

	if v := strings.TrimSpace(r.FormValue("roof_area")); v != "" {
		area, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("roof_area must be a number")
		}
		req.RoofArea = area
	}

	if v := strings.TrimSpace(r.FormValue("electricity_rate")); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("electricity_rate must be a number")
		}
		req.ElectricityRate = rate
	}

	return req, nil
}

// errorMessage unwraps a stage error to its human-readable cause.
func errorMessage(err error) string {
	if stageErr, ok := models.AsStageError(err); ok {
		return stageErr.Err.Error()
	}
	return err.Error()
}

func configuredFlag(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
