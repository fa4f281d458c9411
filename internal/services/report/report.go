// Package report orchestrates the solar report pipeline: validate, resolve
// location, fetch irradiance, compute, narrate, render, archive, deliver.
// The pipeline is strictly linear; narrative, archiving and delivery degrade
// gracefully while every other step is terminal on failure.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solar-report-engine/internal/config"
	"solar-report-engine/internal/models"
	"solar-report-engine/internal/services/calculator"
	"solar-report-engine/internal/services/mailer"
	"solar-report-engine/internal/services/narrative"
	"solar-report-engine/internal/services/pdf"
	"solar-report-engine/internal/utils"
)

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Location, error)
}

// SolarProvider fetches normalized irradiance data for a coordinate.
type SolarProvider interface {
	FetchSolarData(ctx context.Context, latitude, longitude float64) (*models.SolarData, error)
}

// Narrator produces report narrative text. Implementations absorb their own
// failures and always return four usable sections.
type Narrator interface {
	Generate(ctx context.Context, bundle *models.ReportBundle, address string, peakSunHours float64) models.Narrative
}

// Renderer writes the report document to a file path.
type Renderer interface {
	Render(path, name, email, address string, solar *models.SolarData, bundle *models.ReportBundle, narrative *models.Narrative) error
}

// Archiver retains a copy of the rendered artifact.
type Archiver interface {
	Store(ctx context.Context, path string) error
}

// PDFRenderer is the production Renderer backed by the pdf package.
type PDFRenderer struct{}

// Render writes the report PDF to path.
func (PDFRenderer) Render(path, name, email, address string, solar *models.SolarData, bundle *models.ReportBundle, n *models.Narrative) error {
	return pdf.New(path).Generate(name, email, address, solar, bundle, n)
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Summary   models.ReportSummary
	PDFPath   string
	EmailSent bool
	Message   string
}

// Service runs the report pipeline. Narrator, mailer and archiver are
// optional; a nil collaborator disables its step.
type Service struct {
	cfg      *config.Config
	calc     *calculator.Calculator
	geocoder Geocoder
	solar    SolarProvider
	narrator Narrator
	renderer Renderer
	mailer   mailer.Mailer
	archiver Archiver
}

// New creates the pipeline service.
func New(cfg *config.Config, calc *calculator.Calculator, geo Geocoder, solar SolarProvider, narrator Narrator, renderer Renderer, m mailer.Mailer, archiver Archiver) *Service {
	return &Service{
		cfg:      cfg,
		calc:     calc,
		geocoder: geo,
		solar:    solar,
		narrator: narrator,
		renderer: renderer,
		mailer:   m,
		archiver: archiver,
	}
}

// Generate runs the full pipeline for one request. Terminal failures are
// returned as *models.StageError so the HTTP layer can map them to statuses.
func (s *Service) Generate(ctx context.Context, req *models.ReportRequest) (*Result, error) {
	log := utils.GetLogger().With(zap.String("request_id", uuid.New().String()))

	if err := req.Validate(); err != nil {
		return nil, models.NewStageError(models.StageValidate, err)
	}

	log.Info("Processing report request",
		zap.String("name", req.Name),
		zap.String("address", req.Address),
	)

	// Step 1: resolve location. Explicit coordinates bypass geocoding.
	var location models.Location
	if req.HasCoordinates() {
		lat, lon, err := req.Coordinates()
		if err != nil {
			return nil, models.NewStageError(models.StageValidate, err)
		}
		location = models.Location{Latitude: lat, Longitude: lon, FormattedAddress: req.Address}
		log.Info("Using supplied coordinates",
			zap.Float64("latitude", lat),
			zap.Float64("longitude", lon),
		)
	} else {
		loc, err := s.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			return nil, models.NewStageError(models.StageGeocode, err)
		}
		location = loc
		log.Info("Address geocoded",
			zap.Float64("latitude", location.Latitude),
			zap.Float64("longitude", location.Longitude),
		)
	}

	// Step 2: fetch irradiance data.
	solarData, err := s.solar.FetchSolarData(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return nil, models.NewStageError(models.StageSolarData, err)
	}
	peakSunHours := solarData.AnnualAverageKWhM2Day
	log.Info("Solar data fetched", zap.Float64("peak_sun_hours", peakSunHours))

	// Step 3: compute the report bundle. Consumption is estimated from the
	// bill at the configured reference rate; savings use the request rate.
	rate := req.ElectricityRate
	if rate <= 0 {
		rate = s.cfg.DefaultElectricityRate
	}
	annualConsumption := calculator.EstimateAnnualConsumption(req.MonthlyBill, s.cfg.DefaultElectricityRate)
	bundle := s.calc.CompleteReport(annualConsumption, peakSunHours, rate)
	log.Info("Report computed",
		zap.Float64("annual_consumption_kwh", annualConsumption),
		zap.Float64("system_kw", bundle.System.ActualSizeKW),
		zap.Float64("annual_production_kwh", bundle.Production.AnnualProductionKWh),
		zap.Float64("annual_savings", bundle.Financial.AnnualSavings),
	)

	// Step 4: narrative, optional. Failure inside the narrator degrades to
	// its fallback; a missing narrator uses the fallback directly.
	var text models.Narrative
	if s.narrator != nil {
		text = s.narrator.Generate(ctx, &bundle, location.FormattedAddress, peakSunHours)
	} else {
		text = narrative.Fallback(&bundle, location.FormattedAddress)
		log.Info("Narrative generation skipped, using fallback")
	}

	// Step 5: render the PDF.
	pdfPath := filepath.Join(s.cfg.ReportDir, reportFilename(req.Name, time.Now()))
	if err := s.renderer.Render(pdfPath, req.Name, req.Email, location.FormattedAddress, solarData, &bundle, &text); err != nil {
		return nil, models.NewStageError(models.StageRender, fmt.Errorf("PDF generation failed: %w", err))
	}
	log.Info("PDF created", zap.String("path", pdfPath))

	// Step 6: archive, best-effort.
	if s.archiver != nil {
		if err := s.archiver.Store(ctx, pdfPath); err != nil {
			log.Warn("Report archiving failed", zap.Error(err))
		}
	}

	// Step 7: deliver, best-effort. The report was produced either way.
	result := &Result{
		Summary: bundle.Summary(),
		PDFPath: pdfPath,
		Message: fmt.Sprintf("Solar report generated for %s", req.Name),
	}
	if s.mailer != nil {
		if err := s.mailer.SendReport(ctx, req.Email, req.Name, pdfPath); err != nil {
			log.Warn("Report delivery failed", zap.Error(err))
		} else {
			result.EmailSent = true
			result.Message = fmt.Sprintf("Solar report generated and sent to %s!", req.Email)
		}
	} else {
		log.Info("Email delivery skipped (not configured)")
	}

	return result, nil
}

// reportFilename builds the deterministic artifact name from the requester
// and a timestamp.
func reportFilename(name string, now time.Time) string {
	return fmt.Sprintf("solar_report_%s_%s.pdf",
		strings.ReplaceAll(name, " ", "_"),
		now.Format("20060102_150405"),
	)
}
