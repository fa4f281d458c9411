// Package pdf renders the solar report as a paginated A4 document.
package pdf

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"solar-report-engine/internal/models"
)

// Report palette.
var (
	solarBlue   = rgb{30, 58, 138}
	solarOrange = rgb{245, 158, 11}
	lightGray   = rgb{243, 244, 246}
	darkGray    = rgb{55, 65, 81}
	midGray     = rgb{156, 163, 175}
)

type rgb struct{ r, g, b int }

const (
	pageWidth  = 210.0
	marginX    = 15.0
	contentW   = pageWidth - 2*marginX
	headerH    = 20.0
	chartH     = 55.0
	barGapFrac = 0.3
)

// Generator renders one report to a file path.
type Generator struct {
	path string
}

// New creates a report generator for the given output path.
func New(path string) *Generator {
	return &Generator{path: path}
}

// Path returns the output file path.
func (g *Generator) Path() string {
	return g.path
}

// Generate renders the full report. A nil narrative renders placeholder
// sentences; empty monthly data omits the chart. Neither is an error.
func (g *Generator) Generate(name, email, address string, solar *models.SolarData, bundle *models.ReportBundle, narrative *models.Narrative) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginX, headerH+10, marginX)
	doc.SetAutoPageBreak(true, 20)

	doc.SetHeaderFunc(func() {
		doc.SetFillColor(solarBlue.r, solarBlue.g, solarBlue.b)
		doc.Rect(0, 0, pageWidth, headerH, "F")
		doc.SetTextColor(255, 255, 255)
		doc.SetFont("Helvetica", "B", 16)
		doc.Text(marginX, 13, "Solar Energy Report")
		doc.SetFont("Helvetica", "", 10)
		date := time.Now().Format("2 January 2006")
		doc.Text(pageWidth-marginX-doc.GetStringWidth(date), 13, date)
	})

	doc.AddPage()

	g.titleBlock(doc, name, address)
	g.kpiTiles(doc, bundle)
	g.narrativeSections(doc, bundle, narrative)
	g.detailTables(doc, bundle)
	g.irradianceChart(doc, solar)
	g.environmentalSection(doc, bundle)
	g.footer(doc, email)

	return doc.OutputFileAndClose(g.path)
}

func (g *Generator) titleBlock(doc *fpdf.Fpdf, name, address string) {
	doc.SetTextColor(solarBlue.r, solarBlue.g, solarBlue.b)
	doc.SetFont("Helvetica", "B", 24)
	doc.MultiCell(contentW, 10, "Solar Analysis for "+name, "", "L", false)

	doc.SetTextColor(darkGray.r, darkGray.g, darkGray.b)
	doc.SetFont("Helvetica", "", 12)
	doc.MultiCell(contentW, 6, address, "", "L", false)
	doc.Ln(6)
}

func (g *Generator) kpiTiles(doc *fpdf.Fpdf, bundle *models.ReportBundle) {
	tiles := []struct {
		value string
		label string
	}{
		{fmt.Sprintf("%.1f kW", bundle.System.ActualSizeKW), "System Size"},
		{fmt.Sprintf("%.0f", bundle.Financial.AnnualSavings), "Annual Savings"},
		{fmt.Sprintf("%.1f years", bundle.Financial.PaybackPeriodYears), "Payback Period"},
		{fmt.Sprintf("%.0f", bundle.Financial.Net25YearSavings), "25-Year Profit"},
	}

	tileW := contentW / float64(len(tiles))
	y := doc.GetY()

	for i, tile := range tiles {
		x := marginX + float64(i)*tileW
		doc.SetFillColor(lightGray.r, lightGray.g, lightGray.b)
		doc.SetDrawColor(midGray.r, midGray.g, midGray.b)
		doc.Rect(x, y, tileW, 22, "FD")

		doc.SetXY(x, y+4)
		doc.SetTextColor(solarBlue.r, solarBlue.g, solarBlue.b)
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(tileW, 8, tile.value, "", 0, "C", false, 0, "")

		doc.SetXY(x, y+13)
		doc.SetTextColor(midGray.r, midGray.g, midGray.b)
		doc.SetFont("Helvetica", "", 8)
		doc.CellFormat(tileW, 5, tile.label, "", 0, "C", false, 0, "")
	}

	doc.SetY(y + 30)
}

func (g *Generator) narrativeSections(doc *fpdf.Fpdf, bundle *models.ReportBundle, narrative *models.Narrative) {
	if narrative == nil {
		narrative = &models.Narrative{
			ExecutiveSummary: "Based on our analysis, this solar system offers excellent returns.",
			FinancialInsight: fmt.Sprintf("Installation cost %.0f with %.0f annual savings and a %.1f-year payback.",
				bundle.Financial.InstallationCost, bundle.Financial.AnnualSavings, bundle.Financial.PaybackPeriodYears),
			EnvironmentalImpact: fmt.Sprintf("Estimated CO2 offset of %.1f tons per year.",
				bundle.Environmental.CO2OffsetAnnualTons),
			Recommendations: "Consult certified solar installers for site-specific quotes.",
		}
	}

	sections := []struct {
		heading string
		body    string
	}{
		{"Executive Summary", narrative.ExecutiveSummary},
		{"Financial Insight", narrative.FinancialInsight},
		{"Environmental Impact", narrative.EnvironmentalImpact},
		{"Recommendations", narrative.Recommendations},
	}

	for _, section := range sections {
		g.heading(doc, section.heading)
		doc.SetTextColor(darkGray.r, darkGray.g, darkGray.b)
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(contentW, 6, section.body, "", "L", false)
		doc.Ln(3)
	}
}

func (g *Generator) detailTables(doc *fpdf.Fpdf, bundle *models.ReportBundle) {
	system := bundle.System
	production := bundle.Production
	financial := bundle.Financial

	left := [][2]string{
		{"Number of Panels", fmt.Sprintf("%d panels", system.NumPanels)},
		{"Panel Wattage", fmt.Sprintf("%.0fW each", system.PanelWattage)},
		{"Total System Size", fmt.Sprintf("%.2f kW", system.ActualSizeKW)},
		{"Required Roof Area", fmt.Sprintf("%.1f m2", system.RequiredRoofAreaSqm)},
		{"Daily Production", fmt.Sprintf("%.1f kWh", production.DailyProductionKWh)},
		{"Monthly Production", fmt.Sprintf("%.0f kWh", production.MonthlyProductionKWh)},
		{"Annual Production", fmt.Sprintf("%.0f kWh", production.AnnualProductionKWh)},
	}
	right := [][2]string{
		{"Installation Cost", fmt.Sprintf("%.0f", financial.InstallationCost)},
		{"Annual Savings", fmt.Sprintf("%.0f", financial.AnnualSavings)},
		{"Monthly Savings", fmt.Sprintf("%.0f", financial.MonthlySavings)},
		{"Payback Period", fmt.Sprintf("%.1f years", financial.PaybackPeriodYears)},
		{"25-Year Savings", fmt.Sprintf("%.0f", financial.Total25YearSavings)},
		{"25-Year Net Profit", fmt.Sprintf("%.0f", financial.Net25YearSavings)},
		{"Return on Investment", fmt.Sprintf("%.1f%%", financial.ROIPercentage)},
	}

	colW := contentW / 2
	startY := doc.GetY()

	g.columnTable(doc, marginX, startY, colW-4, "System & Production", left)
	g.columnTable(doc, marginX+colW+4, startY, colW-4, "Financial Breakdown", right)

	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	doc.SetY(startY + 8 + float64(rows)*6 + 8)
}

func (g *Generator) columnTable(doc *fpdf.Fpdf, x, y, w float64, title string, rows [][2]string) {
	doc.SetXY(x, y)
	doc.SetFillColor(solarBlue.r, solarBlue.g, solarBlue.b)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(w, 8, " "+title, "", 0, "L", true, 0, "")

	doc.SetTextColor(darkGray.r, darkGray.g, darkGray.b)
	for i, row := range rows {
		doc.SetXY(x, y+8+float64(i)*6)
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(w*0.55, 6, " "+row[0], "B", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(w*0.45, 6, row[1]+" ", "B", 0, "R", false, 0, "")
	}
}

// irradianceChart draws the monthly irradiance bars, highlighting the peak
// month. With no monthly data the chart is skipped entirely.
func (g *Generator) irradianceChart(doc *fpdf.Fpdf, solar *models.SolarData) {
	if solar == nil || len(solar.Monthly) == 0 {
		return
	}

	if doc.GetY()+chartH+30 > 277 {
		doc.AddPage()
	}

	g.heading(doc, "Monthly Solar Irradiance")

	maxVal := 0.0
	for _, m := range solar.Monthly {
		if m.SolarIrradiance > maxVal {
			maxVal = m.SolarIrradiance
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	top := doc.GetY() + 2
	baseline := top + chartH
	slotW := contentW / float64(len(solar.Monthly))
	barW := slotW * (1 - barGapFrac)

	doc.SetDrawColor(midGray.r, midGray.g, midGray.b)
	doc.Line(marginX, baseline, marginX+contentW, baseline)

	for i, m := range solar.Monthly {
		barH := chartH * (m.SolarIrradiance / maxVal)
		x := marginX + float64(i)*slotW + (slotW-barW)/2

		if m.Month == solar.BestMonth.Month {
			doc.SetFillColor(solarOrange.r, solarOrange.g, solarOrange.b)
		} else {
			doc.SetFillColor(solarBlue.r, solarBlue.g, solarBlue.b)
		}
		doc.Rect(x, baseline-barH, barW, barH, "F")

		doc.SetTextColor(darkGray.r, darkGray.g, darkGray.b)
		doc.SetFont("Helvetica", "", 7)
		doc.SetXY(marginX+float64(i)*slotW, baseline+1)
		doc.CellFormat(slotW, 4, m.Month, "", 0, "C", false, 0, "")
	}

	doc.SetY(baseline + 8)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(midGray.r, midGray.g, midGray.b)
	doc.MultiCell(contentW, 5, fmt.Sprintf(
		"Peak month: %s (%.2f kWh/m2/day). Annual average: %.2f kWh/m2/day.",
		solar.BestMonth.Month, solar.BestMonth.SolarIrradiance, solar.AnnualAverageKWhM2Day),
		"", "L", false)
	doc.Ln(3)
}

func (g *Generator) environmentalSection(doc *fpdf.Fpdf, bundle *models.ReportBundle) {
	env := bundle.Environmental

	g.heading(doc, "Environmental Impact")
	doc.SetTextColor(darkGray.r, darkGray.g, darkGray.b)
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(contentW, 6, fmt.Sprintf(
		"This system offsets an estimated %.1f tons of CO2 per year, %.1f tons over its 25-year "+
			"lifetime, equivalent to planting %d trees annually.",
		env.CO2OffsetAnnualTons, env.CO2Offset25YearsTons, int(env.TreesEquivalent)),
		"", "L", false)
	doc.Ln(3)
}

func (g *Generator) footer(doc *fpdf.Fpdf, email string) {
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(midGray.r, midGray.g, midGray.b)
	doc.MultiCell(contentW, 4,
		"Prepared for "+email+". Estimates are based on available data and standard assumptions. "+
			"Consult certified solar professionals for assessments specific to your property.",
		"", "L", false)
}

func (g *Generator) heading(doc *fpdf.Fpdf, text string) {
	doc.SetTextColor(solarBlue.r, solarBlue.g, solarBlue.b)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(contentW, 9, text, "", 1, "L", false, 0, "")
}
