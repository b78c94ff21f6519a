// Package reporting renders ROI projections as PDF and CSV documents.
package reporting

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/leadforge/leadcore/internal/roi"
)

// Color scheme
var (
	colorPrimary     = [3]int{30, 58, 95}    // Dark navy
	colorAccent      = [3]int{46, 204, 113}  // Green
	colorDanger      = [3]int{231, 76, 60}   // Red
	colorTextDark    = [3]int{44, 62, 80}    // Dark text
	colorTextMuted   = [3]int{127, 140, 141} // Muted text
	colorBackground  = [3]int{248, 249, 250} // Light gray bg
	colorTableHeader = [3]int{30, 58, 95}    // Navy header
	colorTableAlt    = [3]int{241, 245, 249} // Alternating row
	colorGridLine    = [3]int{220, 220, 220}
)

// ROIReportData is everything a persona ROI report shows.
type ROIReportData struct {
	GeneratedAt  time.Time
	PersonaTitle string
	GoalTitle    string
	Outcome      string
	Input        roi.ProfileInput
	Result       roi.ProfileResult
}

// PDFGenerator handles PDF report generation.
type PDFGenerator struct{}

// NewPDFGenerator creates a new PDF generator.
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// GenerateROI renders data as an A4 PDF.
func (g *PDFGenerator) GenerateROI(data *ROIReportData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("report data is required")
	}
	report := *data
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	data = &report

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)

	pdf.AddPage()
	g.addPageHeader(pdf, data, "ROI Projection")
	g.writePlanBox(pdf, data)
	g.writeHeadline(pdf, data.Result)

	g.writeTable(pdf, "Results", metricRows(data.Result))
	g.writeTable(pdf, "Assumptions", assumptionRows(data.Input, data.Result))
	g.writeProjection(pdf, projectionRows(data.Input))

	g.addPageNumbers(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) addPageHeader(pdf *fpdf.Fpdf, data *ROIReportData, section string) {
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetDrawColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetLineWidth(0.5)
	pdf.Line(20, 15, pageWidth-20, 15)

	pdf.SetY(18)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 5, "LEADFORGE ROI REPORT", "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, data.GeneratedAt.Format("Jan 2, 2006"), "", 1, "R", false, 0, "")

	pdf.SetY(30)
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 10, section, "", 1, "L", false, 0, "")

	pdf.Ln(5)
}

func (g *PDFGenerator) writePlanBox(pdf *fpdf.Fpdf, data *ROIReportData) {
	pageWidth, _ := pdf.GetPageSize()
	boxWidth := pageWidth - 40
	boxHeight := 28.0
	y := pdf.GetY()

	pdf.SetFillColor(colorBackground[0], colorBackground[1], colorBackground[2])
	pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	pdf.RoundedRect(20, y, boxWidth, boxHeight, 3, "1234", "FD")

	pdf.SetXY(25, y+4)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(boxWidth-10, 7, fmt.Sprintf("%s: %s", orDash(data.PersonaTitle), orDash(data.GoalTitle)), "", 1, "L", false, 0, "")

	pdf.SetX(25)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(boxWidth-10, 6, data.Outcome, "", 1, "L", false, 0, "")

	pdf.SetX(25)
	pdf.CellFormat(boxWidth-10, 6, fmt.Sprintf("%s plan, %d month projection",
		data.Result.Pricing.DisplayName, projectionMonths(data.Input)), "", 1, "L", false, 0, "")

	pdf.SetY(y + boxHeight + 8)
}

func (g *PDFGenerator) writeHeadline(pdf *fpdf.Fpdf, r roi.ProfileResult) {
	color := colorAccent
	if r.NetProfit < 0 {
		color = colorDanger
	}

	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.CellFormat(0, 12, formatPercent(r.ROI)+" ROI", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 7, "Net profit "+formatCurrency(r.NetProfit)+" on "+formatCurrency(r.TotalCost)+" platform spend", "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (g *PDFGenerator) writeTable(pdf *fpdf.Fpdf, title string, rows [][2]string) {
	if pdf.GetY() > 230 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(100, 7, "Metric", "", 0, "L", true, 0, "")
	pdf.CellFormat(70, 7, "Value", "", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	for i, row := range rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
		}
		pdf.CellFormat(100, 6, row[0], "", 0, "L", fill, 0, "")
		pdf.CellFormat(70, 6, row[1], "", 1, "R", fill, 0, "")
	}
	pdf.Ln(6)
}

func (g *PDFGenerator) writeProjection(pdf *fpdf.Fpdf, rows []projectionRow) {
	if pdf.GetY() > 200 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 8, "Monthly projection", "", 1, "L", false, 0, "")

	widths := []float64{25, 50, 45, 50}
	headers := []string{"Month", "Cumulative revenue", "Cumulative cost", "Cumulative net profit"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, row := range rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
		}
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.CellFormat(widths[0], 6, strconv.Itoa(row.Month), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, formatCurrency(row.Revenue), "", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[2], 6, formatCurrency(row.Cost), "", 0, "R", fill, 0, "")
		if row.NetProfit < 0 {
			pdf.SetTextColor(colorDanger[0], colorDanger[1], colorDanger[2])
		}
		pdf.CellFormat(widths[3], 6, formatCurrency(row.NetProfit), "", 1, "R", fill, 0, "")
	}
	pdf.Ln(6)
}

func (g *PDFGenerator) addPageNumbers(pdf *fpdf.Fpdf) {
	// Disable auto page break while adding footers to prevent creating new pages
	pdf.SetAutoPageBreak(false, 0)

	totalPages := pdf.PageCount()
	for i := 1; i <= totalPages; i++ {
		pdf.SetPage(i)
		pageWidth, pageHeight := pdf.GetPageSize()

		pdf.SetY(pageHeight - 15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of %d", i, totalPages), "", 0, "C", false, 0, "")

		pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
		pdf.SetLineWidth(0.3)
		pdf.Line(20, pageHeight-20, pageWidth-20, pageHeight-20)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
