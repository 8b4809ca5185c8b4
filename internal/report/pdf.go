package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 190.0
	lineHeight = 7.0
	font       = "Arial"
)

// pdfWriter wraps gofpdf with the translator for non-ASCII city names.
type pdfWriter struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func newPDFWriter() *pdfWriter {
	p := &pdfWriter{Fpdf: gofpdf.New("P", "mm", "A4", "")}
	p.tr = p.UnicodeTranslatorFromDescriptor("")
	return p
}

func (p *pdfWriter) heading(text string, size float64) {
	p.SetFont(font, "B", size)
	p.CellFormat(pageWidth, 10, p.tr(text), "", 1, "L", false, 0, "")
	p.SetFont(font, "", 11)
}

func (p *pdfWriter) line(text string) {
	p.CellFormat(pageWidth, lineHeight, p.tr(text), "", 1, "L", false, 0, "")
}

func (p *pdfWriter) paragraph(text string) {
	p.MultiCell(pageWidth, lineHeight, p.tr(text), "", "L", false)
}

func (p *pdfWriter) numbered(title string, items []string) {
	if len(items) == 0 {
		return
	}
	p.SetFont(font, "B", 12)
	p.line(title)
	p.SetFont(font, "", 11)
	for i, item := range items[:min(maxNarrativeItems, len(items))] {
		p.paragraph(fmt.Sprintf("%d. %s", i+1, item))
	}
	p.Ln(3)
}

// WritePDF renders the report as a single PDF document.
func WritePDF(w io.Writer, d Data) error {
	p := newPDFWriter()
	generated := d.generatedAt().Format("2006-01-02 15:04:05")
	p.SetFooterFunc(func() {
		p.SetY(-20)
		p.SetFont(font, "I", 8)
		p.CellFormat(0, 10, "Report generated on "+generated, "", 0, "C", false, 0, "")
	})
	p.AddPage()

	p.SetFont(font, "B", 16)
	p.CellFormat(pageWidth, 10, p.tr(d.Title()), "", 1, "C", false, 0, "")
	p.SetFont(font, "", 10)
	p.CellFormat(pageWidth, 6, "Generated on "+generated, "", 1, "C", false, 0, "")
	p.Ln(5)

	p.heading("Market Summary", 14)
	for _, l := range d.SummaryLines() {
		p.line(l)
	}
	p.Ln(5)

	if n := d.Narrative; !n.IsEmpty() {
		p.heading("AI Insights", 14)
		if n.TrendSummary != "" {
			p.paragraph("Trend Summary: " + n.TrendSummary)
			p.Ln(3)
		}
		p.numbered("Market Observations:", n.MarketObservations)
		p.numbered("Hostel Business Recommendations:", n.HostelRecommendations)
		p.numbered("Seasonal Strategies:", n.SeasonalStrategies)
	}

	if routes := d.TopRoutes(); len(routes) > 0 {
		p.heading("Top Flight Routes", 14)
		widths := []float64{40, 40, 30, 40, 40}
		p.SetFont(font, "B", 11)
		for i, h := range []string{"Origin", "Destination", "Frequency", "Avg. Price", "Type"} {
			p.CellFormat(widths[i], lineHeight, h, "1", 0, "C", false, 0, "")
		}
		p.Ln(-1)
		p.SetFont(font, "", 10)
		for _, r := range routes {
			cells := []string{r.Origin, r.Destination, strconv.Itoa(r.Frequency), r.AvgPrice, r.Type}
			for i, c := range cells {
				p.CellFormat(widths[i], lineHeight, c, "1", 0, "C", false, 0, "")
			}
			p.Ln(-1)
		}
	}

	if opps := d.opportunities(); len(opps) > 0 {
		p.Ln(5)
		p.heading("Market Opportunities", 14)
		for i, o := range opps {
			p.SetFont(font, "B", 11)
			p.line(fmt.Sprintf("%d. %s", i+1, o.Type.Title()))
			p.SetFont(font, "", 10)
			if o.Description != "" {
				p.paragraph(o.Description)
			}
			for _, detail := range OpportunityDetails(o) {
				p.line(detail)
			}
			p.Ln(3)
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders the report to path.
func WritePDFFile(path string, d Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WritePDF(f, d)
}
