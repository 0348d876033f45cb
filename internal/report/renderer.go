package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/msalvatierra/bodegabot/internal/model"
)

// Renderer turns a report summary into a portable document.
type Renderer interface {
	Render(summary *model.ReportSummary, clientName string) ([]byte, error)
}

// PDFRenderer lays the summary out on an A4 page, one section per block, in
// the fixed order: peak dates, best sellers, worst sellers, profit, expiry
// losses.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(summary *model.ReportSummary, clientName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Reporte de ventas"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, tr("Cliente: "+clientName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	line := func(text string) {
		pdf.CellFormat(0, 6, tr("  "+text), "", 1, "L", false, 0, "")
	}

	section("Fechas con más ventas")
	if len(summary.PeakDates) == 0 {
		line("Sin ventas registradas")
	}
	for _, d := range summary.PeakDates {
		line(fmt.Sprintf("%s: %d unidades", d.Date, d.Total))
	}
	pdf.Ln(3)

	section("Productos más vendidos")
	for _, p := range summary.BestSellers {
		line(fmt.Sprintf("%s: %d unidades", p.Name, p.Total))
	}
	pdf.Ln(3)

	section("Productos menos vendidos")
	for _, p := range summary.WorstSellers {
		line(fmt.Sprintf("%s: %d unidades", p.Name, p.Total))
	}
	pdf.Ln(3)

	section("Ganancia acumulada")
	line(fmt.Sprintf("$%.2f", summary.Profit))
	pdf.Ln(3)

	section("Pérdidas por vencimiento")
	line(fmt.Sprintf("$%.2f", summary.ExpiryLoss))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
