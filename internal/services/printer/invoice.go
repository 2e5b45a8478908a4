package printer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xelth-com/eckmobile/internal/services/portal"
)

// InvoiceConfig controls the invoice layout
type InvoiceConfig struct {
	CompanyName string
	// QRPrefix is prepended to the invoice name in the QR code, e.g. a desk URL
	QRPrefix string
}

// GenerateInvoicePDF renders one invoice on A4: header, line table, totals and a QR code
func GenerateInvoicePDF(inv *portal.InvoiceDetail, cfg InvoiceConfig) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("no invoice to print")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	title := inv.Doctype
	if title == "" {
		title = "Invoice"
	}
	pdf.CellFormat(120, 8, title, "", 1, "L", false, 0, "")
	if cfg.CompanyName != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(120, 5, cfg.CompanyName, "", 1, "L", false, 0, "")
	}

	if err := registerQR(pdf, "invoice_qr", cfg.QRPrefix+inv.Name); err != nil {
		return nil, err
	}
	pdf.ImageOptions("invoice_qr", 165, 12, 30, 30, false, pngOptions, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	for _, row := range [][2]string{
		{"Number", inv.Name},
		{"Customer", inv.Customer},
		{"Date", inv.PostingDate},
		{"Status", inv.Status},
	} {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(100, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.SetY(50)

	// Lines
	widths := []float64{35, 70, 20, 25, 30}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Item", "Description", "Qty", "Rate", "Amount"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, it := range inv.Items {
		pdf.CellFormat(widths[0], 6, it.ItemCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, it.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, formatQty(it.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, formatAmount(it.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, formatAmount(it.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Totals
	pdf.Ln(4)
	for _, row := range []struct {
		label string
		value float64
		bold  bool
	}{
		{"Net total", inv.NetTotal, false},
		{"Taxes and charges", inv.TotalTaxesAndCharges, false},
		{"Grand total", inv.GrandTotal, true},
		{"Outstanding", inv.OutstandingAmount, false},
	} {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, formatAmount(row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
