package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// LabelConfig holds the sheet layout for label printing
type LabelConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultLabelConfig is a 3x8 sheet of common A4 sticker paper
var DefaultLabelConfig = LabelConfig{Cols: 3, Rows: 8, MarginTop: 10, MarginLeft: 7, GapX: 2.5, GapY: 0}

// Label is one sticker: Code is encoded in the QR, Caption printed under it
type Label struct {
	Code    string
	Caption string
	Corner  string // small text top right, e.g. the target location
}

// GenerateLabelsPDF creates a PDF sheet with one QR label per entry
func GenerateLabelsPDF(labels []Label, cfg LabelConfig) ([]byte, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("label sheet needs at least one row and column, got %dx%d", cfg.Cols, cfg.Rows)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := pdf.GetPageSize()

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	// Symmetric margins
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	if len(labels) == 0 {
		pdf.AddPage()
	}
	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		// Top-left of the label
		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		imgName := fmt.Sprintf("qr_%d", i)
		if err := registerQR(pdf, imgName, label.Code); err != nil {
			return nil, err
		}

		// QR centered, 70% of the label height
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2

		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, pngOptions, 0, "")

		caption := label.Caption
		if caption == "" {
			caption = label.Code
		}
		pdf.SetXY(x, y+labelH-6)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 5, caption, "", 0, "C", false, 0, "")

		if label.Corner != "" {
			pdf.SetXY(x, y+1)
			pdf.SetFontSize(6)
			pdf.CellFormat(labelW, 3, label.Corner, "", 0, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pngOptions = gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}

// registerQR encodes content as a QR PNG and registers it under name
func registerQR(pdf *gofpdf.Fpdf, name, content string) error {
	png, err := qrcode.Encode(content, qrcode.Low, 256)
	if err != nil {
		return fmt.Errorf("failed to encode QR for %q: %w", content, err)
	}
	pdf.RegisterImageOptionsReader(name, pngOptions, bytes.NewReader(png))
	return pdf.Error()
}
