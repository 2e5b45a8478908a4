package export

import (
	"fmt"

	"github.com/xelth-com/eckmobile/internal/services/portal"
	"github.com/xuri/excelize/v2"
)

// StockEntrySheet is the sheet name of the stock movement workbook
const StockEntrySheet = "Stock Entries"

// ContentTypeXLSX is the MIME type of the workbooks produced here
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var stockEntryHeadings = []string{"ID", "Date", "Type", "Source", "Destination", "Status", "Created"}

// StockEntries writes one header row and one row per stock movement
func StockEntries(entries []portal.StockEntrySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StockEntrySheet); err != nil {
		return nil, err
	}

	if err := setRow(f, 1, stringsToCells(stockEntryHeadings)); err != nil {
		return nil, err
	}
	for i, e := range entries {
		row := []interface{}{e.ID, e.Date, e.Type, e.Source, e.Destination, e.Status, e.Created}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(StockEntrySheet, 1, 1, style)
	}
	_ = f.SetColWidth(StockEntrySheet, "A", "G", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(StockEntrySheet, cell, &values)
}

func stringsToCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
