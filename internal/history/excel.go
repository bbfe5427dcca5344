package history

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"ID", "Chat", "Event", "Restaurant", "At"}

// ExportXLSX writes the whole journal as a spreadsheet, one event per row.
func (db *DB) ExportXLSX(ctx context.Context, w io.Writer) error {
	entries, err := db.Entries(ctx, 0)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Suggestions"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	// Bold the header row.
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(sheet, start, end, style)
	}

	for row, e := range entries {
		values := []any{e.ID, e.ChatID, e.Event, e.Restaurant, e.CreatedAt.Format("2006-01-02 15:04:05")}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
