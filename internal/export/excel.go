// Package export renders a user's bookings into an XLSX document sent back
// through the bot.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"venuehub/internal/api"
)

const sheetName = "Bookings"

var columns = []string{"Venue", "Space", "Date", "Start", "End", "Hours", "Price", "Status"}

// Bookings renders the bookings into an in-memory XLSX file.
func Bookings(bookings []api.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheetName, start, end, style)
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.VenueName,
			b.SpaceName,
			b.Date,
			b.StartTime,
			b.EndTime,
			b.DurationHours,
			b.TotalPrice,
			b.Status,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return &buf, nil
}
