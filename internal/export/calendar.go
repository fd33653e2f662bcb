// Package export writes a user's calendar month to a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/models"
	"github.com/xuri/excelize/v2"
)

var header = []interface{}{"Date", "Weekday", "Status", "Note"}

// WriteMonth writes one row per day of the month starting at monthStart.
// Days without an entry are listed as NONE.
func WriteMonth(w io.Writer, owner *models.User, monthStart, nextMonthStart string, entries []models.DayEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := owner.Username
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	byDate := make(map[string]models.DayEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, day := range calendar.DaysInRange(monthStart, nextMonthStart) {
		t, _ := time.Parse(calendar.KeyLayout, day)
		status := string(models.AvailabilityNone)
		note := ""
		if e, ok := byDate[day]; ok {
			status = string(e.AvailabilityStatus)
			if e.PersonalNote != nil {
				note = *e.PersonalNote
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{day, t.Weekday().String(), status, note}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s: %w", day, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "C", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "D", 48); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
