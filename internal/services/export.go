package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

const coachSheet = "Coaches"

var coachExportHeaders = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Status",
	"Domain", "Experience (years)", "Languages", "Rating", "Registered At", "Notes",
}

// ExportCoaches renders coaches as an XLSX workbook with one header row.
func ExportCoaches(coaches []models.CoachRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", coachSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range coachExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(coachSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for i, coach := range coaches {
		row := i + 2
		values := []any{
			coach.ID,
			coach.FirstName,
			coach.LastName,
			coach.Email,
			coach.Phone,
			string(coach.Status),
			coach.Domain,
			coach.ExperienceYears,
			strings.Join(coach.Languages, ", "),
			"",
			"",
			"",
		}
		if coach.Rating != nil {
			values[9] = *coach.Rating
		}
		if !coach.RegisteredAt.IsZero() {
			values[10] = coach.RegisteredAt.Format("2006-01-02 15:04")
		}
		if coach.Notes != nil {
			values[11] = *coach.Notes
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(coachSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
