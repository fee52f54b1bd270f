// Package export renders student snapshots as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/registrar/internal/app/models"
)

const (
	// Filename is suggested to clients downloading the export
	Filename    = "enrollments.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName   = "Students"
	headerColor = "#3498DB"
)

// Columns of the export, in order
var Columns = []string{"Matricule", "First name", "Last name", "Birth date", "Sex", "Grade level", "Guardian", "Phone", "Services"}

var columnWidths = []float64{12, 20, 20, 12, 6, 12, 28, 18, 36}

// WriteStudents writes one row per student to w as an xlsx workbook
func WriteStudents(w io.Writer, students []models.StudentSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}
	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, studentRow(&students[i])); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func studentRow(s *models.StudentSummary) []interface{} {
	birth := ""
	if s.BirthDate != nil {
		birth = s.BirthDate.Format("2006-01-02")
	}
	services := ""
	for i, st := range s.Services {
		if i > 0 {
			services += ", "
		}
		services += string(st)
	}
	return []interface{}{
		s.Matricule,
		s.FirstName,
		s.LastName,
		birth,
		string(s.Sex),
		s.GradeLevel,
		s.GuardianName,
		s.GuardianPhone,
		services,
	}
}
