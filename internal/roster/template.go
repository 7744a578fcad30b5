package roster

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/interview-organizer/internal/models"
)

// WriteWorkbook writes header and rows into the first sheet of a new workbook.
func WriteWorkbook(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTemplate writes an empty roster workbook with the expected header.
func WriteTemplate(kind models.RecipientKind, path string) error {
	switch kind {
	case models.KindCandidate:
		return WriteWorkbook(path, candidateColumns, nil)
	case models.KindPanelMember:
		return WriteWorkbook(path, panelColumns, nil)
	default:
		return fmt.Errorf("unknown roster kind %q", kind)
	}
}
