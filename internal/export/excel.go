package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/interview-organizer/internal/models"
)

const (
	summarySheet    = "Summary"
	scheduleSheet   = "Schedule"
	deliveriesSheet = "Deliveries"
)

// ScheduleToExcel writes a scheduling run to an Excel workbook
func ScheduleToExcel(report models.ScheduleReport, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(scheduleSheet)
	f.NewSheet(deliveriesSheet)

	if err := createScheduleSummary(f, report); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createScheduleSheet(f, report.Slots); err != nil {
		return fmt.Errorf("failed to create schedule sheet: %w", err)
	}
	if err := createDeliveriesSheet(f, report.Outcomes); err != nil {
		return fmt.Errorf("failed to create deliveries sheet: %w", err)
	}

	return save(f, outputPath)
}

// BulkToExcel writes a custom message run to an Excel workbook
func BulkToExcel(report models.BulkReport, subject, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(deliveriesSheet)

	headerStyle, labelStyle, err := summaryStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 50)

	f.SetCellValue(summarySheet, "A1", "Custom Message Report")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	f.MergeCell(summarySheet, "A1", "B1")

	writeLabels(f, labelStyle, 3, [][2]any{
		{"Subject:", subject},
		{"Recipients:", len(report.Outcomes)},
		{"Successful:", report.Successful},
		{"Failed:", report.Failed},
	})

	if err := createDeliveriesSheet(f, report.Outcomes); err != nil {
		return fmt.Errorf("failed to create deliveries sheet: %w", err)
	}

	return save(f, outputPath)
}

// save writes f to outputPath, adding the .xlsx extension if missing
func save(f *excelize.File, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SaveAs(outputPath); err != nil {
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}
	return nil
}

func summaryStyles(f *excelize.File) (header, label int, err error) {
	header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return 0, 0, err
	}
	label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	return header, label, err
}

// writeLabels writes label/value pairs down columns A and B from row
func writeLabels(f *excelize.File, labelStyle, row int, pairs [][2]any) int {
	for _, p := range pairs {
		a := fmt.Sprintf("A%d", row)
		f.SetCellValue(summarySheet, a, p[0])
		f.SetCellStyle(summarySheet, a, a, labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), p[1])
		row++
	}
	return row
}

func createScheduleSummary(f *excelize.File, report models.ScheduleReport) error {
	headerStyle, labelStyle, err := summaryStyles(f)
	if err != nil {
		return err
	}
	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 50)

	f.SetCellValue(summarySheet, "A1", "Interview Schedule Report")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	f.MergeCell(summarySheet, "A1", "B1")

	first, last := "", ""
	if n := len(report.Slots); n > 0 {
		first = report.Slots[0].Start.Format("2006-01-02 15:04")
		last = report.Slots[n-1].End().Format("2006-01-02 15:04")
	}

	writeLabels(f, labelStyle, 3, [][2]any{
		{"Group:", report.Group},
		{"Panel:", report.Panel},
		{"Meeting Link:", report.MeetingLink},
		{"Generated:", report.Timestamp},
		{"Candidates:", len(report.Slots)},
		{"First Slot:", first},
		{"Last Slot Ends:", last},
		{"Notifications Sent:", len(report.Outcomes) - report.Failed()},
		{"Notifications Failed:", report.Failed()},
	})
	return nil
}

func tableHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders(),
	})
}

func borders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) {
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func freezeTopRow(f *excelize.File, sheet string) {
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func createScheduleSheet(f *excelize.File, slots []models.ScheduleSlot) error {
	f.SetColWidth(scheduleSheet, "A", "A", 8)
	f.SetColWidth(scheduleSheet, "B", "C", 30)
	f.SetColWidth(scheduleSheet, "D", "E", 18)
	f.SetColWidth(scheduleSheet, "F", "F", 12)

	headerStyle, err := tableHeaderStyle(f)
	if err != nil {
		return err
	}
	writeHeaders(f, scheduleSheet, headerStyle, []string{"#", "Candidate", "Email", "Start", "End", "Minutes"})

	for i, s := range slots {
		row := i + 2
		f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(scheduleSheet, fmt.Sprintf("B%d", row), s.Name)
		f.SetCellValue(scheduleSheet, fmt.Sprintf("C%d", row), s.Candidate)
		f.SetCellValue(scheduleSheet, fmt.Sprintf("D%d", row), s.Start.Format("2006-01-02 15:04"))
		f.SetCellValue(scheduleSheet, fmt.Sprintf("E%d", row), s.End().Format("2006-01-02 15:04"))
		f.SetCellValue(scheduleSheet, fmt.Sprintf("F%d", row), int(s.Duration.Minutes()))
	}

	freezeTopRow(f, scheduleSheet)
	return nil
}

func createDeliveriesSheet(f *excelize.File, outcomes []models.Outcome) error {
	f.SetColWidth(deliveriesSheet, "A", "A", 30)
	f.SetColWidth(deliveriesSheet, "B", "C", 12)
	f.SetColWidth(deliveriesSheet, "D", "D", 16)
	f.SetColWidth(deliveriesSheet, "E", "E", 60)

	headerStyle, err := tableHeaderStyle(f)
	if err != nil {
		return err
	}
	sentStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: borders(),
	})
	failedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    borders(),
	})

	writeHeaders(f, deliveriesSheet, headerStyle, []string{"Recipient", "Role", "Status", "Error", "Message"})

	for i, o := range outcomes {
		row := i + 2
		status, style := "Sent", sentStyle
		if !o.Sent {
			status, style = "Failed", failedStyle
		}
		f.SetCellValue(deliveriesSheet, fmt.Sprintf("A%d", row), o.Recipient)
		f.SetCellValue(deliveriesSheet, fmt.Sprintf("B%d", row), string(o.Role))
		f.SetCellValue(deliveriesSheet, fmt.Sprintf("C%d", row), status)
		f.SetCellValue(deliveriesSheet, fmt.Sprintf("D%d", row), o.ErrorKind)
		f.SetCellValue(deliveriesSheet, fmt.Sprintf("E%d", row), o.Message)
		f.SetCellStyle(deliveriesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), style)
	}

	if len(outcomes) > 0 {
		f.AutoFilter(deliveriesSheet, fmt.Sprintf("A1:E%d", len(outcomes)+1), []excelize.AutoFilterOptions{})
	}
	freezeTopRow(f, deliveriesSheet)
	return nil
}
