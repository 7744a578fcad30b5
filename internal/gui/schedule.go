package gui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/dispatch"
	"github.com/fmuoria/interview-organizer/internal/export"
	"github.com/fmuoria/interview-organizer/internal/models"
)

// createScheduleTab schedules a group with a panel and sends notifications
func (a *App) createScheduleTab() fyne.CanvasObject {
	groupSelect := a.newGroupSelect(nil)
	panelSelect := a.newPanelSelect(nil)

	dateEntry := widget.NewEntry()
	dateEntry.SetText(time.Now().Format(dispatch.DateLayout))
	timeEntry := widget.NewEntry()
	timeEntry.SetText("09:00")
	durationEntry := widget.NewEntry()
	durationEntry.SetText("30")

	linkEntry := widget.NewEntry()
	linkEntry.SetPlaceHolder("https://meet.google.com/...")
	generateBtn := widget.NewButton("Generate Meeting Link", func() {
		linkEntry.SetText(dispatch.GenerateMeetLink())
	})

	messageEntry := widget.NewMultiLineEntry()
	messageEntry.SetPlaceHolder("Additional message for candidates")
	messageEntry.SetMinRowsVisible(3)

	progressBar := widget.NewProgressBar()
	progressLabel := widget.NewLabel("Ready")

	var (
		report     models.ScheduleReport
		cancelFunc context.CancelFunc
	)
	outcomes := widget.NewList(
		func() int { return len(report.Outcomes) },
		func() fyne.CanvasObject { return widget.NewLabel("Template") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			out := report.Outcomes[i]
			status := "✓"
			if !out.Sent {
				status = "✗"
			}
			o.(*widget.Label).SetText(fmt.Sprintf("%s %s (%s): %s", status, out.Recipient, out.Role, out.Message))
		},
	)

	exportBtn := widget.NewButton("Export to Excel", func() {
		a.exportFile(fmt.Sprintf("Interview_Schedule_%s.xlsx", time.Now().Format("2006-01-02_150405")), func(path string) error {
			return export.ScheduleToExcel(report, path)
		})
	})
	exportBtn.Disable()

	cancelBtn := widget.NewButton("Cancel", func() {
		if cancelFunc != nil {
			cancelFunc()
			progressLabel.SetText("Canceling...")
		}
	})
	cancelBtn.Disable()

	scheduleBtn := widget.NewButton("Schedule Interviews", func() {
		minutes, err := strconv.Atoi(durationEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("duration must be a whole number of minutes"), a.mainWindow)
			return
		}
		req := dispatch.ScheduleRequest{
			Group:           groupSelect.Selected,
			Panel:           panelSelect.Selected,
			StartDate:       dateEntry.Text,
			StartTime:       timeEntry.Text,
			DurationMinutes: minutes,
			MeetingLink:     linkEntry.Text,
			Message:         messageEntry.Text,
		}
		if err := req.Validate(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if !a.beginRun() {
			return
		}

		cancelBtn.Enable()
		exportBtn.Disable()
		progressBar.SetValue(0)

		var ctx context.Context
		ctx, cancelFunc = context.WithCancel(context.Background())

		req.Progress = func(current, total int, message string) {
			fyne.Do(func() {
				progressBar.SetValue(float64(current) / float64(total))
				progressLabel.SetText(message)
			})
		}

		go func() {
			result, err := a.dispatcher.Schedule(ctx, a.session, req)

			fyne.Do(func() {
				a.endRun()
				cancelBtn.Disable()
				report = result
				outcomes.Refresh()

				if err != nil {
					if errors.Is(err, context.Canceled) {
						progressLabel.SetText("Scheduling canceled")
					} else {
						progressLabel.SetText("Error: " + err.Error())
						dialog.ShowError(err, a.mainWindow)
					}
					return
				}

				exportBtn.Enable()
				if len(result.Slots) == 0 {
					progressLabel.SetText("The selected group has no candidates")
					return
				}
				progressBar.SetValue(1)
				progressLabel.SetText(fmt.Sprintf("Complete! %s", summarize(result.Outcomes)))
				fyne.CurrentApp().SendNotification(&fyne.Notification{
					Title:   "Scheduling Complete",
					Content: fmt.Sprintf("Scheduled %d candidates", len(result.Slots)),
				})
			})
		}()
	})

	a.addRunButton(scheduleBtn)

	form := widget.NewForm(
		widget.NewFormItem("Candidate Group", groupSelect),
		widget.NewFormItem("Interview Panel", panelSelect),
		widget.NewFormItem("Start Date (YYYY-MM-DD)", dateEntry),
		widget.NewFormItem("Start Time (HH:MM)", timeEntry),
		widget.NewFormItem("Duration (minutes)", durationEntry),
		widget.NewFormItem("Meeting Link", container.NewBorder(nil, nil, nil, generateBtn, linkEntry)),
		widget.NewFormItem("Message", messageEntry),
	)

	top := container.NewVBox(
		form,
		container.NewHBox(scheduleBtn, cancelBtn, exportBtn),
		progressLabel,
		progressBar,
		widget.NewSeparator(),
		widget.NewLabel("Results"),
	)
	return container.NewBorder(top, nil, nil, nil, outcomes)
}

// exportFile asks for a destination and writes the report there
func (a *App) exportFile(defaultName string, write func(path string) error) {
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		outputPath := uc.URI().Path()
		uc.Close()

		if err := write(outputPath); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Report exported successfully to "+filepath.Base(outputPath), a.mainWindow)
	}, a.mainWindow)
	save.SetFileName(defaultName)
	save.Show()
}
