package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/dispatch"
	"github.com/fmuoria/interview-organizer/internal/export"
	"github.com/fmuoria/interview-organizer/internal/models"
)

const (
	candidatesOption = "Candidates"
	panelOption      = "Panel Members"
)

// createMessageTab sends a free-form message to chosen roster recipients
func (a *App) createMessageTab() fyne.CanvasObject {
	kind := models.KindCandidate
	idx := newLabelIndex(a.roster, kind, a.roster.Emails(kind))

	recipients := widget.NewCheckGroup(idx.labels, nil)
	allCheck := widget.NewCheck("Select All", func(on bool) {
		if on {
			recipients.Disable()
		} else {
			recipients.Enable()
		}
	})

	kindRadio := widget.NewRadioGroup([]string{candidatesOption, panelOption}, func(choice string) {
		kind = models.KindCandidate
		if choice == panelOption {
			kind = models.KindPanelMember
		}
		idx = newLabelIndex(a.roster, kind, a.roster.Emails(kind))
		recipients.Options = idx.labels
		recipients.Selected = nil
		recipients.Refresh()
	})
	kindRadio.Horizontal = true
	kindRadio.SetSelected(candidatesOption)

	subjectEntry := widget.NewEntry()
	subjectEntry.SetPlaceHolder("Subject")

	bodyEntry := widget.NewMultiLineEntry()
	bodyEntry.SetPlaceHolder("Message. Use " + dispatch.NamePlaceholder + " to insert the recipient's name.")
	bodyEntry.SetMinRowsVisible(6)

	personalizeCheck := widget.NewCheck("Personalize with recipient names", nil)
	personalizeCheck.SetChecked(true)

	linkEntry := widget.NewEntry()
	linkEntry.SetPlaceHolder("Optional meeting link")

	progressBar := widget.NewProgressBar()
	progressLabel := widget.NewLabel("Ready")

	var (
		report  models.BulkReport
		subject string
	)
	exportBtn := widget.NewButton("Export to Excel", func() {
		a.exportFile(fmt.Sprintf("Custom_Message_%s.xlsx", time.Now().Format("2006-01-02_150405")), func(path string) error {
			return export.BulkToExcel(report, subject, path)
		})
	})
	exportBtn.Disable()

	sendBtn := widget.NewButton("Send Message", func() {
		req := dispatch.BulkRequest{
			Kind:        kind,
			Recipients:  idx.emails(recipients.Selected),
			All:         allCheck.Checked,
			Subject:     subjectEntry.Text,
			Body:        bodyEntry.Text,
			Personalize: personalizeCheck.Checked,
			MeetingLink: linkEntry.Text,
		}
		if err := req.Validate(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if !a.beginRun() {
			return
		}

		exportBtn.Disable()
		progressBar.SetValue(0)

		req.Progress = func(current, total int, message string) {
			fyne.Do(func() {
				progressBar.SetValue(float64(current) / float64(total))
				progressLabel.SetText(message)
			})
		}

		go func() {
			result, err := a.dispatcher.SendBulk(context.Background(), req)

			fyne.Do(func() {
				a.endRun()
				if err != nil {
					progressLabel.SetText("Error: " + err.Error())
					dialog.ShowError(err, a.mainWindow)
					return
				}
				report, subject = result, req.Subject
				exportBtn.Enable()
				progressLabel.SetText(fmt.Sprintf("Successfully sent: %d, Failed: %d", result.Successful, result.Failed))
			})
		}()
	})

	a.addRunButton(sendBtn)

	form := container.NewVBox(
		widget.NewLabel("Recipient Type"),
		kindRadio,
		allCheck,
		container.NewGridWrap(fyne.NewSize(500, 180), container.NewVScroll(recipients)),
		widget.NewForm(
			widget.NewFormItem("Subject", subjectEntry),
			widget.NewFormItem("Message", bodyEntry),
			widget.NewFormItem("Meeting Link", linkEntry),
		),
		personalizeCheck,
		container.NewHBox(sendBtn, exportBtn),
		progressLabel,
		progressBar,
	)
	return container.NewVScroll(form)
}
