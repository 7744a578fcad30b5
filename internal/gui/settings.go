package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/notify"
)

// createSettingsTab edits and saves the mail settings
func (a *App) createSettingsTab() fyne.CanvasObject {
	current := a.settings.Get()

	emailEntry := widget.NewEntry()
	emailEntry.SetText(current.MailAddress)

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetText(current.MailSecret)

	serverEntry := widget.NewEntry()
	serverEntry.SetText(current.SMTPServer)

	portEntry := widget.NewEntry()
	portEntry.SetText(strconv.Itoa(current.SMTPPort))

	phoneEntry := widget.NewEntry()
	phoneEntry.SetText(current.NotifyPhone)

	templateEntry := widget.NewMultiLineEntry()
	templateEntry.SetText(current.MessageTemplate)
	templateEntry.SetMinRowsVisible(3)

	transportSelect := widget.NewSelect([]string{config.TransportSMTP, config.TransportGmail}, nil)
	transportSelect.SetSelected(current.Transport)

	credsEntry := widget.NewEntry()
	credsEntry.SetText(current.GmailCredentialsPath)
	credsBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				credsEntry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})

	tokenEntry := widget.NewEntry()
	tokenEntry.SetText(current.GmailTokenPath)
	tokenEntry.SetPlaceHolder(notify.DefaultGmailTokenPath)

	form := widget.NewForm(
		widget.NewFormItem("Email Address", emailEntry),
		widget.NewFormItem("App Password", passwordEntry),
		widget.NewFormItem("SMTP Server", serverEntry),
		widget.NewFormItem("SMTP Port", portEntry),
		widget.NewFormItem("Transport", transportSelect),
		widget.NewFormItem("Gmail Credentials", container.NewBorder(nil, nil, nil, credsBtn, credsEntry)),
		widget.NewFormItem("Gmail Token", tokenEntry),
		widget.NewFormItem("Notification Number", phoneEntry),
		widget.NewFormItem("Default Message", templateEntry),
	)

	saveBtn := widget.NewButton("Save Settings", func() {
		port, err := strconv.Atoi(portEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("SMTP port must be a number"), a.mainWindow)
			return
		}
		s := config.Settings{
			MailAddress:          emailEntry.Text,
			MailSecret:           passwordEntry.Text,
			SMTPServer:           serverEntry.Text,
			SMTPPort:             port,
			NotifyPhone:          phoneEntry.Text,
			MessageTemplate:      templateEntry.Text,
			Transport:            transportSelect.Selected,
			GmailCredentialsPath: credsEntry.Text,
			GmailTokenPath:       tokenEntry.Text,
		}
		if err := a.settings.Update(s); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		a.refreshWarning()
		dialog.ShowInformation("Success", "Settings saved successfully!", a.mainWindow)
	})

	help := widget.NewLabel("Gmail over SMTP needs an App Password: enable 2-Step Verification, then create one under Security > App passwords.\n" +
		"The gmail transport uses OAuth instead; run `interview-organizer gmail-auth` once to store a token.")
	help.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(container.NewVBox(form, saveBtn, widget.NewSeparator(), help))
}
