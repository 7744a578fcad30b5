package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/dispatch"
	"github.com/fmuoria/interview-organizer/internal/logger"
	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/roster"
	"github.com/fmuoria/interview-organizer/internal/session"
)

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window

	roster     *roster.Roster
	dispatcher *dispatch.Dispatcher
	settings   *config.LiveSettings
	session    *session.Session
	log        logger.Logger

	// UI Components
	warningLabel  *widget.Label
	groupSelects  []*widget.Select
	panelSelects  []*widget.Select
	onGroupChange []func()

	// busy is set while a schedule or message run is sending; touched only
	// on the UI goroutine
	busy       bool
	runButtons []*widget.Button
}

// NewApp creates a new GUI application over a loaded roster
func NewApp(r *roster.Roster, d *dispatch.Dispatcher, settings *config.LiveSettings, log logger.Logger) *App {
	a := app.New()
	w := a.NewWindow("Interview Organizer")
	w.Resize(fyne.NewSize(1100, 750))

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
		roster:     r,
		dispatcher: d,
		settings:   settings,
		session:    session.New("desktop"),
		log:        log,
	}

	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	a.warningLabel = widget.NewLabel("Please configure your mail settings first.")
	a.warningLabel.Importance = widget.WarningImportance
	a.refreshWarning()

	tabs := container.NewAppTabs(
		container.NewTabItem("Candidate Groups", a.createGroupsTab()),
		container.NewTabItem("Panel Management", a.createPanelsTab()),
		container.NewTabItem("Schedule Interviews", a.createScheduleTab()),
		container.NewTabItem("Send Custom Message", a.createMessageTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(container.NewBorder(a.warningLabel, nil, nil, nil, tabs))
}

// refreshWarning shows the warning while mail cannot be sent
func (a *App) refreshWarning() {
	if a.settings.Get().MailConfigured() {
		a.warningLabel.Hide()
	} else {
		a.warningLabel.Show()
	}
}

// addRunButton registers a button that starts a sending run
func (a *App) addRunButton(b *widget.Button) {
	a.runButtons = append(a.runButtons, b)
}

// beginRun claims the single sending slot and disables every run button.
// It returns false when another run is still going.
func (a *App) beginRun() bool {
	if a.busy {
		dialog.ShowInformation("Busy", "Another run is still sending. Please wait for it to finish.", a.mainWindow)
		return false
	}
	a.busy = true
	for _, b := range a.runButtons {
		b.Disable()
	}
	return true
}

// endRun releases the sending slot; call it on the UI goroutine
func (a *App) endRun() {
	a.busy = false
	for _, b := range a.runButtons {
		b.Enable()
	}
}

// newGroupSelect returns a selector kept in sync with the session's groups
func (a *App) newGroupSelect(changed func(string)) *widget.Select {
	s := widget.NewSelect(a.session.GroupNames(), changed)
	s.PlaceHolder = "Select a group"
	a.groupSelects = append(a.groupSelects, s)
	return s
}

// newPanelSelect returns a selector kept in sync with the session's panels
func (a *App) newPanelSelect(changed func(string)) *widget.Select {
	s := widget.NewSelect(a.session.PanelNames(), changed)
	s.PlaceHolder = "Select a panel"
	a.panelSelects = append(a.panelSelects, s)
	return s
}

func (a *App) refreshGroups() {
	names := a.session.GroupNames()
	for _, s := range a.groupSelects {
		s.Options = names
		s.Refresh()
	}
	for _, fn := range a.onGroupChange {
		fn()
	}
}

func (a *App) refreshPanels() {
	names := a.session.PanelNames()
	for _, s := range a.panelSelects {
		s.Options = names
		s.Refresh()
	}
}

// labelIndex maps "Name (email)" labels to emails for the given kind
type labelIndex struct {
	labels  []string
	byLabel map[string]string
}

func newLabelIndex(r *roster.Roster, kind models.RecipientKind, emails []string) labelIndex {
	idx := labelIndex{byLabel: make(map[string]string, len(emails))}
	for _, e := range emails {
		l := r.Label(kind, e)
		idx.labels = append(idx.labels, l)
		idx.byLabel[l] = e
	}
	return idx
}

func (idx labelIndex) emails(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if e, ok := idx.byLabel[l]; ok {
			out = append(out, e)
		}
	}
	return out
}

func summarize(outcomes []models.Outcome) string {
	failed := 0
	for _, o := range outcomes {
		if !o.Sent {
			failed++
		}
	}
	return fmt.Sprintf("%d sent, %d failed", len(outcomes)-failed, failed)
}
