package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/models"
)

// createPanelsTab forms interview panels from the panel roster
func (a *App) createPanelsTab() fyne.CanvasObject {
	idx := newLabelIndex(a.roster, models.KindPanelMember, a.roster.Emails(models.KindPanelMember))

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Panel name")
	picker := widget.NewCheckGroup(idx.labels, nil)

	var panels []string
	list := widget.NewList(
		func() int { return len(panels) },
		func() fyne.CanvasObject { return widget.NewLabel("Template") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			name := panels[i]
			ids, _ := a.session.Panel(name)
			labels := make([]string, 0, len(ids))
			for _, id := range ids {
				labels = append(labels, a.roster.Label(models.KindPanelMember, id))
			}
			o.(*widget.Label).SetText(fmt.Sprintf("%s: %s", name, strings.Join(labels, ", ")))
		},
	)

	createBtn := widget.NewButton("Create Panel", func() {
		name := nameEntry.Text
		picked := idx.emails(picker.Selected)
		if name == "" || len(picked) == 0 {
			dialog.ShowError(fmt.Errorf("please enter a panel name and select members"), a.mainWindow)
			return
		}
		if !a.session.CreatePanel(name, picked) {
			dialog.ShowError(fmt.Errorf("panel %q already exists", name), a.mainWindow)
			return
		}
		nameEntry.SetText("")
		picker.SetSelected(nil)
		panels = a.session.PanelNames()
		list.Refresh()
		a.refreshPanels()
	})

	form := container.NewVBox(
		widget.NewLabel("Create New Panel"),
		nameEntry,
		widget.NewLabel("Select Panel Members"),
		container.NewVScroll(picker),
		createBtn,
	)

	return container.NewHSplit(form, container.NewBorder(widget.NewLabel("Existing Panels"), nil, nil, nil, list))
}
