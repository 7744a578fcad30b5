package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/session"
)

// createGroupsTab lists candidates and edits the session's groups
func (a *App) createGroupsTab() fyne.CanvasObject {
	candidates := a.roster.Candidates()

	table := widget.NewTable(
		func() (int, int) {
			return len(candidates) + 1, 5 // +1 for header
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"#", "Name", "Email", "Skills", "Experience"}
				label.SetText(headers[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			c := candidates[id.Row-1]
			label.TextStyle = fyne.TextStyle{}
			switch id.Col {
			case 0:
				label.SetText(fmt.Sprintf("%d", id.Row))
			case 1:
				label.SetText(c.Name)
			case 2:
				label.SetText(c.Email)
			case 3:
				label.SetText(c.Skills)
			case 4:
				label.SetText(c.Experience)
			}
		},
	)
	table.SetColumnWidth(0, 40)
	table.SetColumnWidth(1, 180)
	table.SetColumnWidth(2, 240)
	table.SetColumnWidth(3, 200)
	table.SetColumnWidth(4, 120)

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("New group name")

	var current string
	members := widget.NewCheckGroup(nil, nil)
	membersLabel := widget.NewLabel("No group selected")

	showMembers := func() {
		ids, ok := a.session.Group(current)
		if !ok {
			members.Options = nil
			members.Refresh()
			membersLabel.SetText("No group selected")
			return
		}
		idx := newLabelIndex(a.roster, models.KindCandidate, ids)
		members.Options = idx.labels
		members.Selected = nil
		members.Refresh()
		membersLabel.SetText(fmt.Sprintf("Group %s: %d candidates", current, len(ids)))
	}
	a.onGroupChange = append(a.onGroupChange, showMembers)

	groupSelect := a.newGroupSelect(func(name string) {
		current = name
		showMembers()
	})

	createBtn := widget.NewButton("Create Group", func() {
		name := nameEntry.Text
		if name == "" {
			dialog.ShowError(fmt.Errorf("please enter a group name"), a.mainWindow)
			return
		}
		if !a.session.CreateGroup(name) {
			dialog.ShowError(fmt.Errorf("group %q already exists", name), a.mainWindow)
			return
		}
		nameEntry.SetText("")
		a.refreshGroups()
		groupSelect.SetSelected(name)
	})

	selectionEntry := widget.NewEntry()
	selectionEntry.SetPlaceHolder("e.g. 1-5 or 1,3,5")

	all := a.roster.Emails(models.KindCandidate)
	add := func(ids []string) {
		if current == "" {
			dialog.ShowError(fmt.Errorf("please select a group first"), a.mainWindow)
			return
		}
		n := a.session.AddToGroup(current, ids...)
		a.log.Infof("added %d candidates to %s", n, current)
		a.refreshGroups()
	}

	addSelectionBtn := widget.NewButton("Add Selection", func() {
		ids, err := session.SelectEmails(selectionEntry.Text, all)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid selection: %w", err), a.mainWindow)
			return
		}
		add(ids)
		selectionEntry.SetText("")
	})
	selectAllBtn := widget.NewButton("Select All", func() {
		add(all)
	})

	removeBtn := widget.NewButton("Remove Selected", func() {
		if current == "" || len(members.Selected) == 0 {
			return
		}
		ids, _ := a.session.Group(current)
		idx := newLabelIndex(a.roster, models.KindCandidate, ids)
		a.session.RemoveFromGroup(current, idx.emails(members.Selected)...)
		a.refreshGroups()
	})

	controls := container.NewVBox(
		widget.NewLabel("Create Group"),
		container.NewBorder(nil, nil, nil, createBtn, nameEntry),
		widget.NewSeparator(),
		widget.NewLabel("Manage Group"),
		groupSelect,
		container.NewBorder(nil, nil, nil, container.NewHBox(addSelectionBtn, selectAllBtn), selectionEntry),
		widget.NewSeparator(),
		membersLabel,
		container.NewVScroll(members),
		removeBtn,
	)

	split := container.NewHSplit(
		container.NewBorder(widget.NewLabel("Available Candidates"), nil, nil, nil, table),
		controls,
	)
	split.Offset = 0.6
	return split
}
