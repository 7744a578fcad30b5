// Package roster loads the candidate and panel member spreadsheets.
package roster

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
	"github.com/fmuoria/interview-organizer/internal/models"
)

var (
	candidateColumns = []string{"Email", "Name", "Skills", "Experience"}
	panelColumns     = []string{"Email", "Name", "Expertise"}
)

// Roster is the read-only source of candidates and panel members
type Roster struct {
	candidates []models.Candidate
	panel      []models.PanelMember
	byCand     map[string]int
	byPanel    map[string]int
}

// Load reads both roster workbooks. Any problem is a DataLoadError.
func Load(candidatesPath, panelPath string) (*Roster, error) {
	candRows, err := readSheet(candidatesPath, candidateColumns)
	if err != nil {
		return nil, err
	}
	panelRows, err := readSheet(panelPath, panelColumns)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(candRows))
	for _, r := range candRows {
		candidates = append(candidates, models.Candidate{
			Email:      r["Email"],
			Name:       r["Name"],
			Skills:     r["Skills"],
			Experience: r["Experience"],
		})
	}
	panel := make([]models.PanelMember, 0, len(panelRows))
	for _, r := range panelRows {
		panel = append(panel, models.PanelMember{
			Email:     r["Email"],
			Name:      r["Name"],
			Expertise: r["Expertise"],
		})
	}

	ro, err := New(candidates, panel)
	if err != nil {
		return nil, apperrors.NewDataLoadError(candidatesPath+", "+panelPath, "invalid roster", err)
	}
	return ro, nil
}

// New builds a roster from already parsed entries. Emails must be unique
// within each list.
func New(candidates []models.Candidate, panel []models.PanelMember) (*Roster, error) {
	r := &Roster{
		candidates: candidates,
		panel:      panel,
		byCand:     make(map[string]int, len(candidates)),
		byPanel:    make(map[string]int, len(panel)),
	}
	for i, c := range candidates {
		if _, dup := r.byCand[c.Email]; dup {
			return nil, fmt.Errorf("duplicate candidate email %s", c.Email)
		}
		r.byCand[c.Email] = i
	}
	for i, p := range panel {
		if _, dup := r.byPanel[p.Email]; dup {
			return nil, fmt.Errorf("duplicate panel member email %s", p.Email)
		}
		r.byPanel[p.Email] = i
	}
	return r, nil
}

// readSheet returns the data rows of the first sheet keyed by the required
// column names. Rows with a blank Email are skipped.
func readSheet(path string, required []string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewDataLoadError(path, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "read rows", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDataLoadError(path, "sheet is empty", nil)
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("missing column %q", name), nil)
		}
		cols[name] = i
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(cols))
		for name, i := range cols {
			if i < len(row) {
				rec[name] = strings.TrimSpace(row[i])
			}
		}
		if rec["Email"] == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Candidates returns the candidates in file order
func (r *Roster) Candidates() []models.Candidate {
	out := make([]models.Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// PanelMembers returns the panel members in file order
func (r *Roster) PanelMembers() []models.PanelMember {
	out := make([]models.PanelMember, len(r.panel))
	copy(out, r.panel)
	return out
}

// Candidate looks up a candidate by email
func (r *Roster) Candidate(email string) (models.Candidate, bool) {
	i, ok := r.byCand[email]
	if !ok {
		return models.Candidate{}, false
	}
	return r.candidates[i], true
}

// PanelMember looks up a panel member by email
func (r *Roster) PanelMember(email string) (models.PanelMember, bool) {
	i, ok := r.byPanel[email]
	if !ok {
		return models.PanelMember{}, false
	}
	return r.panel[i], true
}

// Name resolves the display name of a recipient. It reports false when the
// email is unknown or its Name cell is blank.
func (r *Roster) Name(kind models.RecipientKind, email string) (string, bool) {
	var name string
	switch kind {
	case models.KindCandidate:
		c, ok := r.Candidate(email)
		if !ok {
			return "", false
		}
		name = c.Name
	case models.KindPanelMember:
		p, ok := r.PanelMember(email)
		if !ok {
			return "", false
		}
		name = p.Name
	default:
		return "", false
	}
	return name, name != ""
}

// Emails lists every email of the given kind in file order
func (r *Roster) Emails(kind models.RecipientKind) []string {
	var out []string
	switch kind {
	case models.KindCandidate:
		out = make([]string, 0, len(r.candidates))
		for _, c := range r.candidates {
			out = append(out, c.Email)
		}
	case models.KindPanelMember:
		out = make([]string, 0, len(r.panel))
		for _, p := range r.panel {
			out = append(out, p.Email)
		}
	}
	return out
}

// Label formats "Name (email)" for pickers, "Unknown" when no name resolves.
func (r *Roster) Label(kind models.RecipientKind, email string) string {
	name, ok := r.Name(kind, email)
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("%s (%s)", name, email)
}
