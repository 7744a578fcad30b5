package dispatch

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/session"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// CandidateSubject is the subject of every candidate notification.
	CandidateSubject = "Interview Schedule Notification"
)

var candidateBody = template.Must(template.New("candidate").Parse(`Dear {{.Name}},

Your interview has been scheduled for {{.Time}}.
Duration: {{.Duration}} minutes
Panel: {{.Panel}}

Meeting Link: {{.Link}}

{{if .Message}}{{.Message}}

{{end}}Please be prepared and join on time.

Best regards,
Interview Team
`))

var panelBody = htmltemplate.Must(htmltemplate.New("panel").Parse(`<html>
<body>
<h2>Interview Schedule - {{.Date}}</h2>
<p>Respected Sir/Madam, <br> You have been assigned to conduct interviews for the following candidates:</p>
<table border="1" style="border-collapse: collapse; width: 100%;">
    <tr style="background-color: #f2f2f2;">
        <th style="padding: 8px;">Time</th>
        <th style="padding: 8px;">Candidate</th>
        <th style="padding: 8px;">Details</th>
    </tr>
{{- range .Rows}}
    <tr>
        <td style="padding: 8px;">{{.Time}}</td>
        <td style="padding: 8px;">{{.Name}}</td>
        <td style="padding: 8px;">{{.Details}}</td>
    </tr>
{{- end}}
</table>
<p>Meeting Link: {{.Link}}</p>
<p>Please be prepared for the interviews.</p>
</body>
</html>
`))

// ScheduleRequest describes one scheduling run
type ScheduleRequest struct {
	Group           string `json:"group"`
	Panel           string `json:"panel"`
	StartDate       string `json:"start_date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	MeetingLink     string `json:"meeting_link"`
	Message         string `json:"message"`
	GenerateLink    bool   `json:"generate_link"`

	// Progress receives per-recipient progress for this run only
	Progress ProgressCallback `json:"-"`
}

// Validate checks the request shape. Duration is not checked.
func (r ScheduleRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Group, validation.Required.Error("select a candidate group")),
		validation.Field(&r.Panel, validation.Required.Error("select an interview panel")),
		validation.Field(&r.StartDate, validation.Required, validation.Date(DateLayout).Error("must be YYYY-MM-DD")),
		validation.Field(&r.StartTime, validation.Required, validation.Date(TimeLayout).Error("must be HH:MM")),
	)
	if err != nil {
		return &apperrors.ValidationError{Msg: "invalid schedule request", Err: err}
	}
	return nil
}

// Start combines the date and time fields in loc
func (r ScheduleRequest) Start(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.StartDate+" "+r.StartTime, loc)
	if err != nil {
		return time.Time{}, &apperrors.ValidationError{Field: "start", Msg: "invalid date or time", Err: err}
	}
	return t, nil
}

// PlanSlots packs one slot per candidate back to back from start.
func PlanSlots(candidates []string, name func(string) string, start time.Time, d time.Duration) []models.ScheduleSlot {
	slots := make([]models.ScheduleSlot, 0, len(candidates))
	current := start
	for _, c := range candidates {
		slots = append(slots, models.ScheduleSlot{
			Candidate: c,
			Name:      name(c),
			Start:     current,
			Duration:  d,
		})
		current = current.Add(d)
	}
	return slots
}

type panelRow struct {
	Time    string
	Name    string
	Details string
}

// Schedule notifies every candidate of the group of their slot, then sends
// the combined itinerary to every panel member. Request problems are
// reported before anything is sent; send failures land in the report.
func (d *Dispatcher) Schedule(ctx context.Context, sess *session.Session, req ScheduleRequest) (models.ScheduleReport, error) {
	if err := req.Validate(); err != nil {
		return models.ScheduleReport{}, err
	}
	candidates, ok := sess.Group(req.Group)
	if !ok {
		return models.ScheduleReport{}, apperrors.NewValidationError("group", fmt.Sprintf("group %q does not exist", req.Group))
	}
	panel, ok := sess.Panel(req.Panel)
	if !ok {
		return models.ScheduleReport{}, apperrors.NewValidationError("panel", fmt.Sprintf("panel %q does not exist", req.Panel))
	}
	start, err := req.Start(d.loc)
	if err != nil {
		return models.ScheduleReport{}, err
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()

	link := req.MeetingLink
	if link == "" && req.GenerateLink {
		link = GenerateMeetLink()
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	slots := PlanSlots(candidates, d.candidateName, start, duration)

	report := models.ScheduleReport{
		Group:       req.Group,
		Panel:       req.Panel,
		MeetingLink: link,
		Slots:       slots,
		Outcomes:    []models.Outcome{},
		Timestamp:   d.now().Format(time.RFC3339),
	}
	if len(slots) == 0 {
		d.log.Infof("group %s is empty, nothing to schedule", req.Group)
		return report, nil
	}

	total := len(slots) + len(panel)
	d.log.Infof("scheduling %d candidates of %s with panel %s from %s", len(slots), req.Group, req.Panel, start.Format(DateLayout+" "+TimeLayout))

	rows := make([]panelRow, 0, len(slots))
	for i, slot := range slots {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var body bytes.Buffer
		if err := candidateBody.Execute(&body, map[string]any{
			"Name":     slot.Name,
			"Time":     slot.Start.Format(DateLayout + " " + TimeLayout),
			"Duration": req.DurationMinutes,
			"Panel":    req.Panel,
			"Link":     link,
			"Message":  req.Message,
		}); err != nil {
			return report, fmt.Errorf("failed to render candidate message: %w", err)
		}

		req.Progress.report(i, total, fmt.Sprintf("Notifying %s (%d/%d)", slot.Candidate, i+1, len(slots)))
		report.Outcomes = append(report.Outcomes, d.send(ctx, models.KindCandidate, slot.Candidate, CandidateSubject, body.String(), false))
		rows = append(rows, d.itineraryRow(slot))
	}

	var html bytes.Buffer
	date := start.Format("January 02, 2006")
	if err := panelBody.Execute(&html, map[string]any{
		"Date": date,
		"Rows": rows,
		"Link": link,
	}); err != nil {
		return report, fmt.Errorf("failed to render panel itinerary: %w", err)
	}
	subject := "Interview Schedule - " + date

	for i, member := range panel {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		req.Progress.report(len(slots)+i, total, fmt.Sprintf("Sending itinerary to %s", member))
		report.Outcomes = append(report.Outcomes, d.send(ctx, models.KindPanelMember, member, subject, html.String(), true))
	}

	req.Progress.report(total, total, "Scheduling complete!")
	d.log.Infof("schedule for %s finished: %d notifications, %d failed", req.Group, len(report.Outcomes), report.Failed())
	return report, nil
}

func (d *Dispatcher) candidateName(email string) string {
	if c, ok := d.roster.Candidate(email); ok && c.Name != "" {
		return c.Name
	}
	return "Candidate"
}

func (d *Dispatcher) itineraryRow(slot models.ScheduleSlot) panelRow {
	name := slot.Candidate
	details := ""
	if c, ok := d.roster.Candidate(slot.Candidate); ok {
		if c.Name != "" {
			name = c.Name
		}
		details = c.Experience + " - " + c.Skills
	}
	return panelRow{
		Time:    slot.Start.Format(TimeLayout),
		Name:    name,
		Details: details,
	}
}
