package dispatch

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
	"github.com/fmuoria/interview-organizer/internal/models"
)

// NamePlaceholder is replaced by the recipient's name when personalizing.
const NamePlaceholder = "[NAME]"

// BulkRequest describes one custom message run
type BulkRequest struct {
	Kind        models.RecipientKind `json:"kind"`
	Recipients  []string             `json:"recipients"`
	All         bool                 `json:"all"`
	Subject     string               `json:"subject"`
	Body        string               `json:"body"`
	Personalize bool                 `json:"personalize"`
	MeetingLink string               `json:"meeting_link"`

	// Progress receives per-recipient progress for this run only
	Progress ProgressCallback `json:"-"`
}

// Validate checks the request before any send
func (r BulkRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(models.KindCandidate, models.KindPanelMember)),
		validation.Field(&r.Subject, validation.Required.Error("enter a subject")),
		validation.Field(&r.Body, validation.Required.Error("enter a message body")),
		validation.Field(&r.Recipients, validation.When(!r.All, validation.Required.Error("select at least one recipient"))),
	)
	if err != nil {
		return &apperrors.ValidationError{Msg: "invalid message request", Err: err}
	}
	return nil
}

// Personalize greets name in body: every [NAME] is replaced, or when the
// placeholder is absent a "Dear name," line is prepended.
func Personalize(body, name string) string {
	if strings.Contains(body, NamePlaceholder) {
		return strings.ReplaceAll(body, NamePlaceholder, name)
	}
	return fmt.Sprintf("Dear %s,\n\n%s", name, body)
}

// Recipients resolves the final recipient list of req
func (d *Dispatcher) Recipients(req BulkRequest) []string {
	if req.All {
		return d.roster.Emails(req.Kind)
	}
	return req.Recipients
}

// SendBulk sends the composed message to each recipient in order and tallies
// the results. Individual failures never stop the run.
func (d *Dispatcher) SendBulk(ctx context.Context, req BulkRequest) (models.BulkReport, error) {
	if err := req.Validate(); err != nil {
		return models.BulkReport{}, err
	}
	recipients := d.Recipients(req)
	if len(recipients) == 0 {
		return models.BulkReport{}, apperrors.NewValidationError("recipients", "select at least one recipient")
	}

	body := req.Body
	if req.MeetingLink != "" {
		body = fmt.Sprintf("%s\n\nMeeting Link: %s", body, req.MeetingLink)
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()

	report := models.BulkReport{Outcomes: make([]models.Outcome, 0, len(recipients))}
	d.log.Infof("sending %q to %d %s recipients", req.Subject, len(recipients), req.Kind)

	for i, to := range recipients {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		req.Progress.report(i, len(recipients), fmt.Sprintf("Sending email to %s (%d/%d)", to, i+1, len(recipients)))

		personal := body
		if req.Personalize {
			if name, ok := d.roster.Name(req.Kind, to); ok {
				personal = Personalize(body, name)
			}
		}

		out := d.send(ctx, req.Kind, to, req.Subject, personal, false)
		if out.Sent {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	req.Progress.report(len(recipients), len(recipients), "Completed sending messages.")
	d.log.Infof("bulk send finished: %d sent, %d failed", report.Successful, report.Failed)
	return report, nil
}
