// Package dispatch turns session groups and panels into interview
// notifications and sends free-form messages to roster recipients.
// Sends are sequential and a failed recipient never stops the run.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fmuoria/interview-organizer/internal/logger"
	"github.com/fmuoria/interview-organizer/internal/metrics"
	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/notify"
	"github.com/fmuoria/interview-organizer/internal/roster"
)

// SentMessage is the outcome text of a successful send.
const SentMessage = "Email sent successfully!"

// Mailer sends one email; *notify.Notifier implements it
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string, isHTML bool) (notify.Confirmation, error)
}

// ProgressCallback is called before each recipient is attempted and once
// more, with current == total, when the run finishes
type ProgressCallback func(current, total int, message string)

// report calls the callback if set
func (cb ProgressCallback) report(current, total int, message string) {
	if cb != nil {
		cb(current, total, message)
	}
}

// Dispatcher runs scheduling and bulk message batches. Runs are serialized
// so sends from two batches never interleave.
type Dispatcher struct {
	roster  *roster.Roster
	mailer  Mailer
	log     logger.Logger
	metrics metrics.Recorder
	loc     *time.Location
	now     func() time.Time

	runMu sync.Mutex
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithMetrics sets the notification recorder
func WithMetrics(m metrics.Recorder) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLocation sets the zone schedule dates and times are read in
func WithLocation(loc *time.Location) Option {
	return func(d *Dispatcher) { d.loc = loc }
}

// New creates a dispatcher over a loaded roster
func New(r *roster.Roster, mailer Mailer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		roster:  r,
		mailer:  mailer,
		log:     logger.NopLogger{},
		metrics: metrics.NopRecorder{},
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// send attempts one message and converts the result into an Outcome
func (d *Dispatcher) send(ctx context.Context, role models.RecipientKind, to, subject, body string, isHTML bool) models.Outcome {
	out := models.Outcome{Recipient: to, Role: role}
	_, err := d.mailer.SendEmail(ctx, to, subject, body, isHTML)
	if err != nil {
		out.ErrorKind = string(notify.KindOf(err))
		out.Message = err.Error()
		var ne *notify.Error
		if errors.As(err, &ne) && ne.Hint != "" {
			out.Message += "\n" + ne.Hint
		}
		d.log.Warnf("notification to %s failed: %v", to, err)
	} else {
		out.Sent = true
		out.Message = SentMessage
	}
	d.metrics.RecordNotification(string(role), out.Sent, out.ErrorKind)
	return out
}

// GenerateMeetLink returns a placeholder meeting URL. It is not backed by
// any calendar or video service.
func GenerateMeetLink() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "https://meet.google.com/" + id[:8]
}
