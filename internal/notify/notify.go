// Package notify sends single email notifications over SMTP or the Gmail API.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/logger"
)

// Kind classifies a failed send
type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindAuthFailed    Kind = "auth_failed"
	KindTransport     Kind = "transport"
)

// AuthRemediation is shown when the mail server rejects the credentials.
const AuthRemediation = `Mail authentication failed. Please follow these steps:
1. Enable 2-Step Verification in your Google Account
2. Generate an App Password:
   - Go to Google Account Settings
   - Security → App Passwords
   - Select 'Mail' and 'Other'
   - Copy the generated 16-character password
3. Use this App Password in the mail settings

For detailed instructions, visit: https://support.google.com/accounts/answer/185833`

// Error is returned for every failed send
type Error struct {
	Kind      Kind
	Recipient string
	Hint      string
	Err       error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	switch e.Kind {
	case KindNotConfigured:
		msg = "mail settings are not configured"
	case KindAuthFailed:
		msg = "mail authentication failed"
	case KindTransport:
		msg = "error sending email"
	}
	if e.Recipient != "" {
		msg = fmt.Sprintf("%s (to %s)", msg, e.Recipient)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Recipient == "" && t.Kind == e.Kind
}

var (
	ErrNotConfigured = &Error{Kind: KindNotConfigured}
	ErrAuthFailed    = &Error{Kind: KindAuthFailed}
	ErrTransport     = &Error{Kind: KindTransport}
)

// KindOf returns the kind of a notify error, or "" for anything else.
func KindOf(err error) Kind {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return ""
}

// Confirmation describes a delivered message
type Confirmation struct {
	Recipient string
	Subject   string
	Transport string
	SentAt    time.Time
}

// Transport delivers one composed message. Each call is independent.
type Transport interface {
	Deliver(ctx context.Context, settings config.Settings, msg *mail.Msg) error
}

// SettingsSource returns the current settings; it is consulted on every send
// so saved changes apply immediately.
type SettingsSource func() config.Settings

// Notifier composes and sends one email per call
type Notifier struct {
	settings   SettingsSource
	transports map[string]Transport
	log        logger.Logger
	now        func() time.Time
}

// Option configures a Notifier
type Option func(*Notifier)

// WithTransport registers or replaces the transport used for name
func WithTransport(name string, t Transport) Option {
	return func(n *Notifier) { n.transports[name] = t }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(n *Notifier) { n.log = l }
}

// New creates a notifier with the SMTP and Gmail transports
func New(settings SettingsSource, opts ...Option) *Notifier {
	n := &Notifier{
		settings: settings,
		transports: map[string]Transport{
			config.TransportSMTP:  SMTPTransport{},
			config.TransportGmail: GmailTransport{},
		},
		log: logger.NopLogger{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Configured reports whether sending can be attempted with current settings
func (n *Notifier) Configured() bool {
	return n.settings().MailConfigured()
}

// SendEmail sends one message to one address. Without credentials it fails
// with KindNotConfigured and makes no connection.
func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string, isHTML bool) (Confirmation, error) {
	settings := n.settings()
	if !settings.MailConfigured() {
		return Confirmation{}, &Error{Kind: KindNotConfigured, Recipient: to, Hint: "Please configure your mail settings first."}
	}

	name := settings.Transport
	if name == "" {
		name = config.TransportSMTP
	}
	transport, ok := n.transports[name]
	if !ok {
		return Confirmation{}, &Error{Kind: KindNotConfigured, Recipient: to, Err: fmt.Errorf("unknown transport %q", name)}
	}

	msg, err := compose(settings.MailAddress, to, subject, body, isHTML)
	if err != nil {
		return Confirmation{}, &Error{Kind: KindTransport, Recipient: to, Err: err}
	}

	if err := transport.Deliver(ctx, settings, msg); err != nil {
		n.log.Warnf("send to %s via %s failed: %v", to, name, err)
		var ne *Error
		if errors.As(err, &ne) {
			// transports may return shared values such as the sentinels
			cp := *ne
			cp.Recipient = to
			return Confirmation{}, &cp
		}
		return Confirmation{}, &Error{Kind: KindTransport, Recipient: to, Err: err}
	}

	n.log.Debugf("sent %q to %s via %s", subject, to, name)
	return Confirmation{Recipient: to, Subject: subject, Transport: name, SentAt: n.now()}, nil
}

// compose builds the message shared by every transport
func compose(from, to, subject, body string, isHTML bool) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	if isHTML {
		msg.SetBodyString(mail.TypeTextHTML, body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, body)
	}
	return msg, nil
}
