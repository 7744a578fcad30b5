package notify

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/fmuoria/interview-organizer/internal/config"
)

// SMTPTransport opens a STARTTLS session per message, logs in, sends and
// closes. Connections are never reused.
type SMTPTransport struct{}

// Deliver implements Transport
func (SMTPTransport) Deliver(ctx context.Context, s config.Settings, msg *mail.Msg) error {
	port := s.SMTPPort
	if port == 0 {
		port = config.DefaultSMTPPort
	}
	client, err := mail.NewClient(s.SMTPServer,
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.MailAddress),
		mail.WithPassword(s.MailSecret),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		if isAuthError(err) {
			return &Error{Kind: KindAuthFailed, Hint: AuthRemediation, Err: err}
		}
		return err
	}
	return nil
}

// isAuthError recognises credential rejection (535/534) from the server.
func isAuthError(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && (tpErr.Code == 535 || tpErr.Code == 534) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "smtp auth failed") ||
		strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "username and password not accepted")
}
