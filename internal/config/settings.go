package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
)

const (
	TransportSMTP  = "smtp"
	TransportGmail = "gmail"

	DefaultSMTPServer      = "smtp.gmail.com"
	DefaultSMTPPort        = 587
	DefaultMessageTemplate = "Your interview details have been sent via email."

	maskedSecret = "********"
)

// Settings holds the mail credentials and message defaults edited by the user.
// Keys match the settings.json written by earlier versions of the tool.
type Settings struct {
	MailAddress     string `json:"gmail_email"`
	MailSecret      string `json:"gmail_password"`
	SMTPServer      string `json:"smtp_server"`
	SMTPPort        int    `json:"smtp_port"`
	NotifyPhone     string `json:"whatsapp_number"`
	MessageTemplate string `json:"whatsapp_message"`

	Transport            string `json:"transport,omitempty"`
	GmailCredentialsPath string `json:"gmail_credentials_path,omitempty"`
	GmailTokenPath       string `json:"gmail_token_path,omitempty"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() Settings {
	return Settings{
		SMTPServer:      DefaultSMTPServer,
		SMTPPort:        DefaultSMTPPort,
		MessageTemplate: DefaultMessageTemplate,
		Transport:       TransportSMTP,
	}
}

// MailConfigured reports whether enough is set to attempt sending
func (s Settings) MailConfigured() bool {
	if s.MailAddress == "" {
		return false
	}
	if s.Transport == TransportGmail {
		return s.GmailCredentialsPath != ""
	}
	return s.MailSecret != ""
}

// Masked returns a copy safe to display, with the secret hidden
func (s Settings) Masked() Settings {
	if s.MailSecret != "" {
		s.MailSecret = maskedSecret
	}
	return s
}

// withDefaults fills zero values left by a partial file
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.SMTPServer == "" {
		s.SMTPServer = d.SMTPServer
	}
	if s.SMTPPort == 0 {
		s.SMTPPort = d.SMTPPort
	}
	if s.MessageTemplate == "" {
		s.MessageTemplate = d.MessageTemplate
	}
	if s.Transport == "" {
		s.Transport = d.Transport
	}
	return s
}

// SettingsStore reads and writes the settings file
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store backed by path
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the backing file
func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns the stored settings. A missing file yields defaults and no
// error; an unreadable or malformed file yields defaults and the error.
func (s *SettingsStore) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	return settings.withDefaults(), nil
}

// Save overwrites the settings file with settings
func (s *SettingsStore) Save(settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return &apperrors.PersistenceError{Path: s.path, Err: fmt.Errorf("failed to marshal settings: %w", err)}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &apperrors.PersistenceError{Path: s.path, Err: fmt.Errorf("failed to create settings directory: %w", err)}
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return &apperrors.PersistenceError{Path: s.path, Err: fmt.Errorf("failed to write settings file: %w", err)}
	}

	return nil
}
