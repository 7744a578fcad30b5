package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
	assert.False(t, settings.MailConfigured())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewSettingsStore(path)

	in := DefaultSettings()
	in.MailAddress = "team@example.com"
	in.MailSecret = "app-password"
	in.SMTPPort = 2525
	require.NoError(t, store.Save(in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.MailConfigured())
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gmail_email":"team@example.com"}`), 0600))

	settings, err := NewSettingsStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", settings.MailAddress)
	assert.Equal(t, DefaultSMTPServer, settings.SMTPServer)
	assert.Equal(t, DefaultSMTPPort, settings.SMTPPort)
	assert.Equal(t, TransportSMTP, settings.Transport)
	assert.False(t, settings.MailConfigured(), "secret is still missing")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	settings, err := NewSettingsStore(path).Load()
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSaveIsLastWriteWins(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))

	first := DefaultSettings()
	first.NotifyPhone = "+100"
	require.NoError(t, store.Save(first))

	second := DefaultSettings()
	second.MailAddress = "b@example.com"
	require.NoError(t, store.Save(second))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, out.NotifyPhone)
	assert.Equal(t, "b@example.com", out.MailAddress)
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := NewSettingsStore(filepath.Join(blocker, "settings.json")).Save(DefaultSettings())
	var pe *apperrors.PersistenceError
	assert.True(t, errors.As(err, &pe), "want PersistenceError, got %v", err)
}

func TestMailConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     bool
	}{
		{"empty", Settings{}, false},
		{"address only", Settings{MailAddress: "a@example.com"}, false},
		{"smtp complete", Settings{MailAddress: "a@example.com", MailSecret: "x"}, true},
		{"gmail without credentials", Settings{MailAddress: "a@example.com", MailSecret: "x", Transport: TransportGmail}, false},
		{"gmail complete", Settings{MailAddress: "a@example.com", Transport: TransportGmail, GmailCredentialsPath: "credentials.json"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.MailConfigured())
		})
	}
}

func TestMasked(t *testing.T) {
	s := Settings{MailSecret: "secret"}
	assert.Equal(t, "********", s.Masked().MailSecret)
	assert.Equal(t, "secret", s.MailSecret)
	assert.Empty(t, Settings{}.Masked().MailSecret)
}
