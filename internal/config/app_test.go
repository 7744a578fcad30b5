package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "candidates.xlsx", cfg.Roster.Candidates)
	assert.Equal(t, "panel.xlsx", cfg.Roster.Panel)
	assert.Equal(t, "settings.json", cfg.Settings.Path)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `roster:
  candidates: "in/candidates.xlsx"
  panel: "in/panel.xlsx"
server:
  listen: ":9000"
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("IO_SERVER__LISTEN", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"roster.candidates", cfg.Roster.Candidates, "in/candidates.xlsx"},
		{"roster.panel", cfg.Roster.Panel, "in/panel.xlsx"},
		{"server.listen", cfg.Server.Listen, ":9100"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"settings.path", cfg.Settings.Path, "settings.json"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"settings":{"path":"/tmp/s.json"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.json", cfg.Settings.Path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	toml := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(toml, []byte(""), 0o644))
	_, err := Load(toml)
	assert.Error(t, err)

	badLevel := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(badLevel, []byte("logging:\n  level: loud\n"), 0o644))
	_, err = Load(badLevel)
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", "/home/tester")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "InterviewOrganizer", "config.yaml"), path)
}
