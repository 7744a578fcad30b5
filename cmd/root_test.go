package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/interview-organizer/internal/roster"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "gui", "gmail-auth", "template"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestBootstrapFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	cand := filepath.Join(dir, "cand.xlsx")
	panel := filepath.Join(dir, "panel.xlsx")
	require.NoError(t, roster.WriteWorkbook(cand, []string{"Email", "Name", "Skills", "Experience"},
		[][]string{{"ada@example.com", "Ada", "Go", "5 years"}}))
	require.NoError(t, roster.WriteWorkbook(panel, []string{"Email", "Name", "Expertise"},
		[][]string{{"grace@example.com", "Grace", "Compilers"}}))

	t.Setenv("IO_ROSTER__CANDIDATES", cand)
	t.Setenv("IO_ROSTER__PANEL", panel)
	t.Setenv("IO_SETTINGS__PATH", filepath.Join(dir, "settings.json"))
	cfgPath = filepath.Join(dir, "missing.yaml")
	t.Cleanup(func() { cfgPath = "" })

	rt, err := bootstrap("test")
	require.NoError(t, err)
	assert.Len(t, rt.roster.Candidates(), 1)
	assert.False(t, rt.settings.Get().MailConfigured())
	assert.NotNil(t, rt.dispatcher)
}

func TestBootstrapFailsWithoutRoster(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IO_ROSTER__CANDIDATES", filepath.Join(dir, "none.xlsx"))
	t.Setenv("IO_ROSTER__PANEL", filepath.Join(dir, "none.xlsx"))
	cfgPath = filepath.Join(dir, "missing.yaml")
	t.Cleanup(func() { cfgPath = "" })

	_, err := bootstrap("test")
	assert.Error(t, err)
}
