package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "scheduler")
	l.Infof("sent %d", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "sent 3", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	SetLevel("warn")
	defer SetLevel("info")

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "test")
	l.Debugf("hidden")
	l.Infof("hidden")
	assert.Empty(t, buf.String())

	l.Warnf("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("info")
	SetLevel("chatty")

	var buf bytes.Buffer
	NewWithWriter(&buf, "test").Infof("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x")
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
}
