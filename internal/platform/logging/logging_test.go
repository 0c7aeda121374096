package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, false)

	l.Debug("hidden")
	l.Info("access", slog.Int("status", 200))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "access", rec["msg"])
	assert.Equal(t, 200.0, rec["status"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug, true)

	l.Debug("request rejected", slog.String("code", "NOT_FOUND"))

	assert.Contains(t, buf.String(), "msg=\"request rejected\"")
	assert.Contains(t, buf.String(), "code=NOT_FOUND")
}
