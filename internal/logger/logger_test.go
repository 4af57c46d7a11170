package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Run("Should map known levels", func(t *testing.T) {
		assert.Equal(t, charmlog.DebugLevel, ParseLevel("debug"))
		assert.Equal(t, charmlog.WarnLevel, ParseLevel("WARN"))
		assert.Equal(t, charmlog.ErrorLevel, ParseLevel(" error "))
	})
	t.Run("Should fall back to info", func(t *testing.T) {
		assert.Equal(t, charmlog.InfoLevel, ParseLevel("verbose"))
		assert.Equal(t, charmlog.InfoLevel, ParseLevel(""))
	})
}

func TestNew(t *testing.T) {
	t.Run("Should write JSON records with key values", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&Config{Level: "info", JSON: true, Output: &buf})
		l.With("engine", "sqlite").Info("bootstrap complete", "tables", 18)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "bootstrap complete", rec["msg"])
		assert.Equal(t, "sqlite", rec["engine"])
		assert.EqualValues(t, 18, rec["tables"])
	})
	t.Run("Should drop records below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&Config{Level: "warn", Output: &buf})
		l.Info("hidden")
		l.Debug("hidden")
		assert.Empty(t, buf.String())
		l.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}
