package datever

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	require.Equal(t, slog.LevelInfo, ParseLogLevel(" info "))
	require.Equal(t, slog.LevelError, ParseLogLevel("error"))
	require.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	require.Equal(t, slog.LevelWarn, ParseLogLevel(""))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "warn")
	logger.Debug("hidden")
	require.Empty(t, buf.String())

	logger = NewLogger(&buf, "debug")
	logger.Debug("described repository", "tag", "1.2.3")
	require.Contains(t, buf.String(), "described repository")
	require.Contains(t, buf.String(), "tag=1.2.3")
}
