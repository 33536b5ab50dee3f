package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestInitLoggerWithConfigWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoothtask.log")
	l, err := InitLoggerWithConfig(config.LoggingConfig{Level: "info", FilePath: path})
	require.NoError(t, err)
	l.Info().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"hello"`)
	InitLogger()
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	ctx = WithFields(ctx, "cycle_id", "abc")
	Logger(ctx).Info().Msg("cycle")
	assert.Contains(t, buf.String(), `"cycle_id":"abc"`)
}
