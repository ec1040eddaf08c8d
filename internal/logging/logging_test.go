package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevel(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	assert.Equal(t, zerolog.DebugLevel, Setup(Options{Level: "DEBUG"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, Setup(Options{Level: "nonsense"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, Setup(Options{}).GetLevel())
}

func TestSetupWithFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	logger := Setup(Options{Level: "warn", File: filepath.Join(t.TempDir(), "bot.log")})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestForAddsFields(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	l := For("command", "volume", "exec-1")
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "command", entry["module"])
	assert.Equal(t, "volume", entry["name"])
	assert.Equal(t, "exec-1", entry["execution_id"])

	buf.Reset()
	l = For("uptime", "format", "")
	l.Info().Msg("hello")
	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "execution_id")
}
