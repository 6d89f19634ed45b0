package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestInit_Level(t *testing.T) {
	capture(t)

	Init("production", "warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Init("production", "nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Init("development", "")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestHelpers(t *testing.T) {
	buf := capture(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Info("author registered", map[string]interface{}{"author_id": "42"})
	Debug("hidden below info")
	Error("insert failed", errors.New("db down"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "42", first["author_id"])
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "db down", second["error"])
}
