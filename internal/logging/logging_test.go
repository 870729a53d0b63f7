package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", false)
	require.NoError(t, err)

	log.Info().Msg("quiet")
	log.Warn().Str("path", "/x").Msg("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "path=/x")
}

func TestNewDefaultLevel(t *testing.T) {
	log, err := New(&bytes.Buffer{}, "", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "shouty", false)
	assert.Error(t, err)
}

func TestOpenFileAppendsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "labs.log")

	log, closer, err := OpenFile(path, "debug")
	require.NoError(t, err)
	log.Debug().Int("index", 3).Msg("recorded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"index":3`)
	assert.Contains(t, string(data), `"message":"recorded"`)
}
