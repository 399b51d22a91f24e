package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("peer", "abcd1234").Msg("shared key established")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abcd1234", entry["peer"])
	assert.Equal(t, "shared key established", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("disabled", &buf)
	require.NoError(t, err)
	log.Error().Msg("dropped")
	assert.Zero(t, buf.Len())
}
