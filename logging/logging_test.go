package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := New(path, "info")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("key", "smart-notes").Msg("saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"saved"`)
	assert.Contains(t, string(data), `"key":"smart-notes"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
