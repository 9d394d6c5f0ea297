package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rickyang/rick/internal/config"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".rickrc.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultHasNoLimits(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 0, cfg.MaxIdentifierLength)
	require.False(t, cfg.Trace)
	require.False(t, cfg.NoColor)
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{"max_identifier_length": 32, "trace": true, "no_color": true}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 32, cfg.MaxIdentifierLength)
	require.True(t, cfg.Trace)
	require.True(t, cfg.NoColor)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, `{"unknown_field": true}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNegativeIdentifierLength(t *testing.T) {
	path := writeConfig(t, `{"max_identifier_length": -1}`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/path/.rickrc.json")
	require.Error(t, err)
}
