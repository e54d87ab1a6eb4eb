package config

import (
	"os"
	"path/filepath"
	"testing"

	"book-lending/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENV", "LOG_LEVEL", "LOG_FORMAT", "LENDING_BACKEND", "LENDING_DATA"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Overrides{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.Logger.Format)
	assert.Equal(t, library.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "library.db", cfg.Storage.Path)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LENDING_BACKEND=badger\nLENDING_DATA=from-file\nLOG_LEVEL=warn\n"), 0o644))
	t.Setenv("LENDING_DATA", "from-env")

	cfg, err := Load(Overrides{EnvFile: envFile, LogLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level, "flag beats env file")
	assert.Equal(t, "from-env", cfg.Storage.Path, "environment beats env file")
	assert.Equal(t, library.BackendBadger, cfg.Storage.Backend, "env file beats default")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	_, err := Load(Overrides{EnvFile: missingEnvFile(t), Backend: "redis"})
	require.ErrorIs(t, err, library.ErrUnknownBackend)

	_, err = Load(Overrides{EnvFile: missingEnvFile(t), LogFormat: "xml"})
	require.Error(t, err)
}
