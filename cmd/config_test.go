package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Act
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Second, cfg.LockTTL)
	assert.Equal(t, "parcel-events", cfg.EventChannel)
	assert.Equal(t, 2*time.Hour, cfg.OverdueLegGrace)
	assert.Empty(t, cfg.OverdueLegSpec)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}

func TestLoadConfig_EnvironmentWinsOverFile(t *testing.T) {
	// Arrange
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("HTTP_PORT=9000\nDB_NAME=fromfile\nLOCK_TTL=5s\n"), 0o600))
	t.Setenv("HTTP_PORT", "9100")
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_NAME")
		_ = os.Unsetenv("LOCK_TTL")
	})

	// Act
	cfg, err := LoadConfig(file)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.Equal(t, "fromfile", cfg.DBName)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.Contains(t, cfg.DSN(), "dbname=fromfile")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	// Arrange
	t.Setenv("OVERDUE_LEG_GRACE", "soon")

	// Act
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	// Assert
	require.Error(t, err)
}
