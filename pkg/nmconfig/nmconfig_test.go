package nmconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 6, cfg.Apply.RetryMaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
apply:
  timeout: 90s
  retryMaxAttempts: 3
ovsdb:
  address: "tcp:127.0.0.1:6640"
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "tcp:127.0.0.1:6640", cfg.OVSDB.Address)
	assert.Equal(t, 3, cfg.Apply.RetryMaxAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NMSTATE_LOG_LEVEL", "warn")
	t.Setenv("NMSTATE_OVSDB_ADDRESS", "unix:/tmp/db.sock")

	cfg := Default()
	cfg.applyEnvOverrides()

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "unix:/tmp/db.sock", cfg.OVSDB.Address)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}
