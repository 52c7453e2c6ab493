package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Policy.AcceptThreshold)
	assert.Equal(t, 0.7, cfg.Policy.HighConfidenceThreshold)
	assert.Equal(t, 20, cfg.Justification.Min)
	assert.Equal(t, 500, cfg.Justification.Max)
	assert.True(t, cfg.DetectionEnabled)
	assert.False(t, cfg.Remote())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OUTLINES_ADDR", ":9090")
	t.Setenv("OUTLINES_API_URL", "http://localhost:9090")
	t.Setenv("OUTLINES_ACCEPT_THRESHOLD", "0.6")
	t.Setenv("OUTLINES_HIGH_MATCH_THRESHOLD", "0.8")
	t.Setenv("OUTLINES_JUSTIFICATION_MIN", "30")
	t.Setenv("OUTLINES_TOKEN_TTL", "1h")
	t.Setenv("OUTLINES_CCN_DETECTION", "false")
	t.Setenv("OUTLINES_CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Remote())
	assert.Equal(t, 0.6, cfg.Policy.AcceptThreshold)
	assert.Equal(t, 0.8, cfg.Policy.HighConfidenceThreshold)
	assert.Equal(t, 30, cfg.Justification.Min)
	assert.Equal(t, 500, cfg.Justification.Max)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.DetectionEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnvMalformed(t *testing.T) {
	t.Setenv("OUTLINES_ACCEPT_THRESHOLD", "half")
	t.Setenv("OUTLINES_JUSTIFICATION_MAX", "lots")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTLINES_ACCEPT_THRESHOLD")
	assert.Contains(t, err.Error(), "OUTLINES_JUSTIFICATION_MAX")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.AcceptThreshold = 0.9
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Justification.Max = 5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	assert.Error(t, cfg.ValidateServer())
	cfg.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.ValidateServer())
}

func TestZeroThresholdsRejected(t *testing.T) {
	t.Setenv("OUTLINES_ACCEPT_THRESHOLD", "0")
	t.Setenv("OUTLINES_HIGH_MATCH_THRESHOLD", "0")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accept threshold")

	t.Setenv("OUTLINES_ACCEPT_THRESHOLD", "0.5")
	t.Setenv("OUTLINES_HIGH_MATCH_THRESHOLD", "0.7")
	t.Setenv("OUTLINES_JUSTIFICATION_MIN", "0")
	t.Setenv("OUTLINES_JUSTIFICATION_MAX", "0")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OUTLINES_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("OUTLINES_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("OUTLINES_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("OUTLINES_TEST_DOTENV"))
	_ = os.Unsetenv("OUTLINES_TEST_DOTENV")
}
