package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionValidityDuration)
	assert.True(t, cfg.NonceCSPEnabled)
	assert.False(t, cfg.Production)
	assert.Empty(t, cfg.S3Bucket)
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"paperjobs-server"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestParseJson_Overlay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"endpoint_addr": ":9090",
		"secret_key": "json-secret",
		"session_validity_duration": "12h",
		"nonce_csp_enabled": false,
		"production": true,
		"s3_bucket": "documents"
	}`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

	withArgs(t, "-c", file)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 12*time.Hour, cfg.SessionValidityDuration)
	assert.False(t, cfg.NonceCSPEnabled)
	assert.True(t, cfg.Production)
	assert.Equal(t, "documents", cfg.S3Bucket)
	// Untouched fields keep their defaults.
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestParseJson_NoFileFlag(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
}

func TestParseFlags_Overrides(t *testing.T) {
	withArgs(t, "-a", ":7070", "-d", "postgres://test", "-n=false", "-prod=true", "-t", "30")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://test", cfg.DatabaseDSN)
	assert.False(t, cfg.NonceCSPEnabled)
	assert.True(t, cfg.Production)
	assert.Equal(t, 30*time.Minute, cfg.SessionValidityDuration)
}
