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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 600*time.Millisecond, cfg.Form.LookupDebounce)
	assert.Equal(t, 400*time.Millisecond, cfg.Form.LocationDebounce)
	assert.Equal(t, 200*time.Millisecond, cfg.Form.CallingDebounce)
	assert.Equal(t, 30*time.Minute, cfg.Form.SessionTTL)
	assert.Empty(t, cfg.Verification.IssuerURL)
	assert.Empty(t, cfg.Tracing.Endpoint)
	assert.Equal(t, "complaints-book", cfg.Tracing.ServiceName)
	assert.Equal(t, 5, cfg.Backend.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.Backend.BreakerCooldown)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "claims.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: ":9090"
  allowed_origins: ["https://libro.example.pe", " https://libro.example.pe "]
backend:
  url: "https://api.example.pe/"
  timeout: 3s
form:
  session_ttl: 5m
`), 0o600))

	t.Setenv("CLAIMS_BACKEND_TIMEOUT", "4s")
	t.Setenv("CLAIMS_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://libro.example.pe"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://api.example.pe", cfg.Backend.URL)
	assert.Equal(t, 4*time.Second, cfg.Backend.Timeout, "environment overrides file")
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.Form.SessionTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Backend.URL = ""
	bad.Form.SessionTTL = 0
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url")
	assert.Contains(t, err.Error(), "form.session_ttl")

	issuer := cfg
	issuer.Verification.IssuerURL = "https://verify.example.pe"
	assert.ErrorContains(t, issuer.Validate(), "secret_key")

	timeouts := cfg
	timeouts.Server.RequestTimeout = timeouts.Backend.Timeout
	assert.ErrorContains(t, timeouts.Validate(), "request_timeout")

	breaker := cfg
	breaker.Backend.BreakerThreshold = 0
	assert.ErrorContains(t, breaker.Validate(), "breaker_threshold")

	sampling := cfg
	sampling.Tracing.SampleRatio = 1.5
	assert.ErrorContains(t, sampling.Validate(), "sample_ratio")
}
