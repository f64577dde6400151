package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5001/api/predict", cfg.Predict.Endpoint)
	assert.Equal(t, 30, cfg.Predict.TimeoutSecs)
	assert.Equal(t, "30s", cfg.Predict.Timeout().String())
	assert.Zero(t, cfg.Predict.RateLimit)
	assert.Equal(t, "full", cfg.Form.Preset)
	assert.Equal(t, "en", cfg.Form.Locale)
	assert.Equal(t, "churnform", cfg.Theme.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.SessionTTLMins)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
predict:
  endpoint: http://classifier:5001/api/predict
  rate_limit: 2.5
form:
  preset: compact
theme:
  variant: dark
server:
  port: 9090
  cors_origins: ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://classifier:5001/api/predict", cfg.Predict.Endpoint)
	assert.InDelta(t, 2.5, cfg.Predict.RateLimit, 0.001)
	assert.Equal(t, "compact", cfg.Form.Preset)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Predict.TimeoutSecs)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "churn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("form:\n  preset: compact\n"), 0o644))
	t.Setenv("CHURNFORM_FORM_PRESET", "full")
	t.Setenv("CHURNFORM_PREDICT_ENDPOINT", "http://10.0.0.5:5001/api/predict")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "full", cfg.Form.Preset)
	assert.Equal(t, "http://10.0.0.5:5001/api/predict", cfg.Predict.Endpoint)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CHURNFORM_SERVER_PORT=3000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CHURNFORM_SERVER_PORT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	base, err := Load("")
	require.NoError(t, err)

	cfg := *base
	cfg.Predict.Endpoint = "localhost:5001"
	cfg.Form.Locale = "not a tag!"
	err = cfg.Validate("predict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predict.endpoint must be an absolute URL")
	assert.Contains(t, err.Error(), "form.locale")

	cfg = *base
	cfg.Server.Port = 0
	assert.NoError(t, cfg.Validate("predict"))
	err = cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
