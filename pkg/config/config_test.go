package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitcal/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Empty(t, cfg.Calendar.Email)
	assert.Equal(t, config.DefaultRepository, cfg.Calendar.Repository)
	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.Equal(t, config.ColorAuto, cfg.Output.Color)
	assert.False(t, cfg.Output.Summary)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
calendar:
  email: "*"
  repository: /src/project
output:
  format: yaml
  color: never
  summary: true
logging:
  level: debug
  json: true
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "*", cfg.Calendar.Email)
	assert.Equal(t, "/src/project", cfg.Calendar.Repository)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
	assert.True(t, cfg.Output.Summary)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("GITCAL_CALENDAR_EMAIL", "env@example.com")
	t.Setenv("GITCAL_OUTPUT_FORMAT", "json")
	t.Setenv("GITCAL_LOGGING_LEVEL", "error")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Calendar.Email)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, "error", cfg.Logging.Level)
}

// isolateUserDirs points $HOME and $XDG_CONFIG_HOME at empty temp dirs and
// returns the XDG one.
func isolateUserDirs(t *testing.T) string {
	t.Helper()

	xdg := t.TempDir()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", xdg)

	return xdg
}

func TestLoadConfigIgnoresWorkingDirectory(t *testing.T) {
	isolateUserDirs(t)

	workdir := t.TempDir()
	body := "output:\n  format: yaml\ntelemetry:\n  otlp_endpoint: collector.example:4317\n"
	require.NoError(t, os.WriteFile(filepath.Join(workdir, ".gitcal.yaml"), []byte(body), 0o600))

	t.Chdir(workdir)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfigSearchesXDGConfigHome(t *testing.T) {
	xdg := isolateUserDirs(t)

	dir := filepath.Join(xdg, "gitcal")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitcal.yaml"), []byte("output:\n  format: json\n"), 0o600))

	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"format", "output:\n  format: xml\n", config.ErrInvalidFormat},
		{"color", "output:\n  color: sometimes\n", config.ErrInvalidColorMode},
		{"log level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))

			assert.Nil(t, cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	level, err := config.ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = config.ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = config.ParseLogLevel("")
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
