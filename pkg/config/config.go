// Package config provides configuration loading and validation for gitcal.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrInvalidColorMode = errors.New("invalid color mode")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

// Config holds all configuration for gitcal.
type Config struct {
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// CalendarConfig selects whose contributions are drawn and from where.
type CalendarConfig struct {
	// Email filters commits by author. Empty means git's user.email; "*" means everyone.
	Email string `mapstructure:"email"`
	// Repository is the directory to start repository discovery from.
	Repository string `mapstructure:"repository"`
}

// OutputConfig controls how the calendar is printed.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	Color   string `mapstructure:"color"`
	Summary bool   `mapstructure:"summary"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	Environment  string `mapstructure:"environment"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// With an empty configPath only the user's own directories ($HOME and
// $XDG_CONFIG_HOME/gitcal) are searched, never the working directory, and a
// missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}

		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			viperCfg.AddConfigPath(filepath.Join(xdg, appName))
		}
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("calendar.email", "")
	viperCfg.SetDefault("calendar.repository", DefaultRepository)

	viperCfg.SetDefault("output.format", FormatText)
	viperCfg.SetDefault("output.color", ColorAuto)
	viperCfg.SetDefault("output.summary", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.environment", "")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if !slices.Contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, c.Output.Color)
	}

	_, err := ParseLogLevel(c.Logging.Level)

	return err
}

// ParseLogLevel converts a level name such as "debug" or "warn" to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}

	return level, nil
}
