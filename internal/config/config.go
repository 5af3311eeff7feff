// Package config provides configuration management for the author matcher.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/helixir/author-match/internal/dedup"
	"github.com/helixir/author-match/internal/observability"
)

// Distance function names accepted in MatchingConfig.Distance.
const (
	DistanceName        = "name"
	DistanceGroundTruth = "ground_truth"
)

// Config holds all configuration for the author matcher.
type Config struct {
	// Matching contains the match engine settings.
	Matching MatchingConfig `mapstructure:"matching"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MatchingConfig holds match engine configuration.
type MatchingConfig struct {
	// Threshold is the largest distance accepted as a match (default: 0.5).
	Threshold float64 `mapstructure:"threshold" validate:"gte=0,lte=1"`
	// Normalizers is the ordered normalization cascade.
	Normalizers []string `mapstructure:"normalizers" validate:"dive,required"`
	// Workers bounds concurrent component resolution; 0 uses GOMAXPROCS.
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// ParseCacheSize is the capacity of the parsed name cache.
	ParseCacheSize int `mapstructure:"parse_cache_size" validate:"gt=0"`
	// Distance selects the distance function (name, ground_truth).
	Distance string `mapstructure:"distance" validate:"oneof=name ground_truth"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format" validate:"oneof=json console"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output" validate:"oneof=stdout stderr"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection.
	Enabled bool `mapstructure:"enabled"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
	// OutputPath, when set, receives the metrics in text exposition format
	// after each run.
	OutputPath string `mapstructure:"output_path"`
}

// ObservabilityConfig converts the logging section for observability.NewLogger.
func (c *LoggingConfig) ObservabilityConfig() observability.LoggingConfig {
	return observability.LoggingConfig{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		AddSource:  c.AddSource,
		TimeFormat: c.TimeFormat,
	}
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration through v, so callers can bind command
// line flags before the configuration is read.
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("AUTHORMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/author-match")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Matching defaults
	v.SetDefault("matching.threshold", 0.5)
	v.SetDefault("matching.normalizers", dedup.DefaultCascade)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("matching.parse_cache_size", 10000)
	v.SetDefault("matching.distance", DistanceName)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "author_match")
	v.SetDefault("metrics.output_path", "")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %v fails %q", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}

	if !observability.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	known := dedup.NewNormalizerRegistry(nil)
	seen := make(map[string]bool, len(c.Matching.Normalizers))
	for _, name := range c.Matching.Normalizers {
		if known.Get(name) == nil {
			return fmt.Errorf("unknown normalizer: %s", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate normalizer: %s", name)
		}
		seen[name] = true
	}

	return nil
}
