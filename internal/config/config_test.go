package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/author-match/internal/dedup"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Matching defaults
	assert.Equal(t, 0.5, cfg.Matching.Threshold)
	assert.Equal(t, dedup.DefaultCascade, cfg.Matching.Normalizers)
	assert.Equal(t, 0, cfg.Matching.Workers)
	assert.Equal(t, 10000, cfg.Matching.ParseCacheSize)
	assert.Equal(t, DistanceName, cfg.Matching.Distance)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)

	// Metrics defaults
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "author_match", cfg.Metrics.Namespace)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	t.Setenv("AUTHORMATCH_MATCHING_THRESHOLD", "0.3")
	t.Setenv("AUTHORMATCH_MATCHING_WORKERS", "8")
	t.Setenv("AUTHORMATCH_MATCHING_DISTANCE", "ground_truth")
	t.Setenv("AUTHORMATCH_LOGGING_LEVEL", "debug")
	t.Setenv("AUTHORMATCH_METRICS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Matching.Threshold)
	assert.Equal(t, 8, cfg.Matching.Workers)
	assert.Equal(t, DistanceGroundTruth, cfg.Matching.Distance)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnvVars(t)

	dir := t.TempDir()
	content := strings.Join([]string{
		"matching:",
		"  threshold: 0.25",
		"  normalizers: [last_name, full_name]",
		"logging:",
		"  format: console",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Matching.Threshold)
	assert.Equal(t, []string{dedup.NormalizerLastName, dedup.NormalizerFullName}, cfg.Matching.Normalizers)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWith_BoundValues(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	v := viper.New()
	v.Set("matching.threshold", 0.1)

	cfg, err := LoadWith(v)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Matching.Threshold)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnvVars(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("matching: [unclosed"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_Matching(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "threshold below zero",
			modify:  func(c *Config) { c.Matching.Threshold = -0.1 },
			wantErr: "Threshold",
		},
		{
			name:    "threshold above one",
			modify:  func(c *Config) { c.Matching.Threshold = 1.5 },
			wantErr: "Threshold",
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Matching.Workers = -1 },
			wantErr: "Workers",
		},
		{
			name:    "zero cache size",
			modify:  func(c *Config) { c.Matching.ParseCacheSize = 0 },
			wantErr: "ParseCacheSize",
		},
		{
			name:    "unknown distance",
			modify:  func(c *Config) { c.Matching.Distance = "cosine" },
			wantErr: "Distance",
		},
		{
			name:    "unknown normalizer",
			modify:  func(c *Config) { c.Matching.Normalizers = []string{"soundex"} },
			wantErr: "unknown normalizer: soundex",
		},
		{
			name: "duplicate normalizer",
			modify: func(c *Config) {
				c.Matching.Normalizers = []string{dedup.NormalizerLastName, dedup.NormalizerLastName}
			},
			wantErr: "duplicate normalizer",
		},
		{
			name:   "empty cascade",
			modify: func(c *Config) { c.Matching.Normalizers = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_LoggingAndMetrics(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "Format",
		},
		{
			name:    "log output file path",
			modify:  func(c *Config) { c.Logging.Output = "/var/log/authormatch.log" },
			wantErr: "Output",
		},
		{
			name:   "log output stdout",
			modify: func(c *Config) { c.Logging.Output = "stdout" },
		},
		{
			name: "metrics enabled without namespace",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Namespace = ""
			},
			wantErr: "Namespace",
		},
		{
			name: "metrics disabled without namespace",
			modify: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Namespace = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoggingConfig_ObservabilityConfig(t *testing.T) {
	cfg := validConfig()
	obs := cfg.Logging.ObservabilityConfig()

	assert.Equal(t, cfg.Logging.Level, obs.Level)
	assert.Equal(t, cfg.Logging.Format, obs.Format)
	assert.Equal(t, cfg.Logging.Output, obs.Output)
	assert.Nil(t, obs.Writer)
}

// clearEnvVars unsets every AUTHORMATCH_ variable for the duration of the test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		key, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(key, "AUTHORMATCH_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

// validConfig returns a valid configuration for testing
func validConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			Threshold:      0.5,
			Normalizers:    append([]string(nil), dedup.DefaultCascade...),
			ParseCacheSize: 100,
			Distance:       DistanceName,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "author_match",
		},
	}
}
