package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, ".", cfg.Paths.OutputDir)
	assert.Equal(t, "logs", cfg.Paths.LogsDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "day", cfg.Aggregation.Granularity)
	assert.Equal(t, []string{"Library", "Dormitory", "Cafeteria"}, cfg.Sample.Buildings)
	assert.Equal(t, "2023-01-01", cfg.Sample.StartDate)
	assert.Equal(t, "2023-12-31", cfg.Sample.EndDate)
	assert.Equal(t, int64(1), cfg.Sample.Seed)
	assert.Equal(t, 100, cfg.Sample.MinKWH)
	assert.Equal(t, 500, cfg.Sample.MaxKWH)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ENERGY_AGGREGATION_GRANULARITY", "week")
	t.Setenv("ENERGY_PATHS_DATA_DIR", "/tmp/meters")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "week", cfg.Aggregation.Granularity)
	assert.Equal(t, "/tmp/meters", cfg.Paths.DataDir)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("ENERGY_AGGREGATION_GRANULARITY", "hourly")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [not a mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad granularity", func(c *Config) { c.Aggregation.Granularity = "hourly" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad sample date", func(c *Config) { c.Sample.StartDate = "Jan 1" }, true},
		{"max kwh not above min", func(c *Config) { c.Sample.MaxKWH = c.Sample.MinKWH }, true},
		{"empty data dir", func(c *Config) { c.Paths.DataDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		Paths: PathsConfig{
			DataDir:   filepath.Join(base, "data"),
			OutputDir: filepath.Join(base, "out"),
			LogsDir:   filepath.Join(base, "logs"),
		},
	}

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// The data directory stays absent so the sample generator can detect
	// a first run.
	_, err := os.Stat(cfg.Paths.DataDir)
	assert.True(t, os.IsNotExist(err))
}
