package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is the config file looked up next to the working
// directory when no -config flag is given.
const DefaultConfigFile = "config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Aggregation AggregationConfig `yaml:"aggregation" envconfig:"AGGREGATION"`
	Sample      SampleConfig      `yaml:"sample" envconfig:"SAMPLE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"." validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/dashboard.log"`
}

// AggregationConfig controls the time-bucket resampling of readings.
type AggregationConfig struct {
	Granularity string `yaml:"granularity" envconfig:"GRANULARITY" default:"day" validate:"oneof=day week"`
}

// SampleConfig controls the synthesized dataset used when the data
// directory contains no input files.
type SampleConfig struct {
	Buildings []string `yaml:"buildings" envconfig:"BUILDINGS"`
	StartDate string   `yaml:"start_date" envconfig:"START_DATE" default:"2023-01-01" validate:"datetime=2006-01-02"`
	EndDate   string   `yaml:"end_date" envconfig:"END_DATE" default:"2023-12-31" validate:"datetime=2006-01-02"`
	Seed      int64    `yaml:"seed" envconfig:"SEED" default:"1"`
	MinKWH    int      `yaml:"min_kwh" envconfig:"MIN_KWH" default:"100" validate:"min=0"`
	MaxKWH    int      `yaml:"max_kwh" envconfig:"MAX_KWH" default:"500" validate:"gtfield=MinKWH"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. File values fill in what the environment left unset.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ENERGY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.OutputDir == "" {
		envConfig.Paths.OutputDir = fileConfig.Paths.OutputDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Aggregation.Granularity == "" {
		envConfig.Aggregation.Granularity = fileConfig.Aggregation.Granularity
	}
	if len(envConfig.Sample.Buildings) == 0 {
		envConfig.Sample.Buildings = fileConfig.Sample.Buildings
	}
	if envConfig.Sample.StartDate == "" {
		envConfig.Sample.StartDate = fileConfig.Sample.StartDate
	}
	if envConfig.Sample.EndDate == "" {
		envConfig.Sample.EndDate = fileConfig.Sample.EndDate
	}
	if envConfig.Sample.Seed == 0 {
		envConfig.Sample.Seed = fileConfig.Sample.Seed
	}
	if envConfig.Sample.MinKWH == 0 {
		envConfig.Sample.MinKWH = fileConfig.Sample.MinKWH
	}
	if envConfig.Sample.MaxKWH == 0 {
		envConfig.Sample.MaxKWH = fileConfig.Sample.MaxKWH
	}

	return envConfig
}

// applyDefaults fills in zero values that envconfig defaults would have
// supplied had the field come from the environment.
func (c *Config) applyDefaults() {
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = "."
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "logs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "dashboard.log")
	}
	if c.Aggregation.Granularity == "" {
		c.Aggregation.Granularity = "day"
	}
	if len(c.Sample.Buildings) == 0 {
		c.Sample.Buildings = []string{"Library", "Dormitory", "Cafeteria"}
	}
	if c.Sample.StartDate == "" {
		c.Sample.StartDate = "2023-01-01"
	}
	if c.Sample.EndDate == "" {
		c.Sample.EndDate = "2023-12-31"
	}
	if c.Sample.Seed == 0 {
		c.Sample.Seed = 1
	}
	if c.Sample.MinKWH == 0 {
		c.Sample.MinKWH = 100
	}
	if c.Sample.MaxKWH == 0 {
		c.Sample.MaxKWH = 500
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EnsureDirectories creates the output and logs directories if missing.
// The data directory is intentionally excluded: its absence triggers
// sample-data generation rather than an error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
