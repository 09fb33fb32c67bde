// Package config loads toolkit configuration from environment variables
// and an optional YAML file. Environment variables (prefix PSYKIT) take
// precedence over the file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete toolkit configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportDir string `yaml:"report_dir" envconfig:"REPORT_DIR" default:"reports" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/psykit.log"`
}

// ProcessingConfig contains signal processing defaults.
type ProcessingConfig struct {
	SamplingRate   float64 `yaml:"sampling_rate" envconfig:"SAMPLING_RATE" default:"256" validate:"gt=0"`
	MinHeartRate   float64 `yaml:"min_heart_rate" envconfig:"MIN_HEART_RATE" default:"45" validate:"gt=0"`
	MaxHeartRate   float64 `yaml:"max_heart_rate" envconfig:"MAX_HEART_RATE" default:"200" validate:"gtfield=MinHeartRate"`
	Timezone       string  `yaml:"timezone" envconfig:"TIMEZONE" default:"Europe/Berlin"`
	OutlierMethods string  `yaml:"outlier_methods" envconfig:"OUTLIER_METHODS" default:"quantile,statistical_rr,statistical_rr_diff,physiological"`
}

// Load loads configuration from environment variables and config file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PSYKIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file.
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

// mergeConfigs merges file config with env config (env takes precedence).
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportDir == "" {
		envConfig.Paths.ReportDir = fileConfig.Paths.ReportDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Processing.SamplingRate == 0 {
		envConfig.Processing.SamplingRate = fileConfig.Processing.SamplingRate
	}
	if envConfig.Processing.Timezone == "" {
		envConfig.Processing.Timezone = fileConfig.Processing.Timezone
	}
	return envConfig
}

// validate validates the configuration.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file.
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   "data",
			ReportDir: "reports",
			LogsDir:   "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/psykit.log",
		},
		Processing: ProcessingConfig{
			SamplingRate:   256,
			MinHeartRate:   45,
			MaxHeartRate:   200,
			Timezone:       "Europe/Berlin",
			OutlierMethods: "quantile,statistical_rr,statistical_rr_diff,physiological",
		},
	}
}
