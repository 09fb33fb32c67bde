package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "reports", cfg.Paths.ReportDir)
	assert.Equal(t, "logs", cfg.Paths.LogsDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, 256.0, cfg.Processing.SamplingRate)
	assert.Equal(t, 45.0, cfg.Processing.MinHeartRate)
	assert.Equal(t, 200.0, cfg.Processing.MaxHeartRate)
	assert.Equal(t, "Europe/Berlin", cfg.Processing.Timezone)
	assert.NoError(t, cfg.validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PSYKIT_PATHS_DATA_DIR", "/tmp/recordings")
	t.Setenv("PSYKIT_LOGGING_LEVEL", "debug")
	t.Setenv("PSYKIT_PROCESSING_SAMPLING_RATE", "512")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recordings", cfg.Paths.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 512.0, cfg.Processing.SamplingRate)
	// untouched fields keep their defaults
	assert.Equal(t, "reports", cfg.Paths.ReportDir)
	assert.Equal(t, 200.0, cfg.Processing.MaxHeartRate)
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	t.Setenv("PSYKIT_LOGGING_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestValidateHeartRateBounds(t *testing.T) {
	cfg := Default()
	cfg.Processing.MinHeartRate = 150
	cfg.Processing.MaxHeartRate = 100

	assert.Error(t, cfg.validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("paths:\n  data_dir: /srv/nilspod\nlogging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := loadFromFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/nilspod", cfg.Paths.DataDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMergeConfigsEnvPrecedence(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Paths.DataDir = "/from/file"
	fileCfg.Logging.Level = "warn"
	fileCfg.Processing.SamplingRate = 128

	envCfg := Config{}
	envCfg.Paths.DataDir = "/from/env"

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, "/from/env", merged.Paths.DataDir)
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, 128.0, merged.Processing.SamplingRate)
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPaths(PathsConfig{
		DataDir:   filepath.Join(dir, "data"),
		ReportDir: filepath.Join(dir, "reports"),
		LogsDir:   filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirectories())

	assert.DirExists(t, p.DataDir)
	assert.DirExists(t, p.ReportDir)
	assert.DirExists(t, p.LogsDir)
	assert.Equal(t, filepath.Join(dir, "reports", "hrv.xlsx"), p.GetReportPath("hrv.xlsx"))
	assert.Equal(t, filepath.Join(dir, "data", "rec.csv"), p.GetDataPath("rec.csv"))
	assert.Equal(t, filepath.Join(dir, "logs", "run.log"), p.GetLogPath("run.log"))
}

func TestNewPathsResolvesRelative(t *testing.T) {
	p, err := NewPaths(PathsConfig{DataDir: "data", ReportDir: "reports", LogsDir: "logs"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(p.DataDir))
	assert.True(t, filepath.IsAbs(p.ReportDir))
	assert.True(t, filepath.IsAbs(p.LogsDir))
}
