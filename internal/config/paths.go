package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves where recordings are read from and reports are written
// to.
type Paths struct {
	DataDir   string
	ReportDir string
	LogsDir   string
}

// NewPaths builds absolute paths relative to the working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	p := &Paths{DataDir: cfg.DataDir, ReportDir: cfg.ReportDir, LogsDir: cfg.LogsDir}
	for _, dir := range []*string{&p.DataDir, &p.ReportDir, &p.LogsDir} {
		if filepath.IsAbs(*dir) {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, fmt.Errorf("resolve path %s: %w", *dir, err)
		}
		*dir = abs
	}
	return p, nil
}

// EnsureDirectories creates the configured directories if missing.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns a path inside the data directory.
func (p *Paths) GetDataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// GetReportPath returns a path inside the report directory.
func (p *Paths) GetReportPath(name string) string {
	return filepath.Join(p.ReportDir, name)
}

// GetLogPath returns a path inside the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
