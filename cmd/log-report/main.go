package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"psykit/internal/config"
	"psykit/internal/exporter"
	"psykit/internal/files"
	"psykit/internal/infrastructure"
	"psykit/internal/logdata"
	"psykit/internal/validation"
)

func main() {
	inDir := flag.String("in", "", "input directory with app log .csv files (defaults to the configured data directory)")
	outFile := flag.String("out", "log_subjects.csv", "subject summary CSV file name, resolved inside the report directory")
	daily := flag.Bool("daily", false, "additionally write a per-day report for every subject")
	handling := flag.String("errors", "warn", "handling of unknown log actions: ignore, warn or error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	ctx := infrastructure.ContextWithRunID(context.Background())

	if *inDir == "" {
		*inDir = paths.DataDir
	}

	logger.InfoContext(ctx, "Starting app log report generation",
		slog.String("input_dir", *inDir),
		slog.String("output_file", *outFile))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, "*.csv"); err != nil {
		logger.ErrorContext(ctx, "Input directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	discovery := files.NewDiscovery(*inDir)
	logFiles, err := discovery.FindCSVFiles(".")
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list log files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Found %d log files\n", len(logFiles))
	if len(logFiles) == 0 {
		logger.WarnContext(ctx, "No log files found in input directory",
			slog.String("input_dir", *inDir))
		os.Exit(0)
	}

	var logs []*logdata.LogData
	for _, file := range logFiles {
		ld, err := logdata.LoadCSV(file.Path, logdata.ErrorHandling(*handling), logger)
		if err != nil {
			logger.WarnContext(ctx, "Skipping log file",
				slog.String("file", file.Path),
				slog.String("error", err.Error()))
			continue
		}
		infrastructure.WithSubject(logger, ld.SubjectID()).InfoContext(ctx, "Log file loaded",
			slog.String("file", file.Path),
			slog.Int("records", len(ld.Records)))
		logs = append(logs, ld)
	}

	if len(logs) == 0 {
		logger.ErrorContext(ctx, "No log file could be loaded")
		os.Exit(1)
	}

	logExporter := exporter.NewLogReportExporter(paths)
	if err := logExporter.ExportSubjectSummary(*outFile, logs); err != nil {
		logger.ErrorContext(ctx, "Failed to write subject summary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *daily {
		for _, ld := range logs {
			name := fmt.Sprintf("log_daily_%s.csv", ld.SubjectID())
			if err := logExporter.ExportDailyActions(name, ld); err != nil {
				infrastructure.WithSubject(logger, ld.SubjectID()).ErrorContext(ctx, "Failed to write daily report",
					slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	logger.InfoContext(ctx, "Log report written",
		slog.String("output_file", *outFile),
		slog.Int("subjects", len(logs)))
	fmt.Printf("Processed %d subjects\n", len(logs))
}
