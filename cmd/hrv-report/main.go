package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"psykit/internal/config"
	"psykit/internal/dataio"
	"psykit/internal/ecg"
	"psykit/internal/exporter"
	"psykit/internal/infrastructure"
	"psykit/internal/validation"
)

func main() {
	inDir := flag.String("in", "", "input directory with NilsPod .csv recordings (defaults to the configured data directory)")
	outFile := flag.String("out", "hrv_report.csv", "output CSV file name, resolved inside the report directory")
	xlsxFile := flag.String("xlsx", "", "optional Excel workbook file name with one sheet per subject")
	subject := flag.String("subject", "", "subject identifier written to the report rows")
	channel := flag.String("channel", "ecg", "datastream name of the ECG channel")
	phases := flag.String("phases", "", "comma separated phase names, one per recording file")
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
	if *subject == "" {
		logger.ErrorContext(ctx, "Missing required -subject flag")
		flag.Usage()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Starting HRV report generation",
		slog.String("input_dir", *inDir),
		slog.String("output_file", *outFile),
		slog.String("subject", *subject))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, "*.csv"); err != nil {
		logger.ErrorContext(ctx, "Input directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Processing.Timezone)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid timezone",
			slog.String("timezone", cfg.Processing.Timezone),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	var phaseNames []string
	if *phases != "" {
		phaseNames = strings.Split(*phases, ",")
	}

	recordings, samplingRate, err := dataio.LoadFolderNilsPod(*inDir, phaseNames, []string{*channel}, loc)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load recordings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Recordings loaded",
		slog.Int("count", len(recordings)),
		slog.Float64("sampling_rate", samplingRate))

	fmt.Printf("Found %d recordings\n", len(recordings))

	processor, err := ecg.NewProcessor(samplingRate, infrastructure.WithComponent(logger, "ecg"))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create ECG processor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	methods := parseOutlierMethods(cfg.Processing.OutlierMethods)
	bounds := ecg.HRBounds{Min: cfg.Processing.MinHeartRate, Max: cfg.Processing.MaxHeartRate}

	results := make([]exporter.PhaseFeatures, 0, len(recordings))
	for _, phase := range sortedPhases(recordings) {
		rec := recordings[phase]
		features, numBeats, err := processPhase(processor, rec, methods, bounds)
		if err != nil {
			logger.WarnContext(ctx, "Skipping phase",
				slog.String("phase", phase),
				slog.String("error", err.Error()))
			continue
		}
		results = append(results, exporter.PhaseFeatures{
			Phase:    phase,
			NumBeats: numBeats,
			Features: features,
		})
		logger.InfoContext(ctx, "Phase processed",
			slog.String("phase", phase),
			slog.Int("n_beats", numBeats),
			slog.Float64("hr_mean", features.MeanHR))
	}

	if len(results) == 0 {
		logger.ErrorContext(ctx, "No phase could be processed")
		os.Exit(1)
	}

	hrvExporter := exporter.NewHRVExporter(paths)
	if err := hrvExporter.ExportCSV(*outFile, *subject, results); err != nil {
		logger.ErrorContext(ctx, "Failed to write CSV report", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *xlsxFile != "" {
		subjects := map[string][]exporter.PhaseFeatures{*subject: results}
		if err := hrvExporter.ExportWorkbook(*xlsxFile, subjects); err != nil {
			logger.ErrorContext(ctx, "Failed to write Excel report", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "HRV report written",
		slog.String("output_file", *outFile),
		slog.Int("phases", len(results)))
	fmt.Printf("Processed %d phases\n", len(results))
}

// processPhase runs the full ECG pipeline on one recording and returns
// its HRV features together with the detected beat count.
func processPhase(processor *ecg.Processor, rec *dataio.Recording, methods []ecg.OutlierMethod, bounds ecg.HRBounds) (ecg.TimeDomainFeatures, int, error) {
	signal, err := ecgChannel(rec)
	if err != nil {
		return ecg.TimeDomainFeatures{}, 0, err
	}

	peaks, err := processor.DetectRPeaks(signal)
	if err != nil {
		return ecg.TimeDomainFeatures{}, 0, err
	}
	peaks, err = processor.CorrectRPeaks(signal, peaks)
	if err != nil {
		return ecg.TimeDomainFeatures{}, 0, err
	}

	rri := ecg.RRIntervals(peaks, processor.SamplingRate())
	rri, err = processor.CorrectOutliers(rri, methods, bounds, len(rri))
	if err != nil {
		return ecg.TimeDomainFeatures{}, 0, err
	}

	features, err := ecg.HRVTimeDomain(rri)
	if err != nil {
		return ecg.TimeDomainFeatures{}, 0, err
	}
	return features, len(peaks), nil
}

// ecgChannel picks the single loaded ECG datastream from a recording.
func ecgChannel(rec *dataio.Recording) ([]float64, error) {
	if len(rec.Columns) == 0 {
		return nil, fmt.Errorf("recording has no ECG channel")
	}
	return rec.Data[rec.Columns[0]], nil
}

func parseOutlierMethods(spec string) []ecg.OutlierMethod {
	if spec == "" {
		return ecg.DefaultOutlierMethods
	}
	var methods []ecg.OutlierMethod
	for _, name := range strings.Split(spec, ",") {
		methods = append(methods, ecg.OutlierMethod(strings.TrimSpace(name)))
	}
	return methods
}

func sortedPhases(recordings map[string]*dataio.Recording) []string {
	phases := make([]string, 0, len(recordings))
	for phase := range recordings {
		phases = append(phases, phase)
	}
	sort.Strings(phases)
	return phases
}
