package exporter

import (
	"fmt"
	"time"

	"psykit/internal/config"
	"psykit/internal/logdata"
)

// LogReportExporter writes summaries of smartphone app logs
type LogReportExporter struct {
	csvWriter *CSVWriter
}

// NewLogReportExporter creates a new log report exporter
func NewLogReportExporter(paths *config.Paths) *LogReportExporter {
	return &LogReportExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportSubjectSummary writes one row per subject with the metadata
// extracted from its log
func (e *LogReportExporter) ExportSubjectSummary(filePath string, logs []*logdata.LogData) error {
	headers := []string{
		"subject", "condition", "app_version", "model", "manufacturer",
		"android_version", "start_date", "end_date", "log_days", "finished_days",
	}

	records := make([][]string, 0, len(logs))
	for _, ld := range logs {
		records = append(records, []string{
			ld.SubjectID(),
			ld.Condition(),
			ld.AppVersion(),
			ld.Info.Model(),
			ld.Info.Manufacturer(),
			formatInt(int64(ld.Info.AndroidVersion())),
			formatDate(ld.StartDate()),
			formatDate(ld.EndDate()),
			formatInt(int64(len(ld.Info.LogDays))),
			formatInt(int64(ld.NumFinishedDays())),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportDailyActions writes one row per log day of a single subject,
// marking days on which the subject completed the sampling protocol
func (e *LogReportExporter) ExportDailyActions(filePath string, ld *logdata.LogData) error {
	headers := []string{"subject", "date", "n_records", "finished"}

	finished := make(map[time.Time]bool, ld.NumFinishedDays())
	for _, ts := range ld.FinishedDays() {
		y, m, d := ts.Date()
		finished[time.Date(y, m, d, 0, 0, 0, 0, ts.Location())] = true
	}

	records := make([][]string, 0, len(ld.Info.LogDays))
	for _, day := range ld.Info.LogDays {
		records = append(records, []string{
			ld.SubjectID(),
			formatDate(day),
			formatInt(int64(len(ld.LogsForDate(day)))),
			formatBool(finished[day]),
		})
	}

	if err := e.csvWriter.WriteSimpleCSV(filePath, headers, records); err != nil {
		return fmt.Errorf("failed to write daily report for %s: %w", ld.SubjectID(), err)
	}
	return nil
}

// formatDate formats a day for CSV output, empty for the zero time
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
