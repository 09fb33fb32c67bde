package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"psykit/internal/config"
	"psykit/internal/ecg"
)

// featureColumns fixes the column order of HRV reports.
var featureColumns = []string{
	"hrv_mean_nn", "hrv_sdnn", "hrv_rmssd", "hrv_sdsd", "hrv_cvnn",
	"hrv_pnn50", "hrv_pnn20", "hr_mean", "hr_std", "hr_min", "hr_max",
}

// PhaseFeatures holds the HRV features computed for one recording phase.
type PhaseFeatures struct {
	Phase    string
	NumBeats int
	Features ecg.TimeDomainFeatures
}

// HRVExporter writes heart rate variability reports
type HRVExporter struct {
	csvWriter *CSVWriter
}

// NewHRVExporter creates a new HRV report exporter
func NewHRVExporter(paths *config.Paths) *HRVExporter {
	return &HRVExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportCSV writes one subject's per-phase HRV features to a CSV file
func (e *HRVExporter) ExportCSV(filePath, subjectID string, phases []PhaseFeatures) error {
	records := make([][]string, 0, len(phases))
	for _, phase := range phases {
		records = append(records, e.featureRow(subjectID, phase))
	}
	return e.csvWriter.WriteSimpleCSV(filePath, e.headers(), records)
}

// ExportCombinedCSV writes the features of all subjects to a single CSV
// file using streaming, one row per subject and phase. Subjects are
// written in sorted order for stable output.
func (e *HRVExporter) ExportCombinedCSV(filePath string, subjects map[string][]PhaseFeatures) error {
	stream, err := e.csvWriter.CreateStreamWriter(filePath, e.headers())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, subjectID := range sortedKeys(subjects) {
		for _, phase := range subjects[subjectID] {
			if err := stream.WriteRecord(e.featureRow(subjectID, phase)); err != nil {
				stream.Close()
				return fmt.Errorf("failed to write record for %s: %w", subjectID, err)
			}
		}
	}

	return stream.Close()
}

// ExportWorkbook writes an Excel workbook with one sheet per subject
func (e *HRVExporter) ExportWorkbook(filePath string, subjects map[string][]PhaseFeatures) error {
	if len(subjects) == 0 {
		return fmt.Errorf("no subjects to export")
	}

	fullPath := e.csvWriter.resolvePath(filePath)

	f := excelize.NewFile()
	defer f.Close()

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, subjectID := range sortedKeys(subjects) {
		sheet := subjectID
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		headers := e.headers()
		for col, header := range headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
		}
		lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", lastHeader, boldStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}

		for row, phase := range subjects[subjectID] {
			values := e.featureRow(subjectID, phase)
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row+2)
				if err != nil {
					return fmt.Errorf("failed to build cell name: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("failed to write cell: %w", err)
				}
			}
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// headers returns the CSV headers for HRV feature rows
func (e *HRVExporter) headers() []string {
	headers := []string{"subject", "phase", "n_beats"}
	return append(headers, featureColumns...)
}

// featureRow converts one phase's features to a CSV row
func (e *HRVExporter) featureRow(subjectID string, phase PhaseFeatures) []string {
	row := []string{
		subjectID,
		phase.Phase,
		formatInt(int64(phase.NumBeats)),
	}
	values := phase.Features.Map()
	for _, column := range featureColumns {
		row = append(row, formatFloat(values[column]))
	}
	return row
}

func sortedKeys(m map[string][]PhaseFeatures) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
