package logdata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	apperrors "psykit/internal/errors"
)

// timeLayouts are tried in order when parsing the time column. Exported
// log files carry either RFC 3339 or a plain local timestamp.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// LoadCSV reads an app log export with columns time, action, extras and
// builds a LogData from it. The extras column holds per-record JSON; an
// empty cell decodes to an empty map.
func LoadCSV(path string, handling ErrorHandling, logger *slog.Logger) (*LogData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	records, err := ReadRecords(file)
	if err != nil {
		return nil, fmt.Errorf("read log file %s: %w", path, err)
	}
	return New(records, handling, logger)
}

// ReadRecords parses log records from CSV input. The first row is the
// header and must name the time, action and extras columns.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, apperrors.EmptyInput("log rows")
	}

	timeCol, actionCol, extrasCol, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) <= actionCol || len(row) <= timeCol {
			return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
				"log row has too few columns", i+2)
		}
		ts, err := parseTime(row[timeCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		extras := map[string]any{}
		if extrasCol >= 0 && extrasCol < len(row) && row[extrasCol] != "" {
			if err := json.Unmarshal([]byte(row[extrasCol]), &extras); err != nil {
				return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
					fmt.Sprintf("row %d: malformed extras json", i+2), err.Error())
			}
		}

		records = append(records, Record{Time: ts, Action: row[actionCol], Extras: extras})
	}
	return records, nil
}

func headerColumns(header []string) (timeCol, actionCol, extrasCol int, err error) {
	timeCol, actionCol, extrasCol = -1, -1, -1
	for i, name := range header {
		switch name {
		case "time", "timestamp":
			timeCol = i
		case "action":
			actionCol = i
		case "extras":
			extrasCol = i
		}
	}
	if timeCol < 0 || actionCol < 0 {
		return 0, 0, 0, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"log header must name time and action columns", header)
	}
	return timeCol, actionCol, extrasCol, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, apperrors.NewWithDetails(apperrors.CodeFileFormat,
		"unparseable timestamp", value)
}
