// Package dataio loads sensor recordings: NilsPod CSV exports, EDF/EDF+
// biosignal files and questionnaire spreadsheets.
package dataio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "psykit/internal/errors"
)

// nilsPodCSVPattern extracts the recording start time from an exported
// file name, e.g. NilsPodX-7FAD_20191102_215500.csv.
var nilsPodCSVPattern = regexp.MustCompile(`NilsPodX-\w{4}_(.*?)\.csv`)

const nilsPodTimeLayout = "20060102_150405"

// Recording is a multi-channel sensor recording with a fixed sampling
// rate. Column order follows the source file.
type Recording struct {
	StartTime    time.Time
	SamplingRate float64
	Columns      []string
	Data         map[string][]float64
}

// Len returns the number of samples per channel.
func (r *Recording) Len() int {
	if len(r.Columns) == 0 {
		return 0
	}
	return len(r.Data[r.Columns[0]])
}

// Timestamps derives per-sample times from the start time and sampling
// rate.
func (r *Recording) Timestamps() []time.Time {
	n := r.Len()
	out := make([]time.Time, n)
	step := time.Duration(float64(time.Second) / r.SamplingRate)
	for i := 0; i < n; i++ {
		out[i] = r.StartTime.Add(time.Duration(i) * step)
	}
	return out
}

// LoadCSVNilsPod reads a NilsPod CSV export. The first line carries
// recording metadata with the sampling rate in its second field, the
// second line the channel names including the sample counter column
// "timestamp". The recording start time is inferred from the file name;
// loc gives the timezone it was recorded in (nil means UTC).
//
// datastreams optionally restricts the loaded channels: a channel is
// kept when its name contains one of the given datastream names.
func LoadCSVNilsPod(path string, datastreams []string, loc *time.Location) (*Recording, error) {
	if !strings.HasSuffix(path, ".csv") {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"expected a .csv file", path)
	}
	if loc == nil {
		loc = time.UTC
	}

	startTime, err := startTimeFromFilename(filepath.Base(path), loc)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse recording %s: %w", path, err)
	}
	if len(rows) < 3 {
		return nil, apperrors.EmptyInput("recording rows")
	}

	// metadata line: sampling rate in the second field
	if len(rows[0]) < 2 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"missing sampling rate in file header", rows[0])
	}
	samplingRate, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64)
	if err != nil || samplingRate <= 0 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"invalid sampling rate in file header", rows[0][1])
	}

	header := rows[1]
	counterCol := -1
	for i, name := range header {
		if name == "timestamp" {
			counterCol = i
		}
	}
	if counterCol < 0 {
		return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"recording has no timestamp column", header)
	}

	rec := &Recording{
		StartTime:    startTime,
		SamplingRate: samplingRate,
		Data:         map[string][]float64{},
	}
	for i, name := range header {
		if i == counterCol {
			continue
		}
		if !matchDatastream(name, datastreams) {
			continue
		}
		rec.Columns = append(rec.Columns, name)
		rec.Data[name] = make([]float64, 0, len(rows)-2)
	}

	counter := make([]float64, 0, len(rows)-2)
	for rowIdx, row := range rows[2:] {
		if len(row) != len(header) {
			return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
				"recording row has wrong column count", rowIdx+3)
		}
		for i, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, apperrors.NewWithDetails(apperrors.CodeFileFormat,
					fmt.Sprintf("row %d: non-numeric sample", rowIdx+3), cell)
			}
			if i == counterCol {
				counter = append(counter, v)
				continue
			}
			name := header[i]
			if _, ok := rec.Data[name]; ok {
				rec.Data[name] = append(rec.Data[name], v)
			}
		}
	}
	rec.Data["counter"] = counter
	return rec, nil
}

// Counter returns the raw sample counter column of a loaded recording.
func (r *Recording) Counter() []float64 { return r.Data["counter"] }

func matchDatastream(column string, datastreams []string) bool {
	if len(datastreams) == 0 {
		return true
	}
	for _, ds := range datastreams {
		if strings.Contains(column, ds) {
			return true
		}
	}
	return false
}

func startTimeFromFilename(name string, loc *time.Location) (time.Time, error) {
	m := nilsPodCSVPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"file name does not match the NilsPod export pattern", name)
	}
	ts, err := time.ParseInLocation(nilsPodTimeLayout, m[1], loc)
	if err != nil {
		return time.Time{}, apperrors.NewWithDetails(apperrors.CodeFileFormat,
			"file name carries an unparseable start time", m[1])
	}
	return ts, nil
}

// LoadFolderNilsPod loads all NilsPod CSV exports in a folder, keyed by
// phase name. Phase names default to Part0, Part1, ... in sorted file
// order and must otherwise match the file count. All recordings must
// share one sampling rate, which is returned alongside.
func LoadFolderNilsPod(folder string, phaseNames []string, datastreams []string, loc *time.Location) (map[string]*Recording, float64, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*.csv"))
	if err != nil {
		return nil, 0, fmt.Errorf("scan folder %s: %w", folder, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, 0, apperrors.EmptyInput("recording files in folder")
	}

	if phaseNames == nil {
		for i := range matches {
			phaseNames = append(phaseNames, fmt.Sprintf("Part%d", i))
		}
	}
	if len(phaseNames) != len(matches) {
		return nil, 0, apperrors.LengthMismatch("phase names and recordings",
			len(matches), len(phaseNames))
	}

	out := make(map[string]*Recording, len(matches))
	samplingRate := 0.0
	for i, path := range matches {
		rec, err := LoadCSVNilsPod(path, datastreams, loc)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			samplingRate = rec.SamplingRate
		} else if rec.SamplingRate != samplingRate {
			return nil, 0, apperrors.NewWithDetails(apperrors.CodeValidationFailed,
				"recordings in folder have different sampling rates",
				[]float64{samplingRate, rec.SamplingRate})
		}
		out[phaseNames[i]] = rec
	}
	return out, samplingRate, nil
}
