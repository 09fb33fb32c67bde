package logdata

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	apperrors "psykit/internal/errors"
)

// ErrorHandling selects how unknown actions and missing subject
// information are treated while building a LogData.
type ErrorHandling string

const (
	ErrorHandlingIgnore ErrorHandling = "ignore"
	ErrorHandlingWarn   ErrorHandling = "warn"
	ErrorHandlingError  ErrorHandling = "error"
)

var errorHandlingModes = []string{
	string(ErrorHandlingIgnore),
	string(ErrorHandlingWarn),
	string(ErrorHandlingError),
}

// Record is a single log line: a timestamped action with its decoded
// extras payload.
type Record struct {
	Time   time.Time
	Action string
	Extras map[string]any
}

// Info holds the per-subject metadata extracted from a log.
type Info struct {
	SubjectID     string
	Condition     string
	LogDays       []time.Time
	AppMetadata   map[string]any
	PhoneMetadata map[string]any
}

// AppVersionName returns the reported app version, or a default when the
// log carries no app metadata.
func (i Info) AppVersionName() string {
	if v, ok := i.AppMetadata[ExtraAppVersionName].(string); ok {
		return v
	}
	return "1.0.0"
}

// Model returns the marketing name of the subject's phone.
func (i Info) Model() string {
	if v, ok := i.PhoneMetadata[ExtraModel].(string); ok {
		return v
	}
	return "n/a"
}

// Manufacturer returns the phone manufacturer.
func (i Info) Manufacturer() string {
	if v, ok := i.PhoneMetadata[ExtraManufacturer].(string); ok {
		return v
	}
	return "n/a"
}

// AndroidVersion returns the reported SDK level, 0 when absent. JSON
// decoding yields float64 for numbers.
func (i Info) AndroidVersion() int {
	switch v := i.PhoneMetadata[ExtraVersionSDKLevel].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// LogData is a chronologically ordered app log for one subject.
type LogData struct {
	Records []Record
	Info    Info

	handling ErrorHandling
	logger   *slog.Logger
}

// New validates the records and extracts the subject metadata. Records
// must be in strictly increasing time order. Unknown actions are handled
// per the error handling mode.
func New(records []Record, handling ErrorHandling, logger *slog.Logger) (*LogData, error) {
	if handling == "" {
		handling = ErrorHandlingIgnore
	}
	switch handling {
	case ErrorHandlingIgnore, ErrorHandlingWarn, ErrorHandlingError:
	default:
		return nil, apperrors.UnknownOption("error_handling", string(handling), errorHandlingModes)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(records) == 0 {
		return nil, apperrors.EmptyInput("log records")
	}

	for i := 1; i < len(records); i++ {
		if !records[i].Time.After(records[i-1].Time) {
			return nil, apperrors.NewWithDetails(apperrors.CodeNotMonotonic,
				"log records must be in strictly increasing time order", records[i].Time)
		}
	}

	for _, rec := range records {
		if _, known := ActionExtras[rec.Action]; known {
			continue
		}
		switch handling {
		case ErrorHandlingWarn:
			logger.Warn("unknown log action", "action", rec.Action, "time", rec.Time)
		case ErrorHandlingError:
			return nil, apperrors.UnknownOption("action", rec.Action, knownActions())
		}
	}

	ld := &LogData{Records: records, handling: handling, logger: logger}
	ld.Info = ld.ExtractInfo()
	return ld, nil
}

// ExtractInfo pulls subject id, condition, app and phone metadata, and
// the set of log days out of the records.
func (ld *LogData) ExtractInfo() Info {
	info := Info{
		SubjectID:   "",
		Condition:   SubjectConditions["UNDEFINED"],
		AppMetadata: map[string]any{},
	}

	subject := ld.GetExtras(ActionSubjectIDSet)
	if len(subject) > 0 {
		if id, ok := subject[ExtraSubjectID].(string); ok {
			info.SubjectID = id
		}
		if cond, ok := subject[ExtraSubjectCondition].(string); ok {
			info.Condition = ConditionName(cond)
		}
	} else if ld.handling == ErrorHandlingWarn {
		ld.logger.Warn("subject_id_set action not found, log data may be invalid")
	}

	if app := ld.GetExtras(ActionAppMetadata); len(app) > 0 {
		info.AppMetadata = app
	}

	// copy so the readable model name does not leak into the record
	if phone := ld.GetExtras(ActionPhoneMetadata); len(phone) > 0 {
		meta := make(map[string]any, len(phone))
		for k, v := range phone {
			meta[k] = v
		}
		if model, ok := meta[ExtraModel].(string); ok {
			meta[ExtraModel] = ModelName(model)
		}
		info.PhoneMetadata = meta
	}

	info.LogDays = logDays(ld.Records)
	return info
}

// GetAction returns all records carrying the given action. Unknown
// actions yield an empty slice.
func (ld *LogData) GetAction(action string) []Record {
	if _, known := ActionExtras[action]; !known {
		return nil
	}
	var out []Record
	for _, rec := range ld.Records {
		if rec.Action == action {
			out = append(out, rec)
		}
	}
	return out
}

// GetExtras returns the extras of the first record with the given action,
// or an empty map when the action never occurs.
func (ld *LogData) GetExtras(action string) map[string]any {
	for _, rec := range ld.Records {
		if rec.Action == action {
			if rec.Extras == nil {
				return map[string]any{}
			}
			return rec.Extras
		}
	}
	return map[string]any{}
}

// LogsForDate returns the records whose timestamp falls on the given
// calendar day, compared in the day's location.
func (ld *LogData) LogsForDate(day time.Time) []Record {
	y, m, d := day.Date()
	var out []Record
	for _, rec := range ld.Records {
		ry, rm, rd := rec.Time.In(day.Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, rec)
		}
	}
	return out
}

// SplitNights partitions the records wherever consecutive timestamps are
// more than gap apart. A zero gap defaults to 12 hours, matching one
// recording night per partition.
func (ld *LogData) SplitNights(gap time.Duration) [][]Record {
	if gap <= 0 {
		gap = 12 * time.Hour
	}
	var nights [][]Record
	start := 0
	for i := 1; i < len(ld.Records); i++ {
		if ld.Records[i].Time.Sub(ld.Records[i-1].Time) > gap {
			nights = append(nights, ld.Records[start:i])
			start = i
		}
	}
	nights = append(nights, ld.Records[start:])
	return nights
}

// FinishedDays returns the timestamps of all day_finished actions.
func (ld *LogData) FinishedDays() []time.Time {
	var out []time.Time
	for _, rec := range ld.GetAction(ActionDayFinished) {
		out = append(out, rec.Time)
	}
	return out
}

// NumFinishedDays returns how many recording days the subject completed.
func (ld *LogData) NumFinishedDays() int {
	return len(ld.FinishedDays())
}

// SubjectID returns the subject identifier from the log metadata.
func (ld *LogData) SubjectID() string { return ld.Info.SubjectID }

// Condition returns the display name of the subject's awakening condition.
func (ld *LogData) Condition() string { return ld.Info.Condition }

// AppVersion returns the app version with any build suffix stripped.
func (ld *LogData) AppVersion() string {
	version := ld.Info.AppVersionName()
	if idx := strings.Index(version, "_"); idx >= 0 {
		return version[:idx]
	}
	return version
}

// StartDate returns the first log day, zero when no records exist.
func (ld *LogData) StartDate() time.Time {
	if len(ld.Info.LogDays) == 0 {
		return time.Time{}
	}
	return ld.Info.LogDays[0]
}

// EndDate returns the last log day, zero when no records exist.
func (ld *LogData) EndDate() time.Time {
	if len(ld.Info.LogDays) == 0 {
		return time.Time{}
	}
	return ld.Info.LogDays[len(ld.Info.LogDays)-1]
}

// logDays returns the distinct calendar days covered by the records,
// normalized to midnight. Records are time ordered, so days come out
// ordered too.
func logDays(records []Record) []time.Time {
	var days []time.Time
	for _, rec := range records {
		y, m, d := rec.Time.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, rec.Time.Location())
		if len(days) == 0 || !day.Equal(days[len(days)-1]) {
			days = append(days, day)
		}
	}
	return days
}

func knownActions() []string {
	out := make([]string, 0, len(ActionExtras))
	for action := range ActionExtras {
		out = append(out, action)
	}
	sort.Strings(out)
	return out
}
