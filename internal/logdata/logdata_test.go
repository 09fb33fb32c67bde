package logdata

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psykit/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// twoNightLog builds a plausible two-night recording: metadata and alarms
// on the first evening, a day_finished the next morning, then a second
// night after a long gap.
func twoNightLog(t *testing.T) *LogData {
	t.Helper()
	t0 := time.Date(2019, 11, 2, 21, 30, 0, 0, time.UTC)
	records := []Record{
		{Time: t0, Action: ActionAppMetadata, Extras: map[string]any{
			ExtraAppVersionCode: float64(10500),
			ExtraAppVersionName: "1.2.0_debug",
		}},
		{Time: t0.Add(1 * time.Second), Action: ActionPhoneMetadata, Extras: map[string]any{
			ExtraBrand:           "samsung",
			ExtraManufacturer:    "Samsung",
			ExtraModel:           "SM-G950F",
			ExtraVersionSDKLevel: float64(28),
		}},
		{Time: t0.Add(2 * time.Second), Action: ActionSubjectIDSet, Extras: map[string]any{
			ExtraSubjectID:        "Vp01",
			ExtraSubjectCondition: "KNOWN_ALARM",
		}},
		{Time: t0.Add(10 * time.Minute), Action: ActionAlarmSet, Extras: map[string]any{
			ExtraAlarmID: float64(1), ExtraTimestamp: "2019-11-03T06:30:00Z",
		}},
		{Time: t0.Add(30 * time.Minute), Action: ActionLightsOut, Extras: map[string]any{}},
		{Time: t0.Add(9 * time.Hour), Action: ActionAlarmRing, Extras: map[string]any{
			ExtraAlarmID: float64(1), ExtraSalivaID: float64(0),
		}},
		{Time: t0.Add(10 * time.Hour), Action: ActionDayFinished, Extras: map[string]any{
			ExtraDayCounter: float64(1),
		}},
		// second night, 14 h after the previous record
		{Time: t0.Add(24 * time.Hour), Action: ActionLightsOut, Extras: map[string]any{}},
		{Time: t0.Add(34 * time.Hour), Action: ActionDayFinished, Extras: map[string]any{
			ExtraDayCounter: float64(2),
		}},
	}
	ld, err := New(records, ErrorHandlingIgnore, discardLogger())
	require.NoError(t, err)
	return ld
}

func TestExtractInfo(t *testing.T) {
	ld := twoNightLog(t)

	assert.Equal(t, "Vp01", ld.SubjectID())
	assert.Equal(t, "Known Alarm", ld.Condition())
	assert.Equal(t, "Samsung Galaxy S8", ld.Info.Model())
	assert.Equal(t, "Samsung", ld.Info.Manufacturer())
	assert.Equal(t, 28, ld.Info.AndroidVersion())
	assert.Equal(t, "1.2.0", ld.AppVersion())

	require.Len(t, ld.Info.LogDays, 3)
	assert.Equal(t, time.Date(2019, 11, 2, 0, 0, 0, 0, time.UTC), ld.StartDate())
	assert.Equal(t, time.Date(2019, 11, 4, 0, 0, 0, 0, time.UTC), ld.EndDate())
}

func TestExtractInfoKeepsRecordsIntact(t *testing.T) {
	ld := twoNightLog(t)

	// the readable model name lives in Info only
	assert.Equal(t, "Samsung Galaxy S8", ld.Info.Model())
	for _, rec := range ld.Records {
		if rec.Action == ActionPhoneMetadata {
			assert.Equal(t, "SM-G950F", rec.Extras[ExtraModel])
		}
	}
}

func TestExtractInfoDefaults(t *testing.T) {
	records := []Record{
		{Time: time.Date(2019, 11, 2, 22, 0, 0, 0, time.UTC), Action: ActionScreenOff},
		{Time: time.Date(2019, 11, 2, 22, 1, 0, 0, time.UTC), Action: ActionSubjectIDSet, Extras: map[string]any{
			ExtraSubjectID:        "Vp02",
			ExtraSubjectCondition: "SOMETHING_NEW",
		}},
	}
	ld, err := New(records, ErrorHandlingIgnore, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "Vp02", ld.SubjectID())
	assert.Equal(t, "Undefined", ld.Condition())
	assert.Equal(t, "n/a", ld.Info.Model())
	assert.Equal(t, 0, ld.Info.AndroidVersion())
	assert.Equal(t, "1.0.0", ld.AppVersion())
}

func TestNewValidation(t *testing.T) {
	ts := time.Date(2019, 11, 2, 22, 0, 0, 0, time.UTC)

	t.Run("no records", func(t *testing.T) {
		_, err := New(nil, ErrorHandlingIgnore, discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	})

	t.Run("out of order records", func(t *testing.T) {
		records := []Record{
			{Time: ts, Action: ActionScreenOn},
			{Time: ts.Add(-time.Second), Action: ActionScreenOff},
		}
		_, err := New(records, ErrorHandlingIgnore, discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotMonotonic)
	})

	t.Run("duplicate timestamps", func(t *testing.T) {
		records := []Record{
			{Time: ts, Action: ActionScreenOn},
			{Time: ts, Action: ActionScreenOff},
		}
		_, err := New(records, ErrorHandlingIgnore, discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotMonotonic)
	})

	t.Run("invalid handling mode", func(t *testing.T) {
		records := []Record{{Time: ts, Action: ActionScreenOn}}
		_, err := New(records, ErrorHandling("panic"), discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnknownOption)
	})
}

func TestUnknownActionHandling(t *testing.T) {
	ts := time.Date(2019, 11, 2, 22, 0, 0, 0, time.UTC)
	records := []Record{
		{Time: ts, Action: ActionScreenOn},
		{Time: ts.Add(time.Second), Action: "made_up_action"},
	}

	t.Run("ignore keeps the record", func(t *testing.T) {
		ld, err := New(records, ErrorHandlingIgnore, discardLogger())
		require.NoError(t, err)
		assert.Len(t, ld.Records, 2)
	})

	t.Run("warn keeps the record", func(t *testing.T) {
		ld, err := New(records, ErrorHandlingWarn, discardLogger())
		require.NoError(t, err)
		assert.Len(t, ld.Records, 2)
	})

	t.Run("error rejects the log", func(t *testing.T) {
		_, err := New(records, ErrorHandlingError, discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnknownOption)
	})
}

func TestGetActionAndExtras(t *testing.T) {
	ld := twoNightLog(t)

	finished := ld.GetAction(ActionDayFinished)
	require.Len(t, finished, 2)
	assert.Equal(t, float64(1), finished[0].Extras[ExtraDayCounter])
	assert.Equal(t, float64(2), finished[1].Extras[ExtraDayCounter])

	assert.Empty(t, ld.GetAction("made_up_action"))
	assert.Empty(t, ld.GetAction(ActionBarcodeScanned))

	ring := ld.GetExtras(ActionAlarmRing)
	assert.Equal(t, float64(1), ring[ExtraAlarmID])
	assert.Empty(t, ld.GetExtras(ActionBarcodeScanned))
}

func TestLogsForDate(t *testing.T) {
	ld := twoNightLog(t)

	day1 := ld.LogsForDate(time.Date(2019, 11, 2, 0, 0, 0, 0, time.UTC))
	assert.Len(t, day1, 5)
	day2 := ld.LogsForDate(time.Date(2019, 11, 3, 0, 0, 0, 0, time.UTC))
	assert.Len(t, day2, 3)
	assert.Empty(t, ld.LogsForDate(time.Date(2019, 12, 24, 0, 0, 0, 0, time.UTC)))
}

func TestSplitNights(t *testing.T) {
	ld := twoNightLog(t)

	nights := ld.SplitNights(0)
	require.Len(t, nights, 2)
	assert.Len(t, nights[0], 7)
	assert.Len(t, nights[1], 2)

	// a huge gap keeps everything together
	assert.Len(t, ld.SplitNights(48*time.Hour), 1)
}

func TestFinishedDays(t *testing.T) {
	ld := twoNightLog(t)

	days := ld.FinishedDays()
	require.Len(t, days, 2)
	assert.Equal(t, 2, ld.NumFinishedDays())
	assert.True(t, days[1].After(days[0]))
}
