package dataio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/edf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psykit/internal/errors"
)

// writeEDFFixture creates a two-channel EDF file with two one-second
// data records and returns its path.
func writeEDFFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.edf")

	file, err := os.Create(path)
	require.NoError(t, err)

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "Vp01",
		RecordingID:        "sleep lab night 1",
		StartTime:          time.Date(2019, 11, 2, 22, 15, 0, 0, time.UTC),
		DataRecordDuration: time.Second,
		SignalCount:        2,
		Signals: []edf.SignalHeader{
			{
				Label:             "ECG",
				PhysicalDimension: "mV",
				PhysicalMin:       -5,
				PhysicalMax:       5,
				DigitalMin:        -32768,
				DigitalMax:        32767,
				SamplesPerRecord:  4,
			},
			{
				Label:             "EEG Fpz-Cz",
				PhysicalDimension: "uV",
				PhysicalMin:       -100,
				PhysicalMax:       100,
				DigitalMin:        -32768,
				DigitalMax:        32767,
				SamplesPerRecord:  2,
			},
		},
	}

	w, err := edf.Create(file, hdr)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord([][]float64{
		{0.1, 0.5, 1.0, 0.5},
		{10, -10},
	}))
	require.NoError(t, w.WriteRecord([][]float64{
		{0.1, 0.4, 0.9, 0.4},
		{12, -12},
	}))
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())
	return path
}

func TestLoadEDF(t *testing.T) {
	path := writeEDFFixture(t)

	rec, err := LoadEDF(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Vp01", rec.PatientID)
	assert.Equal(t, "sleep lab night 1", rec.RecordingID)
	assert.Equal(t, time.Date(2019, 11, 2, 22, 15, 0, 0, time.UTC), rec.StartTime)
	assert.Equal(t, 2*time.Second, rec.Duration)
	require.Len(t, rec.Signals, 2)

	ecg := rec.Signals[0]
	assert.Equal(t, "ECG", ecg.Label)
	assert.Equal(t, "mV", ecg.Dimension)
	assert.Equal(t, 4.0, ecg.SamplingRate)
	require.Len(t, ecg.Samples, 8)
	assert.InDelta(t, 0.1, ecg.Samples[0], 1e-3)
	assert.InDelta(t, 1.0, ecg.Samples[2], 1e-3)
	assert.InDelta(t, 0.9, ecg.Samples[6], 1e-3)

	eeg := rec.Signals[1]
	assert.Equal(t, 2.0, eeg.SamplingRate)
	require.Len(t, eeg.Samples, 4)
	assert.InDelta(t, 12, eeg.Samples[2], 0.05)
}

func TestLoadEDFLabelFilter(t *testing.T) {
	path := writeEDFFixture(t)

	rec, err := LoadEDF(path, []string{"EEG"})
	require.NoError(t, err)
	require.Len(t, rec.Signals, 1)
	assert.Equal(t, "EEG Fpz-Cz", rec.Signals[0].Label)

	_, err = rec.Signal("Fpz")
	require.NoError(t, err)
	_, err = rec.Signal("EMG")
	require.Error(t, err)
}

func TestLoadEDFNoMatchingChannels(t *testing.T) {
	path := writeEDFFixture(t)

	_, err := LoadEDF(path, []string{"EMG"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestLoadEDFBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.edf")
	require.NoError(t, os.WriteFile(path, []byte("not an edf file"), 0o644))

	_, err := LoadEDF(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileFormat)
}

func TestLoadEDFMissingFile(t *testing.T) {
	_, err := LoadEDF(filepath.Join(t.TempDir(), "nope.edf"), nil)
	require.Error(t, err)
}
