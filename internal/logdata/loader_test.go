package logdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psykit/internal/errors"
)

const sampleCSV = `time,action,extras
2019-11-02T21:30:00Z,subject_id_set,"{""subject_id"": ""Vp01"", ""subject_condition"": ""SPONTANEOUS""}"
2019-11-02T21:35:00Z,lights_out,
2019-11-03T07:30:00Z,day_finished,"{""day_counter"": 1}"
`

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2019, 11, 2, 21, 30, 0, 0, time.UTC), records[0].Time)
	assert.Equal(t, ActionSubjectIDSet, records[0].Action)
	assert.Equal(t, "Vp01", records[0].Extras[ExtraSubjectID])

	assert.Equal(t, ActionLightsOut, records[1].Action)
	assert.Empty(t, records[1].Extras)

	assert.Equal(t, float64(1), records[2].Extras[ExtraDayCounter])
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "header only",
			input: "time,action,extras\n",
			code:  apperrors.CodeEmptyInput,
		},
		{
			name:  "missing action column",
			input: "time,extras\n2019-11-02T21:30:00Z,{}\n",
			code:  apperrors.CodeFileFormat,
		},
		{
			name:  "unparseable timestamp",
			input: "time,action,extras\nyesterday,lights_out,\n",
			code:  apperrors.CodeFileFormat,
		},
		{
			name:  "malformed extras json",
			input: "time,action,extras\n2019-11-02T21:30:00Z,lights_out,not-json\n",
			code:  apperrors.CodeFileFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.New(tt.code, ""))
		})
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs_Vp01.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ld, err := LoadCSV(path, ErrorHandlingIgnore, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "Vp01", ld.SubjectID())
	assert.Equal(t, "Spontaneous Awakening", ld.Condition())
	assert.Equal(t, 1, ld.NumFinishedDays())
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), ErrorHandlingIgnore, discardLogger())
	require.Error(t, err)
}
