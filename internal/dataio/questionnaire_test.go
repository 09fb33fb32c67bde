package dataio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "psykit/internal/errors"
)

func writeQuestionnaireFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questionnaire.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"subject", "condition", "pss_total", "age"},
		{"Vp01", "Control", 14, 24},
		{"Vp02", "Stress", 22, 31},
		{"Vp03", "Control", 11, 27},
		{"Vp04", "Stress", 25, 22},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadQuestionnaireExcel(t *testing.T) {
	path := writeQuestionnaireFixture(t)

	q, err := LoadQuestionnaireExcel(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"subject", "condition", "pss_total", "age"}, q.Columns)
	require.Len(t, q.Rows, 4)

	subjects, err := q.Column("subject")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vp01", "Vp02", "Vp03", "Vp04"}, subjects)

	_, err = q.Column("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
}

func TestQuestionnaireToDataset(t *testing.T) {
	path := writeQuestionnaireFixture(t)
	q, err := LoadQuestionnaireExcel(path, "")
	require.NoError(t, err)

	d, err := q.ToDataset([]string{"condition"}, []string{"pss_total"})
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())

	levels, groups, err := d.GroupValues("pss_total", "condition")
	require.NoError(t, err)
	assert.Equal(t, []string{"Control", "Stress"}, levels)
	assert.Equal(t, []float64{14, 11}, groups[0])
	assert.Equal(t, []float64{22, 25}, groups[1])
}

func TestQuestionnaireToDatasetErrors(t *testing.T) {
	path := writeQuestionnaireFixture(t)
	q, err := LoadQuestionnaireExcel(path, "")
	require.NoError(t, err)

	t.Run("no value columns", func(t *testing.T) {
		_, err := q.ToDataset([]string{"condition"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	})

	t.Run("non numeric value column", func(t *testing.T) {
		_, err := q.ToDataset(nil, []string{"subject"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestLoadQuestionnaireExcelMissingFile(t *testing.T) {
	_, err := LoadQuestionnaireExcel(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	require.Error(t, err)
}
