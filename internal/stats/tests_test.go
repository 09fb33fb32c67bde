package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psykit/internal/errors"
)

// threeGroups builds a long-format dataset with three condition levels of
// equal size and unit within-group variance.
func threeGroups(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(
		map[string][]string{
			"condition": {"A", "A", "A", "B", "B", "B", "C", "C", "C"},
		},
		map[string][]float64{
			"value": {1, 2, 3, 2, 3, 4, 6, 7, 8},
		},
	)
	require.NoError(t, err)
	return d
}

func TestJarqueBera(t *testing.T) {
	// symmetric sample: skewness 0, excess kurtosis -1.3, so the
	// statistic reduces to n/6 * kurt^2/4 and the chi-squared(2)
	// survival function to exp(-W/2)
	w, p, err := jarqueBera([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.3520833, w, 1e-6)
	assert.InDelta(t, math.Exp(-0.3520833/2), p, 1e-6)
}

func TestJarqueBeraEdgeCases(t *testing.T) {
	t.Run("too few samples", func(t *testing.T) {
		_, _, err := jarqueBera([]float64{1, 2, 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
	})

	t.Run("constant sample", func(t *testing.T) {
		w, p, err := jarqueBera([]float64{2, 2, 2, 2})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(w))
		assert.True(t, math.IsNaN(p))
	})
}

func TestNormalityFunc(t *testing.T) {
	t.Run("per group", func(t *testing.T) {
		d, err := NewDataset(
			map[string][]string{"g": {"x", "x", "x", "x", "x", "y", "y", "y", "y", "y"}},
			map[string][]float64{"value": {1, 2, 3, 4, 5, 2, 4, 6, 8, 10}},
		)
		require.NoError(t, err)

		frame, err := Normality(d, map[string]string{"dv": "value", "group": "g"})
		require.NoError(t, err)
		require.Len(t, frame.Rows, 2)
		assert.Equal(t, "x", frame.Rows[0][0])
		assert.Equal(t, "y", frame.Rows[1][0])
		assert.Equal(t, true, frame.Rows[0][3])
	})

	t.Run("whole sample without group", func(t *testing.T) {
		d := threeGroups(t)
		frame, err := Normality(d, map[string]string{"dv": "value"})
		require.NoError(t, err)
		require.Len(t, frame.Rows, 1)
		assert.Equal(t, "all", frame.Rows[0][0])
	})

	t.Run("missing dv", func(t *testing.T) {
		_, err := Normality(threeGroups(t), map[string]string{})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
	})
}

func TestEqualVarFunc(t *testing.T) {
	d, err := NewDataset(
		map[string][]string{"g": {"a", "a", "a", "a", "b", "b", "b", "b"}},
		map[string][]float64{"value": {1, 2, 3, 4, 10, 20, 30, 40}},
	)
	require.NoError(t, err)

	frame, err := EqualVar(d, map[string]string{"dv": "value", "group": "g"})
	require.NoError(t, err)
	require.Len(t, frame.Rows, 1)

	// hand-computed Brown-Forsythe statistic for these two groups
	assert.InDelta(t, 972.0/101.0, frame.Rows[0][0].(float64), 1e-9)
	assert.InDelta(t, 0.021, frame.Rows[0][1].(float64), 5e-3)
	assert.Equal(t, false, frame.Rows[0][2])
}

func TestEqualVarSameSpread(t *testing.T) {
	d, err := NewDataset(
		map[string][]string{"g": {"a", "a", "a", "a", "b", "b", "b", "b"}},
		map[string][]float64{"value": {1, 2, 3, 4, 11, 12, 13, 14}},
	)
	require.NoError(t, err)

	frame, err := EqualVar(d, map[string]string{"dv": "value", "group": "g"})
	require.NoError(t, err)
	assert.Equal(t, true, frame.Rows[0][2])
}

func TestANOVAFunc(t *testing.T) {
	frame, err := ANOVA(threeGroups(t), map[string]string{"dv": "value", "between": "condition"})
	require.NoError(t, err)
	require.Len(t, frame.Rows, 1)

	row := frame.Rows[0]
	assert.Equal(t, "condition", row[0])
	assert.Equal(t, 2, row[1])
	assert.Equal(t, 6, row[2])
	assert.InDelta(t, 21.0, row[3].(float64), 1e-9)
	// for ddof1 = 2 the F survival function is (1 + 2F/ddof2)^(-ddof2/2)
	assert.InDelta(t, 1.0/512.0, row[4].(float64), 1e-9)
	assert.InDelta(t, 0.875, row[5].(float64), 1e-9)
}

func TestWelchANOVAFunc(t *testing.T) {
	frame, err := WelchANOVA(threeGroups(t), map[string]string{"dv": "value", "between": "condition"})
	require.NoError(t, err)
	require.Len(t, frame.Rows, 1)

	row := frame.Rows[0]
	assert.Equal(t, "condition", row[0])
	assert.Equal(t, 2, row[1])
	assert.InDelta(t, 4.0, row[2].(float64), 1e-9)
	assert.InDelta(t, 18.0, row[3].(float64), 1e-9)
	assert.InDelta(t, 0.01, row[4].(float64), 1e-9)
	assert.InDelta(t, 0.9, row[5].(float64), 1e-9)
}

func TestKruskalFunc(t *testing.T) {
	d, err := NewDataset(
		map[string][]string{"g": {"a", "a", "a", "b", "b", "b"}},
		map[string][]float64{"value": {1, 2, 3, 4, 5, 6}},
	)
	require.NoError(t, err)

	frame, err := Kruskal(d, map[string]string{"dv": "value", "between": "g"})
	require.NoError(t, err)
	require.Len(t, frame.Rows, 1)

	row := frame.Rows[0]
	assert.Equal(t, 1, row[1])
	assert.InDelta(t, 27.0/7.0, row[2].(float64), 1e-9)
	assert.InDelta(t, 0.0495, row[3].(float64), 1e-3)
}

func TestKruskalWithTies(t *testing.T) {
	d, err := NewDataset(
		map[string][]string{"g": {"a", "a", "a", "b", "b", "b"}},
		map[string][]float64{"value": {1, 2, 2, 2, 5, 6}},
	)
	require.NoError(t, err)

	frame, err := Kruskal(d, map[string]string{"dv": "value", "between": "g"})
	require.NoError(t, err)
	h := frame.Rows[0][2].(float64)
	assert.False(t, math.IsNaN(h))
	assert.Greater(t, h, 0.0)
}

func TestPairwiseTTestsFunc(t *testing.T) {
	d, err := NewDataset(
		map[string][]string{
			"condition": {"A", "A", "A", "A", "B", "B", "B", "B", "C", "C", "C", "C"},
		},
		map[string][]float64{
			"value": {1, 2, 3, 4, 2, 3, 4, 5, 10, 11, 12, 13},
		},
	)
	require.NoError(t, err)

	t.Run("cohen effect sizes", func(t *testing.T) {
		frame, err := PairwiseTTests(d, map[string]string{"dv": "value", "between": "condition"})
		require.NoError(t, err)
		require.Len(t, frame.Rows, 3)
		assert.Equal(t, []string{"Contrast", "A", "B", "T", "dof", "alternative", "p-unc", "cohen"}, frame.Columns)

		// A vs B: equal unit-variance groups shifted by one
		row := frame.Rows[0]
		assert.Equal(t, "A", row[1])
		assert.Equal(t, "B", row[2])
		assert.InDelta(t, -1.095445, row[3].(float64), 1e-5)
		assert.InDelta(t, 6.0, row[4].(float64), 1e-9)
		assert.InDelta(t, -0.774597, row[7].(float64), 1e-5)

		// A vs C is a ~7 sd shift and must be significant
		assert.Less(t, frame.Rows[1][6].(float64), 0.001)
	})

	t.Run("hedges correction", func(t *testing.T) {
		frame, err := PairwiseTTests(d, map[string]string{
			"dv": "value", "between": "condition", "effsize": "hedges",
		})
		require.NoError(t, err)
		assert.Equal(t, "hedges", frame.Columns[7])
		assert.InDelta(t, -0.774597*(1-3.0/23.0), frame.Rows[0][7].(float64), 1e-5)
	})

	t.Run("bonferroni adjustment", func(t *testing.T) {
		frame, err := PairwiseTTests(d, map[string]string{
			"dv": "value", "between": "condition", "padjust": "bonf",
		})
		require.NoError(t, err)
		require.True(t, frame.HasColumn("p-corr"))
		punc := frame.Floats("p-unc")
		pcorr := frame.Floats("p-corr")
		for i := range punc {
			assert.InDelta(t, math.Min(1, punc[i]*3), pcorr[i], 1e-12)
		}
		assert.Equal(t, "bonf", frame.Rows[0][frame.ColumnIndex("p-adjust")])
	})

	t.Run("unknown effsize", func(t *testing.T) {
		_, err := PairwiseTTests(d, map[string]string{
			"dv": "value", "between": "condition", "effsize": "glass",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnknownOption)
	})
}
