// Package stats runs configurable statistical analysis pipelines over
// long-format observation tables: preparatory checks (normality, equal
// variances), omnibus tests (ANOVA, Welch ANOVA, Kruskal-Wallis) and
// post-hoc pairwise comparisons with p-value adjustment, plus Excel
// export of all results.
package stats

import (
	apperrors "psykit/internal/errors"
)

// Dataset is a long-format table: one or more categorical factor columns
// and one or more numeric value columns, all with one entry per row.
type Dataset struct {
	Factors map[string][]string
	Values  map[string][]float64

	n int
}

// NewDataset validates that all columns have the same length.
func NewDataset(factors map[string][]string, values map[string][]float64) (*Dataset, error) {
	if len(values) == 0 {
		return nil, apperrors.EmptyInput("value columns")
	}
	n := -1
	for _, col := range values {
		if n < 0 {
			n = len(col)
		} else if len(col) != n {
			return nil, apperrors.LengthMismatch("dataset columns", n, len(col))
		}
	}
	for _, col := range factors {
		if len(col) != n {
			return nil, apperrors.LengthMismatch("dataset columns", n, len(col))
		}
	}
	if n == 0 {
		return nil, apperrors.EmptyInput("dataset rows")
	}
	return &Dataset{Factors: factors, Values: values, n: n}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.n }

// Levels returns the distinct values of a factor in order of first
// appearance.
func (d *Dataset) Levels(factor string) ([]string, error) {
	col, ok := d.Factors[factor]
	if !ok {
		return nil, apperrors.NewWithDetails(apperrors.CodeMissingParameter,
			"factor column not in dataset", factor)
	}
	var levels []string
	seen := map[string]bool{}
	for _, v := range col {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	return levels, nil
}

// GroupValues splits a value column by the levels of a factor, preserving
// level order of first appearance.
func (d *Dataset) GroupValues(dv, factor string) (levels []string, groups [][]float64, err error) {
	values, ok := d.Values[dv]
	if !ok {
		return nil, nil, apperrors.NewWithDetails(apperrors.CodeMissingParameter,
			"value column not in dataset", dv)
	}
	levels, err = d.Levels(factor)
	if err != nil {
		return nil, nil, err
	}
	idx := make(map[string]int, len(levels))
	for i, level := range levels {
		idx[level] = i
	}
	groups = make([][]float64, len(levels))
	for row, level := range d.Factors[factor] {
		i := idx[level]
		groups[i] = append(groups[i], values[row])
	}
	return levels, groups, nil
}

// Subset returns the rows where the factor has the given level.
func (d *Dataset) Subset(factor, level string) (*Dataset, error) {
	col, ok := d.Factors[factor]
	if !ok {
		return nil, apperrors.NewWithDetails(apperrors.CodeMissingParameter,
			"factor column not in dataset", factor)
	}
	var rows []int
	for i, v := range col {
		if v == level {
			rows = append(rows, i)
		}
	}
	factors := make(map[string][]string, len(d.Factors))
	for name, src := range d.Factors {
		dst := make([]string, len(rows))
		for i, r := range rows {
			dst[i] = src[r]
		}
		factors[name] = dst
	}
	values := make(map[string][]float64, len(d.Values))
	for name, src := range d.Values {
		dst := make([]float64, len(rows))
		for i, r := range rows {
			dst[i] = src[r]
		}
		values[name] = dst
	}
	return &Dataset{Factors: factors, Values: values, n: len(rows)}, nil
}
