package dataio

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "psykit/internal/errors"
	"psykit/internal/stats"
)

// Questionnaire is a tabular questionnaire export: a header row of column
// names and one row of answers per subject.
type Questionnaire struct {
	Columns []string
	Rows    [][]string
}

// LoadQuestionnaireExcel reads questionnaire data from an Excel workbook.
// An empty sheet name selects the first sheet. The first row is the
// header; short rows are padded with empty cells.
func LoadQuestionnaireExcel(path, sheet string) (*Questionnaire, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open questionnaire %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.EmptyInput("workbook sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.EmptyInput("questionnaire rows")
	}

	q := &Questionnaire{Columns: rows[0]}
	for _, row := range rows[1:] {
		padded := make([]string, len(q.Columns))
		copy(padded, row)
		q.Rows = append(q.Rows, padded)
	}
	return q, nil
}

// Column returns the cells of one column.
func (q *Questionnaire) Column(name string) ([]string, error) {
	for i, col := range q.Columns {
		if col == name {
			out := make([]string, len(q.Rows))
			for r, row := range q.Rows {
				out[r] = row[i]
			}
			return out, nil
		}
	}
	return nil, apperrors.NewWithDetails(apperrors.CodeMissingParameter,
		"questionnaire has no such column", name)
}

// ToDataset converts selected columns into a long-format dataset for the
// statistics pipeline: factorCols stay categorical, valueCols must parse
// as numbers.
func (q *Questionnaire) ToDataset(factorCols, valueCols []string) (*stats.Dataset, error) {
	if len(valueCols) == 0 {
		return nil, apperrors.EmptyInput("value columns")
	}

	factors := make(map[string][]string, len(factorCols))
	for _, name := range factorCols {
		col, err := q.Column(name)
		if err != nil {
			return nil, err
		}
		factors[name] = col
	}

	values := make(map[string][]float64, len(valueCols))
	for _, name := range valueCols {
		col, err := q.Column(name)
		if err != nil {
			return nil, err
		}
		parsed := make([]float64, len(col))
		for i, cell := range col {
			parsed[i], err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, apperrors.NewWithDetails(apperrors.CodeValidationFailed,
					fmt.Sprintf("column %s row %d is not numeric", name, i+2), cell)
			}
		}
		values[name] = parsed
	}
	return stats.NewDataset(factors, values)
}
