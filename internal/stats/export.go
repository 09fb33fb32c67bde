package stats

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	apperrors "psykit/internal/errors"
)

// ExportStatistics writes all pipeline results into an Excel workbook:
// one "parameter" sheet listing the pipeline configuration and one sheet
// per executed test, titled with the test's display name in bold.
func (p *Pipeline) ExportStatistics(path string) error {
	if p.Results == nil {
		return apperrors.New(apperrors.CodeEmptyInput, "pipeline has no results, call Apply first")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeParameterSheet(f, p.Params, bold); err != nil {
		return err
	}

	for _, step := range p.Steps {
		frame, ok := p.Results[step.Test]
		if !ok {
			continue
		}
		if err := writeResultSheet(f, step.Test, frame, bold); err != nil {
			return err
		}
	}

	// the default sheet was replaced by the parameter sheet
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeParameterSheet(f *excelize.File, params map[string]string, bold int) error {
	const sheet = "parameter"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename parameter sheet: %w", err)
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if err := f.SetCellValue(sheet, "A1", "parameter"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	for i, key := range keys {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), key); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), params[key]); err != nil {
			return err
		}
	}
	return nil
}

func writeResultSheet(f *excelize.File, test string, frame *Frame, bold int) error {
	if _, err := f.NewSheet(test); err != nil {
		return fmt.Errorf("create sheet %s: %w", test, err)
	}

	if err := f.SetCellValue(test, "A1", TestNames[test]); err != nil {
		return err
	}
	if err := f.SetCellStyle(test, "A1", "A1", bold); err != nil {
		return err
	}

	for col, name := range frame.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(test, cell, name); err != nil {
			return err
		}
	}
	for r, row := range frame.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+3)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(test, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
