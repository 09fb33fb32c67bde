package stats

import (
	"math"
	"sort"

	apperrors "psykit/internal/errors"
)

// sigColumns are the p-value columns recognized across result frames, in
// lookup priority order.
var sigColumns = []string{"p-corr", "p-unc", "pval"}

// Multicomp corrects p-values for multiple comparisons. Supported
// methods are "bonf" (Bonferroni) and "holm" (Holm step-down).
func Multicomp(pvals []float64, method string) ([]float64, error) {
	if len(pvals) == 0 {
		return nil, apperrors.EmptyInput("p-values")
	}
	m := float64(len(pvals))

	switch method {
	case "bonf":
		out := make([]float64, len(pvals))
		for i, p := range pvals {
			out[i] = math.Min(1, p*m)
		}
		return out, nil

	case "holm":
		order := make([]int, len(pvals))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return pvals[order[i]] < pvals[order[j]] })

		out := make([]float64, len(pvals))
		running := 0.0
		for rank, idx := range order {
			adj := pvals[idx] * (m - float64(rank))
			// step-down: corrected values never decrease
			running = math.Max(running, adj)
			out[idx] = math.Min(1, running)
		}
		return out, nil
	}
	return nil, apperrors.UnknownOption("padjust", method, []string{"bonf", "holm"})
}

// ApplyMulticomp adds a p-corr column to a result frame, correcting the
// first uncorrected p-value column it finds.
func ApplyMulticomp(frame *Frame, method string) (*Frame, error) {
	for _, col := range []string{"pval", "p-unc"} {
		if !frame.HasColumn(col) {
			continue
		}
		corrected, err := Multicomp(frame.Floats(col), method)
		if err != nil {
			return nil, err
		}
		frame.SetFloats("p-corr", corrected)
		frame.SetConstant("p-adjust", method)
		return frame, nil
	}
	return frame, nil
}

// FilterSig keeps only rows with a significant p-value (p < 0.05). The
// first recognized significance column decides. An all-NaN column means
// the adjusted values never got filled, so it is dropped from the frame
// before trying the next candidate.
func FilterSig(frame *Frame) *Frame {
	for _, col := range sigColumns {
		idx := frame.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		values := frame.Floats(col)
		allNaN := true
		for _, v := range values {
			if !math.IsNaN(v) {
				allNaN = false
				break
			}
		}
		if allNaN {
			frame = frame.dropColumn(col)
			continue
		}
		return frame.filterRows(func(row []any) bool {
			v, ok := row[idx].(float64)
			return ok && v < 0.05
		})
	}
	return &Frame{Columns: append([]string(nil), frame.Columns...)}
}
