package signal

import (
	"math"

	apperrors "psykit/internal/errors"
)

// ExtremaKind selects whether the windowed search looks for minima or maxima.
type ExtremaKind string

const (
	// ExtremaMin searches for the smallest sample in each window
	ExtremaMin ExtremaKind = "min"
	// ExtremaMax searches for the largest sample in each window
	ExtremaMax ExtremaKind = "max"
)

// Radius describes the search window around a candidate index. Lower samples
// before the candidate and Upper samples after it are searched, inclusive.
type Radius struct {
	Lower int
	Upper int
}

// SymmetricRadius returns a radius extending r samples in both directions.
func SymmetricRadius(r int) Radius {
	return Radius{Lower: r, Upper: r}
}

// IsValid checks that both limits are non-negative.
func (r Radius) IsValid() bool {
	return r.Lower >= 0 && r.Upper >= 0
}

// FindExtremaInRadius returns, for each candidate index, the index (in
// original signal coordinates) of the minimum or maximum sample within
// [candidate-Lower, candidate+Upper].
//
// Windows that would run past either end of the signal are padded with NaN
// so the search never reads out of bounds; padded positions always lose the
// comparison and are never returned. The result is in the same index space
// as the un-padded input.
func FindExtremaInRadius(data []float64, indices []int, radius Radius, kind ExtremaKind) ([]int, error) {
	if kind != ExtremaMin && kind != ExtremaMax {
		return nil, apperrors.UnknownOption("extrema kind", string(kind),
			[]string{string(ExtremaMin), string(ExtremaMax)})
	}
	if len(data) == 0 {
		return nil, apperrors.EmptyInput("data")
	}
	if len(indices) == 0 {
		return nil, apperrors.EmptyInput("indices")
	}
	if !radius.IsValid() {
		return nil, apperrors.Validation("radius", "window limits must be non-negative")
	}

	minIdx, maxIdx := indices[0], indices[0]
	for _, idx := range indices {
		if idx < 0 || idx >= len(data) {
			return nil, apperrors.NewWithDetails(apperrors.CodeIndexOutOfRange,
				"candidate index outside signal bounds", idx)
		}
		if idx < minIdx {
			minIdx = idx
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	// Pad the tail if the last window would run past the signal end, and the
	// head if the first window would start before the signal. Head padding
	// shifts all lookups by the pad length.
	startPadding := 0
	padded := data
	if len(data)-maxIdx <= radius.Upper || minIdx < radius.Lower {
		headPad := 0
		if minIdx < radius.Lower {
			headPad = radius.Lower
			startPadding = radius.Lower
		}
		tailPad := 0
		if len(data)-maxIdx <= radius.Upper {
			tailPad = radius.Upper
		}
		padded = make([]float64, headPad+len(data)+tailPad)
		for i := 0; i < headPad; i++ {
			padded[i] = math.NaN()
		}
		copy(padded[headPad:], data)
		for i := headPad + len(data); i < len(padded); i++ {
			padded[i] = math.NaN()
		}
	}

	result := make([]int, len(indices))
	for i, idx := range indices {
		start := idx - radius.Lower + startPadding
		end := idx + radius.Upper + startPadding + 1
		rel, ok := argExtremum(padded[start:end], kind)
		if !ok {
			return nil, apperrors.NewWithDetails(apperrors.CodeInsufficientData,
				"search window contains only missing values", idx)
		}
		result[i] = idx - radius.Lower + rel
	}
	return result, nil
}

// argExtremum returns the position of the extremum, skipping NaN samples.
// The second return value is false if every sample in the window is NaN.
func argExtremum(window []float64, kind ExtremaKind) (int, bool) {
	best := -1
	var bestVal float64
	for i, v := range window {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 {
			best, bestVal = i, v
			continue
		}
		if kind == ExtremaMin && v < bestVal {
			best, bestVal = i, v
		} else if kind == ExtremaMax && v > bestVal {
			best, bestVal = i, v
		}
	}
	return best, best != -1
}
