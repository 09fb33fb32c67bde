package signal

import (
	"math"

	apperrors "psykit/internal/errors"
)

// RemoveOutlierAndInterpolate replaces masked samples with NaN, fills the
// missing values by linear interpolation from both neighbor directions (so
// leading and trailing missing runs are filled too), and optionally resamples
// the result onto a new evenly spaced base of desiredLength points.
//
// xOld carries the x values of the input samples and is required when
// desiredLength > 0. A desiredLength of 0 keeps the input length.
func RemoveOutlierAndInterpolate(data []float64, outlierMask []bool, xOld []float64, desiredLength int) ([]float64, error) {
	if len(data) == 0 {
		return nil, apperrors.EmptyInput("data")
	}
	if len(data) != len(outlierMask) {
		return nil, apperrors.LengthMismatch("data and outlier mask", len(data), len(outlierMask))
	}
	if desiredLength > 0 && xOld == nil {
		return nil, apperrors.MissingParameter("xOld", "desiredLength is passed")
	}
	if xOld != nil && len(xOld) != len(data) {
		return nil, apperrors.LengthMismatch("data and xOld", len(data), len(xOld))
	}

	cleaned := make([]float64, len(data))
	copy(cleaned, data)
	for i, masked := range outlierMask {
		if masked {
			cleaned[i] = math.NaN()
		}
	}

	filled, err := FillMissing(cleaned)
	if err != nil {
		return nil, err
	}

	if desiredLength == 0 {
		return filled, nil
	}
	return Resample(xOld, filled, desiredLength)
}

// FillMissing linearly interpolates NaN runs from their valid neighbors.
// Leading and trailing runs have only one neighbor and take its value.
// Fails if the input contains no valid sample at all.
func FillMissing(data []float64) ([]float64, error) {
	out := make([]float64, len(data))
	copy(out, data)

	firstValid, lastValid := -1, -1
	for i, v := range out {
		if !math.IsNaN(v) {
			if firstValid == -1 {
				firstValid = i
			}
			lastValid = i
		}
	}
	if firstValid == -1 {
		return nil, apperrors.NewWithDetails(apperrors.CodeInsufficientData,
			"cannot interpolate: all samples are missing", len(data))
	}

	// leading and trailing runs
	for i := 0; i < firstValid; i++ {
		out[i] = out[firstValid]
	}
	for i := lastValid + 1; i < len(out); i++ {
		out[i] = out[lastValid]
	}

	// interior runs: linear between the surrounding valid samples
	i := firstValid
	for i < lastValid {
		if !math.IsNaN(out[i+1]) {
			i++
			continue
		}
		// find the end of the run
		j := i + 1
		for math.IsNaN(out[j]) {
			j++
		}
		step := (out[j] - out[i]) / float64(j-i)
		for k := i + 1; k < j; k++ {
			out[k] = out[i] + step*float64(k-i)
		}
		i = j
	}
	return out, nil
}

// Diff returns successive differences, one element shorter than the input.
func Diff(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	out := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		out[i-1] = data[i] - data[i-1]
	}
	return out
}

// NaNMean returns the mean of the non-missing samples, or NaN if none remain.
func NaNMean(data []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range data {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// CountMissing returns the number of NaN samples.
func CountMissing(data []float64) int {
	n := 0
	for _, v := range data {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
