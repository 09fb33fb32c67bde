package imu

import (
	"math"

	"gonum.org/v1/gonum/stat"

	apperrors "psykit/internal/errors"
)

// Sequence is an index range [Start, End] of a detected static moment, in
// samples of the original signal.
type Sequence struct {
	Start int
	End   int
}

// Norm computes the per-sample Euclidean norm of a multi-axis recording.
// Each row of axes must have the same length.
func Norm(axes [][]float64) ([]float64, error) {
	if len(axes) == 0 {
		return nil, apperrors.EmptyInput("axes")
	}
	n := len(axes[0])
	for _, axis := range axes[1:] {
		if len(axis) != n {
			return nil, apperrors.LengthMismatch("axis signals", n, len(axis))
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, axis := range axes {
			sum += axis[i] * axis[i]
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

// FindStaticSequences detects static moments by sliding a variance window
// over the signal and merging adjacent below-threshold windows into
// sequences. End indices are clamped to the last sample.
func FindStaticSequences(data []float64, params WindowParams, threshold float64) ([]Sequence, error) {
	if len(data) == 0 {
		return []Sequence{}, nil
	}
	if threshold <= 0 {
		return nil, apperrors.Validation("threshold", "variance threshold must be positive")
	}

	window, overlap, err := params.Resolve()
	if err != nil {
		return nil, err
	}
	if len(data) < window {
		return nil, apperrors.InsufficientData("static moment detection", window, len(data))
	}

	stride := window - overlap
	var sequences []Sequence
	for start := 0; start+window <= len(data); start += stride {
		v := stat.Variance(data[start:start+window], nil)
		if v >= threshold {
			continue
		}
		end := start + window - 1
		if n := len(sequences); n > 0 && start <= sequences[n-1].End+1 {
			// extends the previous static region
			sequences[n-1].End = end
		} else {
			sequences = append(sequences, Sequence{Start: start, End: end})
		}
	}

	// clamp against the signal end
	for i := range sequences {
		if sequences[i].End >= len(data) {
			sequences[i].End = len(data) - 1
		}
	}
	return sequences, nil
}
