package signal

import (
	"math"
	"time"

	apperrors "psykit/internal/errors"
)

// Interp1 evaluates piecewise-linear interpolation of (xOld, y) at the points
// xNew. Points outside [xOld[0], xOld[last]] are linearly extrapolated from
// the nearest segment. xOld must be strictly increasing.
func Interp1(xOld, y, xNew []float64) ([]float64, error) {
	if len(xOld) == 0 {
		return nil, apperrors.EmptyInput("xOld")
	}
	if len(xOld) != len(y) {
		return nil, apperrors.LengthMismatch("xOld and y", len(xOld), len(y))
	}
	for i := 1; i < len(xOld); i++ {
		if xOld[i] <= xOld[i-1] {
			return nil, apperrors.NewWithDetails(apperrors.CodeNotMonotonic,
				"xOld must be strictly increasing", i)
		}
	}

	out := make([]float64, len(xNew))
	if len(xOld) == 1 {
		for i := range xNew {
			out[i] = y[0]
		}
		return out, nil
	}

	for i, x := range xNew {
		// locate the segment; clamp to the first/last segment for extrapolation
		lo := searchSegment(xOld, x)
		x0, x1 := xOld[lo], xOld[lo+1]
		y0, y1 := y[lo], y[lo+1]
		out[i] = y0 + (x-x0)*(y1-y0)/(x1-x0)
	}
	return out, nil
}

// searchSegment returns the index of the segment [xOld[i], xOld[i+1]] used
// to evaluate x. Values outside the domain map to the first or last segment.
func searchSegment(xOld []float64, x float64) int {
	if x <= xOld[0] {
		return 0
	}
	if x >= xOld[len(xOld)-1] {
		return len(xOld) - 2
	}
	lo, hi := 0, len(xOld)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xOld[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Resample linearly interpolates the series (xOld, y) onto a new evenly
// spaced base of length points spanning the same domain.
func Resample(xOld, y []float64, length int) ([]float64, error) {
	if length <= 0 {
		return nil, apperrors.Validation("length", "target length must be positive")
	}
	if len(xOld) < 2 {
		return nil, apperrors.InsufficientData("resampling", 2, len(xOld))
	}
	xNew := Linspace(xOld[0], xOld[len(xOld)-1], length)
	return Interp1(xOld, y, xNew)
}

// Linspace returns n evenly spaced points from start to stop, inclusive.
func Linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// InterpolateSec resamples a timestamped series onto a 1 Hz base via linear
// interpolation with extrapolation. The output covers whole seconds from one
// second after the first sample up to the rounded-up total duration.
func InterpolateSec(s Series) (Series, error) {
	if s.Len() == 0 {
		return Series{}, apperrors.EmptyInput("series")
	}
	if s.Len() < 2 {
		return Series{}, apperrors.InsufficientData("1 Hz interpolation", 2, s.Len())
	}

	xOld := s.Seconds()
	last := xOld[len(xOld)-1]
	n := int(math.Ceil(last))
	if n < 1 {
		return Series{}, apperrors.InsufficientData("1 Hz interpolation", 1, 0)
	}

	xNew := make([]float64, n)
	times := make([]time.Time, n)
	for i := 0; i < n; i++ {
		xNew[i] = float64(i + 1)
		times[i] = s.Time[0].Add(time.Duration(i+1) * time.Second)
	}

	values, err := Interp1(xOld, s.Values, xNew)
	if err != nil {
		return Series{}, err
	}
	return Series{Time: times, Values: values}, nil
}
