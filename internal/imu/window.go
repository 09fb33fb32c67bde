package imu

import (
	"math"

	apperrors "psykit/internal/errors"
)

// WindowParams describes a sliding window either directly in samples or in
// seconds together with a sampling rate. Overlap can be given in samples or
// as a fraction of the window; when neither is set the window slides by one
// sample (maximum overlap).
type WindowParams struct {
	WindowSamples  int
	WindowSec      float64
	SamplingRate   float64
	OverlapSamples int
	OverlapPercent float64
}

// Resolve validates the parameters and returns the window and overlap in
// samples.
func (p WindowParams) Resolve() (window int, overlap int, err error) {
	switch {
	case p.WindowSamples > 0 && p.WindowSec > 0:
		return 0, 0, apperrors.Validation("window", "pass either WindowSamples or WindowSec, not both")
	case p.WindowSamples > 0:
		window = p.WindowSamples
	case p.WindowSec > 0:
		if p.SamplingRate <= 0 {
			return 0, 0, apperrors.Validation("samplingRate", "WindowSec requires a positive SamplingRate")
		}
		window = int(math.Round(p.WindowSec * p.SamplingRate))
	default:
		return 0, 0, apperrors.Validation("window", "one of WindowSamples or WindowSec is required")
	}
	if window < 2 {
		return 0, 0, apperrors.Validation("window", "window must cover at least two samples")
	}

	switch {
	case p.OverlapSamples > 0 && p.OverlapPercent > 0:
		return 0, 0, apperrors.Validation("overlap", "pass either OverlapSamples or OverlapPercent, not both")
	case p.OverlapSamples > 0:
		overlap = p.OverlapSamples
	case p.OverlapPercent > 0:
		if p.OverlapPercent >= 1 {
			return 0, 0, apperrors.Validation("overlapPercent", "overlap fraction must be below 1")
		}
		overlap = int(float64(window) * p.OverlapPercent)
	default:
		overlap = window - 1
	}
	if overlap >= window {
		return 0, 0, apperrors.Validation("overlap", "overlap must be smaller than the window")
	}
	return window, overlap, nil
}
