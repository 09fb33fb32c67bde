package signal

import (
	"time"

	apperrors "psykit/internal/errors"
)

// Series is an ordered sequence of samples indexed by timestamp.
// Timestamps are strictly increasing; this is validated at construction.
type Series struct {
	Time   []time.Time
	Values []float64
}

// NewSeries validates timestamps and samples and returns a Series.
func NewSeries(t []time.Time, values []float64) (Series, error) {
	if len(t) == 0 {
		return Series{}, apperrors.EmptyInput("timestamps")
	}
	if len(t) != len(values) {
		return Series{}, apperrors.LengthMismatch("timestamps and values", len(t), len(values))
	}
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return Series{}, apperrors.NewWithDetails(apperrors.CodeNotMonotonic,
				"timestamps must be strictly increasing", i)
		}
	}
	return Series{Time: t, Values: values}, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Values)
}

// Duration returns the time span covered by the series.
func (s Series) Duration() time.Duration {
	if len(s.Time) < 2 {
		return 0
	}
	return s.Time[len(s.Time)-1].Sub(s.Time[0])
}

// Seconds returns the sample times as seconds relative to the first sample.
func (s Series) Seconds() []float64 {
	secs := make([]float64, len(s.Time))
	for i, ts := range s.Time {
		secs[i] = ts.Sub(s.Time[0]).Seconds()
	}
	return secs
}
