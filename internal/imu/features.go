package imu

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	apperrors "psykit/internal/errors"
)

// LongSequenceSec is the duration cutoff separating long static sequences
// (restful lying, sleep bouts) from short ones.
const LongSequenceSec = 60.0

// StaticSequenceFeatures summarizes detected static sequences against the
// sample timestamps. The feature set is computed twice: over all sequences
// and over the subset lasting at least LongSequenceSec ("_60" suffix).
// Features over an empty subset are NaN.
//
// start and end bound the observation interval used for the relative
// position of the longest sequence; zero values default to the first and
// last timestamp.
func StaticSequenceFeatures(times []time.Time, sequences []Sequence, start, end time.Time) (map[string]float64, error) {
	if len(times) == 0 {
		return nil, apperrors.EmptyInput("times")
	}
	if len(sequences) == 0 {
		return nil, apperrors.EmptyInput("sequences")
	}
	if start.IsZero() {
		start = times[0]
	}
	if end.IsZero() {
		end = times[len(times)-1]
	}
	totalTime := end.Sub(start)
	if totalTime <= 0 {
		return nil, apperrors.Validation("start/end", "observation interval must be positive")
	}

	durations := make([]float64, len(sequences))
	longest := 0
	for i, seq := range sequences {
		if seq.Start < 0 || seq.End >= len(times) || seq.End < seq.Start {
			return nil, apperrors.NewWithDetails(apperrors.CodeIndexOutOfRange,
				"sequence outside recording bounds", seq)
		}
		durations[i] = times[seq.End].Sub(times[seq.Start]).Seconds()
		if durations[i] > durations[longest] {
			longest = i
		}
	}

	var long []float64
	for _, d := range durations {
		if d >= LongSequenceSec {
			long = append(long, d)
		}
	}

	features := make(map[string]float64)
	locMax := times[sequences[longest].Start]
	features["ss_max_position"] = float64(locMax.Sub(start)) / float64(totalTime)

	addDurationFeatures(features, "", durations)
	addDurationFeatures(features, "_60", long)
	return features, nil
}

func addDurationFeatures(features map[string]float64, suffix string, durations []float64) {
	features["ss_number"+suffix] = float64(len(durations))
	if len(durations) == 0 {
		for _, key := range []string{"ss_max", "ss_median", "ss_mean", "ss_std", "ss_skewness"} {
			features[key+suffix] = math.NaN()
		}
		return
	}

	median, err := stats.Median(durations)
	if err != nil {
		median = math.NaN()
	}
	features["ss_max"+suffix] = maxOf(durations)
	features["ss_median"+suffix] = median
	features["ss_mean"+suffix] = stat.Mean(durations, nil)
	features["ss_std"+suffix] = stat.StdDev(durations, nil)
	features["ss_skewness"+suffix] = stat.Skew(durations, nil)
}

// SequenceDurations converts sequences to durations in seconds using the
// sample timestamps.
func SequenceDurations(times []time.Time, sequences []Sequence) ([]float64, error) {
	durations := make([]float64, len(sequences))
	for i, seq := range sequences {
		if seq.Start < 0 || seq.End >= len(times) || seq.End < seq.Start {
			return nil, apperrors.NewWithDetails(apperrors.CodeIndexOutOfRange,
				"sequence outside recording bounds", seq)
		}
		durations[i] = times[seq.End].Sub(times[seq.Start]).Seconds()
	}
	return durations, nil
}

// MeanOrientations returns the per-axis mean within each static sequence,
// keyed by sequence. Axis order follows the input.
func MeanOrientations(axes [][]float64, sequences []Sequence) ([][]float64, error) {
	if len(axes) == 0 {
		return nil, apperrors.EmptyInput("axes")
	}
	out := make([][]float64, len(sequences))
	for i, seq := range sequences {
		if seq.Start < 0 || seq.End >= len(axes[0]) || seq.End < seq.Start {
			return nil, apperrors.NewWithDetails(apperrors.CodeIndexOutOfRange,
				"sequence outside recording bounds", seq)
		}
		means := make([]float64, len(axes))
		for a, axis := range axes {
			means[a] = stat.Mean(axis[seq.Start:seq.End+1], nil)
		}
		out[i] = means
	}
	return out, nil
}

func maxOf(data []float64) float64 {
	best := data[0]
	for _, v := range data[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
