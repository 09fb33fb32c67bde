package ecg

import (
	"math"

	"gonum.org/v1/gonum/stat"

	apperrors "psykit/internal/errors"
	"psykit/internal/signal"
)

// TimeDomainFeatures holds the time-domain HRV statistics derived from
// successive RR intervals (milliseconds) and the instantaneous heart rate
// (beats per minute).
type TimeDomainFeatures struct {
	MeanNN float64 `json:"hrv_mean_nn"`
	SDNN   float64 `json:"hrv_sdnn"`
	RMSSD  float64 `json:"hrv_rmssd"`
	SDSD   float64 `json:"hrv_sdsd"`
	CVNN   float64 `json:"hrv_cvnn"`
	PNN50  float64 `json:"hrv_pnn50"`
	PNN20  float64 `json:"hrv_pnn20"`
	MeanHR float64 `json:"hr_mean"`
	StdHR  float64 `json:"hr_std"`
	MinHR  float64 `json:"hr_min"`
	MaxHR  float64 `json:"hr_max"`
}

// HRVTimeDomain computes time-domain HRV features from RR intervals in
// milliseconds. At least two intervals are required.
func HRVTimeDomain(rri []float64) (TimeDomainFeatures, error) {
	if len(rri) < 2 {
		return TimeDomainFeatures{}, apperrors.InsufficientData("heart rate variability", 2, len(rri))
	}

	diffs := signal.Diff(rri)
	hr := HeartRate(rri)

	meanNN := stat.Mean(rri, nil)
	sdnn := stat.StdDev(rri, nil)

	features := TimeDomainFeatures{
		MeanNN: meanNN,
		SDNN:   sdnn,
		RMSSD:  rootMeanSquare(diffs),
		SDSD:   stat.StdDev(diffs, nil),
		CVNN:   sdnn / meanNN,
		PNN50:  percentAbove(diffs, 50),
		PNN20:  percentAbove(diffs, 20),
		MeanHR: stat.Mean(hr, nil),
		StdHR:  stat.StdDev(hr, nil),
		MinHR:  minOf(hr),
		MaxHR:  maxOf(hr),
	}
	return features, nil
}

// Map returns the features keyed by their report column names.
func (f TimeDomainFeatures) Map() map[string]float64 {
	return map[string]float64{
		"hrv_mean_nn": f.MeanNN,
		"hrv_sdnn":    f.SDNN,
		"hrv_rmssd":   f.RMSSD,
		"hrv_sdsd":    f.SDSD,
		"hrv_cvnn":    f.CVNN,
		"hrv_pnn50":   f.PNN50,
		"hrv_pnn20":   f.PNN20,
		"hr_mean":     f.MeanHR,
		"hr_std":      f.StdHR,
		"hr_min":      f.MinHR,
		"hr_max":      f.MaxHR,
	}
}

func rootMeanSquare(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

func percentAbove(diffs []float64, cutoff float64) float64 {
	if len(diffs) == 0 {
		return math.NaN()
	}
	n := 0
	for _, d := range diffs {
		if math.Abs(d) > cutoff {
			n++
		}
	}
	return float64(n) / float64(len(diffs)) * 100.0
}

func minOf(data []float64) float64 {
	best := data[0]
	for _, v := range data[1:] {
		if v < best {
			best = v
		}
	}
	return best
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
