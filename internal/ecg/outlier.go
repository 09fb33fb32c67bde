package ecg

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	apperrors "psykit/internal/errors"
	"psykit/internal/signal"
)

// OutlierMethod enumerates the RR-interval outlier detection rules.
type OutlierMethod string

const (
	// OutlierPhysiological marks intervals whose heart rate falls outside physiological bounds
	OutlierPhysiological OutlierMethod = "physiological"
	// OutlierStatisticalRR marks intervals with an extreme z-score
	OutlierStatisticalRR OutlierMethod = "statistical_rr"
	// OutlierStatisticalRRDiff marks intervals following an extreme successive difference
	OutlierStatisticalRRDiff OutlierMethod = "statistical_rr_diff"
	// OutlierQuantile marks intervals outside the Tukey fences of the distribution
	OutlierQuantile OutlierMethod = "quantile"
)

// z-score cutoffs follow the 99%/95% two-sided normal quantiles
const (
	zScoreCutoffRR     = 2.576
	zScoreCutoffRRDiff = 1.96
	tukeyFenceFactor   = 1.5
)

// HRBounds are the physiological heart-rate limits in beats per minute.
type HRBounds struct {
	Min float64
	Max float64
}

// DefaultHRBounds covers resting through heavy-exercise heart rates.
var DefaultHRBounds = HRBounds{Min: 45, Max: 200}

// DefaultOutlierMethods is the method combination applied when none is given.
var DefaultOutlierMethods = []OutlierMethod{
	OutlierPhysiological,
	OutlierStatisticalRR,
	OutlierStatisticalRRDiff,
}

// OutlierMask builds a boolean mask over the RR intervals, combining the
// requested detection rules with a logical OR. The mask has the same length
// as the input.
func (p *Processor) OutlierMask(rri []float64, methods []OutlierMethod, bounds HRBounds) ([]bool, error) {
	if len(rri) == 0 {
		return nil, apperrors.EmptyInput("rri")
	}
	if len(methods) == 0 {
		methods = DefaultOutlierMethods
	}

	mask := make([]bool, len(rri))
	for _, method := range methods {
		switch method {
		case OutlierPhysiological:
			markPhysiological(rri, bounds, mask)
		case OutlierStatisticalRR:
			markStatistical(rri, zScoreCutoffRR, mask)
		case OutlierStatisticalRRDiff:
			markStatisticalDiff(rri, zScoreCutoffRRDiff, mask)
		case OutlierQuantile:
			if err := markQuantile(rri, mask); err != nil {
				return nil, fmt.Errorf("quantile rule: %w", err)
			}
		default:
			return nil, apperrors.UnknownOption("outlier method", string(method), []string{
				string(OutlierPhysiological),
				string(OutlierStatisticalRR),
				string(OutlierStatisticalRRDiff),
				string(OutlierQuantile),
			})
		}
	}
	return mask, nil
}

// CorrectOutliers masks outlier RR intervals and re-interpolates them from
// their neighbors. With desiredLength > 0 the corrected sequence is also
// resampled onto that many evenly spaced points.
func (p *Processor) CorrectOutliers(rri []float64, methods []OutlierMethod, bounds HRBounds, desiredLength int) ([]float64, error) {
	mask, err := p.OutlierMask(rri, methods, bounds)
	if err != nil {
		return nil, err
	}

	masked := 0
	for _, m := range mask {
		if m {
			masked++
		}
	}
	p.logger.Debug("RR outlier correction",
		"num_intervals", len(rri),
		"num_outliers", masked,
	)

	// x base: cumulative beat time in milliseconds
	xOld := make([]float64, len(rri))
	sum := 0.0
	for i, v := range rri {
		sum += v
		xOld[i] = sum
	}

	corrected, err := signal.RemoveOutlierAndInterpolate(rri, mask, xOld, desiredLength)
	if err != nil {
		return nil, fmt.Errorf("remove outliers: %w", err)
	}
	return corrected, nil
}

func markPhysiological(rri []float64, bounds HRBounds, mask []bool) {
	if bounds.Min <= 0 || bounds.Max <= 0 {
		bounds = DefaultHRBounds
	}
	// convert bpm limits to interval limits in ms
	maxRRI := 60000.0 / bounds.Min
	minRRI := 60000.0 / bounds.Max
	for i, v := range rri {
		if v < minRRI || v > maxRRI {
			mask[i] = true
		}
	}
}

func markStatistical(rri []float64, cutoff float64, mask []bool) {
	mean := signal.NaNMean(rri)
	sd := stat.StdDev(rri, nil)
	if sd == 0 || math.IsNaN(sd) {
		return
	}
	for i, v := range rri {
		if math.Abs(v-mean)/sd > cutoff {
			mask[i] = true
		}
	}
}

// markStatisticalDiff flags the interval closing an extreme successive jump.
func markStatisticalDiff(rri []float64, cutoff float64, mask []bool) {
	diffs := signal.Diff(rri)
	if len(diffs) == 0 {
		return
	}
	mean := signal.NaNMean(diffs)
	sd := stat.StdDev(diffs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return
	}
	for i, d := range diffs {
		if math.Abs(d-mean)/sd > cutoff {
			mask[i+1] = true
		}
	}
}

func markQuantile(rri []float64, mask []bool) error {
	quartiles, err := stats.Quartile(rri)
	if err != nil {
		return err
	}
	iqr := quartiles.Q3 - quartiles.Q1
	lower := quartiles.Q1 - tukeyFenceFactor*iqr
	upper := quartiles.Q3 + tukeyFenceFactor*iqr
	for i, v := range rri {
		if v < lower || v > upper {
			mask[i] = true
		}
	}
	return nil
}
