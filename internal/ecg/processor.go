package ecg

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	apperrors "psykit/internal/errors"
	"psykit/internal/signal"
)

// Default detection parameters, expressed in seconds and scaled by the
// sampling rate at run time.
const (
	// DefaultEnvelopeWindowSec is the moving-average window of the energy envelope
	DefaultEnvelopeWindowSec = 0.1
	// DefaultRefractorySec is the minimum distance between successive R-peaks
	DefaultRefractorySec = 0.3
	// DefaultSnapRadiusSec is the search radius used to snap candidates onto the true local maximum
	DefaultSnapRadiusSec = 0.1
	// DefaultEnvelopeFactor scales the envelope standard deviation for the detection threshold
	DefaultEnvelopeFactor = 2.0
)

// Processor runs the ECG processing pipeline for a fixed sampling rate.
type Processor struct {
	samplingRate   float64
	envelopeFactor float64
	logger         *slog.Logger
}

// NewProcessor creates a Processor for the given sampling rate in Hz.
func NewProcessor(samplingRate float64, logger *slog.Logger) (*Processor, error) {
	if samplingRate <= 0 {
		return nil, apperrors.Validation("samplingRate", "sampling rate must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		samplingRate:   samplingRate,
		envelopeFactor: DefaultEnvelopeFactor,
		logger:         logger,
	}, nil
}

// SamplingRate returns the sampling rate the processor was created with.
func (p *Processor) SamplingRate() float64 {
	return p.samplingRate
}

// DetectRPeaks locates R-peaks in a raw ECG signal. Candidates come from an
// energy-envelope threshold crossing; each candidate region is then snapped
// onto the local maximum of the raw signal.
func (p *Processor) DetectRPeaks(ecg []float64) ([]int, error) {
	minSamples := int(p.samplingRate)
	if len(ecg) < minSamples {
		return nil, apperrors.InsufficientData("R-peak detection", minSamples, len(ecg))
	}

	env := energyEnvelope(ecg, p.envelopeWindow())
	threshold := signal.NaNMean(env) + p.envelopeFactor*stat.StdDev(env, nil)
	// very quiet signals push the statistical threshold above every beat;
	// never let it exceed half of the strongest envelope response
	if half := 0.5 * maxOf(env); threshold > half {
		threshold = half
	}

	refractory := int(DefaultRefractorySec * p.samplingRate)
	var candidates []int
	i := 0
	for i < len(env) {
		if env[i] <= threshold {
			i++
			continue
		}
		// walk the contiguous above-threshold region and take the raw maximum
		start := i
		for i < len(env) && env[i] > threshold {
			i++
		}
		peak := start + argMax(ecg[start:i])
		if len(candidates) == 0 || peak-candidates[len(candidates)-1] >= refractory {
			candidates = append(candidates, peak)
		}
	}

	if len(candidates) == 0 {
		return nil, apperrors.InsufficientData("R-peak detection", 1, 0)
	}

	peaks, err := p.CorrectRPeaks(ecg, candidates)
	if err != nil {
		return nil, fmt.Errorf("snap candidate peaks: %w", err)
	}

	p.logger.Debug("detected R-peaks",
		"num_peaks", len(peaks),
		"signal_samples", len(ecg),
		"sampling_rate", p.samplingRate,
	)
	return peaks, nil
}

// CorrectRPeaks snaps provisional R-peak positions onto the true local
// maximum within a radius derived from the sampling rate. Duplicate
// positions after snapping are merged and the result is sorted.
func (p *Processor) CorrectRPeaks(ecg []float64, peaks []int) ([]int, error) {
	if len(peaks) == 0 {
		return nil, apperrors.EmptyInput("peaks")
	}

	radius := signal.SymmetricRadius(p.snapRadius())
	snapped, err := signal.FindExtremaInRadius(ecg, peaks, radius, signal.ExtremaMax)
	if err != nil {
		return nil, fmt.Errorf("extrema search: %w", err)
	}

	sort.Ints(snapped)
	out := snapped[:1]
	for _, idx := range snapped[1:] {
		if idx != out[len(out)-1] {
			out = append(out, idx)
		}
	}
	return out, nil
}

func (p *Processor) envelopeWindow() int {
	w := int(DefaultEnvelopeWindowSec * p.samplingRate)
	if w < 1 {
		w = 1
	}
	return w
}

func (p *Processor) snapRadius() int {
	r := int(DefaultSnapRadiusSec * p.samplingRate)
	if r < 1 {
		r = 1
	}
	return r
}

// RRIntervals converts R-peak sample indices to successive inter-beat
// intervals in milliseconds.
func RRIntervals(peaks []int, samplingRate float64) []float64 {
	if len(peaks) < 2 {
		return nil
	}
	rri := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		rri[i-1] = float64(peaks[i]-peaks[i-1]) / samplingRate * 1000.0
	}
	return rri
}

// HeartRate converts RR intervals in milliseconds to instantaneous heart
// rate in beats per minute.
func HeartRate(rri []float64) []float64 {
	hr := make([]float64, len(rri))
	for i, v := range rri {
		hr[i] = 60000.0 / v
	}
	return hr
}

// HeartRateSeries builds an instantaneous heart-rate series from R-peak
// positions and resamples it to 1 Hz. Each RR interval contributes one
// sample located at the time of its closing beat, offset from start.
func (p *Processor) HeartRateSeries(start time.Time, peaks []int) (signal.Series, error) {
	if len(peaks) < 3 {
		return signal.Series{}, apperrors.InsufficientData("heart rate series", 3, len(peaks))
	}

	rri := RRIntervals(peaks, p.samplingRate)
	hr := HeartRate(rri)
	times := make([]time.Time, len(hr))
	for i := 1; i < len(peaks); i++ {
		offset := float64(peaks[i]) / p.samplingRate
		times[i-1] = start.Add(time.Duration(offset * float64(time.Second)))
	}

	s, err := signal.NewSeries(times, hr)
	if err != nil {
		return signal.Series{}, fmt.Errorf("build heart rate series: %w", err)
	}
	return signal.InterpolateSec(s)
}

func energyEnvelope(ecg []float64, window int) []float64 {
	d := signal.Diff(ecg)
	sq := make([]float64, len(d))
	for i, v := range d {
		sq[i] = v * v
	}

	// centered moving average
	env := make([]float64, len(ecg))
	half := window / 2
	for i := range env {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(sq) {
			hi = len(sq)
		}
		if lo >= hi {
			env[i] = 0
			continue
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += sq[j]
		}
		env[i] = sum / float64(hi-lo)
	}
	return env
}

func argMax(data []float64) int {
	best := 0
	for i, v := range data {
		if v > data[best] {
			best = i
		}
	}
	return best
}
