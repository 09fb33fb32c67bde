// Package signal provides the numeric core of the toolkit: windowed
// extrema search with boundary padding, outlier removal with linear
// re-interpolation, and resampling of timestamped series.
//
// All functions treat IEEE NaN as the "missing" sentinel. Missing values
// never win an extrema comparison and are excluded from arithmetic
// reductions. Validation failures (mismatched lengths, empty inputs,
// unknown enumerated options) return immediately with a descriptive error.
package signal
