// Package ecg implements the R-peak and heart-rate-variability feature
// pipeline: R-peak detection on raw ECG, outlier-aware R-peak correction,
// RR-interval outlier masking with re-interpolation, and time-domain HRV
// features derived from successive inter-beat intervals.
package ecg
