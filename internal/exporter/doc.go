// Package exporter writes analysis results to CSV and Excel report
// files. Report paths are resolved through the configured directory
// layout so callers can pass plain file names.
package exporter
