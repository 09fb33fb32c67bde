// Package files provides file system discovery utilities for locating
// study data on disk.
//
// Discovery finds questionnaire Excel files, NilsPod sensor recordings,
// EDF files, and files matching arbitrary glob patterns. It also includes
// utilities for filtering files by date range and finding the latest file.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/study")
//
//	// Find NilsPod recordings grouped by sensor
//	sensors, err := discovery.FindNilsPodFiles("recordings")
package files
