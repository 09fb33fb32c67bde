package exporter

import (
	"fmt"
	"math"
)

// formatFloat formats a float64 value for CSV output with 4 decimal
// places. NaN values become empty cells so spreadsheet tools treat
// them as missing.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
