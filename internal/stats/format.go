package stats

import (
	"fmt"
	"math"
	"strconv"
)

// FormatMetric renders an integer metric for display.
func FormatMetric(v int) string {
	return strconv.Itoa(v)
}

// FormatAverage renders the rolling average: "0" when exactly zero, one
// decimal place while the value is below one, otherwise the nearest integer.
func FormatAverage(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v < 1.0:
		return fmt.Sprintf("%.1f", v)
	default:
		return strconv.Itoa(int(math.Round(v)))
	}
}
