package util

import (
	"math"
)

// RoundToPrecision rounds a float64 to a specific number of decimal places
func RoundToPrecision(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Abs returns the absolute value of x
func Abs(x float64) float64 {
	return math.Abs(x)
}

// PercentDiff returns the absolute relative difference between a and b,
// expressed as a percentage of a.
func PercentDiff(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return math.Abs(b-a) / a * 100
}
