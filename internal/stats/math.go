package stats

import (
	"math"
	"slices"
)

// CalculateMedianContinuous finds the median value in a slice of floats.
func CalculateMedianContinuous(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// CalculatePercentile returns the nearest-rank percentile (p in 0..1) of values.
func CalculatePercentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	idx := int(float64(len(temp)) * p)
	if idx >= len(temp) {
		idx = len(temp) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return temp[idx]
}

// CalculateMean returns the arithmetic mean, 0 for no values.
func CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round rounds to the given number of decimal places.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
