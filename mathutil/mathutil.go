// Package mathutil collects the small numeric helpers shared by the
// network and neat packages: clamping, descriptive
// statistics and moving-average smoothers for the training loop's
// monitored error.
package mathutil

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Clamp restricts value to [lo, hi].
func Clamp[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stdev returns the sample standard deviation of values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// MaxFloat returns the largest value, or -Inf for an empty slice.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// MinFloat returns the smallest value, or +Inf for an empty slice.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Median returns the median of values, or NaN for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

// TrimmedMean discards the fraction ratio of values from each end (the
// lowest ratio and the highest ratio, ratio clamped to [0, 0.5]) before
// averaging the remainder.
func TrimmedMean(values []float64, ratio float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	cut := int(float64(n) * Clamp(ratio, 0, 0.5))
	trimmed := sorted[cut : n-cut]
	if len(trimmed) == 0 {
		return Mean(sorted)
	}
	return Mean(trimmed)
}

// GaussianWeighted applies a Gaussian kernel centered on the most recent
// sample, giving older samples in the window exponentially less weight.
func GaussianWeighted(values []float64, sigma float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if sigma <= 0 {
		sigma = 1
	}
	last := float64(n - 1)
	weightSum, acc := 0.0, 0.0
	for i, v := range values {
		d := float64(i) - last
		w := math.Exp(-(d * d) / (2 * sigma * sigma))
		acc += w * v
		weightSum += w
	}
	if weightSum == 0 {
		return Mean(values)
	}
	return acc / weightSum
}
