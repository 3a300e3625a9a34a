// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Min calculates and returns the minimum float64 in a list
func Min(f ...float64) float64 {
	min := f[0]
	for _, val := range f {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(f ...float64) float64 {
	max := f[0]
	for _, val := range f {
		if val > max {
			max = val
		}
	}
	return max
}

// ArgMax returns the indices of the maximum values in a list. Multiple
// indices are returned when the maximum value is tied.
func ArgMax(f ...float64) []int {
	max, indices := f[0], []int{0}

	for i, value := range f[1:] {
		if value > max {
			max = value
			indices = []int{i + 1}
		} else if value == max {
			indices = append(indices, i+1)
		}
	}
	return indices
}

// LogSumExp computes log(Σ exp(f_i)) in a numerically stable way by
// shifting by the maximum value first
func LogSumExp(f ...float64) float64 {
	max := Max(f...)

	exponentials := make([]float64, len(f))
	for i, value := range f {
		exponentials[i] = math.Exp(value - max)
	}

	return max + math.Log(floats.Sum(exponentials))
}

// Sum returns the sum of a list of float64
func Sum(f []float64) float64 {
	return floats.Sum(f)
}
