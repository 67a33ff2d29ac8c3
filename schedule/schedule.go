// Package schedule provides learning-rate-over-iteration functions for the
// training loop: fixed, step, exponential, inverse and cosine-annealing
// decay. Each schedule is built by its own constructor function; unlike
// the activation and cost packages there is no name-keyed registry.
package schedule

import "math"

// Func computes the effective learning rate at a given training iteration.
type Func func(baseRate float64, iteration int) float64

// Fixed always returns baseRate.
func Fixed() Func {
	return func(baseRate float64, iteration int) float64 {
		return baseRate
	}
}

// Step multiplies baseRate by gamma every stepSize iterations.
func Step(gamma float64, stepSize int) Func {
	return func(baseRate float64, iteration int) float64 {
		if stepSize <= 0 {
			return baseRate
		}
		return baseRate * math.Pow(gamma, math.Floor(float64(iteration)/float64(stepSize)))
	}
}

// Exp decays baseRate by gamma^iteration.
func Exp(gamma float64) Func {
	return func(baseRate float64, iteration int) float64 {
		return baseRate * math.Pow(gamma, float64(iteration))
	}
}

// Inv decays baseRate as base / (1 + gamma * iteration^power).
func Inv(gamma, power float64) Func {
	return func(baseRate float64, iteration int) float64 {
		return baseRate / (1 + gamma*math.Pow(float64(iteration), power))
	}
}

// CosineAnnealing oscillates baseRate down to minRate and back to
// baseRate over a period of `period` iterations.
func CosineAnnealing(period int, minRate float64) Func {
	return func(baseRate float64, iteration int) float64 {
		if period <= 0 {
			return baseRate
		}
		t := float64(iteration%period) / float64(period)
		cos := math.Cos(2 * math.Pi * t)
		return minRate + 0.5*(baseRate-minRate)*(1+cos)
	}
}
