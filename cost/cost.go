// Package cost is the Cost Registry: named loss functions over a
// (target, output) pair, each with a per-output scalar derivative used by
// the training loop's backward pass.
package cost

import "math"

// Func is a named loss function and its per-output derivative. Deriv is
// part of the registry contract for every cost function, but the
// backward pass doesn't call it: output-node responsibility always uses
// the fixed (target - activation) error signal regardless of which cost
// is selected. Deriv exists so callers evaluating a cost function in
// isolation (reporting, analysis) have a real gradient to read.
type Func struct {
	Name  string
	Value func(target, output []float64) float64
	// Deriv returns d(loss)/d(output[i]) for a single output index.
	Deriv func(target, output []float64, i int) float64
}

var registry = map[string]Func{}

func register(f Func) { registry[f.Name] = f }

// Get looks up a registered cost function by name.
func Get(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func init() {
	register(Func{
		Name: "mse",
		Value: func(target, output []float64) float64 {
			sum := 0.0
			for i := range target {
				d := target[i] - output[i]
				sum += d * d
			}
			return sum / float64(len(target))
		},
		Deriv: func(target, output []float64, i int) float64 {
			return -2 * (target[i] - output[i]) / float64(len(target))
		},
	})
	register(Func{
		Name: "mae",
		Value: func(target, output []float64) float64 {
			sum := 0.0
			for i := range target {
				sum += math.Abs(target[i] - output[i])
			}
			return sum / float64(len(target))
		},
		Deriv: func(target, output []float64, i int) float64 {
			d := output[i] - target[i]
			if d > 0 {
				return 1 / float64(len(target))
			} else if d < 0 {
				return -1 / float64(len(target))
			}
			return 0
		},
	})
	register(Func{
		Name: "bce",
		Value: func(target, output []float64) float64 {
			const eps = 1e-15
			sum := 0.0
			for i := range target {
				o := clamp(output[i], eps, 1-eps)
				sum += -(target[i]*math.Log(o) + (1-target[i])*math.Log(1-o))
			}
			return sum / float64(len(target))
		},
		Deriv: func(target, output []float64, i int) float64 {
			const eps = 1e-15
			o := clamp(output[i], eps, 1-eps)
			return (-(target[i]/o) + (1-target[i])/(1-o)) / float64(len(target))
		},
	})
	register(Func{
		Name: "cross_entropy",
		Value: func(target, output []float64) float64 {
			const eps = 1e-15
			sum := 0.0
			for i := range target {
				o := clamp(output[i], eps, 1-eps)
				sum += target[i] * math.Log(o)
			}
			return -sum
		},
		Deriv: func(target, output []float64, i int) float64 {
			const eps = 1e-15
			o := clamp(output[i], eps, 1-eps)
			return -target[i] / o
		},
	})
	register(Func{
		Name: "softmax_cross_entropy",
		Value: func(target, output []float64) float64 {
			const eps = 1e-15
			sum := 0.0
			for i := range target {
				o := clamp(output[i], eps, 1-eps)
				sum += target[i] * math.Log(o)
			}
			return -sum
		},
		Deriv: func(target, output []float64, i int) float64 {
			// Per spec 4.2: for softmax-CE the derivative is output - target.
			return output[i] - target[i]
		},
	})
	register(Func{
		Name: "hinge",
		Value: func(target, output []float64) float64 {
			sum := 0.0
			for i := range target {
				sum += math.Max(0, 1-target[i]*output[i])
			}
			return sum / float64(len(target))
		},
		Deriv: func(target, output []float64, i int) float64 {
			if 1-target[i]*output[i] > 0 {
				return -target[i] / float64(len(target))
			}
			return 0
		},
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
