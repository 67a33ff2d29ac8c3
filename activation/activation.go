// Package activation is the Activation Registry: a table of named,
// differentiable scalar activation functions. Nodes store a function's
// name so genomes serialize to stable text; the registry resolves the
// name to the pair of callables at runtime.
package activation

import "math"

// Func is a named, differentiable scalar activation function.
type Func struct {
	Name  string
	Value func(x float64) float64
	Deriv func(x float64) float64
}

// Default is substituted whenever a serialized genome names an unknown
// activation function.
const Default = "identity"

var registry = map[string]Func{}

func register(f Func) {
	registry[f.Name] = f
}

// Get looks up a registered activation by name. It reports ok=false and
// substitutes Identity for an unknown name; callers that must warn should
// check ok and forward the name to their warning sink.
func Get(name string) (fn Func, ok bool) {
	fn, ok = registry[name]
	if !ok {
		return registry[Default], false
	}
	return fn, true
}

// Names returns every registered activation name, for MOD_ACTIVATION's
// "uniformly chosen allowed function" pool.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

func init() {
	register(Func{
		Name:  "logistic",
		Value: func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
		Deriv: func(x float64) float64 {
			s := 1 / (1 + math.Exp(-x))
			return s * (1 - s)
		},
	})
	register(Func{
		Name:  "tanh",
		Value: math.Tanh,
		Deriv: func(x float64) float64 {
			t := math.Tanh(x)
			return 1 - t*t
		},
	})
	register(Func{
		Name:  "identity",
		Value: func(x float64) float64 { return x },
		Deriv: func(x float64) float64 { return 1 },
	})
	register(Func{
		Name: "step",
		Value: func(x float64) float64 {
			if x < 0 {
				return 0
			}
			return 1
		},
		Deriv: func(x float64) float64 { return 0 },
	})
	register(Func{
		Name:  "relu",
		Value: func(x float64) float64 { return math.Max(0, x) },
		Deriv: func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	})
	register(Func{
		Name:  "softsign",
		Value: func(x float64) float64 { return x / (1 + math.Abs(x)) },
		Deriv: func(x float64) float64 {
			d := 1 + math.Abs(x)
			return 1 / (d * d)
		},
	})
	register(Func{
		Name:  "sinusoid",
		Value: math.Sin,
		Deriv: math.Cos,
	})
	register(Func{
		Name:  "gaussian",
		Value: func(x float64) float64 { return math.Exp(-x * x) },
		Deriv: func(x float64) float64 { return -2 * x * math.Exp(-x*x) },
	})
	register(Func{
		Name: "bent_identity",
		Value: func(x float64) float64 {
			return (math.Sqrt(x*x+1)-1)/2 + x
		},
		Deriv: func(x float64) float64 {
			return x/(2*math.Sqrt(x*x+1)) + 1
		},
	})
	register(Func{
		Name: "bipolar",
		Value: func(x float64) float64 {
			if x < 0 {
				return -1
			}
			return 1
		},
		Deriv: func(x float64) float64 { return 0 },
	})
	register(Func{
		Name: "bipolar_sigmoid",
		Value: func(x float64) float64 {
			return 2/(1+math.Exp(-x)) - 1
		},
		Deriv: func(x float64) float64 {
			s := 2 / (1 + math.Exp(-x))
			return (s * (2 - s)) / 2
		},
	})
	register(Func{
		Name:  "hard_tanh",
		Value: func(x float64) float64 { return mathClamp(x, -1, 1) },
		Deriv: func(x float64) float64 {
			if x > -1 && x < 1 {
				return 1
			}
			return 0
		},
	})
	register(Func{
		Name:  "absolute",
		Value: math.Abs,
		Deriv: func(x float64) float64 {
			if x < 0 {
				return -1
			}
			return 1
		},
	})
	register(Func{
		Name: "inverse",
		Value: func(x float64) float64 { return 1 - x },
		Deriv: func(x float64) float64 { return -1 },
	})
	register(Func{
		Name: "selu",
		Value: func(x float64) float64 {
			const alpha = 1.6732632423543772
			const scale = 1.0507009873554805
			if x > 0 {
				return scale * x
			}
			return scale * alpha * (math.Exp(x) - 1)
		},
		Deriv: func(x float64) float64 {
			const alpha = 1.6732632423543772
			const scale = 1.0507009873554805
			if x > 0 {
				return scale
			}
			return scale * alpha * math.Exp(x)
		},
	})
}

func mathClamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
