// Package optimizer implements the first-order optimizers the training
// loop can select: plain SGD with momentum, RMSProp, Adagrad, Adam,
// AdamW, Adamax, Nadam and Lion. Each connection (and node bias) carries
// one State value; the optimizer is stateless and pure given that state.
package optimizer

import "math"

// Kind names a registered optimizer.
type Kind string

const (
	SGD     Kind = "sgd"
	RMSProp Kind = "rmsprop"
	Adagrad Kind = "adagrad"
	Adam    Kind = "adam"
	AdamW   Kind = "adamw"
	Adamax  Kind = "adamax"
	Nadam   Kind = "nadam"
	Lion    Kind = "lion"
)

// State holds the per-parameter moment accumulators used by the
// gradient-based optimizers. Unused fields for a given Kind simply stay
// zero; this costs a handful of float64s per connection, which is cheap
// enough not to warrant a tagged union.
type State struct {
	M     float64 // first moment / momentum accumulator
	V     float64 // second moment accumulator
	VHat  float64 // Adamax: exponentially weighted infinity norm
	Step  int     // time step, for Adam-family bias correction
	Cache float64 // Adagrad/RMSProp accumulated squared gradient
}

// Config carries the hyperparameters shared across optimizer steps.
type Config struct {
	Kind         Kind
	Rate         float64
	Momentum     float64 // SGD momentum; the other kinds ignore it (Adam-family kinds use Beta1)
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64 // L2 (coupled) for most optimizers, decoupled for AdamW
	DecoupledWD  bool    // true selects AdamW-style decoupled decay
}

// DefaultConfig returns sensible defaults for the given optimizer kind.
func DefaultConfig(kind Kind, rate float64) Config {
	cfg := Config{
		Kind:    kind,
		Rate:    rate,
		Beta1:   0.9,
		Beta2:   0.999,
		Epsilon: 1e-8,
	}
	if kind == AdamW {
		cfg.DecoupledWD = true
	}
	return cfg
}

// Step applies one optimizer update to weight given its instantaneous
// gradient, returning the new weight and the delta applied (so callers
// can track previous_delta_weight for momentum-style reporting).
func Step(cfg Config, state *State, weight, gradient float64) (newWeight, delta float64) {
	if cfg.DecoupledWD && cfg.WeightDecay > 0 {
		weight -= cfg.Rate * cfg.WeightDecay * weight
	} else if cfg.WeightDecay > 0 {
		gradient += cfg.WeightDecay * weight
	}

	state.Step++
	var update float64

	switch cfg.Kind {
	case SGD:
		state.M = cfg.Momentum*state.M - cfg.Rate*gradient
		update = state.M

	case RMSProp:
		decay := 0.9
		state.Cache = decay*state.Cache + (1-decay)*gradient*gradient
		update = -cfg.Rate * gradient / (math.Sqrt(state.Cache) + cfg.Epsilon)

	case Adagrad:
		state.Cache += gradient * gradient
		update = -cfg.Rate * gradient / (math.Sqrt(state.Cache) + cfg.Epsilon)

	case Adam:
		state.M = cfg.Beta1*state.M + (1-cfg.Beta1)*gradient
		state.V = cfg.Beta2*state.V + (1-cfg.Beta2)*gradient*gradient
		mHat := state.M / (1 - math.Pow(cfg.Beta1, float64(state.Step)))
		vHat := state.V / (1 - math.Pow(cfg.Beta2, float64(state.Step)))
		update = -cfg.Rate * mHat / (math.Sqrt(vHat) + cfg.Epsilon)

	case AdamW:
		state.M = cfg.Beta1*state.M + (1-cfg.Beta1)*gradient
		state.V = cfg.Beta2*state.V + (1-cfg.Beta2)*gradient*gradient
		mHat := state.M / (1 - math.Pow(cfg.Beta1, float64(state.Step)))
		vHat := state.V / (1 - math.Pow(cfg.Beta2, float64(state.Step)))
		update = -cfg.Rate * mHat / (math.Sqrt(vHat) + cfg.Epsilon)

	case Adamax:
		state.M = cfg.Beta1*state.M + (1-cfg.Beta1)*gradient
		state.VHat = math.Max(cfg.Beta2*state.VHat, math.Abs(gradient))
		mHat := state.M / (1 - math.Pow(cfg.Beta1, float64(state.Step)))
		update = -cfg.Rate * mHat / (state.VHat + cfg.Epsilon)

	case Nadam:
		state.M = cfg.Beta1*state.M + (1-cfg.Beta1)*gradient
		state.V = cfg.Beta2*state.V + (1-cfg.Beta2)*gradient*gradient
		mHat := state.M/(1-math.Pow(cfg.Beta1, float64(state.Step))) +
			(1-cfg.Beta1)*gradient/(1-math.Pow(cfg.Beta1, float64(state.Step)))
		vHat := state.V / (1 - math.Pow(cfg.Beta2, float64(state.Step)))
		update = -cfg.Rate * mHat / (math.Sqrt(vHat) + cfg.Epsilon)

	case Lion:
		signInput := cfg.Beta1*state.M + (1-cfg.Beta1)*gradient
		update = -cfg.Rate * sign(signInput)
		state.M = cfg.Beta2*state.M + (1-cfg.Beta2)*gradient

	default:
		// Unknown kind behaves as plain SGD; InvalidOptimizer is caught
		// earlier, at configuration time, by network.Train.
		update = -cfg.Rate * gradient
	}

	return weight + update, update
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Valid reports whether name is a recognized optimizer kind.
func Valid(name string) bool {
	switch Kind(name) {
	case SGD, RMSProp, Adagrad, Adam, AdamW, Adamax, Nadam, Lion:
		return true
	default:
		return false
	}
}
