package network

import (
	"context"
	"time"
)

// EvolveOptions configures Network.Evolve. It mirrors the subset of the
// NEAT engine's construction options that make sense to
// expose from the network's own evolve entry point; the engine itself
// lives in a separate package to keep network free of a dependency on
// the evolutionary loop.
type EvolveOptions struct {
	Iterations   int
	Error        float64
	HasError     bool
	PopSize      int
	Elitism      int
	Provenance   int
	MutationRate float64
	MutationAmount int
	Equal        bool
	Clear        bool
	Mutation     []Method
	Caps         Caps
	Seed         int64
	Context      context.Context
}

// EvolveResult is the outcome of Network.Evolve.
type EvolveResult struct {
	Error       float64
	Iterations  int
	ElapsedTime time.Duration
	Cancelled   bool
}

// EvolveHook is set by the neat engine package's init() so Network.Evolve
// can delegate to it without network importing neat (neat imports
// network for the genome representation, so the dependency must run the
// other way).
var EvolveHook func(template *Network, dataset []Example, opts EvolveOptions) (EvolveResult, error)

// Evolve constructs a NEAT engine using this network as the population
// template, with fitness computed as negative mean error on dataset, and
// runs generations until either the error target or the iteration budget
// is reached.
func (n *Network) Evolve(dataset []Example, opts EvolveOptions) (EvolveResult, error) {
	for _, ex := range dataset {
		if len(ex.Input) != n.InputSize || len(ex.Output) != n.OutputSize {
			return EvolveResult{}, ErrDatasetShapeMismatch
		}
	}
	if opts.Iterations == 0 && !opts.HasError {
		return EvolveResult{}, ErrMissingStoppingCond
	}
	if EvolveHook == nil {
		panic("network: Evolve called without the neat engine package imported")
	}
	return EvolveHook(n, dataset, opts)
}
