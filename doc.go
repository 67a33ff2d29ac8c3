// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity. This module also
// carries NeatapticTS/neataptic.js-style gated connections, eligibility traces, and a
// standalone gradient training loop, so a genome can be evolved, then fine-tuned by gradient
// descent, or trained from scratch without ever touching the evolutionary engine.
//
// This implementation is based on the original paper by Kenneth O. Stanley and Risto Miikkulainen
// and draws its network model and gating/training semantics from neataptic.js
// (https://github.com/wagenaartje/neataptic).
//
// Basic usage, evolving a population:
//
//	cfg := neat.DefaultEngineConfig()
//	cfg.PopSize = 150
//
//	fitness := func(ctx context.Context, g *network.Network) float64 {
//		out, _ := g.NoTraceActivate([]float64{0, 1})
//		return -math.Abs(out[0] - 1)
//	}
//
//	engine := neat.New(2, 1, fitness, cfg, nil)
//	for gen := 0; gen < 100; gen++ {
//		winner, err := engine.Evolve(context.Background())
//		if err != nil {
//			log.Fatalf("generation %d failed: %v", gen, err)
//		}
//		if winner.Score >= -0.01 {
//			break
//		}
//	}
//
// Basic usage, training a single network directly with gradients:
//
//	net := architect.Perceptron(2, 4, 1)
//	result, err := net.Train(dataset, network.TrainOptions{
//		Iterations: 1000,
//		Rate:       0.3,
//		Cost:       "mse",
//	})
package neat
