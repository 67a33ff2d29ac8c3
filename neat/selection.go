package neat

import (
	"math"
	"math/rand"

	"github.com/synapticgo/neat/network"
)

// selectParent implements the three selection policies (power,
// fitness-proportionate, tournament) over a population already sorted
// descending by score.
func selectParent(cfg *EngineConfig, population []*network.Network, rng *rand.Rand) (*network.Network, error) {
	switch cfg.Selection {
	case "fitness_proportionate":
		return selectFitnessProportionate(population, rng), nil
	case "tournament":
		if cfg.TournSize > len(population) {
			return nil, ErrTournamentTooLarge
		}
		return selectTournament(population, cfg.TournSize, cfg.TournProb, rng), nil
	default: // power
		power := cfg.PowerExp
		if power == 0 {
			power = 4
		}
		u := rng.Float64()
		idx := int(math.Pow(u, power) * float64(len(population)))
		if idx >= len(population) {
			idx = len(population) - 1
		}
		return population[idx], nil
	}
}

func selectFitnessProportionate(population []*network.Network, rng *rand.Rand) *network.Network {
	minScore := math.Inf(1)
	for _, g := range population {
		if g.Score < minScore {
			minScore = g.Score
		}
	}
	shift := 0.0
	if minScore < 0 {
		shift = -minScore
	}

	total := 0.0
	for _, g := range population {
		total += g.Score + shift
	}
	if total <= 0 {
		return population[rng.Intn(len(population))]
	}

	target := rng.Float64() * total
	acc := 0.0
	for _, g := range population {
		acc += g.Score + shift
		if acc >= target {
			return g
		}
	}
	return population[len(population)-1]
}

func selectTournament(population []*network.Network, size int, prob float64, rng *rand.Rand) *network.Network {
	idxs := rng.Perm(len(population))[:size]
	sample := make([]*network.Network, size)
	for i, idx := range idxs {
		sample[i] = population[idx]
	}
	sortNetworksDescending(sample)

	for i := 0; i < len(sample); i++ {
		p := prob * math.Pow(1-prob, float64(i))
		if rng.Float64() < p {
			return sample[i]
		}
	}
	return sample[len(sample)-1]
}
