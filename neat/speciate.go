package neat

import (
	"math"
	"sort"

	"github.com/synapticgo/neat/mathutil"
	"github.com/synapticgo/neat/network"
)

// species groups genomes by genomic distance for fitness sharing and
// optional stagnation tracking, keyed by connection innovation ids rather
// than a genome's node-gene map.
type species struct {
	ID              int
	Representative  *network.Network
	Members         []*network.Network
	Fitness         float64
	AdjustedFitness float64
	FitnessHistory  []float64
	LastImproved    int
}

type speciesSet struct {
	all    []*species
	nextID int
}

// distance is the standard NEAT genomic-distance formula: weighted
// disjoint/excess innovation counts plus mean weight difference of
// matching connections.
func distance(a, b *network.Network, cfg SpeciationConfig) float64 {
	aConns := make(map[int]*network.Connection, len(a.Connections))
	for _, c := range a.Connections {
		aConns[c.Innovation] = c
	}
	bConns := make(map[int]*network.Connection, len(b.Connections))
	for _, c := range b.Connections {
		bConns[c.Innovation] = c
	}

	maxInnovA, maxInnovB := maxInnovation(a), maxInnovation(b)
	lowMax := math.Min(float64(maxInnovA), float64(maxInnovB))

	var matching, disjoint, excess int
	var weightDiffSum float64

	seen := make(map[int]bool)
	for inn, ac := range aConns {
		seen[inn] = true
		bc, ok := bConns[inn]
		if !ok {
			if float64(inn) > lowMax {
				excess++
			} else {
				disjoint++
			}
			continue
		}
		matching++
		weightDiffSum += math.Abs(ac.Weight - bc.Weight)
	}
	for inn := range bConns {
		if seen[inn] {
			continue
		}
		if float64(inn) > lowMax {
			excess++
		} else {
			disjoint++
		}
	}

	n := math.Max(float64(len(aConns)), float64(len(bConns)))
	if n < 1 {
		n = 1
	}
	meanWeightDiff := 0.0
	if matching > 0 {
		meanWeightDiff = weightDiffSum / float64(matching)
	}

	return cfg.ExcessCoefficient*float64(excess)/n +
		cfg.DisjointCoefficient*float64(disjoint)/n +
		cfg.WeightCoefficient*meanWeightDiff
}

func maxInnovation(n *network.Network) int {
	max := 0
	for _, c := range n.Connections {
		if c.Innovation > max {
			max = c.Innovation
		}
	}
	return max
}

// speciate (re)assigns the population into species, reusing each
// surviving species' previous representative and creating new species
// for unmatched genomes.
func (s *speciesSet) speciate(population []*network.Network, cfg SpeciationConfig) {
	var unmatched []*network.Network
	for _, sp := range s.all {
		if sp.Representative == nil {
			continue
		}
		found := false
		for _, g := range population {
			if g == sp.Representative {
				found = true
				break
			}
		}
		if !found {
			sp.Representative = nil
		}
	}

	var surviving []*species
	for _, sp := range s.all {
		if sp.Representative != nil {
			sp.Members = []*network.Network{sp.Representative}
			surviving = append(surviving, sp)
		}
	}
	s.all = surviving

	for _, g := range population {
		placed := false
		for _, sp := range s.all {
			if sp.Representative == g {
				continue
			}
			if distance(g, sp.Representative, cfg) < cfg.CompatibilityThreshold {
				sp.Members = append(sp.Members, g)
				placed = true
				break
			}
		}
		if !placed {
			unmatched = append(unmatched, g)
		}
	}

	for _, g := range unmatched {
		placed := false
		for _, sp := range s.all {
			if distance(g, sp.Representative, cfg) < cfg.CompatibilityThreshold {
				sp.Members = append(sp.Members, g)
				placed = true
				break
			}
		}
		if !placed {
			s.nextID++
			s.all = append(s.all, &species{ID: s.nextID, Representative: g, Members: []*network.Network{g}})
		}
	}

	for _, sp := range s.all {
		if len(sp.Members) > 0 {
			sp.Representative = sp.Members[0]
		}
	}
}

func (sp *species) fitnesses() []float64 {
	out := make([]float64, len(sp.Members))
	for i, g := range sp.Members {
		out[i] = g.Score
	}
	return out
}

// updateStagnation tracks each species' fitness history and marks species
// stagnant once they've gone max_stagnation generations without improving,
// sparing the fittest species_elitism species regardless.
func (s *speciesSet) updateStagnation(cfg SpeciationConfig, generation int) (nonStagnant []*species) {
	for _, sp := range s.all {
		prevBest := math.Inf(-1)
		if len(sp.FitnessHistory) > 0 {
			prevBest = mathutil.MaxFloat(sp.FitnessHistory)
		}
		fits := sp.fitnesses()
		sp.Fitness = mathutil.Mean(fits)
		sp.FitnessHistory = append(sp.FitnessHistory, sp.Fitness)
		if sp.Fitness > prevBest {
			sp.LastImproved = generation
		}
	}

	sorted := make([]*species, len(s.all))
	copy(sorted, s.all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Fitness < sorted[j].Fitness })

	numSpecies := len(sorted)
	for i, sp := range sorted {
		stagnantTime := generation - sp.LastImproved
		isElite := (numSpecies - i) <= cfg.SpeciesElitism
		if stagnantTime >= cfg.MaxStagnation && !isElite {
			continue
		}
		nonStagnant = append(nonStagnant, sp)
	}
	return nonStagnant
}

// computeSpawnAmounts distributes popSize offspring slots across species
// proportional to adjusted fitness, dampened by previous size and
// renormalized toward popSize. No species gets fewer than minSize slots,
// so the total exceeds popSize when minSize times the species count does.
func computeSpawnAmounts(adjustedFitnesses []float64, adjustedFitnessSum float64, previousSizes []int, popSize, minSize int) []int {
	spawn := make([]int, len(adjustedFitnesses))
	for i, af := range adjustedFitnesses {
		ps := previousSizes[i]
		var target float64
		if adjustedFitnessSum > 0 {
			target = af / adjustedFitnessSum * float64(popSize)
		} else {
			target = float64(minSize)
		}
		target = math.Max(float64(minSize), target)
		d := (target - float64(ps)) * 0.5
		spawn[i] = int(math.Max(float64(minSize), float64(ps)+math.Round(d)))
	}

	total := 0
	for _, s := range spawn {
		total += s
	}
	if total == 0 {
		for i := range spawn {
			spawn[i] = minSize
		}
		return spawn
	}

	norm := float64(popSize) / float64(total)
	finalSpawn := make([]int, len(spawn))
	sum := 0
	for i, s := range spawn {
		finalSpawn[i] = int(math.Max(float64(minSize), math.Round(float64(s)*norm)))
		sum += finalSpawn[i]
	}
	diff := popSize - sum
	if len(finalSpawn) > 0 {
		for pass, i := 0, 0; diff != 0 && pass < popSize+len(finalSpawn); pass, i = pass+1, (i+1)%len(finalSpawn) {
			if diff > 0 {
				finalSpawn[i]++
				diff--
			} else if finalSpawn[i] > minSize {
				finalSpawn[i]--
				diff++
			}
		}
	}
	return finalSpawn
}
