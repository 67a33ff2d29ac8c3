// Package neat implements the NEAT evolutionary engine: a
// population of network.Network genomes evolved by selection, crossover
// and mutation, with optional speciation, stagnation tracking, and
// fitness-shared reproduction grouped by species.
package neat

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/synapticgo/neat/mathutil"
	"github.com/synapticgo/neat/network"
)

func init() {
	network.EvolveHook = evolveHook
}

// FitnessFunc scores a single genome. FitnessPopulationFunc scores the
// whole population at once and must set every genome's Score itself
// (the `fitness_population` option).
type FitnessFunc func(ctx context.Context, genome *network.Network) float64
type FitnessPopulationFunc func(ctx context.Context, population []*network.Network)

// Neat is the evolutionary engine: a population of genomes plus the
// configuration that governs how they are evaluated, selected, bred and
// mutated each generation.
type Neat struct {
	Config EngineConfig

	Input, Output int
	Fitness       FitnessFunc
	FitnessPop    FitnessPopulationFunc
	Template      *network.Network

	Population []*network.Network
	Generation int

	species *speciesSet
	rng     *rand.Rand
}

// New constructs a NEAT engine. When template is nil, createPool
// allocates popsize fresh network.NewNetworkSeeded(input, output, seed)
// genomes, each seeded from the engine's PRNG;
// otherwise it fills the population with popsize clones of template.
func New(input, output int, fitness FitnessFunc, cfg EngineConfig, template *network.Network) *Neat {
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	ne := &Neat{
		Config:   cfg,
		Input:    input,
		Output:   output,
		Fitness:  fitness,
		Template: template,
		rng:      rand.New(rand.NewSource(seed)),
	}
	if cfg.Speciation.Enabled {
		ne.species = &speciesSet{}
	}
	ne.createPool()
	return ne
}

func (ne *Neat) createPool() {
	ne.Population = make([]*network.Network, ne.Config.PopSize)
	for i := 0; i < ne.Config.PopSize; i++ {
		if ne.Template != nil {
			ne.Population[i] = ne.Template.Clone()
		} else {
			ne.Population[i] = network.NewNetworkSeeded(ne.Input, ne.Output, int64(ne.rng.Int63()))
		}
	}
}

func sortNetworksDescending(pop []*network.Network) {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].Score > pop[j].Score })
}

// Evolve runs one generation: evaluate if needed, sort descending, clone
// the fittest for return, build the next population from provenance +
// elitism + offspring (grouped by species when speciation is enabled),
// mutate non-elitists, and return the fittest clone.
func (ne *Neat) Evolve(ctx context.Context) (*network.Network, error) {
	if !ne.Population[len(ne.Population)-1].HasScore {
		ne.evaluate(ctx)
	}

	sortNetworksDescending(ne.Population)
	fittest := ne.Population[0].Clone()

	elites, grown, err := ne.reproduce()
	if err != nil {
		return nil, err
	}

	methods := ne.Config.MutationMethods()
	caps := ne.Config.caps()
	for _, g := range grown {
		if ne.rng.Float64() < ne.Config.MutationRate {
			for k := 0; k < ne.Config.MutationAmount; k++ {
				method := methods[ne.rng.Intn(len(methods))]
				g.Mutate(method, caps)
			}
		}
		g.HasScore = false
		g.Score = 0
	}

	// Elites are appended first (carrying their scores) so the population's
	// *last* entry is always an unscored offspring/provenance genome,
	// matching the "if the last genome's score is undefined" check used at
	// the top of the next Evolve call.
	nextPop := append(elites, grown...)
	ne.Population = nextPop
	ne.Generation++
	return fittest, nil
}

// reproduce builds the elites (carried over with their scores, never
// mutated) and the grown genomes (provenance + offspring, eligible for
// mutation) for the next generation.
func (ne *Neat) reproduce() (elites, grown []*network.Network, err error) {
	if ne.Config.Speciation.Enabled {
		return ne.reproduceSpeciated()
	}
	return ne.reproducePlain()
}

func (ne *Neat) reproducePlain() (elites, grown []*network.Network, err error) {
	for i := 0; i < ne.Config.Elitism && i < len(ne.Population); i++ {
		elite := ne.Population[i].Clone()
		elite.Score = ne.Population[i].Score
		elite.HasScore = true
		elites = append(elites, elite)
	}

	for i := 0; i < ne.Config.Provenance; i++ {
		grown = append(grown, ne.freshGenome())
	}

	offspringCount := ne.Config.PopSize - ne.Config.Elitism - ne.Config.Provenance
	if offspringCount < 0 {
		offspringCount = 0
	}
	for i := 0; i < offspringCount; i++ {
		child, err := ne.getOffspring()
		if err != nil {
			return nil, nil, err
		}
		grown = append(grown, child)
	}
	return elites, grown, nil
}

// reproduceSpeciated groups the population into species, retires stagnant
// ones (sparing the species_elitism fittest), computes each surviving
// species' spawn allocation by fitness-shared adjusted fitness, and
// produces that many offspring per species via within-species crossover.
// Provenance genomes are added on top of the species-derived offspring.
func (ne *Neat) reproduceSpeciated() (elites, grown []*network.Network, err error) {
	sc := ne.Config.Speciation
	ne.species.speciate(ne.Population, sc)
	nonStagnant := ne.species.updateStagnation(sc, ne.Generation)
	if len(nonStagnant) == 0 {
		nonStagnant = ne.species.all
	}
	ne.species.all = nonStagnant

	var allFitnesses []float64
	for _, sp := range nonStagnant {
		allFitnesses = append(allFitnesses, sp.fitnesses()...)
	}
	minFitness := mathutil.MinFloat(allFitnesses)
	maxFitness := mathutil.MaxFloat(allFitnesses)
	fitnessRange := math.Max(1.0, maxFitness-minFitness)

	adjustedFitnesses := make([]float64, len(nonStagnant))
	previousSizes := make([]int, len(nonStagnant))
	adjustedFitnessSum := 0.0
	for i, sp := range nonStagnant {
		af := (sp.Fitness - minFitness) / fitnessRange
		sp.AdjustedFitness = af
		adjustedFitnesses[i] = af
		previousSizes[i] = len(sp.Members)
		adjustedFitnessSum += af
	}

	offspringTarget := ne.Config.PopSize - ne.Config.Provenance
	if offspringTarget < 0 {
		offspringTarget = 0
	}
	spawnMinSize := sc.MinSpeciesSize
	if ne.Config.Elitism > spawnMinSize {
		spawnMinSize = ne.Config.Elitism
	}
	spawnAmounts := computeSpawnAmounts(adjustedFitnesses, adjustedFitnessSum, previousSizes, offspringTarget, spawnMinSize)

	for i, sp := range nonStagnant {
		spawn := spawnAmounts[i]
		if spawn <= 0 {
			continue
		}
		sorted := make([]*network.Network, len(sp.Members))
		copy(sorted, sp.Members)
		sortNetworksDescending(sorted)

		elitesTaken := ne.Config.Elitism
		if elitesTaken > spawn {
			elitesTaken = spawn
		}
		if elitesTaken > len(sorted) {
			elitesTaken = len(sorted)
		}
		for j := 0; j < elitesTaken; j++ {
			elite := sorted[j].Clone()
			elite.Score = sorted[j].Score
			elite.HasScore = true
			elites = append(elites, elite)
		}

		for j := 0; j < spawn-elitesTaken; j++ {
			parentA := sorted[ne.rng.Intn(len(sorted))]
			parentB := sorted[ne.rng.Intn(len(sorted))]
			child, cErr := network.Crossover(parentA, parentB, ne.Config.Equal, ne.Config.ReenableProb, ne.rng)
			if cErr != nil {
				return nil, nil, cErr
			}
			grown = append(grown, child)
		}
	}

	for i := 0; i < ne.Config.Provenance; i++ {
		grown = append(grown, ne.freshGenome())
	}
	return elites, grown, nil
}

func (ne *Neat) freshGenome() *network.Network {
	if ne.Template != nil {
		return ne.Template.Clone()
	}
	return network.NewNetworkSeeded(ne.Input, ne.Output, int64(ne.rng.Int63()))
}

func (ne *Neat) evaluate(ctx context.Context) {
	if ne.Config.Clear {
		for _, g := range ne.Population {
			g.ClearState()
		}
	}
	if ne.Config.FitnessPopulation && ne.FitnessPop != nil {
		ne.FitnessPop(ctx, ne.Population)
		return
	}
	for _, g := range ne.Population {
		g.Score = ne.Fitness(ctx, g)
		g.HasScore = true
	}
}

func (ne *Neat) getOffspring() (*network.Network, error) {
	parentA, err := selectParent(&ne.Config, ne.Population, ne.rng)
	if err != nil {
		return nil, err
	}
	parentB, err := selectParent(&ne.Config, ne.Population, ne.rng)
	if err != nil {
		return nil, err
	}
	return network.Crossover(parentA, parentB, ne.Config.Equal, ne.Config.ReenableProb, ne.rng)
}

// GetFittest returns the highest-scoring genome in the current
// population, evaluating first if needed.
func (ne *Neat) GetFittest(ctx context.Context) *network.Network {
	if !ne.Population[len(ne.Population)-1].HasScore {
		ne.evaluate(ctx)
	}
	sortNetworksDescending(ne.Population)
	return ne.Population[0]
}

// GetAverage returns the mean score across the population.
func (ne *Neat) GetAverage() float64 {
	sum := 0.0
	for _, g := range ne.Population {
		sum += g.Score
	}
	if len(ne.Population) == 0 {
		return 0
	}
	return sum / float64(len(ne.Population))
}

// GetParent selects one parent per the configured selection policy.
func (ne *Neat) GetParent() (*network.Network, error) {
	return selectParent(&ne.Config, ne.Population, ne.rng)
}

// Sort sorts the population descending by score.
func (ne *Neat) Sort() { sortNetworksDescending(ne.Population) }

// Export returns to_json() for every genome in population order.
func (ne *Neat) Export() ([]byte, error) {
	docs := make([]json.RawMessage, len(ne.Population))
	for i, g := range ne.Population {
		doc, err := g.ToJSON()
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return json.Marshal(docs)
}

// Import replaces the population from an exported array; popsize becomes
// the new length.
func (ne *Neat) Import(data []byte) error {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}
	pop := make([]*network.Network, 0, len(docs))
	for _, doc := range docs {
		g, err := network.FromJSON(doc)
		if err != nil {
			return err
		}
		pop = append(pop, g)
	}
	ne.Population = pop
	ne.Config.PopSize = len(pop)
	return nil
}

// evolveHook implements network.EvolveHook: it builds a Neat engine using
// template as the population seed, with fitness scored as negative mean
// error on dataset, and runs generations until either the error target or
// the iteration budget is reached.
func evolveHook(template *network.Network, dataset []network.Example, opts network.EvolveOptions) (network.EvolveResult, error) {
	start := time.Now()

	cfg := DefaultEngineConfig()
	if opts.PopSize > 0 {
		cfg.PopSize = opts.PopSize
	}
	cfg.Elitism = opts.Elitism
	cfg.Provenance = opts.Provenance
	if opts.MutationRate > 0 {
		cfg.MutationRate = opts.MutationRate
	}
	if opts.MutationAmount > 0 {
		cfg.MutationAmount = opts.MutationAmount
	}
	cfg.Equal = opts.Equal
	cfg.Clear = opts.Clear
	if len(opts.Mutation) > 0 {
		cfg.MutationOverride = opts.Mutation
	}
	if opts.Caps != (network.Caps{}) {
		cfg.MaxNodes, cfg.MaxConns, cfg.MaxGates = opts.Caps.MaxNodes, opts.Caps.MaxConns, opts.Caps.MaxGates
	}
	cfg.Seed = opts.Seed

	fitness := func(ctx context.Context, g *network.Network) float64 {
		sum := 0.0
		for _, ex := range dataset {
			out, err := g.NoTraceActivate(ex.Input)
			if err != nil {
				return math.Inf(-1)
			}
			e := 0.0
			for i := range ex.Output {
				d := ex.Output[i] - out[i]
				e += d * d
			}
			sum += e / float64(len(ex.Output))
		}
		return -sum / float64(len(dataset))
	}

	ne := New(template.InputSize, template.OutputSize, fitness, cfg, template)

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	result := network.EvolveResult{}
	for iter := 1; ; iter++ {
		select {
		case <-ctx.Done():
			result.Cancelled = true
			result.Iterations = iter - 1
			result.ElapsedTime = time.Since(start)
			return result, nil
		default:
		}

		fittest, err := ne.Evolve(ctx)
		if err != nil {
			return network.EvolveResult{}, err
		}
		result.Error = -fittest.Score
		result.Iterations = iter

		if opts.HasError && result.Error <= opts.Error {
			break
		}
		if opts.Iterations > 0 && iter >= opts.Iterations {
			break
		}
	}

	result.ElapsedTime = time.Since(start)
	return result, nil
}
