package neat

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticgo/neat/network"
)

func xorFitness(_ context.Context, g *network.Network) float64 {
	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := []float64{0, 1, 1, 0}
	sse := 0.0
	for i, in := range inputs {
		out, err := g.NoTraceActivate(in)
		if err != nil {
			return math.Inf(-1)
		}
		d := out[0] - targets[i]
		sse += d * d
	}
	return -sse
}

func TestNewCreatesPopulationOfConfiguredSize(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 12
	engine := New(2, 1, xorFitness, cfg, nil)
	assert.Equal(t, 12, len(engine.Population))
}

func TestEvolveKeepsPopulationSizeConstantAndAdvancesGeneration(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 10
	cfg.Elitism = 2
	engine := New(2, 1, xorFitness, cfg, nil)

	fittest, err := engine.Evolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fittest)
	assert.Equal(t, 10, len(engine.Population))
	assert.Equal(t, 1, engine.Generation)
}

func TestEvolveLastGenomeIsUnscoredAfterGeneration(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 8
	cfg.Elitism = 1
	engine := New(2, 1, xorFitness, cfg, nil)

	_, err := engine.Evolve(context.Background())
	require.NoError(t, err)
	assert.False(t, engine.Population[len(engine.Population)-1].HasScore)
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 5
	engine := New(2, 1, xorFitness, cfg, nil)
	_, err := engine.Evolve(context.Background())
	require.NoError(t, err)

	data, err := engine.Export()
	require.NoError(t, err)

	other := New(2, 1, xorFitness, DefaultEngineConfig(), nil)
	require.NoError(t, other.Import(data))
	assert.Equal(t, len(engine.Population), len(other.Population))
}

func TestSaveAndLoadCheckpoint(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 6
	engine := New(2, 1, xorFitness, cfg, nil)
	_, err := engine.Evolve(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "checkpoint.gz")
	require.NoError(t, engine.SaveCheckpoint(path))

	loaded, err := LoadCheckpoint(path, xorFitness)
	require.NoError(t, err)
	assert.Equal(t, engine.Generation, loaded.Generation)
	assert.Equal(t, len(engine.Population), len(loaded.Population))
}

func TestLoadCheckpointFailsOnMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(os.TempDir(), "does-not-exist.gz"), xorFitness)
	assert.Error(t, err)
}

func TestEvolveWithSpeciationEnabledKeepsPopulationSizeConstant(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 20
	cfg.Elitism = 1
	cfg.Speciation.Enabled = true
	cfg.Speciation.CompatibilityThreshold = 0.5 // small, to force multiple species quickly
	engine := New(2, 1, xorFitness, cfg, nil)

	for i := 0; i < 3; i++ {
		_, err := engine.Evolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 20, len(engine.Population))
	}
	assert.Equal(t, 3, engine.Generation)
	assert.NotNil(t, engine.species)
}

func TestEvolveWithSpeciationGroupsPopulationIntoSpecies(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 16
	cfg.Speciation.Enabled = true
	engine := New(2, 1, xorFitness, cfg, nil)

	_, err := engine.Evolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, engine.species)
	assert.NotEmpty(t, engine.species.all)

	total := 0
	for _, sp := range engine.species.all {
		total += len(sp.Members)
	}
	assert.Equal(t, 16, total)
}

func TestEvolveHookRespectsMutationOverride(t *testing.T) {
	template := network.NewNetworkSeeded(2, 1, 1)
	dataset := []network.Example{
		{Input: []float64{0, 0}, Output: []float64{0}},
		{Input: []float64{1, 1}, Output: []float64{0}},
	}
	result, err := template.Evolve(dataset, network.EvolveOptions{
		Iterations: 1,
		PopSize:    6,
		Mutation:   []network.Method{network.AddNode},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
}

func TestNetworkEvolveDelegatesThroughHook(t *testing.T) {
	template := network.NewNetworkSeeded(2, 1, 1)
	dataset := []network.Example{
		{Input: []float64{0, 0}, Output: []float64{0}},
		{Input: []float64{0, 1}, Output: []float64{1}},
		{Input: []float64{1, 0}, Output: []float64{1}},
		{Input: []float64{1, 1}, Output: []float64{0}},
	}
	result, err := template.Evolve(dataset, network.EvolveOptions{
		Iterations: 2,
		PopSize:    8,
		Elitism:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Iterations)
}
