package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticgo/neat/network"
)

func TestDefaultEngineConfigIsValid(t *testing.T) {
	cfg := DefaultEngineConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositivePopSize(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsElitismPlusProvenanceOverPopSize(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PopSize = 10
	cfg.Elitism = 6
	cfg.Provenance = 6
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeMutationRate(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MutationRate = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownSelection(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Selection = "roulette"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsTournamentSizeLargerThanPopulation(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Selection = "tournament"
	cfg.TournSize = cfg.PopSize + 1
	assert.ErrorIs(t, cfg.Validate(), ErrTournamentTooLarge)
}

func TestMutationMethodsResolvesGroup(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MutationGroup = "all"
	assert.Equal(t, network.All, cfg.MutationMethods())

	cfg.MutationGroup = "ffw"
	assert.Equal(t, network.FFW, cfg.MutationMethods())
}

func TestMutationMethodsPrefersOverrideWhenSet(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MutationGroup = "ffw"
	cfg.MutationOverride = []network.Method{network.AddGate, network.SubGate}
	assert.Equal(t, []network.Method{network.AddGate, network.SubGate}, cfg.MutationMethods())
}

func TestCleanIniStringStripsTrailingComment(t *testing.T) {
	assert.Equal(t, "power", cleanIniString("power  ; default policy"))
	assert.Equal(t, "tournament", cleanIniString("tournament # fallback"))
}
