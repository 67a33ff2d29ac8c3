package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvolveRejectsShapeMismatch(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	bad := []Example{{Input: []float64{0}, Output: []float64{0}}}
	_, err := n.Evolve(bad, EvolveOptions{Iterations: 1})
	assert.ErrorIs(t, err, ErrDatasetShapeMismatch)
}

func TestEvolveRejectsMissingStoppingCondition(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Evolve(xorDataset(), EvolveOptions{})
	assert.ErrorIs(t, err, ErrMissingStoppingCond)
}

func TestEvolvePanicsWithoutHookRegistered(t *testing.T) {
	saved := EvolveHook
	EvolveHook = nil
	defer func() { EvolveHook = saved }()

	n := NewNetworkSeeded(2, 1, 1)
	assert.Panics(t, func() {
		_, _ = n.Evolve(xorDataset(), EvolveOptions{Iterations: 1})
	})
}
