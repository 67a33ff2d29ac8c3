package network

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossoverRejectsArchMismatch(t *testing.T) {
	a := NewNetworkSeeded(2, 1, 1)
	b := NewNetworkSeeded(3, 1, 1)
	_, err := Crossover(a, b, true, 0.2, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrArchMismatch)
}

func TestCrossoverOffspringMatchesParentArchitecture(t *testing.T) {
	a := NewNetworkSeeded(2, 1, 1)
	b := NewNetworkSeeded(2, 1, 2)
	a.Mutate(AddNode, Caps{})
	b.Mutate(AddNode, Caps{})
	a.Score, b.Score = 1.0, 2.0

	off, err := Crossover(a, b, false, 0.2, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, a.InputSize, off.InputSize)
	assert.Equal(t, a.OutputSize, off.OutputSize)

	for _, c := range off.Connections {
		assert.Less(t, c.From.Index, len(off.Nodes))
		assert.Less(t, c.To.Index, len(off.Nodes))
	}
}

func TestCrossoverEqualFlagAllowsWiderNodeSampling(t *testing.T) {
	a := NewNetworkSeeded(2, 1, 1)
	b := NewNetworkSeeded(2, 1, 2)
	b.Mutate(AddNode, Caps{})
	b.Mutate(AddNode, Caps{})

	off, err := Crossover(a, b, true, 0.2, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(off.Nodes), len(a.Nodes))
}

func TestCrossoverIsDeterministicForIdenticalSeedAndParents(t *testing.T) {
	a := NewNetworkSeeded(2, 1, 1)
	b := NewNetworkSeeded(2, 1, 2)
	a.Mutate(AddNode, Caps{})
	b.Mutate(AddNode, Caps{})
	b.Mutate(AddConn, Caps{})
	a.Score, b.Score = 1.0, 2.0

	first, err := Crossover(a, b, false, 0.2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := Crossover(a, b, false, 0.2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Equal(t, len(first.Connections), len(second.Connections))
	for i := range first.Connections {
		assert.Equal(t, first.Connections[i].Innovation, second.Connections[i].Innovation)
		assert.Equal(t, first.Connections[i].Weight, second.Connections[i].Weight)
		assert.Equal(t, first.Connections[i].From.Index, second.Connections[i].From.Index)
		assert.Equal(t, first.Connections[i].To.Index, second.Connections[i].To.Index)
	}
}
