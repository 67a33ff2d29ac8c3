package architect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticgo/neat/network"
)

func TestPerceptronTwoLayerFullyConnects(t *testing.T) {
	n := Perceptron(3, 2)
	assert.Equal(t, 3, n.InputSize)
	assert.Equal(t, 2, n.OutputSize)
	assert.Equal(t, 6, len(n.Connections))
}

func TestPerceptronMultiLayerWiresEveryAdjacentPair(t *testing.T) {
	n := Perceptron(2, 4, 3, 1)
	assert.Equal(t, 2+4+3+1, len(n.Nodes))
	// layer0->layer1 (8) + layer1->layer2 (12) + layer2->layer3 (3)
	assert.Equal(t, 8+12+3, len(n.Connections))
}

func TestPerceptronActivatesWithoutError(t *testing.T) {
	n := Perceptron(2, 3, 1)
	out, err := n.Activate([]float64{0.3, 0.7}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(out))
}

func TestLSTMBuildsGatedMemoryCells(t *testing.T) {
	n := LSTM(2, []int{3}, 1)
	require.NotEmpty(t, n.Gates)

	var selfGated int
	for _, node := range n.Nodes {
		if node.SelfConnection != nil && node.SelfConnection.Gater != nil {
			selfGated++
		}
	}
	assert.Equal(t, 3, selfGated)
}

func TestLSTMActivates(t *testing.T) {
	n := LSTM(2, []int{2}, 1)
	out, err := n.Activate([]float64{0.5, -0.2}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(out))
}

func TestGRUBuildsUpdateAndResetGates(t *testing.T) {
	n := GRU(2, []int{3}, 1)
	require.NotEmpty(t, n.Gates)
}

func TestGRUActivates(t *testing.T) {
	n := GRU(2, []int{2}, 1)
	out, err := n.Activate([]float64{1, 0}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(out))
}

func TestNARXAddsDelayInputs(t *testing.T) {
	n := NARX(2, []int{3}, 1, 2)
	assert.Equal(t, 4, n.InputSize) // 2 real inputs + 2 delay slots
}

func TestHopfieldFullyInterconnectsWithoutSelfLoops(t *testing.T) {
	n := Hopfield(4)
	assert.Equal(t, 4*3, len(n.Connections))
	for _, c := range n.Connections {
		assert.NotEqual(t, c.From, c.To)
	}
}

func TestRandomGuaranteesEveryOutputHasAnIncomingConnection(t *testing.T) {
	n := Random(3, 2, 4, 0.1, 99)
	for _, node := range n.Nodes {
		if node.Kind == network.Output {
			assert.NotEmpty(t, node.ConnectionsIn)
		}
	}
}

func TestRandomIsDeterministicForSameSeed(t *testing.T) {
	a := Random(3, 2, 4, 0.5, 7)
	b := Random(3, 2, 4, 0.5, 7)
	assert.Equal(t, len(a.Connections), len(b.Connections))
}
