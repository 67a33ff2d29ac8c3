package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 4)
	n.Mutate(AddNode, Caps{})
	n.Mutate(AddGate, Caps{})

	doc, err := n.ToJSON()
	require.NoError(t, err)

	back, err := FromJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, n.InputSize, back.InputSize)
	assert.Equal(t, n.OutputSize, back.OutputSize)
	assert.Equal(t, len(n.Nodes), len(back.Nodes))
	assert.Equal(t, len(n.Connections), len(back.Connections))
	assert.Equal(t, len(n.Gates), len(back.Gates))
}

func TestFromJSONFailsOnMissingKeys(t *testing.T) {
	_, err := FromJSON([]byte(`{"input":2,"output":1}`))
	assert.ErrorIs(t, err, ErrMalformedGenome)
}

func TestFromJSONElidesUnknownSquashAndOutOfRangeIndices(t *testing.T) {
	doc := []byte(`{
		"input": 1, "output": 1,
		"nodes": [
			{"bias":0,"type":"input","squash":"identity","mask":1,"index":0},
			{"bias":0,"type":"output","squash":"not_a_real_function","mask":1,"index":1}
		],
		"connections": [
			{"from":0,"to":1,"weight":0.5,"gater":null,"enabled":true},
			{"from":0,"to":99,"weight":0.5,"gater":null,"enabled":true}
		]
	}`)
	n, err := FromJSON(doc)
	require.NoError(t, err)
	assert.Equal(t, "identity", n.Nodes[1].Squash)
	assert.Equal(t, 1, len(n.Connections))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 2)
	_, err := n.Activate([]float64{0.4, 0.6}, false)
	require.NoError(t, err)

	s := n.Serialize()
	back := Deserialize(s)

	require.Equal(t, len(n.Nodes), len(back.Nodes))
	for i := range n.Nodes {
		assert.InDelta(t, n.Nodes[i].Activation, back.Nodes[i].Activation, 1e-9)
		assert.InDelta(t, n.Nodes[i].Bias, back.Nodes[i].Bias, 1e-9)
	}
}

func TestStandaloneFailsOnNoOutputNodes(t *testing.T) {
	n := &Network{}
	_, err := n.Standalone()
	assert.ErrorIs(t, err, ErrNoOutputNodes)
}

func TestStandaloneEmitsActivateFunction(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	src, err := n.Standalone()
	require.NoError(t, err)
	assert.Contains(t, src, "func Activate(input []float64) []float64")
	assert.Contains(t, src, "return out")
}
