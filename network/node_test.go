package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateBuildsEligibilityOnIncomingConnections(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Activate([]float64{1, 1}, false)
	require.NoError(t, err)

	for _, c := range n.Connections {
		assert.NotEqual(t, 0.0, c.Eligibility)
	}
}

func TestActivateSetsGainOnGatedConnections(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	gater := NewNode(Hidden)
	gater.Index = len(n.Nodes)
	n.Nodes = append(n.Nodes, gater)
	conn := n.Connections[0]
	n.Gate(gater, conn)

	gater.Activate(0.7)
	assert.Equal(t, gater.Activation, conn.Gain)
}

func TestResponsibilityUsesTargetForOutputNodes(t *testing.T) {
	n := NewNode(Output)
	n.Activation = 0.4
	n.Derivative = 1.0
	target := 1.0
	resp := n.responsibility(&target)
	assert.InDelta(t, (1.0-0.4)*1.0, resp, 1e-9)
}

func TestClearStateZeroesTracesButKeepsWeights(t *testing.T) {
	n := NewNetworkSeeded(1, 1, 1)
	_, err := n.Activate([]float64{1}, false)
	require.NoError(t, err)
	c := n.Connections[0]
	require.NotEqual(t, 0.0, c.Eligibility)
	weight := c.Weight

	n.Nodes[len(n.Nodes)-1].clearState()
	assert.Equal(t, 0.0, c.Eligibility)
	assert.Equal(t, weight, c.Weight)
}
