// Package network implements the activation/backprop kernel: nodes,
// connections, eligibility and extended traces, mutation, crossover,
// training and serialization for gated, recurrent, trainable graphs.
package network

import (
	"math"
	"math/rand"
)

// Network is a weighted, optionally gated and optionally recurrent graph
// of Nodes built from an input/output skeleton and grown by mutation or
// crossover.
type Network struct {
	InputSize, OutputSize int

	Nodes       []*Node
	Connections []*Connection // non-self connections, in creation order
	Gates       []*Connection // subset of Connections ∪ self-connections with a Gater

	Score          float64
	HasScore       bool
	Dropout        float64
	DropConnect    float64
	EnforceAcyclic bool

	Rand *rand.Rand
}

// NewNetwork allocates input+output nodes and fully connects every input
// to every output with Xavier/Glorot-initialized weights.
func NewNetwork(input, output int) *Network {
	return newNetwork(input, output, rand.New(rand.NewSource(1)))
}

// NewNetworkSeeded is the deterministic constructor used by tests and by
// the NEAT engine's pool creation: identical seeds must yield bitwise
// identical initial weights.
func NewNetworkSeeded(input, output int, seed int64) *Network {
	return newNetwork(input, output, rand.New(rand.NewSource(seed)))
}

func newNetwork(input, output int, rng *rand.Rand) *Network {
	n := &Network{
		InputSize:  input,
		OutputSize: output,
		Rand:       rng,
	}

	for i := 0; i < input; i++ {
		node := NewNode(Input)
		node.Index = len(n.Nodes)
		n.Nodes = append(n.Nodes, node)
	}
	for i := 0; i < output; i++ {
		node := NewNode(Output)
		node.Index = len(n.Nodes)
		n.Nodes = append(n.Nodes, node)
	}

	limit := math.Sqrt(6.0 / float64(input+output))
	for i := 0; i < input; i++ {
		for o := 0; o < output; o++ {
			from := n.Nodes[i]
			to := n.Nodes[input+o]
			weight := (rng.Float64()*2 - 1) * limit
			n.connect(from, to, weight)
		}
	}
	return n
}

func (n *Network) connect(from, to *Node, weight float64) *Connection {
	c := newConnection(from, to, weight)
	n.Connections = append(n.Connections, c)
	return c
}

// reindex renumbers every node's Index to its current slice position.
// Innovation ids are never recomputed; they are fixed at connection
// creation time.
func (n *Network) reindex() {
	for i, node := range n.Nodes {
		node.Index = i
	}
}

func (n *Network) hiddenRange() (start, end int) {
	return n.InputSize, len(n.Nodes) - n.OutputSize
}

// Activate runs one full forward pass: inputs, then hidden nodes in
// list order, then outputs.
func (n *Network) Activate(input []float64, training bool) ([]float64, error) {
	if len(n.Nodes) == 0 {
		return nil, ErrCorruptedStructure
	}
	if len(input) != n.InputSize {
		return nil, ErrInvalidInputSize
	}

	if training {
		n.applyDropoutMasks()
		n.applyDropConnectMasks()
	} else {
		n.resetDropoutMasks()
		n.resetDropConnectMasks()
	}

	for i := 0; i < n.InputSize; i++ {
		n.Nodes[i].Activate(input[i])
	}

	start, end := n.hiddenRange()
	for i := start; i < end; i++ {
		n.Nodes[i].Activate(0)
	}

	out := make([]float64, n.OutputSize)
	for i := 0; i < n.OutputSize; i++ {
		node := n.Nodes[len(n.Nodes)-n.OutputSize+i]
		out[i] = node.Activate(0)
	}
	return out, nil
}

// NoTraceActivate is Activate without eligibility/extended-trace
// bookkeeping, used for NEAT fitness evaluation and plain inference.
func (n *Network) NoTraceActivate(input []float64) ([]float64, error) {
	if len(n.Nodes) == 0 {
		return nil, ErrCorruptedStructure
	}
	if len(input) != n.InputSize {
		return nil, ErrInvalidInputSize
	}

	for i := 0; i < n.InputSize; i++ {
		n.Nodes[i].NoTraceActivate(input[i])
	}
	start, end := n.hiddenRange()
	for i := start; i < end; i++ {
		n.Nodes[i].NoTraceActivate(0)
	}

	out := make([]float64, n.OutputSize)
	for i := 0; i < n.OutputSize; i++ {
		node := n.Nodes[len(n.Nodes)-n.OutputSize+i]
		out[i] = node.NoTraceActivate(0)
	}
	return out, nil
}

func (n *Network) applyDropoutMasks() {
	if n.Dropout <= 0 {
		return
	}
	start, end := n.hiddenRange()
	if end <= start {
		return
	}
	survivedAny := false
	for i := start; i < end; i++ {
		if n.Rand.Float64() < n.Dropout {
			n.Nodes[i].Mask = 0
		} else {
			n.Nodes[i].Mask = 1
			survivedAny = true
		}
	}
	if !survivedAny {
		n.Nodes[start+n.Rand.Intn(end-start)].Mask = 1
	}
}

func (n *Network) resetDropoutMasks() {
	start, end := n.hiddenRange()
	for i := start; i < end; i++ {
		n.Nodes[i].Mask = 1
	}
}

func (n *Network) applyDropConnectMasks() {
	if n.DropConnect <= 0 {
		return
	}
	for _, c := range n.Connections {
		if n.Rand.Float64() < n.DropConnect {
			c.DCMask = 0
		} else {
			c.DCMask = 1
		}
	}
	for _, node := range n.Nodes {
		if node.SelfConnection != nil {
			if n.Rand.Float64() < n.DropConnect {
				node.SelfConnection.DCMask = 0
			} else {
				node.SelfConnection.DCMask = 1
			}
		}
	}
}

func (n *Network) resetDropConnectMasks() {
	for _, c := range n.Connections {
		c.DCMask = 1
	}
	for _, node := range n.Nodes {
		if node.SelfConnection != nil {
			node.SelfConnection.DCMask = 1
		}
	}
}

// resetHiddenMasksToOne is used at the end of a training iteration: when
// dropout > 0, every hidden mask is reset to 1 so inference after training
// sees the full network.
func (n *Network) resetHiddenMasksToOne() {
	n.resetDropoutMasks()
}

// Propagate runs one full backward pass: outputs in reverse, then hidden
// nodes in reverse list order, then inputs (for which propagate returns
// at once: they accumulate no error and no bias gradient); on update it
// applies the optimizer step network-wide.
func (n *Network) Propagate(p propagateParams, target []float64) error {
	if len(target) != n.OutputSize {
		return ErrInvalidTargetSize
	}

	for i := n.OutputSize - 1; i >= 0; i-- {
		node := n.Nodes[len(n.Nodes)-n.OutputSize+i]
		t := target[i]
		np := p
		np.target = &t
		node.propagate(np)
	}

	start, end := n.hiddenRange()
	for i := end - 1; i >= start; i-- {
		np := p
		np.target = nil
		n.Nodes[i].propagate(np)
	}

	for i := 0; i < n.InputSize; i++ {
		np := p
		np.target = nil
		n.Nodes[i].propagate(np)
	}

	return nil
}

// Connect adds a connection between two existing nodes.
func (n *Network) Connect(from, to *Node, weight float64) *Connection {
	return n.connect(from, to, weight)
}

// Disconnect removes a connection between from and to, if present.
func (n *Network) Disconnect(from, to *Node) {
	for i, c := range n.Connections {
		if c.From == from && c.To == to {
			if c.Gater != nil {
				c.ungate()
				n.removeGate(c)
			}
			n.removeFromNodeLists(c)
			n.Connections = append(n.Connections[:i], n.Connections[i+1:]...)
			return
		}
	}
}

func (n *Network) removeFromNodeLists(c *Connection) {
	for i, oc := range c.From.ConnectionsOut {
		if oc == c {
			c.From.ConnectionsOut = append(c.From.ConnectionsOut[:i], c.From.ConnectionsOut[i+1:]...)
			break
		}
	}
	for i, ic := range c.To.ConnectionsIn {
		if ic == c {
			c.To.ConnectionsIn = append(c.To.ConnectionsIn[:i], c.To.ConnectionsIn[i+1:]...)
			break
		}
	}
}

func (n *Network) removeGate(c *Connection) {
	for i, gc := range n.Gates {
		if gc == c {
			n.Gates = append(n.Gates[:i], n.Gates[i+1:]...)
			return
		}
	}
}

// Gate makes node the gater of conn, if conn isn't already gated.
func (n *Network) Gate(node *Node, conn *Connection) {
	if conn.Gater != nil {
		return
	}
	conn.gate(node)
	n.Gates = append(n.Gates, conn)
}

// Ungate removes conn's gater. Fails ErrConnectionNotGated if conn isn't
// in the gates list.
func (n *Network) Ungate(conn *Connection) error {
	found := false
	for _, gc := range n.Gates {
		if gc == conn {
			found = true
			break
		}
	}
	if !found {
		return ErrConnectionNotGated
	}
	conn.ungate()
	n.removeGate(conn)
	return nil
}

// Clone deep-copies the network, including every node, connection,
// self-connection and gate, but not eligibility/extended-trace state or
// score (fresh networks start clean).
func (n *Network) Clone() *Network {
	clone := &Network{
		InputSize:      n.InputSize,
		OutputSize:     n.OutputSize,
		Dropout:        n.Dropout,
		DropConnect:    n.DropConnect,
		EnforceAcyclic: n.EnforceAcyclic,
		Rand:           n.Rand,
	}

	nodeMap := make(map[*Node]*Node, len(n.Nodes))
	for _, node := range n.Nodes {
		nn := &Node{
			Kind:   node.Kind,
			Bias:   node.Bias,
			Squash: node.Squash,
			Mask:   node.Mask,
			Index:  node.Index,
		}
		nodeMap[node] = nn
		clone.Nodes = append(clone.Nodes, nn)
	}

	for _, node := range n.Nodes {
		if node.SelfConnection != nil {
			nn := nodeMap[node]
			sc := &Connection{
				From:    nn,
				To:      nn,
				Weight:  node.SelfConnection.Weight,
				Gain:    1,
				Enabled: node.SelfConnection.Enabled,
				DCMask:  1,
			}
			nn.SelfConnection = sc
		}
	}

	for _, c := range n.Connections {
		nc := newConnection(nodeMap[c.From], nodeMap[c.To], c.Weight)
		nc.Enabled = c.Enabled
		nc.Innovation = c.Innovation
		clone.Connections = append(clone.Connections, nc)
	}

	for _, g := range n.Gates {
		var nc *Connection
		if g.From == g.To {
			nc = nodeMap[g.From].SelfConnection
		} else {
			for _, c := range clone.Connections {
				if c.From == nodeMap[g.From] && c.To == nodeMap[g.To] {
					nc = c
					break
				}
			}
		}
		if nc != nil {
			clone.Gate(nodeMap[g.Gater], nc)
		}
	}

	return clone
}

// ClearState resets every node's activation/state/traces network-wide
// (the `clear` training/evolve option).
func (n *Network) ClearState() {
	for _, node := range n.Nodes {
		node.clearState()
	}
}
