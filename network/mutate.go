package network

import "github.com/synapticgo/neat/activation"

// Method names one entry in the mutation catalogue.
type Method string

const (
	AddNode     Method = "ADD_NODE"
	SubNode     Method = "SUB_NODE"
	AddConn     Method = "ADD_CONN"
	SubConn     Method = "SUB_CONN"
	ModWeight   Method = "MOD_WEIGHT"
	ModBias     Method = "MOD_BIAS"
	ModActivation Method = "MOD_ACTIVATION"
	AddSelfConn Method = "ADD_SELF_CONN"
	SubSelfConn Method = "SUB_SELF_CONN"
	AddGate     Method = "ADD_GATE"
	SubGate     Method = "SUB_GATE"
	AddBackConn Method = "ADD_BACK_CONN"
	SubBackConn Method = "SUB_BACK_CONN"
	SwapNodes   Method = "SWAP_NODES"
)

// FFW is the feed-forward-safe mutation group (excludes back-connections).
var FFW = []Method{AddNode, SubNode, AddConn, SubConn, ModWeight, ModBias,
	ModActivation, AddSelfConn, SubSelfConn, AddGate, SubGate, SwapNodes}

// All is every mutation operator.
var All = append(append([]Method{}, FFW...), AddBackConn, SubBackConn)

// Caps bounds the network's growth; zero means unbounded (spec default ∞).
type Caps struct {
	MaxNodes, MaxConns, MaxGates int
}

func (c Caps) nodesOK(count int) bool { return c.MaxNodes == 0 || count < c.MaxNodes }
func (c Caps) connsOK(count int) bool { return c.MaxConns == 0 || count < c.MaxConns }
func (c Caps) gatesOK(count int) bool { return c.MaxGates == 0 || count < c.MaxGates }

// Mutate applies one mutation method in place. A failed precondition is a
// silent no-op rather than an error: callers that sweep a population don't
// need per-genome error handling for methods that simply don't apply yet.
func (n *Network) Mutate(method Method, caps Caps) {
	switch method {
	case AddNode:
		n.mutateAddNode(caps)
	case SubNode:
		n.mutateSubNode()
	case AddConn:
		n.mutateAddConn(caps)
	case SubConn:
		n.mutateSubConn()
	case ModWeight:
		n.mutateModWeight()
	case ModBias:
		n.mutateModBias()
	case ModActivation:
		n.mutateModActivation()
	case AddSelfConn:
		n.mutateAddSelfConn()
	case SubSelfConn:
		n.mutateSubSelfConn()
	case AddGate:
		n.mutateAddGate(caps)
	case SubGate:
		n.mutateSubGate()
	case AddBackConn:
		n.mutateAddBackConn(caps)
	case SubBackConn:
		n.mutateSubBackConn()
	case SwapNodes:
		n.mutateSwapNodes()
	}
}

func (n *Network) enabledConnections() []*Connection {
	var out []*Connection
	for _, c := range n.Connections {
		if c.Enabled && c.From != c.To {
			out = append(out, c)
		}
	}
	return out
}

func (n *Network) mutateAddNode(caps Caps) {
	candidates := n.enabledConnections()
	if len(candidates) == 0 || !caps.nodesOK(len(n.Nodes)) {
		return
	}
	c := candidates[n.Rand.Intn(len(candidates))]
	c.Enabled = false

	hidden := NewNode(Hidden)
	insertAt := c.To.Index
	if c.From.Index+1 > insertAt {
		insertAt = c.From.Index + 1
	}
	n.Nodes = append(n.Nodes, nil)
	copy(n.Nodes[insertAt+1:], n.Nodes[insertAt:])
	n.Nodes[insertAt] = hidden
	n.reindex()

	n.connect(c.From, hidden, 1)
	n.connect(hidden, c.To, c.Weight)
}

func (n *Network) mutateSubNode() {
	start, end := n.hiddenRange()
	if end <= start {
		return
	}
	idx := start + n.Rand.Intn(end-start)
	victim := n.Nodes[idx]

	var preds, succs []*Node
	for _, c := range victim.ConnectionsIn {
		preds = append(preds, c.From)
	}
	for _, c := range victim.ConnectionsOut {
		succs = append(succs, c.To)
	}

	for _, c := range append(append([]*Connection{}, victim.ConnectionsIn...), victim.ConnectionsOut...) {
		n.removeFromNodeLists(c)
		for i, oc := range n.Connections {
			if oc == c {
				n.Connections = append(n.Connections[:i], n.Connections[i+1:]...)
				break
			}
		}
	}

	for _, p := range preds {
		for _, s := range succs {
			if p == s || n.connected(p, s) {
				continue
			}
			n.connect(p, s, (n.Rand.Float64()*2-1)*0.5)
		}
	}

	n.Nodes = append(n.Nodes[:idx], n.Nodes[idx+1:]...)
	n.reindex()
}

func (n *Network) connected(from, to *Node) bool {
	for _, c := range to.ConnectionsIn {
		if c.From == from {
			return true
		}
	}
	return false
}

func (n *Network) mutateAddConn(caps Caps) {
	if !caps.connsOK(len(n.Connections)) {
		return
	}
	type pair struct{ from, to *Node }
	var candidates []pair
	for _, from := range n.Nodes {
		for _, to := range n.Nodes {
			if from == to || to.Kind == Input {
				continue
			}
			if n.EnforceAcyclic && from.Index >= to.Index {
				continue
			}
			if n.connected(from, to) {
				continue
			}
			candidates = append(candidates, pair{from, to})
		}
	}
	if len(candidates) == 0 {
		return
	}
	p := candidates[n.Rand.Intn(len(candidates))]
	n.connect(p.from, p.to, n.Rand.Float64()*2-1)
}

func (n *Network) mutateSubConn() {
	var removable []*Connection
	for _, c := range n.Connections {
		if n.safeToRemove(c) {
			removable = append(removable, c)
		}
	}
	if len(removable) == 0 {
		return
	}
	c := removable[n.Rand.Intn(len(removable))]
	n.Disconnect(c.From, c.To)
}

func (n *Network) safeToRemove(c *Connection) bool {
	if c.To.Kind == Output && len(c.To.ConnectionsIn) == 1 {
		return false
	}
	if c.From.Kind == Input && len(c.From.ConnectionsOut) == 1 {
		return false
	}
	return true
}

func (n *Network) mutateModWeight() {
	if len(n.Connections) == 0 {
		return
	}
	c := n.Connections[n.Rand.Intn(len(n.Connections))]
	c.Weight += (n.Rand.Float64()*2 - 1)
}

func (n *Network) nonInputNodes() []*Node {
	var out []*Node
	for _, node := range n.Nodes {
		if node.Kind != Input {
			out = append(out, node)
		}
	}
	return out
}

func (n *Network) mutateModBias() {
	candidates := n.nonInputNodes()
	if len(candidates) == 0 {
		return
	}
	node := candidates[n.Rand.Intn(len(candidates))]
	node.Bias += (n.Rand.Float64()*2 - 1)
}

func (n *Network) mutateModActivation() {
	names := activation.Names()
	if len(names) == 0 {
		return
	}
	candidates := n.nonInputNodes()
	if len(candidates) == 0 {
		return
	}
	node := candidates[n.Rand.Intn(len(candidates))]
	node.Squash = names[n.Rand.Intn(len(names))]
}

func (n *Network) mutateAddSelfConn() {
	var candidates []*Node
	for _, node := range n.Nodes {
		if node.Kind != Input && node.SelfConnection == nil {
			candidates = append(candidates, node)
		}
	}
	if len(candidates) == 0 {
		return
	}
	node := candidates[n.Rand.Intn(len(candidates))]
	node.SelfConnection = &Connection{
		From: node, To: node,
		Weight: n.Rand.Float64()*2 - 1,
		Gain:   1, Enabled: true, DCMask: 1,
	}
}

func (n *Network) mutateSubSelfConn() {
	var candidates []*Node
	for _, node := range n.Nodes {
		if node.SelfConnection != nil {
			candidates = append(candidates, node)
		}
	}
	if len(candidates) == 0 {
		return
	}
	node := candidates[n.Rand.Intn(len(candidates))]
	if node.SelfConnection.Gater != nil {
		node.SelfConnection.ungate()
		n.removeGate(node.SelfConnection)
	}
	node.SelfConnection = nil
}

func (n *Network) mutateAddGate(caps Caps) {
	if !caps.gatesOK(len(n.Gates)) {
		return
	}
	var ungated []*Connection
	for _, c := range n.Connections {
		if c.Gater == nil {
			ungated = append(ungated, c)
		}
	}
	for _, node := range n.Nodes {
		if node.SelfConnection != nil && node.SelfConnection.Gater == nil {
			ungated = append(ungated, node.SelfConnection)
		}
	}
	if len(ungated) == 0 {
		return
	}
	candidates := n.nonInputNodes()
	if len(candidates) == 0 {
		return
	}
	gater := candidates[n.Rand.Intn(len(candidates))]
	conn := ungated[n.Rand.Intn(len(ungated))]
	n.Gate(gater, conn)
}

func (n *Network) mutateSubGate() {
	if len(n.Gates) == 0 {
		return
	}
	c := n.Gates[n.Rand.Intn(len(n.Gates))]
	c.ungate()
	n.removeGate(c)
}

func (n *Network) mutateAddBackConn(caps Caps) {
	if n.EnforceAcyclic || !caps.connsOK(len(n.Connections)) {
		return
	}
	type pair struct{ from, to *Node }
	var candidates []pair
	for _, from := range n.Nodes {
		for _, to := range n.Nodes {
			if from == to || to.Kind == Input || from.Index <= to.Index {
				continue
			}
			if n.connected(from, to) {
				continue
			}
			candidates = append(candidates, pair{from, to})
		}
	}
	if len(candidates) == 0 {
		return
	}
	p := candidates[n.Rand.Intn(len(candidates))]
	n.connect(p.from, p.to, n.Rand.Float64()*2-1)
}

func (n *Network) mutateSubBackConn() {
	var backs []*Connection
	for _, c := range n.Connections {
		if c.From.Index > c.To.Index {
			backs = append(backs, c)
		}
	}
	if len(backs) == 0 {
		return
	}
	c := backs[n.Rand.Intn(len(backs))]
	n.Disconnect(c.From, c.To)
}

func (n *Network) mutateSwapNodes() {
	if len(n.Nodes) < 2 {
		return
	}
	i := n.Rand.Intn(len(n.Nodes))
	j := n.Rand.Intn(len(n.Nodes))
	if i == j {
		return
	}
	a, b := n.Nodes[i], n.Nodes[j]
	a.Bias, b.Bias = b.Bias, a.Bias
	a.Squash, b.Squash = b.Squash, a.Squash
}
