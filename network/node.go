package network

import (
	"github.com/synapticgo/neat/activation"
	"github.com/synapticgo/neat/optimizer"
)

// Kind is a node's role within the network.
type Kind int

const (
	Input Kind = iota
	Hidden
	Output
	Constant
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Constant:
		return "constant"
	default:
		return "hidden"
	}
}

func parseKind(s string) Kind {
	switch s {
	case "input":
		return Input
	case "output":
		return Output
	case "constant":
		return Constant
	default:
		return Hidden
	}
}

// Node is a single neuron: it carries activation state, a bias, a squash
// function reference and the connection lists that let it compute its own
// forward and backward contributions.
type Node struct {
	Kind   Kind
	Bias   float64
	Squash string // name into the activation registry; resolved lazily

	Activation float64
	State      float64
	Old        float64
	Derivative float64
	Mask       float64 // dropout mask, multiplicative

	Index int // topological position, maintained by the owning Network

	ConnectionsIn    []*Connection
	ConnectionsOut   []*Connection
	ConnectionsGated []*Connection
	SelfConnection   *Connection

	PreviousDeltaBias float64
	TotalDeltaBias    float64
	BiasOpt           optimizer.State

	lastResponsibility float64
}

// NewNode creates a node of the given kind with default bias/mask/squash.
func NewNode(kind Kind) *Node {
	squash := "logistic"
	if kind == Input || kind == Constant {
		squash = "identity"
	}
	return &Node{
		Kind:   kind,
		Squash: squash,
		Mask:   1,
	}
}

func (n *Node) squashFunc() activation.Func {
	fn, _ := activation.Get(n.Squash)
	return fn
}

func (n *Node) selfGainWeight() (gain, weight float64) {
	if n.SelfConnection == nil {
		return 1, 0
	}
	return n.SelfConnection.Gain, n.SelfConnection.Weight
}

// Activate computes this node's forward output for one timestep: the
// state equation with self-recurrence, the squash/derivative pair, the
// gain update for every connection this node gates, and the eligibility
// and extended-trace bookkeeping needed for later gradient propagation.
func (n *Node) Activate(inputValue float64) float64 {
	if n.Kind == Input || n.Kind == Constant {
		n.Activation = inputValue * n.Mask
		return n.Activation
	}

	n.Old = n.State
	selfGain, selfWeight := n.selfGainWeight()

	state := selfGain*selfWeight*n.Old + n.Bias
	for _, c := range n.ConnectionsIn {
		if !c.Enabled {
			continue
		}
		state += c.From.Activation * c.Weight * c.Gain * c.dcGate()
	}
	n.State = state

	fn := n.squashFunc()
	n.Activation = fn.Value(state) * n.Mask
	n.Derivative = fn.Deriv(state)

	// Gate every connection this node gates: its activation becomes the
	// connection's gain for the next forward pass, and we collect, per
	// downstream target, how much that target's state depends on this
	// node's activation (spec: "gain: ... the gater node's activation
	// becomes the gain").
	var gatedTargets []*Node
	var influences []float64
	for _, gc := range n.ConnectionsGated {
		target := gc.To
		idx := -1
		for i, t := range gatedTargets {
			if t == target {
				idx = i
				break
			}
		}
		contribution := gc.Weight * gc.From.Activation
		if target.SelfConnection != nil && target.SelfConnection.Gater == n {
			contribution += target.Old
		}
		if idx >= 0 {
			influences[idx] += contribution
		} else {
			gatedTargets = append(gatedTargets, target)
			influences = append(influences, contribution)
		}
		gc.Gain = n.Activation
	}

	all := make([]*Connection, 0, len(n.ConnectionsIn)+1)
	all = append(all, n.ConnectionsIn...)
	if n.SelfConnection != nil {
		all = append(all, n.SelfConnection)
	}
	for _, c := range all {
		if !c.Enabled {
			continue
		}
		c.Eligibility = selfGain*selfWeight*c.Eligibility + c.From.Activation*c.Gain*c.dcGate()

		for j, target := range gatedTargets {
			influence := influences[j]
			idx := c.xtraceIndex(target)
			if idx >= 0 {
				c.XTraceValues[idx] = selfGain*selfWeight*c.XTraceValues[idx] + n.Derivative*c.Eligibility*influence
			} else {
				c.XTraceNodes = append(c.XTraceNodes, target)
				c.XTraceValues = append(c.XTraceValues, n.Derivative*c.Eligibility*influence)
			}
		}
	}

	return n.Activation
}

// NoTraceActivate performs only the forward computation, skipping
// eligibility/extended-trace bookkeeping. Used for inference and
// NEAT fitness evaluation. Like Activate, it sets the gain of every
// connection this node gates to its new activation.
func (n *Node) NoTraceActivate(inputValue float64) float64 {
	if n.Kind == Input || n.Kind == Constant {
		n.Activation = inputValue * n.Mask
		return n.Activation
	}

	selfGain, selfWeight := n.selfGainWeight()
	state := selfGain*selfWeight*n.State + n.Bias
	for _, c := range n.ConnectionsIn {
		if !c.Enabled {
			continue
		}
		state += c.From.Activation * c.Weight * c.Gain
	}

	fn := n.squashFunc()
	n.State = state
	n.Activation = fn.Value(state) * n.Mask

	for _, gc := range n.ConnectionsGated {
		gc.Gain = n.Activation
	}

	return n.Activation
}

// responsibility computes this node's error responsibility for the
// backward pass: the projected error from either an explicit target or
// downstream connections, plus the gated error this node contributes as a
// gater of other connections.
func (n *Node) responsibility(target *float64) float64 {
	if target != nil {
		return (*target - n.Activation) * n.Derivative
	}

	projected := 0.0
	for _, c := range n.ConnectionsOut {
		if !c.Enabled {
			continue
		}
		projected += c.To.lastResponsibility * c.Weight * c.Gain
	}

	gated := 0.0
	for _, gc := range n.ConnectionsGated {
		target := gc.To
		influence := gc.Weight * gc.From.Activation
		if target.SelfConnection != nil && target.SelfConnection.Gater == n {
			influence += target.Old
		}
		gated += target.lastResponsibility * influence
	}

	return n.Derivative * (projected + gated)
}

func (c *Connection) xtraceIndex(node *Node) int {
	for i, g := range c.XTraceNodes {
		if g == node {
			return i
		}
	}
	return -1
}

type propagateParams struct {
	opt       optimizer.Config
	update    bool
	target    *float64
	lossScale float64
}

// propagate runs this node's backward pass: compute error responsibility,
// accumulate gradients into every incoming connection's total delta
// (scaled by lossScale for mixed precision), and — when update fires —
// hand off to applyUpdate for the optimizer step.
func (n *Node) propagate(p propagateParams) {
	if n.Kind == Input || n.Kind == Constant {
		return
	}

	resp := n.responsibility(p.target)
	n.lastResponsibility = resp

	for _, c := range n.ConnectionsIn {
		if !c.Enabled {
			continue
		}
		gated := 0.0
		for i, g := range c.XTraceNodes {
			gated += g.lastResponsibility * c.XTraceValues[i]
		}
		rawGradient := resp*c.Eligibility + gated
		c.TotalDeltaWeight += -rawGradient * p.lossScale
	}
	if n.SelfConnection != nil {
		c := n.SelfConnection
		rawGradient := resp * c.Eligibility
		c.TotalDeltaWeight += -rawGradient * p.lossScale
	}
	n.TotalDeltaBias += -resp * p.lossScale

	if p.update {
		n.applyUpdate(p)
	}
}

func (n *Node) applyUpdate(p propagateParams) {
	if n.TotalDeltaBias != 0 {
		biasGrad := n.TotalDeltaBias / p.lossScale
		newBias, delta := optimizer.Step(p.opt, &n.BiasOpt, n.Bias, biasGrad)
		n.Bias = newBias
		n.PreviousDeltaBias = delta
	}
	n.TotalDeltaBias = 0

	for _, c := range n.ConnectionsIn {
		c.applyUpdate(p)
	}
	if n.SelfConnection != nil {
		n.SelfConnection.applyUpdate(p)
	}
}

func (c *Connection) applyUpdate(p propagateParams) {
	if c.TotalDeltaWeight == 0 {
		return
	}
	grad := c.TotalDeltaWeight / p.lossScale
	newWeight, delta := optimizer.Step(p.opt, &c.WeightOpt, c.Weight, grad)
	c.Weight = newWeight
	c.PreviousDeltaWeight = delta
	c.TotalDeltaWeight = 0
}

// clearState resets activation, state and traces to zero, preserving
// weights/bias; used by the training loop's `clear` option and by NEAT
// evaluation when the engine is configured to clear recurrent state.
func (n *Node) clearState() {
	n.Activation = 0
	n.State = 0
	n.Old = 0
	n.lastResponsibility = 0
	for _, c := range n.ConnectionsIn {
		c.Eligibility = 0
		c.XTraceNodes = nil
		c.XTraceValues = nil
	}
	if n.SelfConnection != nil {
		n.SelfConnection.Eligibility = 0
		n.SelfConnection.XTraceNodes = nil
		n.SelfConnection.XTraceValues = nil
	}
}
