package network

import "github.com/synapticgo/neat/optimizer"

// Connection is a weighted, optionally gated and optionally recurrent edge
// between two nodes. Self-connections reuse the same struct
// and are addressed through Node.SelfConnection rather than the network's
// general connection list.
type Connection struct {
	From, To *Node
	Weight   float64
	Gain     float64 // 1 unless Gater != nil, in which case Gater's last activation
	Gater    *Node
	Enabled  bool

	Eligibility float64
	XTraceNodes []*Node
	XTraceValues []float64

	PreviousDeltaWeight float64
	TotalDeltaWeight    float64
	WeightOpt           optimizer.State

	DCMask float64 // DropConnect mask, 1 unless dropped for the current step

	Innovation int
}

// newConnection wires from->to with the given weight, registering it on
// both endpoints' connection lists and computing its innovation id from
// the endpoints' topological indices: the Cantor pairing
// function over (from.Index, to.Index), fixed at creation time so later
// re-indexing during mutation never changes a connection's identity.
func newConnection(from, to *Node, weight float64) *Connection {
	c := &Connection{
		From:    from,
		To:      to,
		Weight:  weight,
		Gain:    1,
		Enabled: true,
		DCMask:  1,
	}
	c.Innovation = innovationID(from.Index, to.Index)
	from.ConnectionsOut = append(from.ConnectionsOut, c)
	to.ConnectionsIn = append(to.ConnectionsIn, c)
	return c
}

func innovationID(fromIdx, toIdx int) int {
	a, b := fromIdx, toIdx
	return ((a+b)*(a+b+1))/2 + b
}

// dcGate returns the DropConnect multiplier in effect for this connection
// during the current forward pass (spec's DropConnect open question:
// applied at the forward sum and folded into the eligibility update so a
// dropped connection contributes no gradient either).
func (c *Connection) dcGate() float64 {
	return c.DCMask
}

// gate attaches gater as this connection's gater, registering it on the
// gater's gated-connection list. A connection can have at most one gater;
// Ungate removes it.
func (c *Connection) gate(gater *Node) {
	c.Gater = gater
	c.Gain = 1
	gater.ConnectionsGated = append(gater.ConnectionsGated, c)
}

func (c *Connection) ungate() {
	if c.Gater == nil {
		return
	}
	gated := c.Gater.ConnectionsGated
	for i, gc := range gated {
		if gc == c {
			c.Gater.ConnectionsGated = append(gated[:i], gated[i+1:]...)
			break
		}
	}
	c.Gater = nil
	c.Gain = 1
}
