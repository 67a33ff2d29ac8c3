package network

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synapticgo/neat/activation"
)

// jsonNode/jsonConnection/jsonGate/jsonSelfConn mirror the stable,
// cross-version genome JSON shape.
type jsonNode struct {
	Bias   float64 `json:"bias"`
	Type   string  `json:"type"`
	Squash string  `json:"squash"`
	Mask   float64 `json:"mask"`
	Index  int     `json:"index"`
}

type jsonConnection struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	Weight  float64 `json:"weight"`
	Gater   *int    `json:"gater"`
	Enabled bool    `json:"enabled"`
}

type jsonGate struct {
	Connection [2]int `json:"connection"`
	Gater      int    `json:"gater"`
}

type jsonSelfConn struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
	Gater  *int    `json:"gater"`
}

type jsonNetwork struct {
	Input           int              `json:"input"`
	Output          int              `json:"output"`
	Dropout         float64          `json:"dropout"`
	Nodes           []jsonNode       `json:"nodes"`
	Connections     []jsonConnection `json:"connections"`
	Gates           []jsonGate       `json:"gates"`
	SelfConnections []jsonSelfConn   `json:"self_connections"`
}

// ToJSON produces the stable genome representation defined by jsonNetwork.
func (n *Network) ToJSON() ([]byte, error) {
	doc := jsonNetwork{
		Input:   n.InputSize,
		Output:  n.OutputSize,
		Dropout: n.Dropout,
	}
	for _, node := range n.Nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{
			Bias: node.Bias, Type: node.Kind.String(), Squash: node.Squash,
			Mask: node.Mask, Index: node.Index,
		})
		if node.SelfConnection != nil {
			sc := jsonSelfConn{From: node.Index, To: node.Index, Weight: node.SelfConnection.Weight}
			if node.SelfConnection.Gater != nil {
				g := node.SelfConnection.Gater.Index
				sc.Gater = &g
			}
			doc.SelfConnections = append(doc.SelfConnections, sc)
		}
	}
	for _, c := range n.Connections {
		jc := jsonConnection{From: c.From.Index, To: c.To.Index, Weight: c.Weight, Enabled: c.Enabled}
		if c.Gater != nil {
			g := c.Gater.Index
			jc.Gater = &g
		}
		doc.Connections = append(doc.Connections, jc)
	}
	for _, g := range n.Gates {
		doc.Gates = append(doc.Gates, jsonGate{Connection: [2]int{g.From.Index, g.To.Index}, Gater: g.Gater.Index})
	}
	return json.Marshal(doc)
}

// FromJSON reconstructs a Network from the jsonNetwork shape above. It fails
// ErrMalformedGenome only when nodes or connections is absent; unknown
// squash names fall back to identity, and out-of-range connection/gater
// indices are skipped — both per-element defects are elided rather than
// failing the whole load.
func FromJSON(data []byte) (*Network, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("network: from_json: %w", err)
	}
	if _, ok := raw["nodes"]; !ok {
		return nil, ErrMalformedGenome
	}
	if _, ok := raw["connections"]; !ok {
		return nil, ErrMalformedGenome
	}

	var doc jsonNetwork
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("network: from_json: %w", err)
	}

	n := &Network{InputSize: doc.Input, OutputSize: doc.Output, Dropout: doc.Dropout, Rand: newRand(1)}
	for _, jn := range doc.Nodes {
		node := &Node{
			Kind:  parseKind(jn.Type),
			Bias:  jn.Bias,
			Mask:  jn.Mask,
			Index: jn.Index,
		}
		if _, ok := activation.Get(jn.Squash); ok {
			node.Squash = jn.Squash
		} else {
			node.Squash = "identity"
		}
		n.Nodes = append(n.Nodes, node)
	}

	valid := func(idx int) bool { return idx >= 0 && idx < len(n.Nodes) }

	for _, sc := range doc.SelfConnections {
		if !valid(sc.From) {
			continue
		}
		node := n.Nodes[sc.From]
		conn := &Connection{From: node, To: node, Weight: sc.Weight, Gain: 1, Enabled: true, DCMask: 1}
		node.SelfConnection = conn
	}

	for _, jc := range doc.Connections {
		if !valid(jc.From) || !valid(jc.To) {
			continue
		}
		c := newConnection(n.Nodes[jc.From], n.Nodes[jc.To], jc.Weight)
		c.Enabled = jc.Enabled
		n.Connections = append(n.Connections, c)
	}

	for _, jg := range doc.Gates {
		if !valid(jg.Gater) {
			continue
		}
		gater := n.Nodes[jg.Gater]
		var target *Connection
		if jg.Connection[0] == jg.Connection[1] && valid(jg.Connection[0]) {
			target = n.Nodes[jg.Connection[0]].SelfConnection
		} else {
			for _, c := range n.Connections {
				if c.From.Index == jg.Connection[0] && c.To.Index == jg.Connection[1] {
					target = c
					break
				}
			}
		}
		if target != nil && target.Gater == nil {
			target.gate(gater)
			n.Gates = append(n.Gates, target)
		}
	}

	return n, nil
}

// Serialize exchanges the genome as a tuple of flat arrays: activations,
// states, squash names, and connection quadruples [from, to, weight,
// gater-or-minus-one]. Exact layout beyond round-trip fidelity is not a
// public contract.
type SerializedNetwork struct {
	Input, Output int
	Activations   []float64
	States        []float64
	Biases        []float64
	Squashes      []string
	Masks         []float64
	Connections   [][4]float64 // from, to, weight, gater-index-or--1
}

func (n *Network) Serialize() SerializedNetwork {
	s := SerializedNetwork{Input: n.InputSize, Output: n.OutputSize}
	for _, node := range n.Nodes {
		s.Activations = append(s.Activations, node.Activation)
		s.States = append(s.States, node.State)
		s.Biases = append(s.Biases, node.Bias)
		s.Squashes = append(s.Squashes, node.Squash)
		s.Masks = append(s.Masks, node.Mask)
	}
	for _, c := range n.Connections {
		gater := -1.0
		if c.Gater != nil {
			gater = float64(c.Gater.Index)
		}
		s.Connections = append(s.Connections, [4]float64{float64(c.From.Index), float64(c.To.Index), c.Weight, gater})
	}
	return s
}

func Deserialize(s SerializedNetwork) *Network {
	n := &Network{InputSize: s.Input, OutputSize: s.Output}
	for i := range s.Activations {
		kind := Hidden
		if i < s.Input {
			kind = Input
		} else if i >= len(s.Activations)-s.Output {
			kind = Output
		}
		node := &Node{
			Kind: kind, Bias: s.Biases[i], Squash: s.Squashes[i],
			Mask: s.Masks[i], Index: i,
			Activation: s.Activations[i], State: s.States[i],
		}
		n.Nodes = append(n.Nodes, node)
	}
	for _, q := range s.Connections {
		from, to := int(q[0]), int(q[1])
		if from < 0 || from >= len(n.Nodes) || to < 0 || to >= len(n.Nodes) {
			continue
		}
		c := newConnection(n.Nodes[from], n.Nodes[to], q[2])
		if q[3] >= 0 {
			gIdx := int(q[3])
			if gIdx >= 0 && gIdx < len(n.Nodes) {
				c.gate(n.Nodes[gIdx])
				n.Gates = append(n.Gates, c)
			}
		}
		n.Connections = append(n.Connections, c)
	}
	return n
}

// Standalone emits Go source text for a closure-free activate(input)
// function, usable without importing this package beyond the activation
// registry. Gate gains are baked in at their current value rather than
// recomputed from a gater's activation, so a network with active gates
// freezes their gain at export time. Fails ErrNoOutputNodes on a network
// with no output nodes.
func (n *Network) Standalone() (string, error) {
	if n.OutputSize == 0 || len(n.Nodes) == 0 {
		return "", ErrNoOutputNodes
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Generated standalone activation closure (%d inputs, %d outputs).\n", n.InputSize, n.OutputSize)
	b.WriteString("func Activate(input []float64) []float64 {\n")
	fmt.Fprintf(&b, "\tstate := make([]float64, %d)\n", len(n.Nodes))
	fmt.Fprintf(&b, "\tactivation := make([]float64, %d)\n", len(n.Nodes))
	for i := 0; i < n.InputSize; i++ {
		fmt.Fprintf(&b, "\tactivation[%d] = input[%d]\n", i, i)
	}

	start, end := n.hiddenRange()
	writeNode := func(idx int) {
		node := n.Nodes[idx]
		fn, _ := activation.Get(node.Squash)
		_ = fn
		fmt.Fprintf(&b, "\tstate[%d] = %g\n", idx, node.Bias)
		if node.SelfConnection != nil && node.SelfConnection.Enabled {
			fmt.Fprintf(&b, "\tstate[%d] += %g * %g * activation[%d]\n", idx, node.SelfConnection.Weight, node.SelfConnection.Gain, idx)
		}
		for _, c := range node.ConnectionsIn {
			if !c.Enabled {
				continue
			}
			fmt.Fprintf(&b, "\tstate[%d] += %g * %g * activation[%d]\n", idx, c.Weight, c.Gain, c.From.Index)
		}
		fmt.Fprintf(&b, "\tactivation[%d] = squash_%s(state[%d])\n", idx, node.Squash, idx)
	}
	for i := start; i < end; i++ {
		writeNode(i)
	}
	for i := len(n.Nodes) - n.OutputSize; i < len(n.Nodes); i++ {
		writeNode(i)
	}

	fmt.Fprintf(&b, "\tout := make([]float64, %d)\n", n.OutputSize)
	for i := 0; i < n.OutputSize; i++ {
		fmt.Fprintf(&b, "\tout[%d] = activation[%d]\n", i, len(n.Nodes)-n.OutputSize+i)
	}
	b.WriteString("\treturn out\n}\n")
	return b.String(), nil
}
