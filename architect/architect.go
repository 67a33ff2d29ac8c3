// Package architect provides factory functions for canonical network
// topologies — layered perceptrons and the gated recurrent memory cells
// (LSTM, GRU, NARX, Hopfield) — built as thin compositions over the
// network package's node/connection primitives, in the same spirit as
// Genome.ConfigureNew/setupInitialConnections wiring a genome's initial
// connectivity from a scheme name.
package architect

import (
	"math"
	"math/rand"

	"github.com/synapticgo/neat/network"
)

// Perceptron builds a fully feed-forward layered network: every node in
// layer i connects to every node in layer i+1. layerSizes must include
// the input and output layer sizes, e.g. Perceptron(2, 4, 1).
func Perceptron(layerSizes ...int) *network.Network {
	return perceptron(layerSizes, rand.New(rand.NewSource(1)))
}

func perceptron(layerSizes []int, rng *rand.Rand) *network.Network {
	if len(layerSizes) < 2 {
		panic("architect: Perceptron requires at least input and output layer sizes")
	}
	n := network.NewNetworkSeeded(layerSizes[0], layerSizes[len(layerSizes)-1], 1)

	// NewNetworkSeeded already fully connects input->output for a 2-layer
	// network; for 3+ layers we rebuild from scratch with hidden layers
	// inserted between, since the direct constructor has no notion of
	// intermediate layers.
	if len(layerSizes) == 2 {
		return n
	}

	n.Nodes = nil
	n.Connections = nil

	layers := make([][]*network.Node, len(layerSizes))
	for li, size := range layerSizes {
		kind := network.Hidden
		if li == 0 {
			kind = network.Input
		} else if li == len(layerSizes)-1 {
			kind = network.Output
		}
		for i := 0; i < size; i++ {
			node := network.NewNode(kind)
			node.Index = len(n.Nodes)
			n.Nodes = append(n.Nodes, node)
			layers[li] = append(layers[li], node)
		}
	}

	for li := 0; li < len(layers)-1; li++ {
		fanIn := len(layers[li])
		limit := math.Sqrt(6.0 / float64(fanIn+len(layers[li+1])))
		for _, from := range layers[li] {
			for _, to := range layers[li+1] {
				weight := (rng.Float64()*2 - 1) * limit
				n.Connect(from, to, weight)
			}
		}
	}
	return n
}

// LSTM builds a layered network where each hidden layer is a memory block
// with input/forget/output gates, following the standard LSTM cell
// wiring: input and previous output feed each gate, the gates gate the
// memory cell's self-connection and its output projection.
func LSTM(input int, memoryBlocks []int, output int) *network.Network {
	rng := rand.New(rand.NewSource(1))
	n := &network.Network{InputSize: input, OutputSize: output, Rand: rng}

	inputLayer := newLayer(n, network.Input, input)
	prev := inputLayer

	for _, blockSize := range memoryBlocks {
		inputGate := newLayer(n, network.Hidden, blockSize)
		forgetGate := newLayer(n, network.Hidden, blockSize)
		outputGate := newLayer(n, network.Hidden, blockSize)
		cell := newLayer(n, network.Hidden, blockSize)

		fullConnect(n, prev, inputGate, rng)
		fullConnect(n, prev, forgetGate, rng)
		fullConnect(n, prev, outputGate, rng)
		fullConnect(n, prev, cell, rng)

		for i, c := range cell {
			c.SelfConnection = &network.Connection{From: c, To: c, Weight: 1, Gain: 1, Enabled: true, DCMask: 1}
			n.Gate(forgetGate[i], c.SelfConnection)
		}

		for i := range cell {
			conns := fullConnect(n, []*network.Node{cell[i]}, []*network.Node{outputGate[i]}, rng)
			for _, c := range conns {
				n.Gate(inputGate[i], c)
			}
		}

		prev = cell
	}

	outputLayer := newLayer(n, network.Output, output)
	fullConnect(n, prev, outputLayer, rng)
	return n
}

// GRU approximates the gated-recurrent-unit cell with an update gate and
// a reset gate controlling the hidden layer's self-connection and its
// incoming projection, respectively.
func GRU(input int, hiddenSizes []int, output int) *network.Network {
	rng := rand.New(rand.NewSource(1))
	n := &network.Network{InputSize: input, OutputSize: output, Rand: rng}

	prev := newLayer(n, network.Input, input)
	for _, size := range hiddenSizes {
		updateGate := newLayer(n, network.Hidden, size)
		resetGate := newLayer(n, network.Hidden, size)
		hidden := newLayer(n, network.Hidden, size)

		fullConnect(n, prev, updateGate, rng)
		fullConnect(n, prev, resetGate, rng)
		conns := fullConnect(n, prev, hidden, rng)
		for i, c := range conns {
			n.Gate(resetGate[i%len(resetGate)], c)
		}

		for i, h := range hidden {
			h.SelfConnection = &network.Connection{From: h, To: h, Weight: 1, Gain: 1, Enabled: true, DCMask: 1}
			n.Gate(updateGate[i], h.SelfConnection)
		}

		prev = hidden
	}

	outputLayer := newLayer(n, network.Output, output)
	fullConnect(n, prev, outputLayer, rng)
	return n
}

// NARX builds a nonlinear-autoregressive-with-exogenous-input network: a
// perceptron core whose input layer has outputDelaySize extra input nodes
// after the first input ones. Each of the first min(outputDelaySize, output)
// delay inputs receives a weight-1 connection from an output node. Input
// nodes take their value from the input vector, so these connections do
// not change the forward pass: the delay slots hold whatever values the
// caller passes in them.
func NARX(input int, hiddenSizes []int, output int, outputDelaySize int) *network.Network {
	rng := rand.New(rand.NewSource(1))
	n := &network.Network{InputSize: input + outputDelaySize, OutputSize: output, Rand: rng}

	prev := newLayer(n, network.Input, input+outputDelaySize)
	for _, size := range hiddenSizes {
		hidden := newLayer(n, network.Hidden, size)
		fullConnect(n, prev, hidden, rng)
		prev = hidden
	}
	outputLayer := newLayer(n, network.Output, output)
	fullConnect(n, prev, outputLayer, rng)

	delayInputs := n.Nodes[input : input+outputDelaySize]
	for i, delayNode := range delayInputs {
		if i < len(outputLayer) {
			n.Connect(outputLayer[i%len(outputLayer)], delayNode, 1)
		}
	}
	return n
}

// Hopfield builds a fully self-connected single layer where every node
// connects to every other node (no self-loops), the classical
// associative-memory topology.
func Hopfield(size int) *network.Network {
	rng := rand.New(rand.NewSource(1))
	n := &network.Network{InputSize: size, OutputSize: size, Rand: rng}
	layer := newLayer(n, network.Output, size)
	for i, from := range layer {
		for j, to := range layer {
			if i == j {
				continue
			}
			n.Connect(from, to, rng.Float64()*2-1)
		}
	}
	return n
}

// Random builds a network with a random subset of possible forward
// connections between input and output, useful as a NEAT seed population
// with varied starting topology.
func Random(input, output, extraHidden int, connectProb float64, seed int64) *network.Network {
	rng := rand.New(rand.NewSource(seed))
	n := &network.Network{InputSize: input, OutputSize: output, Rand: rng}

	inputLayer := newLayer(n, network.Input, input)
	var hidden []*network.Node
	if extraHidden > 0 {
		hidden = newLayer(n, network.Hidden, extraHidden)
	}
	outputLayer := newLayer(n, network.Output, output)

	all := append(append([]*network.Node{}, inputLayer...), hidden...)
	targets := append(append([]*network.Node{}, hidden...), outputLayer...)

	for _, from := range all {
		for _, to := range targets {
			if from == to || from.Index >= to.Index {
				continue
			}
			if rng.Float64() < connectProb {
				n.Connect(from, to, rng.Float64()*2-1)
			}
		}
	}
	// Guarantee every output has at least one incoming connection.
	for _, to := range outputLayer {
		if len(to.ConnectionsIn) == 0 {
			from := inputLayer[rng.Intn(len(inputLayer))]
			n.Connect(from, to, rng.Float64()*2-1)
		}
	}
	return n
}

func newLayer(n *network.Network, kind network.Kind, size int) []*network.Node {
	layer := make([]*network.Node, size)
	for i := 0; i < size; i++ {
		node := network.NewNode(kind)
		node.Index = len(n.Nodes)
		n.Nodes = append(n.Nodes, node)
		layer[i] = node
	}
	return layer
}

func fullConnect(n *network.Network, from, to []*network.Node, rng *rand.Rand) []*network.Connection {
	limit := math.Sqrt(6.0 / float64(len(from)+len(to)))
	conns := make([]*network.Connection, 0, len(from)*len(to))
	for _, f := range from {
		for _, t := range to {
			weight := (rng.Float64()*2 - 1) * limit
			conns = append(conns, n.Connect(f, t, weight))
		}
	}
	return conns
}
