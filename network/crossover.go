package network

import "sort"

// Crossover builds an offspring from two parents by homologous alignment
// of their connections' innovation ids. Input/output sizes
// must match, else ErrArchMismatch. The offspring inherits no score and
// no eligibility/extended-trace state.
func Crossover(a, b *Network, equal bool, reenableProb float64, rng randSource) (*Network, error) {
	if a.InputSize != b.InputSize || a.OutputSize != b.OutputSize {
		return nil, ErrArchMismatch
	}

	fitter, other := a, b
	sameFitness := equal || a.Score == b.Score
	if !sameFitness && b.Score > a.Score {
		fitter, other = b, a
	}

	nodeCount := len(fitter.Nodes)
	if sameFitness {
		lo, hi := len(a.Nodes), len(b.Nodes)
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi > lo {
			nodeCount = lo + rng.Intn(hi-lo+1)
		} else {
			nodeCount = lo
		}
	}

	off := &Network{
		InputSize:      a.InputSize,
		OutputSize:     a.OutputSize,
		EnforceAcyclic: a.EnforceAcyclic || b.EnforceAcyclic,
		Rand:           fitter.Rand,
	}

	// Input positions from the fitter parent.
	for i := 0; i < off.InputSize; i++ {
		src := fitter.Nodes[i]
		off.Nodes = append(off.Nodes, copyNodeShallow(src, i))
	}

	// Hidden positions: sampled per-position from whichever parent has a
	// node there, 50/50 when both do.
	hiddenCount := nodeCount - off.InputSize - off.OutputSize
	if hiddenCount < 0 {
		hiddenCount = 0
	}
	aStart, aEnd := a.hiddenRange()
	bStart, bEnd := b.hiddenRange()
	for i := 0; i < hiddenCount; i++ {
		var src *Node
		aIdx, bIdx := aStart+i, bStart+i
		aHas, bHas := aIdx < aEnd, bIdx < bEnd
		switch {
		case aHas && bHas:
			if rng.Intn(2) == 0 {
				src = a.Nodes[aIdx]
			} else {
				src = b.Nodes[bIdx]
			}
		case aHas:
			src = a.Nodes[aIdx]
		case bHas:
			src = b.Nodes[bIdx]
		default:
			src = fitter.Nodes[0] // unreachable given hiddenCount bound, defensive fallback
		}
		off.Nodes = append(off.Nodes, copyNodeShallow(src, off.InputSize+i))
	}

	// Output positions from the fitter parent.
	for i := 0; i < off.OutputSize; i++ {
		src := fitter.Nodes[len(fitter.Nodes)-fitter.OutputSize+i]
		off.Nodes = append(off.Nodes, copyNodeShallow(src, off.InputSize+hiddenCount+i))
	}

	byInnovation := func(net *Network) map[int]*Connection {
		m := make(map[int]*Connection, len(net.Connections))
		for _, c := range net.Connections {
			m[c.Innovation] = c
		}
		return m
	}
	aConns, bConns := byInnovation(a), byInnovation(b)

	seen := make(map[int]bool)
	var innovations []int
	for inn := range aConns {
		if !seen[inn] {
			seen[inn] = true
			innovations = append(innovations, inn)
		}
	}
	for inn := range bConns {
		if !seen[inn] {
			seen[inn] = true
			innovations = append(innovations, inn)
		}
	}
	sort.Ints(innovations)

	for _, inn := range innovations {
		ac, aok := aConns[inn]
		bc, bok := bConns[inn]

		var chosen *Connection
		switch {
		case aok && bok:
			if rng.Intn(2) == 0 {
				chosen = ac
			} else {
				chosen = bc
			}
		case aok && fitter == a:
			chosen = ac
		case bok && fitter == b:
			chosen = bc
		default:
			continue
		}

		fromIdx, toIdx := chosen.From.Index, chosen.To.Index
		if fromIdx >= len(off.Nodes) || toIdx >= len(off.Nodes) {
			continue
		}
		enabled := chosen.Enabled
		if aok && bok && (!ac.Enabled || !bc.Enabled) && rng.Float64() < reenableProb {
			enabled = true
		}
		nc := newConnection(off.Nodes[fromIdx], off.Nodes[toIdx], chosen.Weight)
		nc.Innovation = chosen.Innovation
		nc.Enabled = enabled
		off.Connections = append(off.Connections, nc)
	}

	return off, nil
}

func copyNodeShallow(src *Node, index int) *Node {
	n := &Node{
		Kind:   src.Kind,
		Bias:   src.Bias,
		Squash: src.Squash,
		Mask:   1,
		Index:  index,
	}
	if src.SelfConnection != nil {
		n.SelfConnection = &Connection{
			From: n, To: n,
			Weight: src.SelfConnection.Weight,
			Gain:   1, Enabled: src.SelfConnection.Enabled, DCMask: 1,
		}
	}
	return n
}

// randSource is the minimal PRNG surface Crossover needs; *rand.Rand
// satisfies it.
type randSource interface {
	Intn(n int) int
	Float64() float64
}
