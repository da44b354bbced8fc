// Package bench generates a synthetic decoding graph and shot table for
// the hosted benchmark harness (cmd/qcubench). It stands in for a
// detector-error-model file loader, which is out of scope for this
// module — bench exists only so the benchmark binary has a graph and a
// stream of packets to feed internal/queue without needing real
// detector-error-model files on disk.
package bench

import (
	"github.com/qec-systems/qcu/internal/arena"
	"github.com/qec-systems/qcu/internal/bitpack"
	"github.com/qec-systems/qcu/internal/graph"
	"github.com/qec-systems/qcu/internal/packet"
)

// arenaBytesPerEdge is a generous per-edge byte budget for the arena
// BuildSurfaceCodeGraph carves edge storage from: comfortably more than
// sizeof(graph.Edge) so alignment padding never pushes an allocation past
// the reserved window.
const arenaBytesPerEdge = 32

// BuildSurfaceCodeGraph constructs a size x size grid decoding graph: one
// node per grid cell, horizontal and vertical nearest-neighbor edges
// between adjacent cells, the same connectivity a rotated surface code's
// matching graph has. Weight is always 0; nothing downstream reads it
// (see internal/graph's weight note).
//
// Edge storage comes from a freshly constructed arena sized to the grid's
// exact edge count, rather than the Go heap: a benchmark run knows its
// graph's shape upfront, so there is no reason to let it grow
// dynamically. The arena is returned alongside the graph so callers can
// inspect its size or extend it with further startup-only allocations.
func BuildSurfaceCodeGraph(size int) (*graph.DecodingGraph, *arena.Arena) {
	if size <= 0 {
		panic(`bench: size must be positive`)
	}

	numEdges := 2 * size * (size - 1) // horizontal + vertical nearest-neighbor edges, exact
	arenaSize := numEdges*arenaBytesPerEdge + arenaBytesPerEdge
	a := arena.New(arenaSize)

	g, err := graph.NewFromArena(a, numEdges)
	if err != nil {
		panic(err)
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size-1; c++ {
			u := uint32(r*size + c)
			g.AddEdge(u, u+1, 0)
		}
	}
	for r := 0; r < size-1; r++ {
		for c := 0; c < size; c++ {
			u := uint32(r*size + c)
			g.AddEdge(u, u+uint32(size), 0)
		}
	}

	return g, a
}

// xorshift is a simple 64-bit xorshift* generator: no crypto quality
// needed, just a fast, seedable, deterministic stream for reproducible
// benchmark runs.
type xorshift struct {
	state uint64
}

func newXorshift(seed uint64) *xorshift {
	if seed == 0 {
		seed = 1
	}
	return &xorshift{state: seed}
}

func (x *xorshift) float64() float64 {
	s := x.state
	s ^= s >> 12
	s ^= s << 25
	s ^= s >> 27
	x.state = s
	result := s * 0x2545F4914F6CDD1D
	return float64(result) / float64(^uint64(0))
}

// GenerateShots produces numShots packed syndrome rows over g's nodes,
// using an independent-edge phenomenological noise model: each edge
// flips both endpoints' detector bits with probability p. Each returned
// row has bitpack.WordsFor(g.NumNodes()) words, which must fit within
// packet.W — GenerateShots panics if g's node count exceeds packet.NMax,
// since a row that wide could never be copied into a SyndromePacket
// without truncation.
func GenerateShots(g *graph.DecodingGraph, numShots int, p float64, seed uint64) [][]uint64 {
	n := g.NumNodes()
	if n > packet.NMax {
		panic(`bench: graph node count exceeds packet.NMax`)
	}
	words := bitpack.WordsFor(n)
	edges := g.Edges()
	rng := newXorshift(seed)

	shots := make([][]uint64, numShots)
	for s := 0; s < numShots; s++ {
		row := make([]uint64, words)
		for _, e := range edges {
			if rng.float64() < p {
				bitpack.Toggle(row, int(e.U))
				bitpack.Toggle(row, int(e.V))
			}
		}
		shots[s] = row
	}
	return shots
}
