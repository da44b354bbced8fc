// Package graph implements the immutable decoding graph: an ordered edge
// list plus an optional one-shot CSR adjacency, built once by a loader and
// then frozen. Nothing in this package is safe to mutate once a
// *DecodingGraph has been published to worker goroutines — see
// internal/control for the publication protocol.
package graph

import "github.com/qec-systems/qcu/internal/arena"

// Edge is an unordered pair of node indices. Weight is accepted by AddEdge
// and stored here purely so callers can inspect what they passed in; the
// decoding algorithm (internal/decoder) never reads it.
type Edge struct {
	U, V   uint32
	Weight float64
}

// DecodingGraph is an ordered sequence of edges plus a cached node count.
// The zero value is a valid, empty graph; use New to pre-size storage.
type DecodingGraph struct {
	edges      []Edge
	fixed      bool // true when edges' backing array came from an arena and must never grow
	maxNodeID  int
	offsets    []uint32 // CSR: built lazily by BuildAdjacency
	targets    []uint32
	builtAdjOK bool
}

// New reserves edge storage proportional to capacityHint. capacityHint is
// an estimate of the eventual edge count, not a hard limit — edges beyond
// it simply cause the backing slice to grow, same as any Go slice; this
// loader path runs once at startup, never on the hot path internal/decoder
// and internal/queue hold themselves to.
func New(capacityHint int) *DecodingGraph {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &DecodingGraph{edges: make([]Edge, 0, capacityHint)}
}

// NewFromArena reserves storage for exactly capacity edges out of a, rather
// than the Go heap. The arena allocation happens once, up front, so callers
// that already know their exact edge count (internal/bench's grid
// generator, for instance) get graph storage that shares the startup
// arena's lifetime instead of its own heap object. Unlike New, the
// resulting graph's edge capacity is a hard limit: AddEdge panics if called
// more than capacity times.
func NewFromArena(a *arena.Arena, capacity int) (*DecodingGraph, error) {
	buf, err := arena.AllocSlice[Edge](a, capacity)
	if err != nil {
		return nil, err
	}
	return &DecodingGraph{edges: buf[:0], fixed: true}, nil
}

// AddEdge appends (u, v) to the edge list and updates NumNodes() to track
// the highest index seen. Multi-edges and self-loops are accepted and
// tolerated: the decoder sweep degenerates to a no-op on them (a self-loop
// never has distinct roots to merge; a duplicate edge's second union call
// simply returns false). Must only be called before the graph is published
// to workers — AddEdge does not itself enforce that; internal/control's
// publication barrier is what makes it safe.
//
// AddEdge panics if the graph was constructed with NewFromArena and
// capacity is already exhausted: unlike a heap slice, the arena's backing
// array cannot silently grow past its reservation.
func (g *DecodingGraph) AddEdge(u, v uint32, weight float64) {
	if g.fixed && len(g.edges) >= cap(g.edges) {
		panic(`graph: arena-backed edge capacity exceeded`)
	}
	g.edges = append(g.edges, Edge{U: u, V: v, Weight: weight})

	maxIdx := u
	if v > maxIdx {
		maxIdx = v
	}
	if n := int(maxIdx) + 1; n > g.maxNodeID {
		g.maxNodeID = n
	}

	g.builtAdjOK = false
}

// NumNodes returns one past the highest node index seen by AddEdge.
func (g *DecodingGraph) NumNodes() int {
	return g.maxNodeID
}

// Edges returns the immutable edge list, in insertion order. The decoder's
// fixpoint sweep iterates this slice directly; its order is load-bearing
// for determinism and must never be sorted or reordered by this package.
func (g *DecodingGraph) Edges() []Edge {
	return g.edges
}

// BuildAdjacency constructs CSR adjacency arrays from the current edge
// list: degree counting, prefix sum, then a single placement pass. It is
// optional — internal/decoder's sweep never calls it — and exists for
// callers that need neighbor lookups (e.g. a future accelerator driver)
// instead of a full edge-list scan. Calling AddEdge after BuildAdjacency
// invalidates the cached adjacency; Neighbors panics until BuildAdjacency
// is called again.
func (g *DecodingGraph) BuildAdjacency() {
	n := g.maxNodeID
	degree := make([]uint32, n+1)
	for _, e := range g.edges {
		degree[e.U]++
		degree[e.V]++
	}

	offsets := make([]uint32, n+1)
	var sum uint32
	for i := 0; i < n; i++ {
		offsets[i] = sum
		sum += degree[i]
	}
	offsets[n] = sum

	targets := make([]uint32, sum)
	cursor := make([]uint32, n)
	copy(cursor, offsets[:n])

	for _, e := range g.edges {
		targets[cursor[e.U]] = e.V
		cursor[e.U]++
		targets[cursor[e.V]] = e.U
		cursor[e.V]++
	}

	g.offsets = offsets
	g.targets = targets
	g.builtAdjOK = true
}

// Neighbors returns the adjacency slice for node i, built by the most
// recent call to BuildAdjacency. Panics if BuildAdjacency has not been
// called, or the edge list has changed since.
func (g *DecodingGraph) Neighbors(i int) []uint32 {
	if !g.builtAdjOK {
		panic(`graph: BuildAdjacency must be called (and current) before Neighbors`)
	}
	return g.targets[g.offsets[i]:g.offsets[i+1]]
}

// HasAdjacency reports whether a valid CSR adjacency is currently built.
func (g *DecodingGraph) HasAdjacency() bool {
	return g.builtAdjOK
}
