// Package decoder implements the Union-Find decoder: fixpoint edge-sweep
// matching of odd-parity clusters, built on internal/dsu and
// internal/graph with zero heap allocation once a *UnionFindDecoder has
// been constructed.
package decoder

import (
	"errors"

	"github.com/qec-systems/qcu/internal/bitpack"
	"github.com/qec-systems/qcu/internal/dsu"
	"github.com/qec-systems/qcu/internal/graph"
	"github.com/qec-systems/qcu/internal/staticvec"
)

var (
	// ErrOutOfMemory signals an allocation request exceeded the arena
	// window (host variant: a heap reserve failure). Not raised directly
	// by UnionFindDecoder.Solve itself — it is surfaced by the storage
	// layers a caller wires in (internal/arena), and documented here
	// because it is part of the decode-primitive error taxonomy.
	ErrOutOfMemory = errors.New(`decoder: out of memory`)

	// ErrBufferOverflow is returned by Solve when the supplied
	// CorrectionsOut runs out of capacity while emitting corrections.
	ErrBufferOverflow = errors.New(`decoder: correction output buffer overflow`)

	// ErrNodeOutOfBounds documents the out-of-bounds detector case: an
	// index >= num_nodes. Solve never returns this error — it recovers
	// locally by silently dropping any such index, because an
	// out-of-range detector cannot correspond to any graph cluster.
	ErrNodeOutOfBounds = errors.New(`decoder: detector index out of bounds`)

	// ErrDecodingFailed is reserved for future decoder variants; the
	// algorithm implemented here never returns it.
	ErrDecodingFailed = errors.New(`decoder: decoding failed`)
)

// Correction is one emitted correction edge.
type Correction struct {
	U, V uint32
}

// CorrectionsOut is any sink that can receive the corrections emitted by
// a solve: push((u,v)) -> error, plus clear().
type CorrectionsOut interface {
	Push(u, v uint32) error
	Clear()
}

// StaticCorrections is the fixed-capacity CorrectionsOut used on the
// worker hot path: a StaticVec-backed sink that fails with
// ErrBufferOverflow rather than growing, so a burst of corrections can
// never trigger a heap allocation mid-solve.
type StaticCorrections struct {
	vec *staticvec.StaticVec[Correction]
}

// NewStaticCorrections allocates a StaticCorrections with room for
// capacity corrections.
func NewStaticCorrections(capacity int) *StaticCorrections {
	return &StaticCorrections{vec: staticvec.New[Correction](capacity)}
}

// Push implements CorrectionsOut.
func (s *StaticCorrections) Push(u, v uint32) error {
	if !s.vec.Push(Correction{U: u, V: v}) {
		return ErrBufferOverflow
	}
	return nil
}

// Clear implements CorrectionsOut.
func (s *StaticCorrections) Clear() { s.vec.Clear() }

// Corrections returns the corrections accumulated since the last Clear,
// in emission order.
func (s *StaticCorrections) Corrections() []Correction { return s.vec.Slice() }

// UnionFindDecoder is one worker's private decode state: four buffers
// sized to nMax (parent, rank, parity, touched), reset and reused
// in-place on every Solve call. It is not safe for concurrent use by
// more than one goroutine — each worker owns its own instance.
type UnionFindDecoder struct {
	nMax    int
	parent  *staticvec.StaticVec[int]
	rank    *staticvec.StaticVec[uint8]
	parity  []uint64
	touched []uint64
	finder  dsu.Finder
}

// New constructs a UnionFindDecoder with storage for up to nMax nodes. A
// nil finder uses dsu.SoftwareFinder, the always-correct default; pass a
// dsu.WatchdogFinder or dsu.AcceleratorFinder to substitute a different
// find-root capability.
func New(nMax int, finder dsu.Finder) *UnionFindDecoder {
	if nMax <= 0 {
		panic(`decoder: nMax must be positive`)
	}
	return &UnionFindDecoder{
		nMax:    nMax,
		parent:  staticvec.New[int](nMax),
		rank:    staticvec.New[uint8](nMax),
		parity:  make([]uint64, bitpack.WordsFor(nMax)),
		touched: make([]uint64, bitpack.WordsFor(nMax)),
		finder:  finder,
	}
}

// NMax returns the decoder's compile-time-equivalent capacity.
func (d *UnionFindDecoder) NMax() int { return d.nMax }

// Solve runs one decode job: reset state, inject syndromes, then sweep
// edges to a fixpoint, emitting one correction per successful odd-cluster
// merge. The edge sweep visits graph.Edges() in the order the graph
// stores them — that order is load-bearing for determinism and is never
// reordered here.
//
// If the Finder supplied at construction returns an error (a
// WatchdogFinder over its budget), Solve panics rather than returning an
// error — the same contract dsu.UnionFind.Find documents. The default
// SoftwareFinder never fails.
func (d *UnionFindDecoder) Solve(g *graph.DecodingGraph, syndromeIndices []int, out CorrectionsOut) error {
	out.Clear()

	n := g.NumNodes()
	if n > d.nMax {
		n = d.nMax
	}

	d.parent.Resize(n)
	d.rank.Resize(n)

	words := bitpack.WordsFor(n)
	for i := 0; i < words; i++ {
		d.touched[i] = 0
	}

	// dsu.New resets parent to identity, rank to 0 and parity to 0 on
	// every call, so no separate reset pass is needed here beyond touched
	// (which the DSU does not own).
	uf := dsu.New(d.parent.Slice(), d.rank.Slice(), d.parity[:words], d.finder)

	for _, idx := range syndromeIndices {
		if idx < 0 || idx >= n {
			continue // out-of-bounds detector index: silently dropped
		}
		uf.ToggleParity(idx)
		bitpack.Set(d.touched, idx, true)
	}

	for {
		changed := false
		for _, e := range g.Edges() {
			u, v := int(e.U), int(e.V)
			if u >= n || v >= n {
				continue
			}
			if !bitpack.Get(d.touched, u) && !bitpack.Get(d.touched, v) {
				continue
			}

			ru, rv := uf.Find(u), uf.Find(v)
			if ru == rv {
				continue
			}

			pu := bitpack.Get(d.parity, ru)
			pv := bitpack.Get(d.parity, rv)
			if !(pu || pv) {
				continue
			}

			if uf.Union(u, v) {
				if err := out.Push(e.U, e.V); err != nil {
					return err
				}
				bitpack.Set(d.touched, u, true)
				bitpack.Set(d.touched, v, true)
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
