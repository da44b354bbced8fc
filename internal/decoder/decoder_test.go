package decoder

import (
	"errors"
	"testing"

	"github.com/qec-systems/qcu/internal/graph"
)

func buildGraph(edges [][2]uint32) *graph.DecodingGraph {
	g := graph.New(len(edges))
	for _, e := range edges {
		g.AddEdge(e[0], e[1], 0)
	}
	return g
}

func solve(t *testing.T, g *graph.DecodingGraph, syndromes []int, capacity int) []Correction {
	t.Helper()
	d := New(g.NumNodes()+1, nil)
	out := NewStaticCorrections(capacity)
	if err := d.Solve(g, syndromes, out); err != nil {
		t.Fatalf(`Solve() err = %v, want nil`, err)
	}
	return append([]Correction(nil), out.Corrections()...)
}

func assertCorrections(t *testing.T, got []Correction, want [][2]uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf(`got %d corrections %v, want %d %v`, len(got), got, len(want), want)
	}
	for i, w := range want {
		if got[i].U != w[0] || got[i].V != w[1] {
			t.Fatalf(`correction %d = (%d,%d), want (%d,%d)`, i, got[i].U, got[i].V, w[0], w[1])
		}
	}
}

// Scenario A: two syndromes on one edge.
func TestScenarioA_TwoSyndromesOneEdge(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}})
	got := solve(t, g, []int{0, 1}, 8)
	assertCorrections(t, got, [][2]uint32{{0, 1}})
}

// Scenario B: chain, three syndromes.
func TestScenarioB_ChainThreeSyndromes(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {1, 2}, {2, 3}})
	got := solve(t, g, []int{0, 2, 3}, 8)
	assertCorrections(t, got, [][2]uint32{{0, 1}, {1, 2}})
}

// Scenario C: even parity, single merge then no-op.
func TestScenarioC_EvenParityNoOp(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {1, 2}, {2, 3}})
	got := solve(t, g, []int{0, 1}, 8)
	assertCorrections(t, got, [][2]uint32{{0, 1}})
}

// Scenario D: isolated odd clusters across disconnected components.
func TestScenarioD_IsolatedOddCluster(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {2, 3}})
	got := solve(t, g, []int{0, 2}, 8)
	assertCorrections(t, got, nil)
}

func TestEmptySyndromeListYieldsEmptyCorrections(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {1, 2}})
	got := solve(t, g, nil, 8)
	assertCorrections(t, got, nil)
}

func TestSingleNodeGraphNeverMerges(t *testing.T) {
	g := graph.New(0)
	g.AddEdge(0, 0, 0) // self-loop: the only way to get a single-node graph
	got := solve(t, g, []int{0}, 8)
	assertCorrections(t, got, nil)
}

func TestOutOfBoundsSyndromeIndexSilentlyDropped(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}})
	d := New(g.NumNodes(), nil)
	out := NewStaticCorrections(8)
	// index 99 is >= num_nodes(): must be dropped, not erred.
	if err := d.Solve(g, []int{0, 1, 99}, out); err != nil {
		t.Fatalf(`Solve() err = %v, want nil`, err)
	}
	assertCorrections(t, out.Corrections(), [][2]uint32{{0, 1}})
}

func TestBufferOverflowReturnsErrBufferOverflow(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {1, 2}, {2, 3}})
	d := New(g.NumNodes(), nil)
	out := NewStaticCorrections(1) // room for exactly one correction
	err := d.Solve(g, []int{0, 2, 3}, out)
	if !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf(`Solve() err = %v, want %v`, err, ErrBufferOverflow)
	}
}

func TestDeterminismAcrossRepeatedRuns(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}})
	syndromes := []int{0, 2, 4, 5}

	first := solve(t, g, syndromes, 16)
	for i := 0; i < 5; i++ {
		got := solve(t, g, syndromes, 16)
		if len(got) != len(first) {
			t.Fatalf(`run %d: got %d corrections, want %d`, i, len(got), len(first))
		}
		for j := range got {
			if got[j] != first[j] {
				t.Fatalf(`run %d: correction %d = %v, want %v`, i, j, got[j], first[j])
			}
		}
	}
}

func TestResetBetweenSolveCallsClearsTouched(t *testing.T) {
	g := buildGraph([][2]uint32{{0, 1}})
	d := New(g.NumNodes(), nil)
	out := NewStaticCorrections(8)

	if err := d.Solve(g, []int{0, 1}, out); err != nil {
		t.Fatalf(`first Solve() err = %v`, err)
	}
	assertCorrections(t, out.Corrections(), [][2]uint32{{0, 1}})

	// A second call with zero syndromes must start from a clean slate:
	// no leftover touched/parity state from the first call.
	if err := d.Solve(g, nil, out); err != nil {
		t.Fatalf(`second Solve() err = %v`, err)
	}
	assertCorrections(t, out.Corrections(), nil)
}
