// Package dsu implements a parity-tracking union-find forest: parent/rank
// arrays with path-halving compression, plus a packed parity bit per
// cluster root.
//
// UnionFind holds the parent/rank/parity storage as three disjoint
// slices that alias caller-provided arrays (internal/decoder owns the
// backing storage and reuses it across jobs).
package dsu

import (
	"errors"

	"github.com/qec-systems/qcu/internal/bitpack"
)

// ErrFindBudgetExceeded is returned by a budgeted Finder (see
// WatchdogFinder) when a single Find call walks more parent hops than
// its configured budget allows — a software stand-in for a hardware
// accelerator's cycle watchdog.
var ErrFindBudgetExceeded = errors.New(`dsu: find exceeded step budget`)

// Finder is the abstract "find root" capability: a DSU holds one Finder
// and never branches on software-vs-hardware itself. SoftwareFinder is
// the default, always-correct path-halving implementation;
// AcceleratorFinder lets a host test or future driver substitute an
// external lookup without the DSU knowing anything about hardware.
type Finder interface {
	// Find returns the root of i's cluster, applying whatever
	// compression/lookup strategy the implementation uses. parent is
	// mutated in place when the implementation performs compression.
	Find(parent []int, i int) (root int, err error)
}

// SoftwareFinder is the default Finder: iterative path-halving, with
// zero allocation and no failure mode.
type SoftwareFinder struct{}

// Find implements Finder.
func (SoftwareFinder) Find(parent []int, i int) (int, error) {
	for parent[i] != i {
		p := parent[i]
		gp := parent[p]
		parent[i] = gp
		i = p
	}
	return i, nil
}

// RootLookup is an externally supplied root-finding function, e.g. a
// driver for a hardware decoder accelerator.
type RootLookup func(parent []int, i int) int

// AcceleratorFinder adapts a RootLookup (which cannot fail) to the Finder
// interface, for substituting an external capability at construction
// time.
type AcceleratorFinder struct {
	Lookup RootLookup
}

// Find implements Finder.
func (a AcceleratorFinder) Find(parent []int, i int) (int, error) {
	return a.Lookup(parent, i), nil
}

// WatchdogFinder performs the same path-halving walk as SoftwareFinder but
// fails loudly with ErrFindBudgetExceeded if a single Find call exceeds
// Budget parent hops, modeling the step watchdog a hardware accelerator
// variant would impose. A Budget of 0 means unlimited.
type WatchdogFinder struct {
	Budget int
}

// Find implements Finder.
func (w WatchdogFinder) Find(parent []int, i int) (int, error) {
	steps := 0
	for parent[i] != i {
		if w.Budget > 0 && steps >= w.Budget {
			return 0, ErrFindBudgetExceeded
		}
		p := parent[i]
		gp := parent[p]
		parent[i] = gp
		i = p
		steps++
	}
	return i, nil
}

// UnionFind is a parent/rank/parity forest over n nodes, n == len(parent).
// parent, rank and parity are owned directly by the struct (sized and
// reset by the caller, typically internal/decoder, once per job).
type UnionFind struct {
	Parent []int
	Rank   []uint8
	Parity []uint64 // packed bit vector, bitpack.WordsFor(len(Parent)) words
	finder Finder
}

// New initializes a UnionFind over the given storage: parent[i] = i,
// rank[i] = 0, and all parity bits cleared. The slices are retained by
// reference, not copied — the caller owns their lifetime.
func New(parent []int, rank []uint8, parity []uint64, finder Finder) *UnionFind {
	if finder == nil {
		finder = SoftwareFinder{}
	}
	for i := range parent {
		parent[i] = i
	}
	for i := range rank {
		rank[i] = 0
	}
	for i := range parity {
		parity[i] = 0
	}
	return &UnionFind{Parent: parent, Rank: rank, Parity: parity, finder: finder}
}

// Find returns the root of i's cluster. It panics if the configured Finder
// returns an error — which neither SoftwareFinder nor AcceleratorFinder
// ever does; a WatchdogFinder over budget can trigger this. Union and
// internal/decoder's sweep call Find, so such a failure panics there.
func (u *UnionFind) Find(i int) int {
	root, err := u.finder.Find(u.Parent, i)
	if err != nil {
		panic(err)
	}
	return root
}

// TryFind is Find, but surfaces the configured Finder's error instead of
// panicking.
func (u *UnionFind) TryFind(i int) (int, error) {
	return u.finder.Find(u.Parent, i)
}

// Union merges the clusters containing i and j, returning false if they
// were already the same cluster. The new root's parity is the XOR of the
// two merged roots' parity: whichever root is absorbed has its parity
// folded into the surviving root by toggling the survivor's bit iff the
// absorbed root was odd.
func (u *UnionFind) Union(i, j int) bool {
	ri, rj := u.Find(i), u.Find(j)
	if ri == rj {
		return false
	}

	pi := bitpack.Get(u.Parity, ri)
	pj := bitpack.Get(u.Parity, rj)

	if u.Rank[ri] < u.Rank[rj] {
		u.Parent[ri] = rj
		if pi {
			bitpack.Toggle(u.Parity, rj)
		}
	} else {
		u.Parent[rj] = ri
		if pj {
			bitpack.Toggle(u.Parity, ri)
		}
		if u.Rank[ri] == u.Rank[rj] {
			u.Rank[ri]++
		}
	}
	return true
}

// ToggleParity XOR-flips the parity bit at find(i)'s root. Each syndrome
// detector firing contributes one parity unit to its root's cluster; two
// firings on nodes in the same cluster cancel.
func (u *UnionFind) ToggleParity(i int) {
	bitpack.Toggle(u.Parity, u.Find(i))
}

// SetParity sets the parity bit at find(i)'s root to v.
func (u *UnionFind) SetParity(i int, v bool) {
	bitpack.Set(u.Parity, u.Find(i), v)
}
