// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

// Tree is a hierarchically off-diagonal low-rank (HODLR) representation of
// an N×N dense matrix: a perfect binary partition of [0, N) to depth
// Levels, with a node at every (level, index) pair holding either a dense
// diagonal block (leaves) or a pair of low-rank off-diagonal bases and a
// small coupling matrix (non-leaves).
//
// A Tree moves through its lifecycle strictly in order: New, then Assemble
// once, then Factorize once, after which any number of Solve, MatMat and
// LogDeterminant calls may be made. None of the methods are safe to call
// concurrently with each other on the same Tree; node-level parallelism is
// internal to each call.
type Tree struct {
	n      int
	levels int
	tol    float64
	isSym  bool

	// geoms[j] holds the 2^j geom records for level j, in index order.
	// nodes[j] holds the corresponding hodlrNode values, created at
	// Assemble time.
	geoms [][]geom
	nodes [][]hodlrNode

	assembled  bool
	factorized bool
}

// New builds the index partition of a Tree covering [0, n) to depth levels.
// It panics if n < 1 or levels < 0, per §4.1's precondition that N ≥ 1,
// L ≥ 0; tol is the target relative tolerance passed to the oracle during
// Assemble and must be positive.
func New(n, levels int, tol float64) *Tree {
	if n < 1 {
		panic("hodlr: n must be at least 1")
	}
	if levels < 0 {
		panic("hodlr: levels must be non-negative")
	}
	if tol <= 0 {
		panic("hodlr: tol must be positive")
	}
	t := &Tree{n: n, levels: levels, tol: tol}
	t.build()
	return t
}

// N returns the tree's matrix dimension.
func (t *Tree) N() int { return t.n }

// Levels returns the tree's depth.
func (t *Tree) Levels() int { return t.levels }

// build performs the top-down bisection of §4.1: a perfect binary tree of
// depth levels, with 2^j nodes at level j. Degenerate ranges (n < 2^levels)
// are tolerated and simply yield zero-sized leaves somewhere in the tree;
// every downstream operation treats an empty block as a no-op.
func (t *Tree) build() {
	t.geoms = make([][]geom, t.levels+1)
	t.geoms[0] = []geom{{level: 0, index: 0, nStart: 0, nSize: t.n, leaf: t.levels == 0}}

	for j := 0; j < t.levels; j++ {
		parents := t.geoms[j]
		children := make([]geom, 0, 2*len(parents))
		for i := range parents {
			s0, n0, s1, n1 := split(parents[i].nStart, parents[i].nSize)
			parents[i].cStart = [2]int{s0, s1}
			parents[i].cSize = [2]int{n0, n1}
			children = append(children,
				geom{level: j + 1, index: 2 * parents[i].index, nStart: s0, nSize: n0, leaf: j+1 == t.levels},
				geom{level: j + 1, index: 2*parents[i].index + 1, nStart: s1, nSize: n1, leaf: j+1 == t.levels},
			)
		}
		t.geoms[j+1] = children
	}

	t.nodes = make([][]hodlrNode, t.levels+1)
}

// ancestorIndex returns the index, at level l (l < j), of the ancestor of the
// node (j, k), via the bit-shift recomputation of §9 ("Back-references")
// rather than stored parent pointers.
func ancestorIndex(j, k, l int) int {
	return k >> (j - l)
}

// childSlot returns through which of the two children of its ancestor at
// level l (l < j) the node (j, k) descends, again via bit-shift per §9.
func childSlot(j, k, l int) int {
	return (k >> (j - l - 1)) & 1
}
