// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "gonum.org/v1/gonum/mat"

// geom is the index-partition data common to every node, computed once
// when the Tree is built and never mutated afterward except for cStart/
// cSize (set once, when a node's children are created) and rank (set once,
// at assembly). Keeping it as a plain embedded struct rather than behind
// accessor methods avoids the "single struct with unused fields" pattern
// the symmetric/nonsymmetric split would otherwise invite: geom carries
// only what both variants need.
type geom struct {
	level, index   int
	nStart, nSize  int
	leaf           bool
	cStart, cSize  [2]int
	rank           [2]int
}

// split bisects an index range [start, start+size) into two child ranges,
// the left taking the floor half, per §4.1.
func split(start, size int) (s0, n0, s1, n1 int) {
	n0 = size / 2
	n1 = size - n0
	return start, n0, start + n0, n1
}

// hodlrNode is the capability set both node variants implement. Tree-level
// orchestration (assemble.go, matmat.go, factorize.go, solve.go, logdet.go)
// is written entirely against this interface and never type-switches on
// the concrete node kind; the symmetric/nonsymmetric distinction lives
// entirely inside the two concrete types.
type hodlrNode interface {
	g() *geom

	// assembleLeaf and assembleNonLeaf populate K (and, for non-leaves,
	// the off-diagonal bases) by querying the oracle. Called exactly once
	// per node, per §3's assembly invariant.
	assembleLeaf(oracle Oracle) error
	assembleNonLeaf(oracle Oracle, tol float64) error

	// applyLeaf/applyNonLeaf add this node's contribution to y = A·x, per
	// §4.3. Both read x and mutate disjoint row-ranges of y.
	applyLeaf(x, y *mat.Dense)
	applyNonLeaf(x, y *mat.Dense)

	// initFactor seeds the working copies of a non-leaf node's bases
	// (UFactor/VFactor or QFactor) from the assembled bases, and resets the
	// working coupling matrix (K for the nonsymmetric variant, KFactor for
	// the symmetric one) to identity. Factorize calls it on non-leaf nodes
	// only.
	initFactor()

	// factorizeSelf computes this node's own small factorization: an LU
	// or Cholesky of the leaf's diagonal block, or of the non-leaf's
	// coupling matrix K (after K has been filled from the current
	// working bases).
	factorizeSelf() error

	// workingBasis returns the node's mutable basis for child slot
	// (UFactor[slot] or QFactor[slot]); nil on leaves, which have none.
	workingBasis(slot int) *mat.Dense

	// orthonormalize runs the symmetric variant's per-level QR pass on
	// this node's own working bases and KFactor; a no-op for the
	// nonsymmetric variant. Factorize calls it on non-leaf nodes only.
	orthonormalize()

	// applyInverse is "the node's solve operator" of §4.4/§4.5: given a
	// block b with exactly g().nSize rows, it returns the result of
	// left-multiplying b by this node's factor inverse. It is used both
	// to propagate a descendant's factor into every strict ancestor's
	// working basis during Factorize, and to run Solve's per-node phase.
	applyInverse(b *mat.Dense) *mat.Dense

	// logDetContribution returns the sum of log|diagonal| of this node's
	// triangular factor (§4.6), before the symmetric ×2 correction that
	// Tree.LogDeterminant applies once, globally.
	logDetContribution() float64
}
