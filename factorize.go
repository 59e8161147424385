// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "fmt"

// Factorize computes the recursive one-sided factorization of §4.4: leaves
// first, then each level from L-1 up to and including the root, each node
// fills and factors its own small matrix and left-multiplies its factor's
// inverse into every strict ancestor's working basis. The symmetric variant
// additionally runs a QR pass over each non-leaf level after the level below
// has propagated into it and before that level factors itself, so the
// Q_factor bases the level reads are orthonormal.
//
// The original source stops its non-leaf loop at level 1 and finalizes the
// root (level 0) afterward only in the symmetric path, leaving the
// nonsymmetric root's K at the identity it was initialized to. Folding that
// special case into a single loop that runs down to and including level 0
// fixes that gap uniformly for both variants: the root's "propagate to
// strict ancestors" step is simply empty, which is exactly what the
// original's root-only special case amounted to.
//
// Factorize may be called only once, after Assemble and before any Solve,
// MatMat or LogDeterminant call that depends on it, since a self-reference
// consistency note in §8 leaves the contract for calling it twice
// unspecified; this implementation rejects a second call outright.
func (t *Tree) Factorize() error {
	if !t.assembled {
		return globalErr(InvalidState, fmt.Errorf("factorize called before assemble"))
	}
	if t.factorized {
		return globalErr(InvalidState, fmt.Errorf("tree already factorized"))
	}

	for j := 0; j < t.levels; j++ {
		nodes := t.nodes[j]
		parallelFor(len(nodes), func(k int) {
			nodes[k].initFactor()
		})
	}

	for j := t.levels; j >= 0; j-- {
		nodes := t.nodes[j]
		if t.isSym && j < t.levels {
			parallelFor(len(nodes), func(k int) {
				nodes[k].orthonormalize()
			})
		}

		err := parallelForErr(len(nodes), func(k int) error {
			n := nodes[k]
			if err := n.factorizeSelf(); err != nil {
				return nodeErr(SingularFactor, j, k, err)
			}
			t.propagateToAncestors(j, k, n)
			return nil
		})
		if err != nil {
			return err
		}
	}

	t.factorized = true
	return nil
}

// propagateToAncestors left-multiplies n's just-computed factor inverse
// into the appropriate row-slice of every strict ancestor's working basis,
// per §4.4's leaf/non-leaf steps and §9's bit-shift ancestor recomputation.
// Different nodes at the same level touch disjoint row ranges of any given
// ancestor's basis (the index ranges are nested and non-overlapping by
// construction), so this may run unsynchronized across nodes at a level.
func (t *Tree) propagateToAncestors(j, k int, n hodlrNode) {
	g := n.g()
	if !g.leaf && g.rank[0] == 0 && g.rank[1] == 0 {
		return
	}
	for l := j - 1; l >= 0; l-- {
		a := t.nodes[l][ancestorIndex(j, k, l)]
		slot := childSlot(j, k, l)
		basis := a.workingBasis(slot)
		if basis == nil {
			continue
		}
		_, basisCols := basis.Dims()
		if basisCols == 0 {
			continue
		}

		ag := a.g()
		offset := g.nStart - ag.cStart[slot]
		height := g.nSize

		block := subBlock(basis, offset, height, 0, basisCols)
		updated := n.applyInverse(block)
		setRowBlock(basis, offset, updated)
	}
}
