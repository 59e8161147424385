// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "fmt"

// Assemble populates every node of t by querying oracle: each leaf gets its
// dense diagonal block, each non-leaf gets a low-rank factorization of its
// two off-diagonal blocks at tolerance t.tol. isSym selects the symmetric
// (Q) or nonsymmetric (U, V) basis representation for every non-leaf node in
// the tree, per §4.2.
//
// Assemble may be called only once on a freshly built Tree. Assembly across
// siblings at a level runs concurrently; a failure anywhere aborts the
// whole call and leaves the tree unusable.
func (t *Tree) Assemble(oracle Oracle, isSym bool) error {
	if t.assembled {
		return globalErr(InvalidState, fmt.Errorf("tree already assembled"))
	}
	if oracle.N() != t.n {
		return globalErr(DimensionMismatch, fmt.Errorf("oracle size %d does not match tree size %d", oracle.N(), t.n))
	}

	t.isSym = isSym

	for j := t.levels; j >= 0; j-- {
		geoms := t.geoms[j]
		nodes := make([]hodlrNode, len(geoms))
		err := parallelForErr(len(geoms), func(k int) error {
			g := geoms[k]
			var n hodlrNode
			if isSym {
				n = &symNode{geom: g}
			} else {
				n = &nonSymNode{geom: g}
			}

			var aerr error
			if g.leaf {
				aerr = n.assembleLeaf(oracle)
			} else {
				aerr = n.assembleNonLeaf(oracle, t.tol)
			}
			if aerr != nil {
				return nodeErr(AssemblyError, j, k, aerr)
			}
			nodes[k] = n
			return nil
		})
		if err != nil {
			return err
		}
		t.nodes[j] = nodes
	}

	t.assembled = true
	return nil
}
