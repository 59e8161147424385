// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MatMat computes B = A·x, where A is the matrix represented by t, as the
// sum of every node's contribution (§4.3): each leaf's diagonal block times
// its row-range of x, plus each non-leaf's two off-diagonal contributions.
// x must have exactly t.N() rows; it is read but not modified.
func (t *Tree) MatMat(x *mat.Dense) (*mat.Dense, error) {
	if !t.assembled {
		return nil, globalErr(InvalidState, fmt.Errorf("matmat called before assemble"))
	}
	rows, cols := x.Dims()
	if rows != t.n {
		return nil, globalErr(DimensionMismatch, fmt.Errorf("x has %d rows, want %d", rows, t.n))
	}

	y := mat.NewDense(t.n, cols, nil)

	for j := 0; j <= t.levels; j++ {
		nodes := t.nodes[j]
		parallelFor(len(nodes), func(k int) {
			n := nodes[k]
			if n.g().leaf {
				n.applyLeaf(x, y)
			} else {
				n.applyNonLeaf(x, y)
			}
		})
	}

	return y, nil
}
