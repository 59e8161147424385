// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve returns x such that A·x = b, where A is the matrix t was factorized
// from. b must have exactly t.N() rows and is not modified; x is a freshly
// allocated matrix of the same shape.
//
// Solve applies, per §4.5, the leaf factors' inverses first and then each
// level's node-local solve operator from L-1 up to the root; within a level
// nodes are independent since their row ranges are disjoint, but levels run
// strictly in order.
func (t *Tree) Solve(b *mat.Dense) (*mat.Dense, error) {
	if !t.factorized {
		return nil, globalErr(InvalidState, fmt.Errorf("solve called before factorize"))
	}
	rows, cols := b.Dims()
	if rows != t.n {
		return nil, globalErr(DimensionMismatch, fmt.Errorf("b has %d rows, want %d", rows, t.n))
	}

	x := mat.NewDense(t.n, cols, nil)
	x.Copy(b)

	for j := t.levels; j >= 0; j-- {
		nodes := t.nodes[j]
		parallelFor(len(nodes), func(k int) {
			n := nodes[k]
			g := n.g()
			block := subBlock(x, g.nStart, g.nSize, 0, cols)
			setRowBlock(x, g.nStart, n.applyInverse(block))
		})
	}

	return x, nil
}
