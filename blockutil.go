// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "gonum.org/v1/gonum/mat"

// rowBlock copies the rows [start, start+rows) of m (all columns) into a
// freshly allocated *mat.Dense. The node kinds use it to pull a node's
// row-range out of x in MatMat and to split a block into its two child
// row-ranges in applyInverse; the copy never aliases m.
func rowBlock(m *mat.Dense, start, rows int) *mat.Dense {
	_, cols := m.Dims()
	return subBlock(m, start, rows, 0, cols)
}

// setRowBlock writes b back into the rows [start, start+b.Dims()) of m.
func setRowBlock(m *mat.Dense, start int, b *mat.Dense) {
	rows, cols := b.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(start+i, j, b.At(i, j))
		}
	}
}

// addRowBlock adds contrib into the rows [start, start+contrib.Dims()) of m.
// Used by the matmat engine, where every node's contribution must be
// accumulated rather than overwritten, but two nodes never address the
// same rows at the same time so no synchronization is required.
func addRowBlock(m *mat.Dense, start int, contrib *mat.Dense) {
	rows, cols := contrib.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(start+i, j, m.At(start+i, j)+contrib.At(i, j))
		}
	}
}

// subBlock copies the rows [r0, r0+rows) and columns [c0, c0+cols) of m
// into a freshly allocated *mat.Dense.
func subBlock(m *mat.Dense, r0, rows, c0, cols int) *mat.Dense {
	b := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			b.Set(i, j, m.At(r0+i, c0+j))
		}
	}
	return b
}
