// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "gonum.org/v1/gonum/mat"

// Oracle is the matrix collaborator a Tree assembles against. It abstracts
// over however the underlying N×N matrix is actually represented or
// generated — dense storage, a kernel function, a parametrized physical
// model — and over the low-rank compressor that turns an off-diagonal
// block into a basis. Both are out of scope for this package; Oracle is
// the seam between them and the HODLR tree.
type Oracle interface {
	// N returns the size of the matrix.
	N() int

	// DiagonalBlock returns the size×size dense diagonal block
	// A[start:start+size, start:start+size]. Called once per leaf node.
	DiagonalBlock(start, size int) *mat.Dense

	// RowIndexed returns the size×len(cols) dense matrix with rows
	// A[start:start+size, :] restricted to the given columns. It exists to
	// satisfy the entry-access contract a low-rank compressor needs; the
	// core tree algorithms never call it directly.
	RowIndexed(start, size int, cols []int) *mat.Dense

	// ColIndexed returns the len(rows)×size dense matrix with columns
	// A[:, start:start+size] restricted to the given rows. Like
	// RowIndexed, it exists for the compressor's benefit.
	ColIndexed(rows []int, start, size int) *mat.Dense

	// LowRankFactorOffDiagonal returns a rank-r approximation of the
	// off-diagonal block A[rowStart:rowStart+rowSize, colStart:colStart+colSize]
	// with relative error at most tol, in a norm of the oracle's choosing.
	// rank is chosen by the oracle's compressor, not the caller.
	//
	// In nonsymmetric mode the returned pair (left, right) satisfies
	// A[rowRange, colRange] ≈ left·rightᵀ. In symmetric mode rowRange and
	// colRange are a node's two children's ranges, and the returned pair
	// (left, right) are the two orthonormal-ish bases Q0, Q1 such that
	// A[c0, c1] ≈ Q0·K·Q1ᵀ for some small coupling matrix K the caller
	// derives separately; isSym tells the oracle which contract to honor.
	LowRankFactorOffDiagonal(rowStart, rowSize, colStart, colSize int, tol float64, isSym bool) (left, right *mat.Dense, err error)
}
