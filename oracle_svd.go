// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SVDOracle is a reference Oracle backed by a fully materialized dense
// matrix. It is meant for tests and for small problems where forming A in
// full is acceptable; production use is expected to supply an Oracle backed
// by a kernel evaluator or a parametrized physical model instead, as noted
// in the oracle's doc comment. Off-diagonal compression is done with a
// truncated SVD, which is an exact, easy-to-verify stand-in for whatever
// adaptive cross approximation or randomized scheme a production compressor
// would use.
type SVDOracle struct {
	a *mat.Dense
	n int
}

// NewSVDOracle wraps a as a SVDOracle. a must be square.
func NewSVDOracle(a *mat.Dense) *SVDOracle {
	r, c := a.Dims()
	if r != c {
		panic("hodlr: oracle matrix must be square")
	}
	return &SVDOracle{a: a, n: r}
}

func (o *SVDOracle) N() int { return o.n }

func (o *SVDOracle) DiagonalBlock(start, size int) *mat.Dense {
	return subBlock(o.a, start, size, start, size)
}

func (o *SVDOracle) RowIndexed(start, size int, cols []int) *mat.Dense {
	dst := mat.NewDense(size, len(cols), nil)
	for i := 0; i < size; i++ {
		for j, c := range cols {
			dst.Set(i, j, o.a.At(start+i, c))
		}
	}
	return dst
}

func (o *SVDOracle) ColIndexed(rows []int, start, size int) *mat.Dense {
	dst := mat.NewDense(len(rows), size, nil)
	for i, r := range rows {
		for j := 0; j < size; j++ {
			dst.Set(i, j, o.a.At(r, start+j))
		}
	}
	return dst
}

// LowRankFactorOffDiagonal truncates the SVD of the requested block at the
// smallest rank whose discarded singular values have Frobenius norm at most
// tol times the block's own Frobenius norm. The singular values are folded
// into the row basis (left), leaving the column basis (right) with
// orthonormal columns in both the symmetric and nonsymmetric contract; the
// symmetric variant's per-level QR pass and the nonsymmetric variant's
// direct use as U, V both tolerate that asymmetry.
func (o *SVDOracle) LowRankFactorOffDiagonal(rowStart, rowSize, colStart, colSize int, tol float64, isSym bool) (left, right *mat.Dense, err error) {
	if rowSize == 0 || colSize == 0 {
		return mat.NewDense(rowSize, 0, nil), mat.NewDense(colSize, 0, nil), nil
	}

	block := subBlock(o.a, rowStart, rowSize, colStart, colSize)

	var svd mat.SVD
	svd.U, svd.V = mat.SVDThin, mat.SVDThin
	if !svd.Factorize(block) {
		return nil, nil, fmt.Errorf("hodlr: svd failed to converge for block [%d:%d, %d:%d]", rowStart, rowStart+rowSize, colStart, colStart+colSize)
	}

	s := svd.Values(nil)
	r := truncationRank(s, tol)

	u := svd.UTo(nil)
	v := svd.VTo(nil)

	left = subBlock(u, 0, rowSize, 0, r)
	right = subBlock(v, 0, colSize, 0, r)
	for i := 0; i < rowSize; i++ {
		for j := 0; j < r; j++ {
			left.Set(i, j, left.At(i, j)*s[j])
		}
	}
	return left, right, nil
}

// truncationRank returns the smallest r such that the tail of singular
// values s[r:] has Frobenius norm at most tol times the full vector's
// Frobenius norm, with a floor of 1 so a nonzero block never compresses to
// rank 0.
func truncationRank(s []float64, tol float64) int {
	var total float64
	for _, v := range s {
		total += v * v
	}
	if total == 0 {
		return 0
	}

	thresh := tol * tol * total
	r := len(s)
	var tail float64
	for r > 1 {
		cand := tail + s[r-1]*s[r-1]
		if cand > thresh {
			break
		}
		tail = cand
		r--
	}
	return r
}
