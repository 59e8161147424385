// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// errSingular is the sentinel wrapped into a node-scoped *Error by callers
// that know their own tree coordinates.
var errSingular = errors.New("factor is singular or not positive-definite")

// factorOp is the small-matrix factorization held by every node: a dense
// Cholesky for the symmetric variant, a dense LU for the nonsymmetric
// variant. Both leaf (diagonal block) and non-leaf (coupling matrix K)
// nodes use the same interface, which is what lets Tree.Solve and
// Tree.LogDeterminant stay mode-agnostic.
type factorOp interface {
	// solveTo solves op·x = b for x and writes it to dst.
	solveTo(dst, b *mat.Dense) error
	// diagLogSum returns the sum of log|diagonal entries| of the
	// triangular factor (L for Cholesky, U for LU).
	diagLogSum() float64
}

// emptyFactorOp is the factorization of a zero-size matrix: every operation
// is a no-op, per the "empty block operations are no-ops" rule of §4.1.
type emptyFactorOp struct{}

func (emptyFactorOp) solveTo(dst, b *mat.Dense) error {
	r, c := b.Dims()
	dst.Reset()
	*dst = *mat.NewDense(r, c, nil)
	return nil
}

func (emptyFactorOp) diagLogSum() float64 { return 0 }

type luFactorOp struct {
	lu mat.LU
	u  mat.TriDense
	n  int
}

func newLUFactorOp(a *mat.Dense) (factorOp, error) {
	n, _ := a.Dims()
	if n == 0 {
		return emptyFactorOp{}, nil
	}
	f := &luFactorOp{n: n}
	f.lu.Factorize(a)
	f.lu.UTo(&f.u)
	for i := 0; i < n; i++ {
		d := f.u.At(i, i)
		if d == 0 || math.IsNaN(d) {
			return nil, errSingular
		}
	}
	return f, nil
}

func (f *luFactorOp) solveTo(dst, b *mat.Dense) error {
	return f.lu.SolveTo(dst, false, b)
}

func (f *luFactorOp) diagLogSum() float64 {
	var s float64
	for i := 0; i < f.n; i++ {
		s += math.Log(math.Abs(f.u.At(i, i)))
	}
	return s
}

type cholFactorOp struct {
	chol mat.Cholesky
	l    mat.TriDense
	n    int
}

func newCholFactorOp(a mat.Symmetric) (factorOp, error) {
	n := a.SymmetricDim()
	if n == 0 {
		return emptyFactorOp{}, nil
	}
	f := &cholFactorOp{n: n}
	if !f.chol.Factorize(a) {
		return nil, errSingular
	}
	f.chol.LTo(&f.l)
	return f, nil
}

func (f *cholFactorOp) solveTo(dst, b *mat.Dense) error {
	return f.chol.SolveTo(dst, b)
}

func (f *cholFactorOp) diagLogSum() float64 {
	var s float64
	for i := 0; i < f.n; i++ {
		s += math.Log(math.Abs(f.l.At(i, i)))
	}
	return s
}

// solveLowerTo solves L·x = b for x and writes it to dst, where L is the
// lower Cholesky factor cached at construction. Unlike solveTo, it does not
// also solve the Lᵀ back-substitution half of L·Lᵀ·x = b; it is used by the
// symmetric variant's non-leaf applyInverse, which needs the bare forward
// solve against L the way the original code calls it directly rather than
// through the full factorization.
func (f *cholFactorOp) solveLowerTo(dst, b *mat.Dense) {
	_, cols := b.Dims()
	for col := 0; col < cols; col++ {
		for i := 0; i < f.n; i++ {
			sum := b.At(i, col)
			for k := 0; k < i; k++ {
				sum -= f.l.At(i, k) * dst.At(k, col)
			}
			dst.Set(i, col, sum/f.l.At(i, i))
		}
	}
}
