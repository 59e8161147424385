// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// symNode is a tree node in the symmetric (Cholesky-like) variant. A
// non-leaf node holds a single pair of bases Q[0], Q[1] with Q[0] == Q[1]'s
// rank (enforced at assembly, per the open question in §9) such that
// A[c0,c1] ≈ Q[0]·K·Q[1]ᵀ and A[c1,c0] is its transpose.
type symNode struct {
	geom

	Q       [2]*mat.Dense
	QFactor [2]*mat.Dense

	// K is the coupling matrix fixed at assembly time (identity for a
	// non-leaf, since Q[0]/Q[1] are exactly the oracle's bases); it is read
	// by applyNonLeaf and never written again, so MatMat stays correct
	// against the original Q[0]/Q[1] regardless of whether Factorize has
	// run. KFactor is the working copy that orthonormalize and
	// factorizeSelf mutate in lockstep with QFactor.
	K       *mat.Dense
	KFactor *mat.Dense
	factor  factorOp
}

func (n *symNode) g() *geom { return &n.geom }

func (n *symNode) assembleLeaf(oracle Oracle) error {
	n.K = oracle.DiagonalBlock(n.nStart, n.nSize)
	return nil
}

func (n *symNode) assembleNonLeaf(oracle Oracle, tol float64) error {
	s0, c0 := n.cStart[0], n.cSize[0]
	s1, c1 := n.cStart[1], n.cSize[1]

	q0, q1, err := oracle.LowRankFactorOffDiagonal(s0, c0, s1, c1, tol, true)
	if err != nil {
		return err
	}
	_, r0 := q0.Dims()
	_, r1 := q1.Dims()
	if r0 != r1 {
		return fmt.Errorf("symmetric node requires equal ranks for both children, got r0=%d r1=%d", r0, r1)
	}
	n.rank = [2]int{r0, r1}
	n.Q[0], n.Q[1] = q0, q1
	n.K = identity(r0)
	return nil
}

func (n *symNode) applyLeaf(x, y *mat.Dense) {
	_, cols := x.Dims()
	xb := rowBlock(x, n.nStart, n.nSize)
	contrib := mat.NewDense(n.nSize, cols, nil)
	contrib.Mul(n.K, xb)
	addRowBlock(y, n.nStart, contrib)
}

func (n *symNode) applyNonLeaf(x, y *mat.Dense) {
	s0, c0 := n.cStart[0], n.cSize[0]
	s1, c1 := n.cStart[1], n.cSize[1]
	r := n.rank[0]
	_, cols := x.Dims()

	if r > 0 {
		x1 := rowBlock(x, s1, c1)
		t := mat.NewDense(r, cols, nil)
		t.Mul(n.Q[1].T(), x1)
		kt := mat.NewDense(r, cols, nil)
		kt.Mul(n.K, t)
		contrib0 := mat.NewDense(c0, cols, nil)
		contrib0.Mul(n.Q[0], kt)
		addRowBlock(y, s0, contrib0)

		x0 := rowBlock(x, s0, c0)
		t2 := mat.NewDense(r, cols, nil)
		t2.Mul(n.Q[0].T(), x0)
		ktT := mat.NewDense(r, cols, nil)
		ktT.Mul(n.K.T(), t2)
		contrib1 := mat.NewDense(c1, cols, nil)
		contrib1.Mul(n.Q[1], ktT)
		addRowBlock(y, s1, contrib1)
	}
}

func (n *symNode) initFactor() {
	n.QFactor[0] = mat.DenseCopyOf(n.Q[0])
	n.QFactor[1] = mat.DenseCopyOf(n.Q[1])
	n.KFactor = identity(n.rank[0])
}

func (n *symNode) factorizeSelf() error {
	if n.leaf {
		f, err := newCholFactorOp(denseToSym(n.K))
		if err != nil {
			return err
		}
		n.factor = f
		return nil
	}

	r := n.rank[0]
	inner := mat.NewDense(r, r, nil)
	inner.Mul(n.KFactor.T(), n.KFactor)
	next := mat.NewDense(r, r, nil)
	next.Sub(identity(r), inner)

	f, err := newCholFactorOp(denseToSym(next))
	if err != nil {
		return err
	}
	n.factor = f
	return nil
}

func (n *symNode) workingBasis(slot int) *mat.Dense {
	return n.QFactor[slot]
}

// orthonormalize runs the per-level QR pass of §4.4: each of the node's two
// working bases is replaced by the orthonormal part of its QR
// decomposition, and KFactor absorbs the corresponding triangular factor so
// that QFactor[0]·KFactor·QFactor[1]ᵀ is unchanged. This only ever touches
// the working copies; the assembled K and Q stay as applyNonLeaf needs them.
func (n *symNode) orthonormalize() {
	n.KFactor = n.qrAbsorb(0, n.KFactor, false)
	n.KFactor = n.qrAbsorb(1, n.KFactor, true)
}

func (n *symNode) qrAbsorb(slot int, k *mat.Dense, transposeR bool) *mat.Dense {
	q := n.QFactor[slot]
	rows, cols := q.Dims()
	rank := rows
	if cols < rank {
		rank = cols
	}

	var qr mat.QR
	qr.Factorize(q)
	qFull := qr.QTo(nil)
	rFull := qr.RTo(nil)

	qTrunc := subBlock(qFull, 0, rows, 0, rank)
	rTrunc := subBlock(rFull, 0, rank, 0, cols)
	n.QFactor[slot] = qTrunc

	out := new(mat.Dense)
	if transposeR {
		out.Mul(k, rTrunc.T())
	} else {
		out.Mul(k, rTrunc)
	}
	return out
}

// applyInverse is the symmetric solve operator of §4.4/§4.5. For a leaf it
// is a direct Cholesky solve; for a non-leaf, it eliminates the coupling
// between the two child blocks using the node's working KFactor and
// Cholesky factor L of I - KFactorᵀ·KFactor.
func (n *symNode) applyInverse(b *mat.Dense) *mat.Dense {
	if n.leaf {
		_, cols := b.Dims()
		dst := mat.NewDense(n.nSize, cols, nil)
		n.factor.solveTo(dst, b)
		return dst
	}

	n0, n1 := n.cSize[0], n.cSize[1]
	_, cols := b.Dims()
	b0 := rowBlock(b, 0, n0)
	b1 := rowBlock(b, n0, n1)

	tmp := new(mat.Dense)
	tmp.Mul(n.QFactor[1].T(), b1)

	q0tb0 := new(mat.Dense)
	q0tb0.Mul(n.QFactor[0].T(), b0)
	inner := new(mat.Dense)
	inner.Mul(n.KFactor.T(), q0tb0)
	inner.Sub(inner, tmp)

	innerRows, _ := inner.Dims()
	lhs := mat.NewDense(innerRows, cols, nil)
	if cf, ok := n.factor.(*cholFactorOp); ok {
		cf.solveLowerTo(lhs, inner)
	}
	lhs.Add(lhs, tmp)

	correction := new(mat.Dense)
	correction.Mul(n.QFactor[1], lhs)

	x1 := mat.NewDense(n1, cols, nil)
	x1.Sub(b1, correction)

	x := mat.NewDense(n0+n1, cols, nil)
	setRowBlock(x, 0, b0)
	setRowBlock(x, n0, x1)
	return x
}

func (n *symNode) logDetContribution() float64 {
	if n.factor == nil {
		return 0
	}
	return n.factor.diagLogSum()
}
