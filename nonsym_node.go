// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "gonum.org/v1/gonum/mat"

// nonSymNode is a tree node in the nonsymmetric (LU-like) variant. A
// non-leaf node holds two independent off-diagonal bases, U[0],V[0] for
// A[c0,c1] and U[1],V[1] for A[c1,c0]; a leaf holds only its dense diagonal
// block in K.
type nonSymNode struct {
	geom

	U, V             [2]*mat.Dense
	UFactor, VFactor [2]*mat.Dense

	// K is the leaf's dense diagonal block, or a non-leaf's
	// (r0+r1)×(r0+r1) coupling matrix.
	K      *mat.Dense
	factor factorOp
}

func (n *nonSymNode) g() *geom { return &n.geom }

func (n *nonSymNode) assembleLeaf(oracle Oracle) error {
	n.K = oracle.DiagonalBlock(n.nStart, n.nSize)
	return nil
}

func (n *nonSymNode) assembleNonLeaf(oracle Oracle, tol float64) error {
	s0, c0 := n.cStart[0], n.cSize[0]
	s1, c1 := n.cStart[1], n.cSize[1]

	u0, v0, err := oracle.LowRankFactorOffDiagonal(s0, c0, s1, c1, tol, false)
	if err != nil {
		return err
	}
	u1, v1, err := oracle.LowRankFactorOffDiagonal(s1, c1, s0, c0, tol, false)
	if err != nil {
		return err
	}

	_, r0 := u0.Dims()
	_, r1 := u1.Dims()
	n.rank = [2]int{r0, r1}
	n.U[0], n.V[0] = u0, v0
	n.U[1], n.V[1] = u1, v1
	n.K = identity(r0 + r1)
	return nil
}

func (n *nonSymNode) applyLeaf(x, y *mat.Dense) {
	_, cols := x.Dims()
	xb := rowBlock(x, n.nStart, n.nSize)
	contrib := mat.NewDense(n.nSize, cols, nil)
	contrib.Mul(n.K, xb)
	addRowBlock(y, n.nStart, contrib)
}

func (n *nonSymNode) applyNonLeaf(x, y *mat.Dense) {
	s0, c0 := n.cStart[0], n.cSize[0]
	s1, c1 := n.cStart[1], n.cSize[1]
	_, cols := x.Dims()

	if n.rank[0] > 0 {
		x1 := rowBlock(x, s1, c1)
		t := mat.NewDense(n.rank[0], cols, nil)
		t.Mul(n.V[0].T(), x1)
		contrib := mat.NewDense(c0, cols, nil)
		contrib.Mul(n.U[0], t)
		addRowBlock(y, s0, contrib)
	}
	if n.rank[1] > 0 {
		x0 := rowBlock(x, s0, c0)
		t := mat.NewDense(n.rank[1], cols, nil)
		t.Mul(n.V[1].T(), x0)
		contrib := mat.NewDense(c1, cols, nil)
		contrib.Mul(n.U[1], t)
		addRowBlock(y, s1, contrib)
	}
}

func (n *nonSymNode) initFactor() {
	n.UFactor[0] = mat.DenseCopyOf(n.U[0])
	n.UFactor[1] = mat.DenseCopyOf(n.U[1])
	n.VFactor[0] = mat.DenseCopyOf(n.V[0])
	n.VFactor[1] = mat.DenseCopyOf(n.V[1])
	n.K = identity(n.rank[0] + n.rank[1])
}

func (n *nonSymNode) factorizeSelf() error {
	if n.leaf {
		f, err := newLUFactorOp(n.K)
		if err != nil {
			return err
		}
		n.factor = f
		return nil
	}

	r0, r1 := n.rank[0], n.rank[1]
	if r0 > 0 || r1 > 0 {
		// K's off-diagonal blocks couple the two child ranges. The pairing
		// below (V0 with U1 in the top-right block, V1 with U0 in the
		// bottom-left) is the one that falls out of eliminating the 2×2
		// block system
		//   x0 + U0 V0ᵀ x1 = b0
		//   U1 V1ᵀ x0 + x1 = b1
		// down to a (r0+r1)-sized system in z0 = V0ᵀx1, z1 = V1ᵀx0 — see
		// applyInverse below for the rest of the derivation.
		top := new(mat.Dense)
		top.Mul(n.VFactor[0].T(), n.UFactor[1])
		bot := new(mat.Dense)
		bot.Mul(n.VFactor[1].T(), n.UFactor[0])
		for i := 0; i < r0; i++ {
			for j := 0; j < r1; j++ {
				n.K.Set(i, r0+j, top.At(i, j))
			}
		}
		for i := 0; i < r1; i++ {
			for j := 0; j < r0; j++ {
				n.K.Set(r0+i, j, bot.At(i, j))
			}
		}
	}
	f, err := newLUFactorOp(n.K)
	if err != nil {
		return err
	}
	n.factor = f
	return nil
}

func (n *nonSymNode) workingBasis(slot int) *mat.Dense {
	return n.UFactor[slot]
}

func (n *nonSymNode) orthonormalize() {}

func (n *nonSymNode) applyInverse(b *mat.Dense) *mat.Dense {
	if n.leaf {
		_, cols := b.Dims()
		dst := mat.NewDense(n.nSize, cols, nil)
		n.factor.solveTo(dst, b)
		return dst
	}

	n0, n1 := n.cSize[0], n.cSize[1]
	r0, r1 := n.rank[0], n.rank[1]
	_, cols := b.Dims()

	b0 := rowBlock(b, 0, n0)
	b1 := rowBlock(b, n0, n1)

	z0rhs := mat.NewDense(r0, cols, nil)
	z0rhs.Mul(n.VFactor[0].T(), b1)
	z1rhs := mat.NewDense(r1, cols, nil)
	z1rhs.Mul(n.VFactor[1].T(), b0)

	t := mat.NewDense(r0+r1, cols, nil)
	setRowBlock(t, 0, z0rhs)
	setRowBlock(t, r0, z1rhs)

	z := mat.NewDense(r0+r1, cols, nil)
	n.factor.solveTo(z, t)

	z0 := rowBlock(z, 0, r0)
	z1 := rowBlock(z, r0, r1)

	x0 := mat.NewDense(n0, cols, nil)
	x0.Mul(n.UFactor[0], z0)
	x0.Sub(b0, x0)

	x1 := mat.NewDense(n1, cols, nil)
	x1.Mul(n.UFactor[1], z1)
	x1.Sub(b1, x1)

	x := mat.NewDense(n0+n1, cols, nil)
	setRowBlock(x, 0, x0)
	setRowBlock(x, n0, x1)
	return x
}

func (n *nonSymNode) logDetContribution() float64 {
	if n.factor == nil {
		return 0
	}
	return n.factor.diagLogSum()
}
