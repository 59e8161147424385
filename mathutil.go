// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "gonum.org/v1/gonum/mat"

// identity returns the n×n identity matrix, used to seed a node's coupling
// matrix K at the start of factorization (§4.4).
func identity(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}

// denseToSym packs the upper triangle of m (assumed symmetric, or close
// enough that only the upper triangle is meaningful, as with I - KᵀK) into
// a *mat.SymDense so it can be handed to mat.Cholesky.
func denseToSym(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, m.At(i, j))
		}
	}
	return s
}
