// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// randomDense fills an m×n matrix with standard-normal entries.
func randomDense(rnd *rand.Rand, m, n int) *mat.Dense {
	d := mat.NewDense(m, n, nil)
	d.Apply(func(_, _ int, _ float64) float64 { return rnd.NormFloat64() }, d)
	return d
}

// relResidual returns ‖got−want‖/‖want‖ in the 2-norm, flattening both
// matrices column-major.
func relResidual(got, want *mat.Dense) float64 {
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		panic("relResidual: shape mismatch")
	}
	a := make([]float64, 0, gr*gc)
	b := make([]float64, 0, gr*gc)
	for j := 0; j < gc; j++ {
		for i := 0; i < gr; i++ {
			a = append(a, got.At(i, j))
			b = append(b, want.At(i, j))
		}
	}
	denom := floats.Norm(b, 2)
	if denom == 0 {
		return floats.Norm(a, 2)
	}
	return floats.Distance(a, b, 2) / denom
}

// cauchyKernel builds the len(x)×len(y) matrix A_ij = 1/(x_i+y_j) for
// positive points x, y. Passing the same points for x and y gives a
// symmetric matrix.
func cauchyKernel(x, y []float64) *mat.Dense {
	n := len(x)
	m := len(y)
	a := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			a.Set(i, j, 1/(x[i]+y[j]))
		}
	}
	return a
}

// sortedPositivePoints returns n distinct positive, increasing values
// spaced to keep a Cauchy kernel well separated (and hence well
// approximated by low rank off the diagonal).
func sortedPositivePoints(n int, scale float64) []float64 {
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = scale * float64(i+1)
	}
	return pts
}
