// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hodlr implements a hierarchically off-diagonal low-rank (HODLR)
// dense linear solver.
//
// A HODLR matrix is an N×N dense matrix whose off-diagonal blocks, at every
// level of a recursive binary partition of [0, N), admit a low-rank
// approximation. Package hodlr builds the binary partition tree, assembles
// it against a caller-supplied matrix oracle, factorizes it in place into a
// product of block-diagonal factors, and uses that factorization to solve
// linear systems, apply the matrix to a dense right-hand side, and compute
// the log-determinant — all without ever materializing the full N×N matrix.
//
// The package does not implement a low-rank compressor or dense linear
// algebra primitives; both are external collaborators. The [Oracle]
// interface supplies the former, and gonum.org/v1/gonum/mat supplies the
// latter.
package hodlr
