// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import "fmt"

// LogDeterminant returns log|det A|, computed per §4.6 as the sum of
// log-absolute diagonals of every node's triangular factor, over all levels,
// doubled in the symmetric case to account for the L·Lᵀ factorization.
func (t *Tree) LogDeterminant() (float64, error) {
	if !t.factorized {
		return 0, globalErr(InvalidState, fmt.Errorf("logDeterminant called before factorize"))
	}

	var sum float64
	for j := 0; j <= t.levels; j++ {
		for _, n := range t.nodes[j] {
			sum += n.logDetContribution()
		}
	}
	if t.isSym {
		sum *= 2
	}
	return sum, nil
}
