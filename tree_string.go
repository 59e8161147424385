// Copyright ©2024 The HODLR Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hodlr

import (
	"fmt"
	"strings"
)

// String returns a human-readable dump of one node's geometry, rank and
// leaf/non-leaf status, one line per node.
func (g *geom) String() string {
	if g.leaf {
		return fmt.Sprintf("level %d node %d: leaf range [%d, %d)", g.level, g.index, g.nStart, g.nStart+g.nSize)
	}
	return fmt.Sprintf("level %d node %d: range [%d, %d), children [%d,%d)+[%d,%d), rank (%d, %d)",
		g.level, g.index, g.nStart, g.nStart+g.nSize,
		g.cStart[0], g.cStart[0]+g.cSize[0], g.cStart[1], g.cStart[1]+g.cSize[1],
		g.rank[0], g.rank[1])
}

// String returns a level-by-level dump of every node in the tree, mirroring
// the structure (though not the exact text) of the original source's
// console-based tree printer.
func (t *Tree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HODLR tree: N=%d levels=%d sym=%t\n", t.n, t.levels, t.isSym)
	for j := 0; j <= t.levels; j++ {
		for k := range t.geoms[j] {
			// Ranks are recorded on each node's own copy of its geom at
			// Assemble time, so prefer that copy once it exists.
			g := &t.geoms[j][k]
			if t.nodes[j] != nil {
				g = t.nodes[j][k].g()
			}
			fmt.Fprintln(&b, g.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
