// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ascii

import (
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/bstviz/internal/anim"
	"github.com/cockroachdb/bstviz/internal/bst"
)

// Label returns the text drawn for a node: the highlighted node is shown as
// [v], a search result as *v* and a visited node as (v).
func Label(v int, f bst.Flags) string {
	s := strconv.Itoa(v)
	switch {
	case f.Has(bst.Highlighted):
		return "[" + s + "]"
	case f.Has(bst.SearchResult):
		return "*" + s + "*"
	case f.Has(bst.Visited):
		return "(" + s + ")"
	default:
		return s
	}
}

// DrawTree draws the tree of a snapshot. Nodes are drawn on every other row,
// one row per depth, with their horizontal order and relative spacing taken
// from the layout; the rows in between hold the edges. Labels never touch:
// columns are scaled so that the narrowest gap between two nodes fits the
// widest label plus a space.
func DrawTree(snap *anim.Snapshot) string {
	if snap.Empty() {
		return "<empty>"
	}
	labels := make([]string, len(snap.Nodes))
	width := 0
	for i := range snap.Nodes {
		labels[i] = Label(snap.Nodes[i].Value, snap.Nodes[i].Flags)
		width = max(width, utf8.RuneCountInString(labels[i]))
	}

	byX := make([]bst.NodeID, len(snap.Nodes))
	for i := range byX {
		byX[i] = bst.NodeID(i)
	}
	slices.SortFunc(byX, func(a, b bst.NodeID) int {
		xa, xb := snap.Nodes[a].Pos.X, snap.Nodes[b].Pos.X
		switch {
		case xa < xb:
			return -1
		case xa > xb:
			return 1
		default:
			return 0
		}
	})
	minX := snap.Nodes[byX[0]].Pos.X
	scale := 1.0
	if len(byX) > 1 {
		gap := math.Inf(1)
		for i := 1; i < len(byX); i++ {
			gap = math.Min(gap, snap.Nodes[byX[i]].Pos.X-snap.Nodes[byX[i-1]].Pos.X)
		}
		// Rounding can shrink a gap by one column.
		scale = gap / float64(width+2)
	}
	col := func(id bst.NodeID) int {
		return int(math.Round((snap.Nodes[id].Pos.X - minX) / scale))
	}
	center := func(id bst.NodeID) int {
		return col(id) + width/2
	}

	b := Make(col(byX[len(byX)-1])+width, 8)
	var draw func(id bst.NodeID, depth int)
	draw = func(id bst.NodeID, depth int) {
		n := &snap.Nodes[id]
		pad := (width - utf8.RuneCountInString(labels[id])) / 2
		b.At(2*depth, col(id)+pad).WriteString(labels[id])
		if n.Left != bst.NoNode {
			b.At(2*depth+1, (center(id)+center(n.Left))/2).WriteString("/")
			draw(n.Left, depth+1)
		}
		if n.Right != bst.NoNode {
			b.At(2*depth+1, (center(id)+center(n.Right))/2).WriteString(`\`)
			draw(n.Right, depth+1)
		}
	}
	draw(snap.Root, 0)
	return b.String()
}

// DrawFrame draws the tree of a snapshot followed by its log, one message per
// line prefixed by "> ".
func DrawFrame(snap *anim.Snapshot) string {
	b := Make(40, 16)
	cur := b.At(0, 0).WriteString(DrawTree(snap))
	if len(snap.Log) > 0 {
		cur = cur.NewlineReturn()
	}
	for _, msg := range snap.Log {
		cur = cur.NewlineReturn().Printf("> %s", msg)
	}
	return b.String()
}
