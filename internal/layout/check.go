// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package layout

import (
	"math"
	"slices"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/errors"
)

// CheckOrder verifies that every left child lies strictly left of its parent,
// every right child strictly right of it, and that every child lies exactly
// one level step below its parent.
func CheckOrder(t *bst.Tree, pos Positions) error {
	if len(pos) != t.Len() {
		return errors.Newf("layout has %d positions for %d nodes", len(pos), t.Len())
	}
	var levelStep float64
	var err error
	t.All(func(id bst.NodeID) bool {
		p := pos[id]
		for _, c := range []bst.NodeID{t.Left(id), t.Right(id)} {
			if c == bst.NoNode {
				continue
			}
			step := pos[c].Y - p.Y
			if levelStep == 0 {
				levelStep = step
			}
			if step <= 0 || math.Abs(step-levelStep) > 1e-9 {
				err = errors.Newf("node %d at %s is not one level below its parent %d at %s",
					t.Value(c), pos[c], t.Value(id), p)
				return false
			}
		}
		if l := t.Left(id); l != bst.NoNode && !(pos[l].X < p.X) {
			err = errors.Newf("left child %d at %s is not left of %d at %s", t.Value(l), pos[l], t.Value(id), p)
			return false
		}
		if r := t.Right(id); r != bst.NoNode && !(p.X < pos[r].X) {
			err = errors.Newf("right child %d at %s is not right of %d at %s", t.Value(r), pos[r], t.Value(id), p)
			return false
		}
		return true
	})
	return err
}

// CheckNoOverlap verifies that no two nodes, drawn as discs of the given
// radius, overlap.
func CheckNoOverlap(t *bst.Tree, pos Positions, radius float64) error {
	ids := make([]bst.NodeID, len(pos))
	for i := range ids {
		ids[i] = bst.NodeID(i)
	}
	slices.SortFunc(ids, func(a, b bst.NodeID) int {
		switch {
		case pos[a].X < pos[b].X:
			return -1
		case pos[a].X > pos[b].X:
			return 1
		default:
			return 0
		}
	})
	// Sweep in x order; only nodes within one diameter horizontally can
	// overlap.
	diameter := 2 * radius
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if pos[b].X-pos[a].X >= diameter {
				break
			}
			if math.Hypot(pos[b].X-pos[a].X, pos[b].Y-pos[a].Y) < diameter {
				return errors.Newf("nodes %d at %s and %d at %s overlap",
					t.Value(a), pos[a], t.Value(b), pos[b])
			}
		}
	}
	return nil
}
