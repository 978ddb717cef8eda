// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bst implements an unbalanced binary search tree over distinct integer
// keys.
//
// Nodes are stored in an arena and addressed by NodeID. A node is only ever
// appended (there is no deletion) so IDs stay valid for the lifetime of the
// tree and the first inserted node is the root forever. There are no parent
// pointers; code that needs to go back up carries the path explicitly.
//
// Transient presentation state (highlighted, visited, search result) is not
// stored on the nodes; see FlagMap.
package bst

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/bstviz/internal/invariants"
	"github.com/cockroachdb/errors"
)

// NodeID identifies a node within a Tree.
type NodeID int32

// NoNode is the NodeID of an absent node.
const NoNode NodeID = -1

type node struct {
	value int
	left  NodeID
	right NodeID
}

// Tree is an unbalanced binary search tree. The zero value is an empty tree
// ready for use.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	nodes []node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Empty returns true if the tree has no nodes.
func (t *Tree) Empty() bool {
	return len(t.nodes) == 0
}

// Root returns the root of the tree, or NoNode if the tree is empty.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Value returns the key held by the given node.
func (t *Tree) Value(id NodeID) int {
	return t.nodes[id].value
}

// Left returns the left child of the given node, or NoNode.
func (t *Tree) Left(id NodeID) NodeID {
	return t.nodes[id].left
}

// Right returns the right child of the given node, or NoNode.
func (t *Tree) Right(id NodeID) NodeID {
	return t.nodes[id].right
}

// Child returns the child of id in the given direction. The child of Match is
// the node itself.
func (t *Tree) Child(id NodeID, dir Direction) NodeID {
	switch dir {
	case Left:
		return t.nodes[id].left
	case Right:
		return t.nodes[id].right
	default:
		return id
	}
}

// Insert adds v to the tree. If v is already present the tree is left
// unchanged and the existing node is returned along with Duplicate.
func (t *Tree) Insert(v int) (NodeID, InsertResult) {
	w := t.Walk(v)
	return w.Insert()
}

// Search returns the node holding v, if any.
func (t *Tree) Search(v int) (NodeID, bool) {
	w := t.Walk(v)
	w.Finish()
	return w.Found()
}

// Path returns the nodes compared against v by a search for v, in descent
// order.
func (t *Tree) Path(v int) []NodeID {
	var path []NodeID
	w := t.Walk(v)
	for {
		id, _, ok := w.Step()
		if !ok {
			return path
		}
		path = append(path, id)
	}
}

// Height returns the number of levels in the tree (0 for an empty tree).
func (t *Tree) Height() int {
	return len(t.LevelWidths())
}

// LevelWidths returns the number of nodes at every depth, starting with the
// root level.
func (t *Tree) LevelWidths() []int {
	var widths []int
	t.Depths(func(_ NodeID, depth int) {
		if depth == len(widths) {
			widths = append(widths, 0)
		}
		widths[depth]++
	})
	return widths
}

// Depths calls fn for every node with its depth (the root has depth 0). Nodes
// are visited in preorder.
func (t *Tree) Depths(fn func(id NodeID, depth int)) {
	if t.Empty() {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: t.Root()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.id, f.depth)
		if r := t.nodes[f.id].right; r != NoNode {
			stack = append(stack, frame{id: r, depth: f.depth + 1})
		}
		if l := t.nodes[f.id].left; l != NoNode {
			stack = append(stack, frame{id: l, depth: f.depth + 1})
		}
	}
}

// CheckOrder verifies the BST order invariant: every key in a node's left
// subtree is smaller than the node's key and every key in its right subtree is
// larger.
func (t *Tree) CheckOrder() error {
	if t.Empty() {
		return nil
	}
	var check func(id NodeID, lo, hi *int) error
	check = func(id NodeID, lo, hi *int) error {
		if id == NoNode {
			return nil
		}
		n := &t.nodes[id]
		if lo != nil && n.value <= *lo {
			return errors.Newf("node %d (id %d) is not greater than ancestor %d", n.value, id, *lo)
		}
		if hi != nil && n.value >= *hi {
			return errors.Newf("node %d (id %d) is not less than ancestor %d", n.value, id, *hi)
		}
		if err := check(n.left, lo, &n.value); err != nil {
			return err
		}
		return check(n.right, &n.value, hi)
	}
	return check(t.Root(), nil, nil)
}

// Equal returns true if both trees have the same shape and the same key in
// every position.
func Equal(a, b *Tree) bool {
	var eq func(x, y NodeID) bool
	eq = func(x, y NodeID) bool {
		if x == NoNode || y == NoNode {
			return x == y
		}
		return a.nodes[x].value == b.nodes[y].value &&
			eq(a.nodes[x].left, b.nodes[y].left) &&
			eq(a.nodes[x].right, b.nodes[y].right)
	}
	return eq(a.Root(), b.Root())
}

// Clone returns a deep copy of the tree. Node IDs are preserved.
func (t *Tree) Clone() *Tree {
	return &Tree{nodes: append([]node(nil), t.nodes...)}
}

// DebugString returns the tree as an indented list, one node per line. Each
// child is prefixed by L or R.
func (t *Tree) DebugString() string {
	if t.Empty() {
		return "<empty>"
	}
	var buf strings.Builder
	var walk func(id NodeID, indent int, prefix string)
	walk = func(id NodeID, indent int, prefix string) {
		if id == NoNode {
			return
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s%s%d", strings.Repeat("  ", indent), prefix, t.nodes[id].value)
		walk(t.nodes[id].left, indent+1, "L ")
		walk(t.nodes[id].right, indent+1, "R ")
	}
	walk(t.Root(), 0, "")
	return buf.String()
}

func (t *Tree) attach(parent NodeID, dir Direction, v int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{value: v, left: NoNode, right: NoNode})
	switch {
	case parent == NoNode:
		if id != 0 {
			panic(errors.AssertionFailedf("attaching a second root (id %d)", id))
		}
	case dir == Left:
		t.nodes[parent].left = id
	case dir == Right:
		t.nodes[parent].right = id
	default:
		panic(errors.AssertionFailedf("invalid direction %s", dir))
	}
	invariants.Check(t.CheckOrder)
	return id
}
