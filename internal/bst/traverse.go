// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bst

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Order is a depth-first traversal order.
type Order int8

const (
	// Inorder visits the left subtree, the node, then the right subtree.
	Inorder Order = iota
	// Preorder visits the node, the left subtree, then the right subtree.
	Preorder
	// Postorder visits the left subtree, the right subtree, then the node.
	Postorder
)

// Orders lists every traversal order.
var Orders = []Order{Inorder, Preorder, Postorder}

func (o Order) String() string {
	switch o {
	case Inorder:
		return "inorder"
	case Preorder:
		return "preorder"
	case Postorder:
		return "postorder"
	default:
		return "unknown"
	}
}

// Title returns the capitalized name of the order, for log messages.
func (o Order) Title() string {
	switch o {
	case Inorder:
		return "Inorder"
	case Preorder:
		return "Preorder"
	case Postorder:
		return "Postorder"
	default:
		return "Unknown"
	}
}

// ParseOrder parses the name of a traversal order. Matching is
// case-insensitive and accepts an optional hyphen ("in-order").
func ParseOrder(s string) (Order, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	for _, o := range Orders {
		if norm == o.String() {
			return o, nil
		}
	}
	return 0, errors.Newf("unknown traversal order %q", s)
}

// Traverse returns the nodes of the tree in the given order.
func (t *Tree) Traverse(order Order) []NodeID {
	ids := make([]NodeID, 0, t.Len())
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if id == NoNode {
			return
		}
		n := &t.nodes[id]
		switch order {
		case Preorder:
			ids = append(ids, id)
			visit(n.left)
			visit(n.right)
		case Inorder:
			visit(n.left)
			ids = append(ids, id)
			visit(n.right)
		case Postorder:
			visit(n.left)
			visit(n.right)
			ids = append(ids, id)
		default:
			panic(errors.AssertionFailedf("unknown order %d", order))
		}
	}
	visit(t.Root())
	return ids
}

// Values returns the keys of the given nodes.
func (t *Tree) Values(ids []NodeID) []int {
	vals := make([]int, len(ids))
	for i, id := range ids {
		vals[i] = t.nodes[id].value
	}
	return vals
}

// All calls fn for every node in the tree, in creation order, until fn
// returns false. The order does not match any traversal order.
func (t *Tree) All(fn func(id NodeID) bool) {
	for i := range t.nodes {
		if !fn(NodeID(i)) {
			return
		}
	}
}
