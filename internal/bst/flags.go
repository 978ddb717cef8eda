// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bst

import (
	"strings"

	"github.com/cockroachdb/swiss"
)

// Flags is the set of transient presentation flags of a node.
type Flags uint8

const (
	// Highlighted marks the node an animation is currently looking at.
	Highlighted Flags = 1 << iota
	// Visited marks nodes an animation has already passed through.
	Visited
	// SearchResult marks the node a search ended on.
	SearchResult
)

// Has returns true if all the flags in x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	if f.Has(Highlighted) {
		parts = append(parts, "highlighted")
	}
	if f.Has(Visited) {
		parts = append(parts, "visited")
	}
	if f.Has(SearchResult) {
		parts = append(parts, "result")
	}
	return strings.Join(parts, ",")
}

// FlagMap stores the transient flags of the nodes of a tree, keeping them off
// the tree itself. Nodes without any flag set have no entry. The zero value is
// ready for use.
type FlagMap struct {
	m       swiss.Map[NodeID, Flags]
	initted bool
}

func (fm *FlagMap) maybeInit() {
	if !fm.initted {
		fm.m.Init(16)
		fm.initted = true
	}
}

// Get returns the flags of a node.
func (fm *FlagMap) Get(id NodeID) Flags {
	if !fm.initted {
		return 0
	}
	f, _ := fm.m.Get(id)
	return f
}

// Set sets the given flags on a node, leaving the others untouched.
func (fm *FlagMap) Set(id NodeID, f Flags) {
	fm.put(id, fm.Get(id)|f)
}

// Unset unsets the given flags on a node, leaving the others untouched.
func (fm *FlagMap) Unset(id NodeID, f Flags) {
	fm.put(id, fm.Get(id)&^f)
}

// Clear unsets all flags on a node.
func (fm *FlagMap) Clear(id NodeID) {
	fm.put(id, 0)
}

func (fm *FlagMap) put(id NodeID, f Flags) {
	fm.maybeInit()
	if f == 0 {
		fm.m.Delete(id)
		return
	}
	fm.m.Put(id, f)
}

// ClearSubtree unsets all flags on every node of the subtree rooted at id.
func (fm *FlagMap) ClearSubtree(t *Tree, id NodeID) {
	if id == NoNode || fm.Len() == 0 {
		return
	}
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fm.Clear(n)
		if l := t.Left(n); l != NoNode {
			stack = append(stack, l)
		}
		if r := t.Right(n); r != NoNode {
			stack = append(stack, r)
		}
	}
}

// Reset unsets all flags on all nodes.
func (fm *FlagMap) Reset() {
	fm.m.Init(16)
	fm.initted = true
}

// Len returns the number of nodes that have at least one flag set.
func (fm *FlagMap) Len() int {
	if !fm.initted {
		return 0
	}
	return fm.m.Len()
}
