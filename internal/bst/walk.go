// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bst

import "github.com/cockroachdb/errors"

// Direction is the outcome of comparing a key against a node.
type Direction int8

const (
	// Match means the key equals the node's key.
	Match Direction = iota
	// Left means the key is smaller than the node's key.
	Left
	// Right means the key is larger than the node's key.
	Right
)

func (d Direction) String() string {
	switch d {
	case Match:
		return "match"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Compare returns the direction a descent for v takes at a node holding key.
// Comparison is strict: equal keys always match.
func Compare(v, key int) Direction {
	switch {
	case v < key:
		return Left
	case v > key:
		return Right
	default:
		return Match
	}
}

// InsertResult describes the outcome of an insert.
type InsertResult int8

const (
	// Inserted means a new node was created.
	Inserted InsertResult = iota
	// Duplicate means the key was already present and the tree is unchanged.
	Duplicate
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Walker is a descent through the tree looking for a key, one comparison at a
// time. Search, Insert and the animations all descend through a Walker, so
// the path an animation shows is the path the insert takes.
//
// The tree must not be modified while a walk is in progress, other than by
// the walk's own Insert.
type Walker struct {
	t     *Tree
	value int
	// cur is the next node to compare against, or NoNode once the walk fell
	// off the tree.
	cur NodeID
	// parent and dir locate the slot cur came from.
	parent NodeID
	dir    Direction
	found  bool
	done   bool
	// treeLen is the size of the tree when the walk started.
	treeLen int
}

// Walk starts a descent for v at the root of the tree.
func (t *Tree) Walk(v int) Walker {
	return Walker{
		t:       t,
		value:   v,
		cur:     t.Root(),
		parent:  NoNode,
		treeLen: t.Len(),
	}
}

// Value returns the key being looked for.
func (w *Walker) Value() int {
	return w.value
}

// Done returns true once the walk found the key or reached a missing child.
func (w *Walker) Done() bool {
	return w.done || w.cur == NoNode
}

// Step compares the key against the current node and moves to the child the
// comparison selects. It returns the compared node and the decision. ok is
// false if the walk is already over, in which case nothing is compared.
func (w *Walker) Step() (id NodeID, dir Direction, ok bool) {
	if w.Done() {
		w.done = true
		return NoNode, Match, false
	}
	w.checkUnchanged()
	id = w.cur
	dir = Compare(w.value, w.t.nodes[id].value)
	if dir == Match {
		w.found = true
		w.done = true
		return id, dir, true
	}
	w.parent, w.dir = id, dir
	w.cur = w.t.Child(id, dir)
	return id, dir, true
}

// Finish runs the walk to completion.
func (w *Walker) Finish() {
	for {
		if _, _, ok := w.Step(); !ok {
			return
		}
	}
}

// Found returns the node holding the key if the walk found it. It is only
// meaningful once the walk is done.
func (w *Walker) Found() (NodeID, bool) {
	if !w.found {
		return NoNode, false
	}
	return w.cur, true
}

// Slot returns the parent and direction of the missing child the walk stopped
// at. The parent is NoNode when the tree is empty.
func (w *Walker) Slot() (parent NodeID, dir Direction) {
	return w.parent, w.dir
}

// Insert finishes the walk and, unless the key was found, attaches a new leaf
// holding the key at the missing child the walk stopped at.
func (w *Walker) Insert() (NodeID, InsertResult) {
	w.Finish()
	if id, ok := w.Found(); ok {
		return id, Duplicate
	}
	w.checkUnchanged()
	id := w.t.attach(w.parent, w.dir, w.value)
	w.cur = id
	w.found = true
	w.treeLen = w.t.Len()
	return id, Inserted
}

func (w *Walker) checkUnchanged() {
	if w.t.Len() != w.treeLen {
		panic(errors.AssertionFailedf("tree modified during walk for %d", w.value))
	}
}
