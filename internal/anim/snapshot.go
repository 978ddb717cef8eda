// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package anim

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/layout"
	"github.com/cockroachdb/bstviz/internal/treesteps"
)

// NodeState is the state of a node in a Snapshot.
type NodeState struct {
	ID    bst.NodeID
	Value int
	Left  bst.NodeID
	Right bst.NodeID
	Pos   layout.Point
	Flags bst.Flags
}

// Snapshot is an immutable copy of everything a presentation layer needs to
// draw the tree: keys, shape, coordinates, flags and the log. Snapshots are
// safe to share between goroutines.
type Snapshot struct {
	// Version increases every time the sequencer changes anything visible.
	Version uint64
	State   State
	// Root is NoNode for an empty tree.
	Root bst.NodeID
	// Nodes is indexed by NodeID.
	Nodes []NodeState
	// Log holds the log messages, oldest first.
	Log []string
}

// Empty returns true if the tree is empty.
func (s *Snapshot) Empty() bool {
	return len(s.Nodes) == 0
}

// Node returns the node holding v, if any.
func (s *Snapshot) Node(v int) (NodeState, bool) {
	id := s.Root
	for id != bst.NoNode {
		n := s.Nodes[id]
		switch bst.Compare(v, n.Value) {
		case bst.Match:
			return n, true
		case bst.Left:
			id = n.Left
		default:
			id = n.Right
		}
	}
	return NodeState{}, false
}

// WithFlags returns the keys of the nodes having all the given flags, in
// creation order.
func (s *Snapshot) WithFlags(f bst.Flags) []int {
	var res []int
	for i := range s.Nodes {
		if s.Nodes[i].Flags.Has(f) {
			res = append(res, s.Nodes[i].Value)
		}
	}
	return res
}

// Fingerprint hashes the shape, keys and flags of the tree. Two snapshots of
// the same tree in the same state have the same fingerprint regardless of
// their versions and logs.
func (s *Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for i := range s.Nodes {
		n := &s.Nodes[i]
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(n.Value)))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:4], uint32(n.Left))
		binary.LittleEndian.PutUint32(buf[4:], uint32(n.Right))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte{byte(n.Flags)})
	}
	return h.Sum64()
}

// TreeString renders the tree with the flags of every flagged node.
func (s *Snapshot) TreeString() string {
	if s.Empty() {
		return "<empty>"
	}
	var buf strings.Builder
	var walk func(id bst.NodeID, indent int, prefix string)
	walk = func(id bst.NodeID, indent int, prefix string) {
		if id == bst.NoNode {
			return
		}
		n := &s.Nodes[id]
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s%s%d", strings.Repeat("  ", indent), prefix, n.Value)
		if n.Flags != 0 {
			fmt.Fprintf(&buf, " [%s]", n.Flags)
		}
		walk(n.Left, indent+1, "L ")
		walk(n.Right, indent+1, "R ")
	}
	walk(s.Root, 0, "")
	return buf.String()
}

// String renders the tree followed by the log, one message per line prefixed
// by "> ".
func (s *Snapshot) String() string {
	var buf strings.Builder
	buf.WriteString(s.TreeString())
	for _, msg := range s.Log {
		fmt.Fprintf(&buf, "\n> %s", msg)
	}
	return buf.String()
}

var _ treesteps.Node = (*Snapshot)(nil)

// TreeStepsNode implements the treesteps.Node interface. The snapshot is the
// root of the hierarchy; its only child is the root of the tree.
func (s *Snapshot) TreeStepsNode() treesteps.NodeInfo {
	info := treesteps.NodeInfof("tree v%d", s.Version)
	info.AddPropf("state", "%s", s.State)
	if !s.Empty() {
		info.AddChildren(snapshotNode{s: s, id: s.Root})
	}
	return info
}

type snapshotNode struct {
	s      *Snapshot
	id     bst.NodeID
	prefix string
}

// TreeStepsNode implements the treesteps.Node interface.
func (n snapshotNode) TreeStepsNode() treesteps.NodeInfo {
	ns := &n.s.Nodes[n.id]
	info := treesteps.NodeInfof("%s%d", n.prefix, ns.Value)
	info.AddPropf("pos", "%s", ns.Pos)
	if ns.Flags != 0 {
		info.AddPropf("flags", "%s", ns.Flags)
	}
	if ns.Left != bst.NoNode {
		info.AddChildren(snapshotNode{s: n.s, id: ns.Left, prefix: "L "})
	}
	if ns.Right != bst.NoNode {
		info.AddChildren(snapshotNode{s: n.s, id: ns.Right, prefix: "R "})
	}
	return info
}
