// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treesteps

import (
	"bytes"
	"math/bits"
	"testing"

	"github.com/cockroachdb/bstviz/internal/compression"
	"github.com/stretchr/testify/require"
)

// SegmentTree implements a segment tree:
// https://en.wikipedia.org/wiki/Segment_tree
//
// It stores values for points in the range [1, Range]. It can efficiently Add
// to the value of a single point.
type SegmentTree struct {
	Range int
	Nodes []SegmentNode
	// rec, if set, captures a step whenever a sum changes.
	rec *Recording
}

// SegmentNode is a node in a segment tree.
type SegmentNode struct {
	Start, End int
	// Index of the node in Tree.Nodes.
	Index int
	// Sum of the values for the range [Start, End].
	Sum  int
	Tree *SegmentTree
}

// NewSegmentTree creates a SegmentTree with the given range.
func NewSegmentTree(xRange int) *SegmentTree {
	size := 1 << (bits.Len32(uint32(xRange-1)) + 1)
	t := &SegmentTree{
		Range: xRange,
		Nodes: make([]SegmentNode, size),
	}
	t.Nodes[0] = SegmentNode{Start: 1, End: xRange, Tree: t}
	for i := range t.Nodes {
		if n := &t.Nodes[i]; n.End > n.Start {
			mid := (n.Start + n.End) / 2
			t.Nodes[2*i+1] = SegmentNode{Start: n.Start, End: mid, Tree: t, Index: 2*i + 1}
			t.Nodes[2*i+2] = SegmentNode{Start: mid + 1, End: n.End, Tree: t, Index: 2*i + 2}
		}
	}
	return t
}

var _ Node = (*SegmentNode)(nil)

// TreeStepsNode implements the Node interface.
func (n *SegmentNode) TreeStepsNode() NodeInfo {
	info := NodeInfof("n%d", n.Index)
	info.AddPropf("range", "[%d, %d]", n.Start, n.End)
	info.AddPropf("sum", "%d", n.Sum)
	if n.Start < n.End {
		info.AddChildren(
			&n.Tree.Nodes[2*n.Index+1],
			&n.Tree.Nodes[2*n.Index+2],
		)
	}
	return info
}

// Root returns the root node of the segment tree.
func (t *SegmentTree) Root() *SegmentNode {
	return &t.Nodes[0]
}

// Add delta to the value for x.
func (t *SegmentTree) Add(x int, delta int) {
	t.add(0, x, delta)
}

func (t *SegmentTree) add(nodeIdx int, x int, delta int) {
	n := &t.Nodes[nodeIdx]
	if x < n.Start || n.End < x {
		return
	}
	if n.Start < n.End {
		t.add(2*nodeIdx+1, x, delta)
		t.add(2*nodeIdx+2, x, delta)
	}
	n.Sum += delta
	if t.rec != nil {
		t.rec.Stepf(t.Root(), "n%d: sum updated", n.Index)
	}
}

func TestTreeToString(t *testing.T) {
	tree := NewSegmentTree(2)
	require.Equal(t, `n0
 ├── range: [1, 2]
 ├── sum: 0
 ├── n1
 │    ├── range: [1, 1]
 │    └── sum: 0
 └── n2
      ├── range: [2, 2]
      └── sum: 0
`, TreeToString(tree.Root()))
}

func TestRecording(t *testing.T) {
	tree := NewSegmentTree(2)
	tree.rec = StartRecording(tree.Root(), "Segment Tree add")
	tree.Add(1, 5)
	require.Equal(t, 3, tree.rec.Len())
	steps := tree.rec.Finish()
	require.Equal(t, "Segment Tree add", steps.Name)

	var names []string
	for _, s := range steps.Steps {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"initial", "n1: sum updated", "n0: sum updated"}, names)

	// Steps capture the state at the time they were recorded.
	require.Equal(t, [2]string{"sum", "0"}, steps.Steps[0].Root.Properties[1])
	require.Equal(t, [2]string{"sum", "0"}, steps.Steps[1].Root.Properties[1])
	require.Equal(t, [2]string{"sum", "5"}, steps.Steps[1].Root.Children[0].Properties[1])
	require.Equal(t, [2]string{"sum", "5"}, steps.Steps[2].Root.Properties[1])

	str := steps.String()
	require.Contains(t, str, "Segment Tree add\nstep 1/3: initial\nn0\n")
	require.Contains(t, str, "step 3/3: n0: sum updated\n")

	// Steps recorded after Finish are dropped.
	tree.Add(2, 1)
	require.Len(t, tree.rec.Finish().Steps, 3)
}

func TestMaxTreeDepth(t *testing.T) {
	tree := NewSegmentTree(4)
	r := StartRecording(tree.Root(), "shallow", MaxTreeDepth(1))
	steps := r.Finish()
	root := steps.Steps[0].Root
	require.Len(t, root.Children, 2)
	require.Equal(t, "n1", root.Children[0].Name)
	require.Equal(t, []TreeNode{{Name: "..."}, {Name: "..."}}, root.Children[0].Children)
}

func TestEmptyRoot(t *testing.T) {
	r := StartRecording(nil, "empty")
	steps := r.Finish()
	require.Len(t, steps.Steps, 1)
	require.Equal(t, "empty\nstep 1/1: initial\n", steps.String())
}

func TestEncodeDecode(t *testing.T) {
	tree := NewSegmentTree(3)
	tree.rec = StartRecording(tree.Root(), "round trip")
	tree.Add(3, 2)
	steps := tree.rec.Finish()

	for _, alg := range []compression.Algorithm{
		compression.NoCompression, compression.Snappy, compression.MinLZ, compression.Zstd,
	} {
		t.Run(alg.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, steps.Encode(&buf, alg))
			require.Equal(t, byte(alg), buf.Bytes()[0])
			decoded, err := Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, steps, decoded)
			require.Equal(t, steps.String(), decoded.String())
		})
	}

	_, err := Decode(bytes.NewReader([]byte("not a recording")))
	require.Error(t, err)
}
