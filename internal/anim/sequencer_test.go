// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package anim

import (
	"fmt"
	randv1 "math/rand"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/layout"
	"github.com/cockroachdb/bstviz/internal/treesteps"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/metamorphic"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

func formatStep(s *Sequencer, step Step) string {
	if step.Node == bst.NoNode {
		return fmt.Sprintf("%s: %s", step.Kind, step.Message)
	}
	return fmt.Sprintf("%s %d: %s", step.Kind, s.Tree().Value(step.Node), step.Message)
}

// load inserts the values, draining every animation, and clears the flags.
func load(t testing.TB, s *Sequencer, vals ...int) {
	for _, v := range vals {
		require.NotNil(t, s.Run(InsertCommand(v)))
	}
	require.True(t, s.ClearHighlights())
}

func TestSequencerDatadriven(t *testing.T) {
	s := New(Config{StepDelay: time.Millisecond})
	datadriven.RunTest(t, "testdata/sequencer", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "load":
			var vals []int
			for _, f := range strings.Fields(td.Input) {
				var v int
				_, err := fmt.Sscan(f, &v)
				require.NoError(t, err)
				vals = append(vals, v)
			}
			load(t, s, vals...)
			return s.Snapshot().TreeString()

		case "run":
			cmd, err := ParseCommand(td.Input)
			require.NoError(t, err)
			steps := s.Run(cmd)
			if steps == nil {
				return "rejected"
			}
			var buf strings.Builder
			for _, step := range steps {
				fmt.Fprintf(&buf, "%s\n", formatStep(s, step))
			}
			buf.WriteString(steps[len(steps)-1].Frame.TreeString())
			return buf.String()

		case "clear-highlights":
			require.True(t, s.ClearHighlights())
			return s.Snapshot().TreeString()

		case "clear-tree":
			require.True(t, s.ClearTree())
			return s.Snapshot().TreeString()

		case "log":
			return strings.Join(s.Log(), "\n")

		default:
			td.Fatalf(t, "unknown command %q", td.Cmd)
			return ""
		}
	})
}

func exampleSequencer(t testing.TB) *Sequencer {
	s := New(Config{StepDelay: 250 * time.Millisecond})
	load(t, s, 50, 30, 70, 20, 40, 60, 80)
	return s
}

func TestTraversalOrders(t *testing.T) {
	s := exampleSequencer(t)
	expected := map[bst.Order]string{
		bst.Inorder:   "20, 30, 40, 50, 60, 70, 80",
		bst.Preorder:  "50, 30, 20, 40, 70, 60, 80",
		bst.Postorder: "20, 40, 30, 60, 80, 70, 50",
	}
	for order, vals := range expected {
		steps := s.Run(TraverseCommand(order))
		require.Len(t, steps, 9)
		last := steps[len(steps)-1]
		require.Equal(t, StepDone, last.Kind)
		require.Equal(t, fmt.Sprintf("%s traversal: %s", order.Title(), vals), last.Message)

		var visited []string
		for _, step := range steps {
			if step.Kind == StepVisit {
				visited = append(visited, fmt.Sprint(s.Tree().Value(step.Node)))
			}
		}
		require.Equal(t, vals, strings.Join(visited, ", "))
	}
}

func TestDuplicateInsert(t *testing.T) {
	s := exampleSequencer(t)
	before := s.Snapshot()
	steps := s.Run(InsertCommand(30))
	require.Equal(t, StepDuplicate, steps[len(steps)-1].Kind)
	require.Equal(t, 7, s.Tree().Len())
	require.Contains(t, s.Log()[len(s.Log())-1], "already exists")
	after := s.Snapshot()
	require.Equal(t, before.Nodes[0].Pos, after.Nodes[0].Pos)
	for i := range before.Nodes {
		require.Equal(t, before.Nodes[i].Value, after.Nodes[i].Value)
		require.Equal(t, before.Nodes[i].Left, after.Nodes[i].Left)
		require.Equal(t, before.Nodes[i].Right, after.Nodes[i].Right)
	}
}

func TestSearchPaths(t *testing.T) {
	s := exampleSequencer(t)
	visits := func(steps []Step) []int {
		var res []int
		for _, step := range steps {
			if step.Kind == StepVisit {
				res = append(res, s.Tree().Value(step.Node))
			}
		}
		return res
	}

	steps := s.Run(SearchCommand(60))
	require.Equal(t, []int{50, 70, 60}, visits(steps))
	final := steps[len(steps)-1]
	require.Equal(t, StepFound, final.Kind)
	require.Equal(t, []int{60}, final.Frame.WithFlags(bst.SearchResult))
	n, ok := final.Frame.Node(60)
	require.True(t, ok)
	require.True(t, n.Flags.Has(bst.Visited|bst.SearchResult))

	require.True(t, s.ClearHighlights())
	steps = s.Run(SearchCommand(65))
	require.Equal(t, []int{50, 70, 60}, visits(steps))
	final = steps[len(steps)-1]
	require.Equal(t, StepNotFound, final.Kind)
	require.Empty(t, final.Frame.WithFlags(bst.SearchResult))
	require.Equal(t, "65 not found: 60 has no right child", final.Message)
}

func TestBusyGate(t *testing.T) {
	s := exampleSequencer(t)
	require.Equal(t, Completed, s.State())
	require.True(t, s.Start(TraverseCommand(bst.Inorder)))
	require.True(t, s.Busy())
	step, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, StepStart, step.Kind)
	step, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, StepVisit, step.Kind)

	snap := s.Snapshot()
	logBefore := s.Log()

	// Every command is ignored while the traversal runs.
	require.False(t, s.Start(TraverseCommand(bst.Preorder)))
	require.False(t, s.Start(SearchCommand(60)))
	require.False(t, s.Start(InsertCommand(65)))
	require.False(t, s.ClearHighlights())
	require.False(t, s.ClearTree())

	after := s.Snapshot()
	require.Equal(t, snap.Fingerprint(), after.Fingerprint())
	require.Equal(t, snap.Version, after.Version)
	require.Equal(t, logBefore, s.Log())
	require.Equal(t, TraverseCommand(bst.Inorder), s.Command())
	require.Equal(t, 7, s.Tree().Len())

	var rest []Step
	for step := range s.Steps() {
		rest = append(rest, step)
	}
	require.Len(t, rest, 7)
	require.Equal(t, StepDone, rest[len(rest)-1].Kind)
	require.Equal(t, Completed, s.State())
	_, ok = s.Next()
	require.False(t, ok)

	// The gate opens again once the traversal completed.
	require.True(t, s.Start(SearchCommand(60)))
}

func TestStepFrames(t *testing.T) {
	s := exampleSequencer(t)
	prev := s.Snapshot().Version
	steps := s.Run(InsertCommand(65))
	require.Len(t, steps, 5)
	for i, step := range steps {
		require.Equal(t, 250*time.Millisecond, step.Pause)
		require.Greater(t, step.Frame.Version, prev)
		prev = step.Frame.Version

		highlighted := step.Frame.WithFlags(bst.Highlighted)
		switch {
		case step.Kind == StepVisit:
			require.Equal(t, []int{s.Tree().Value(step.Node)}, highlighted)
		default:
			require.Empty(t, highlighted, "step %d", i)
		}
		require.Equal(t, step.Message, step.Frame.Log[len(step.Frame.Log)-1])
		require.Equal(t, step.Final(), i == len(steps)-1)
	}

	// Only the final frame contains the new node, and it is laid out.
	require.Len(t, steps[3].Frame.Nodes, 7)
	final := steps[4].Frame
	require.Len(t, final.Nodes, 8)
	require.Equal(t, Completed, final.State)
	n, ok := final.Node(65)
	require.True(t, ok)
	p, ok := final.Node(60)
	require.True(t, ok)
	require.Equal(t, n.ID, p.Right)
	require.Greater(t, n.Pos.X, p.Pos.X)
	require.Greater(t, n.Pos.Y, p.Pos.Y)
	require.Equal(t, []int{50, 70, 60, 65}, final.WithFlags(bst.Visited))
	require.NoError(t, layout.CheckNoOverlap(s.Tree(), s.Positions(), layout.DefaultNodeRadius))
}

func TestClearHighlightsKeepsTree(t *testing.T) {
	s := exampleSequencer(t)
	s.Run(SearchCommand(80))
	before := s.Snapshot()
	require.NotEmpty(t, before.WithFlags(bst.Visited))
	require.True(t, s.ClearHighlights())
	after := s.Snapshot()
	require.Equal(t, before.Log, after.Log)
	for i := range after.Nodes {
		require.Equal(t, bst.Flags(0), after.Nodes[i].Flags)
		b := before.Nodes[i]
		b.Flags = 0
		if diff := pretty.Diff(b, after.Nodes[i]); diff != nil {
			t.Fatalf("node %d changed: %v", i, diff)
		}
	}
}

func TestClearTree(t *testing.T) {
	s := exampleSequencer(t)
	require.True(t, s.ClearTree())
	snap := s.Snapshot()
	require.True(t, snap.Empty())
	require.Empty(t, snap.Log)
	require.Equal(t, Idle, snap.State)
	require.Equal(t, bst.NoNode, snap.Root)
	require.Nil(t, s.Run(SearchCommand(1)))
	require.Nil(t, s.Run(TraverseCommand(bst.Inorder)))
	require.NotNil(t, s.Run(InsertCommand(1)))
}

func TestLogRing(t *testing.T) {
	l := MakeLog(3)
	require.Equal(t, "", l.Last())
	require.Empty(t, l.Entries())
	for i := 1; i <= 5; i++ {
		l.Add(fmt.Sprint(i))
	}
	require.Equal(t, 3, l.Len())
	require.Equal(t, 3, l.Cap())
	require.Equal(t, []string{"3", "4", "5"}, l.Entries())
	require.Equal(t, "5", l.Last())
	l.Reset()
	require.Equal(t, 0, l.Len())
	l.Add("x")
	require.Equal(t, []string{"x"}, l.Entries())
	require.Panics(t, func() { MakeLog(0) })
}

func TestParseCommand(t *testing.T) {
	for in, want := range map[string]Command{
		"insert 5":            InsertCommand(5),
		"search -3":           SearchCommand(-3),
		"traverse postorder":  TraverseCommand(bst.Postorder),
		"  traverse  inorder": TraverseCommand(bst.Inorder),
	} {
		got, err := ParseCommand(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	for _, in := range []string{"", "insert", "insert x", "search 1 2", "traverse up", "delete 4"} {
		_, err := ParseCommand(in)
		require.Error(t, err, "%q", in)
	}
	require.Equal(t, "insert(5)", InsertCommand(5).String())
	require.Equal(t, "traverse(preorder)", TraverseCommand(bst.Preorder).String())
}

// TestRandomAnimations runs random animated commands and checks them against
// the plain tree operations on a shadow tree.
func TestSnapshotTreeSteps(t *testing.T) {
	s := New(Config{})
	require.Equal(t, "tree v0\n └── state: idle\n", treesteps.TreeToString(s.Snapshot()))

	require.Len(t, s.Run(InsertCommand(50)), 2)
	require.Len(t, s.Run(InsertCommand(30)), 3)
	require.Equal(t, `tree v5
 ├── state: completed
 └── 50
      ├── pos: (400.0, 40.0)
      ├── flags: visited
      └── L 30
           ├── pos: (352.0, 104.0)
           └── flags: visited
`, treesteps.TreeToString(s.Snapshot()))

	// Recording the frames of an animation captures every step.
	require.True(t, s.Start(SearchCommand(30)))
	rec := treesteps.StartRecording(s.Snapshot(), "search(30)")
	for step := range s.Steps() {
		rec.Stepf(step.Frame, "%s", step.Message)
	}
	steps := rec.Finish()
	require.Len(t, steps.Steps, 5)
	require.Equal(t, "Found 30", steps.Steps[4].Name)
	require.Contains(t, steps.String(), "flags: visited,result")
}

func TestRandomAnimations(t *testing.T) {
	seed := uint64(rand.Int64())
	t.Logf("seed: %d", seed)
	rng := rand.New(rand.NewPCG(0, seed))

	s := New(Config{StepDelay: time.Nanosecond, LogCapacity: 4})
	shadow := bst.New()
	randValue := func() int { return rng.IntN(100) }

	checkSteps := func(steps []Step) {
		for i, step := range steps {
			require.LessOrEqual(t, len(step.Frame.WithFlags(bst.Highlighted)), 1)
			require.LessOrEqual(t, len(step.Frame.Log), 4)
			require.Equal(t, i == len(steps)-1, step.Final())
		}
		require.Empty(t, steps[len(steps)-1].Frame.WithFlags(bst.Highlighted))
	}
	pathOf := func(steps []Step) []int {
		res := []int{}
		for _, step := range steps {
			if step.Kind == StepVisit {
				res = append(res, s.Tree().Value(step.Node))
			}
		}
		return res
	}

	nextOp := metamorphic.Weighted[func()]{
		{Weight: 4, Item: func() {
			v := randValue()
			path := shadow.Values(shadow.Path(v))
			_, res := shadow.Insert(v)
			steps := s.Run(InsertCommand(v))
			checkSteps(steps)
			require.Equal(t, path, pathOf(steps))
			final := steps[len(steps)-1]
			if res == bst.Duplicate {
				require.Equal(t, StepDuplicate, final.Kind)
			} else {
				require.Equal(t, StepInserted, final.Kind)
			}
			require.True(t, bst.Equal(shadow, s.Tree()))
		}},
		{Weight: 3, Item: func() {
			v := randValue()
			steps := s.Run(SearchCommand(v))
			if shadow.Empty() {
				require.Nil(t, steps)
				return
			}
			checkSteps(steps)
			require.Equal(t, shadow.Values(shadow.Path(v)), pathOf(steps))
			_, found := shadow.Search(v)
			require.Equal(t, found, steps[len(steps)-1].Kind == StepFound)
		}},
		{Weight: 1, Item: func() {
			order := bst.Orders[rng.IntN(len(bst.Orders))]
			steps := s.Run(TraverseCommand(order))
			if shadow.Empty() {
				require.Nil(t, steps)
				return
			}
			checkSteps(steps)
			require.Equal(t, shadow.Values(shadow.Traverse(order)), pathOf(steps))
		}},
		{Weight: 1, Item: func() {
			require.True(t, s.ClearHighlights())
			require.Zero(t, len(s.Snapshot().WithFlags(bst.Visited)))
		}},
	}.RandomDeck(randv1.New(randv1.NewSource(rng.Int64())))

	for i := 0; i < 500; i++ {
		nextOp()()
	}
	require.NoError(t, s.Tree().CheckOrder())
	require.NoError(t, layout.CheckOrder(s.Tree(), s.Positions()))
}
