// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/bstviz"
	"github.com/cockroachdb/bstviz/internal/base"
	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/compression"
	"github.com/cockroachdb/bstviz/internal/layout"
	"github.com/cockroachdb/bstviz/internal/treesteps"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		line     string
		expected []string
	}{
		{"insert 50", []string{"insert 50"}},
		{"insert 50 30 70", []string{"insert 50", "insert 30", "insert 70"}},
		{"search 1, 2", []string{"search 1", "search 2"}},
		{"traverse inorder", []string{"traverse inorder"}},
		{"insert", []string{"insert"}},
		{"insert 5 x", []string{"insert 5 x"}},
		{"clear", []string{"clear"}},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, expand(tc.line), "%q", tc.line)
	}
}

const testScript = `
# build a small tree
insert 50 30 70
search 30
search 99
traverse inorder
bogus
clear-highlights
`

func TestPlay(t *testing.T) {
	var out, recording bytes.Buffer
	logger := &base.InMemLogger{}
	p := &player{
		out: &out,
		opts: &bstviz.Options{
			Pacer:  bstviz.NoPacer{},
			Logger: logger,
		},
		alg:          compression.Snappy,
		recordTo:     &recording,
		printMetrics: true,
		interval:     time.Millisecond,
	}
	require.NoError(t, p.play(context.Background(), strings.NewReader(testScript)))

	s := out.String()
	// The last frame is drawn after the script is done.
	lastFrame := s[strings.LastIndex(s, "--- v"):]
	require.Contains(t, lastFrame, "    50\n   /   \\\n30      70")
	require.Contains(t, lastFrame, "> Inorder traversal: 30, 50, 70")

	require.Contains(t, s, "inserts: 3 inserted, 0 duplicates\n")
	require.Contains(t, s, "searches: 1 found, 1 not found\n")
	require.Contains(t, s, "steps: 21, ignored: 1\n")
	require.Contains(t, s, "tree: 3 nodes, height 2")
	require.Contains(t, s, `bstviz_animations_total{kind="insert"} 3`)
	require.Contains(t, s, "bstviz_step_pause_seconds count=15")
	require.Equal(t, []string{`ignored "bogus": invalid input`}, logger.Lines())

	steps, err := treesteps.Decode(&recording)
	require.NoError(t, err)
	// The initial state, a step per animation step and the cleared highlights.
	require.Len(t, steps.Steps, 23)
	require.Equal(t, "initial", steps.Steps[0].Name)
	require.Equal(t, "Found 30", steps.Steps[12].Name)
	require.Equal(t, "clear-highlights", steps.Steps[22].Name)
}

func TestRecordDeepChain(t *testing.T) {
	var script strings.Builder
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&script, "insert %d\n", i)
	}
	var out, recording bytes.Buffer
	p := &player{
		out: &out,
		opts: &bstviz.Options{
			Pacer:  bstviz.NoPacer{},
			Logger: &base.InMemLogger{},
		},
		alg:      compression.Zstd,
		recordTo: &recording,
		interval: time.Millisecond,
	}
	require.NoError(t, p.play(context.Background(), strings.NewReader(script.String())))

	steps, err := treesteps.Decode(&recording)
	require.NoError(t, err)
	last := steps.Steps[len(steps.Steps)-1]
	require.Equal(t, "Inserted 40 as the right child of 39", last.Name)
	// Every key of the chain is in the last frame, down to the deepest leaf.
	depth := 0
	for n := &last.Root; len(n.Children) > 0; n = &n.Children[len(n.Children)-1] {
		depth++
	}
	require.Equal(t, 40, depth)
	require.NotContains(t, steps.String(), "...")
	require.Contains(t, steps.String(), "R 40")
}

func TestBuildTree(t *testing.T) {
	tr, cfg, err := buildTree([]string{"50,30", "70", "30"})
	require.NoError(t, err)
	require.Equal(t, []int{30, 50, 70}, tr.Values(tr.Traverse(bst.Inorder)))
	require.Equal(t, layout.DefaultConfig(), cfg)

	_, _, err = buildTree([]string{"50", "sixty"})
	require.ErrorContains(t, err, "cannot parse number")
}

func TestLayoutTable(t *testing.T) {
	tr := bst.New()
	for _, v := range []int{50, 30, 70} {
		tr.Insert(v)
	}
	var buf bytes.Buffer
	writeLayout(&buf, tr, layout.Compute(tr, layout.DefaultConfig()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Border, header, border, three rows and border.
	require.Len(t, lines, 7)
	require.Contains(t, lines[1], "VALUE")
	require.Contains(t, lines[3], "352.0")
	require.Contains(t, lines[4], "400.0")
	require.Contains(t, lines[5], "448.0")
}

func TestPlotShape(t *testing.T) {
	require.Equal(t, "<empty>", plotShape(bst.New()))

	tr := bst.New()
	for _, v := range []int{50, 30, 70, 20, 40, 60, 80} {
		tr.Insert(v)
	}
	plot := plotShape(tr)
	require.Contains(t, plot, "nodes per depth (height 3)")
}
