// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/layout"
	"github.com/cockroachdb/bstviz/internal/strparse"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <values>",
	Short: "print the coordinates of the nodes of a tree",
	Long: `
Layout inserts the values, in order, into an empty tree and prints the
coordinates of every node.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, cfg, err := buildTree(args)
		if err != nil {
			return err
		}
		writeLayout(cmd.OutOrStdout(), t, layout.Compute(t, cfg))
		return nil
	},
}

var shapeCmd = &cobra.Command{
	Use:   "shape <values>",
	Short: "plot the number of nodes at every depth of a tree",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, _, err := buildTree(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), plotShape(t))
		return nil
	},
}

// buildTree parses the values and inserts them into an empty tree.
func buildTree(args []string) (*bst.Tree, layout.Config, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, layout.Config{}, err
	}
	opts.EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, layout.Config{}, err
	}
	var values []int
	if err := strparse.Catch(func() {
		p := strparse.MakeParser(",", strings.Join(args, " "))
		values = p.Ints()
	}); err != nil {
		return nil, layout.Config{}, err
	}
	t := bst.New()
	for _, v := range values {
		t.Insert(v)
	}
	return t, opts.Layout, nil
}

// writeLayout prints a table with a row per node, in order of their keys.
func writeLayout(w io.Writer, t *bst.Tree, pos layout.Positions) {
	depths := make(map[bst.NodeID]int, t.Len())
	t.Depths(func(id bst.NodeID, depth int) {
		depths[id] = depth
	})
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Value", "X", "Y", "Depth"})
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, id := range t.Traverse(bst.Inorder) {
		p := pos.Of(id)
		tbl.Append([]string{
			fmt.Sprintf("%d", t.Value(id)),
			fmt.Sprintf("%.1f", p.X),
			fmt.Sprintf("%.1f", p.Y),
			fmt.Sprintf("%d", depths[id]),
		})
	}
	tbl.Render()
}

// plotShape plots the number of nodes at every depth.
func plotShape(t *bst.Tree) string {
	if t.Empty() {
		return "<empty>"
	}
	widths := t.LevelWidths()
	values := make([]float64, len(widths))
	for i, w := range widths {
		values[i] = float64(w)
	}
	if len(values) == 1 {
		// asciigraph needs two points to draw a line.
		values = append(values, values[0])
	}
	return asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Caption(fmt.Sprintf("nodes per depth (height %d)", len(widths))))
}
