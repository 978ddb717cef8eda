// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treesteps

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/bstviz/internal/compression"
	"github.com/cockroachdb/errors"
)

// TreeNode is the captured state of a node.
type TreeNode struct {
	Name       string      `json:"name"`
	Properties [][2]string `json:"props,omitempty"`
	Children   []TreeNode  `json:"children,omitempty"`
}

// Step is a captured state of the hierarchy.
type Step struct {
	Name string   `json:"name"`
	Root TreeNode `json:"root"`
}

// Steps is the result of a Recording.
type Steps struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// String renders all steps, each followed by its tree.
func (s Steps) String() string {
	var buf strings.Builder
	buf.WriteString(s.Name)
	buf.WriteByte('\n')
	for i := range s.Steps {
		fmt.Fprintf(&buf, "step %d/%d: %s\n", i+1, len(s.Steps), s.Steps[i].Name)
		if s.Steps[i].Root.Name != "" {
			s.Steps[i].Root.format(&buf)
		}
	}
	return buf.String()
}

// format writes the tree rooted at n, one line per node and property.
func (n *TreeNode) format(buf *strings.Builder) {
	buf.WriteString(n.Name)
	buf.WriteByte('\n')
	n.formatChildren(buf, "")
}

func (n *TreeNode) formatChildren(buf *strings.Builder, prefix string) {
	count := len(n.Properties) + len(n.Children)
	connector := func(i int) (string, string) {
		if i == count-1 {
			return " └── ", "     "
		}
		return " ├── ", " │   "
	}
	i := 0
	for _, p := range n.Properties {
		conn, _ := connector(i)
		fmt.Fprintf(buf, "%s%s%s: %s\n", prefix, conn, p[0], p[1])
		i++
	}
	for j := range n.Children {
		conn, ext := connector(i)
		fmt.Fprintf(buf, "%s%s%s\n", prefix, conn, n.Children[j].Name)
		n.Children[j].formatChildren(buf, prefix+ext)
		i++
	}
}

// Encode writes the steps as JSON compressed with the given algorithm.
func (s Steps) Encode(w io.Writer, alg compression.Algorithm) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "treesteps: encoding steps")
	}
	if _, err := w.Write(compression.Compress(alg, data)); err != nil {
		return errors.Wrap(err, "treesteps: writing steps")
	}
	return nil
}

// Decode reads steps written by Encode, whatever the algorithm.
func Decode(r io.Reader) (Steps, error) {
	block, err := io.ReadAll(r)
	if err != nil {
		return Steps{}, errors.Wrap(err, "treesteps: reading steps")
	}
	data, _, err := compression.Decompress(block)
	if err != nil {
		return Steps{}, errors.Wrap(err, "treesteps: decompressing steps")
	}
	var s Steps
	if err := json.Unmarshal(data, &s); err != nil {
		return Steps{}, errors.Wrap(err, "treesteps: decoding steps")
	}
	return s, nil
}
