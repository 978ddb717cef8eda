// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package layout assigns 2-D coordinates to the nodes of a bst.Tree.
//
// The layout is computed in two passes. The first pass computes, bottom-up,
// the size of every subtree. The second pass descends from the root and
// places every child at a horizontal offset from its parent equal to
//
//	s(d) * (w + 1)
//
// where d is the depth of the child, w is the size of the child's subtree that
// faces the parent (the right subtree of a left child and vice versa), and
//
//	s(d) = max(MinSpacing, BaseSpacing * Decay^(d-1))
//
// is a per-level spacing that decays with depth but never drops below
// MinSpacing. Because s is non-increasing in depth, the nodes facing the
// parent can drift back towards it by at most s(d)*w, so any two nodes that
// are adjacent in key order end up at least MinSpacing apart horizontally.
// With MinSpacing larger than the node diameter, no two nodes overlap and
// every left subtree lies strictly left of its parent (and right subtrees
// strictly right), whatever the shape of the tree.
package layout

import (
	"fmt"
	"math"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/invariants"
	"github.com/cockroachdb/errors"
)

// Default layout parameters. They are cosmetic; Validate documents the
// constraints the layout relies on.
const (
	DefaultCenterX     = 400
	DefaultRootY       = 40
	DefaultBaseSpacing = 48
	DefaultLevelStep   = 64
	DefaultNodeRadius  = 16
	DefaultDecay       = 0.85
	DefaultMinSpacing  = 36
)

// Config holds the layout parameters.
type Config struct {
	// CenterX and RootY are the coordinates of the root.
	CenterX float64
	RootY   float64
	// BaseSpacing is the horizontal spacing unit used for the children of the
	// root.
	BaseSpacing float64
	// LevelStep is the vertical distance between two levels.
	LevelStep float64
	// NodeRadius is the radius of the disc a node occupies.
	NodeRadius float64
	// Decay is the factor the spacing unit is multiplied by on every level
	// below the first. Must be in (0, 1].
	Decay float64
	// MinSpacing is the floor of the spacing unit. Must be larger than the
	// node diameter.
	MinSpacing float64
}

// DefaultConfig returns a Config with all defaults set.
func DefaultConfig() Config {
	var c Config
	c.EnsureDefaults()
	return c
}

// EnsureDefaults sets unset (zero) fields to their defaults. CenterX and RootY
// are only defaulted if both are zero.
func (c *Config) EnsureDefaults() {
	if c.CenterX == 0 && c.RootY == 0 {
		c.CenterX = DefaultCenterX
		c.RootY = DefaultRootY
	}
	if c.BaseSpacing == 0 {
		c.BaseSpacing = DefaultBaseSpacing
	}
	if c.LevelStep == 0 {
		c.LevelStep = DefaultLevelStep
	}
	if c.NodeRadius == 0 {
		c.NodeRadius = DefaultNodeRadius
	}
	if c.Decay == 0 {
		c.Decay = DefaultDecay
	}
	if c.MinSpacing == 0 {
		c.MinSpacing = DefaultMinSpacing
	}
}

// Validate returns an error if the configuration cannot guarantee a layout
// without overlapping nodes.
func (c *Config) Validate() error {
	for _, f := range [...]struct {
		name string
		v    float64
	}{
		{"center x", c.CenterX},
		{"root y", c.RootY},
		{"base spacing", c.BaseSpacing},
		{"level step", c.LevelStep},
		{"node radius", c.NodeRadius},
		{"decay", c.Decay},
		{"min spacing", c.MinSpacing},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Newf("layout: %s (%g) must be finite", errors.Safe(f.name), f.v)
		}
	}
	switch {
	case c.NodeRadius <= 0:
		return errors.Newf("layout: node radius (%g) must be positive", c.NodeRadius)
	case c.BaseSpacing <= 0:
		return errors.Newf("layout: base spacing (%g) must be positive", c.BaseSpacing)
	case c.LevelStep <= 0:
		return errors.Newf("layout: level step (%g) must be positive", c.LevelStep)
	case c.Decay <= 0 || c.Decay > 1:
		return errors.Newf("layout: decay (%g) must be in (0, 1]", c.Decay)
	case c.MinSpacing <= 2*c.NodeRadius:
		return errors.Newf("layout: min spacing (%g) must exceed the node diameter (%g)",
			c.MinSpacing, 2*c.NodeRadius)
	}
	return nil
}

// Spacing returns the horizontal spacing unit for nodes at the given depth.
func (c *Config) Spacing(depth int) float64 {
	if depth <= 1 {
		return math.Max(c.BaseSpacing, c.MinSpacing)
	}
	return math.Max(c.MinSpacing, c.BaseSpacing*math.Pow(c.Decay, float64(depth-1)))
}

// Point is a position on the canvas. Y grows downwards.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Positions holds the position of every node of a tree, indexed by NodeID.
type Positions []Point

// Of returns the position of a node.
func (p Positions) Of(id bst.NodeID) Point {
	return p[id]
}

// Bounds returns the smallest rectangle containing the centers of all nodes.
func (p Positions) Bounds() (min, max Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	min, max = p[0], p[0]
	for _, pt := range p[1:] {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// Compute lays out the tree. The configuration must be valid.
func Compute(t *bst.Tree, cfg Config) Positions {
	if t.Empty() {
		return nil
	}

	// Pass 1: subtree sizes, children before parents.
	sizes := make([]int, t.Len())
	size := func(id bst.NodeID) int {
		if id == bst.NoNode {
			return 0
		}
		return sizes[id]
	}
	for _, id := range t.Traverse(bst.Postorder) {
		sizes[id] = 1 + size(t.Left(id)) + size(t.Right(id))
	}

	// Pass 2: positions, parents before children.
	pos := make(Positions, t.Len())
	pos[t.Root()] = Point{X: cfg.CenterX, Y: cfg.RootY}
	t.Depths(func(id bst.NodeID, depth int) {
		s := cfg.Spacing(depth + 1)
		y := cfg.RootY + float64(depth+1)*cfg.LevelStep
		if l := t.Left(id); l != bst.NoNode {
			pos[l] = Point{X: pos[id].X - s*float64(size(t.Right(l))+1), Y: y}
		}
		if r := t.Right(id); r != bst.NoNode {
			pos[r] = Point{X: pos[id].X + s*float64(size(t.Left(r))+1), Y: y}
		}
	})

	invariants.Check(func() error {
		if err := CheckOrder(t, pos); err != nil {
			return err
		}
		return CheckNoOverlap(t, pos, cfg.NodeRadius)
	})
	return pos
}
