// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package anim turns tree operations into sequences of discrete, observable
// steps.
//
// A Sequencer owns a tree, the transient flags of its nodes, the layout and a
// bounded log. Start begins an animated operation and every call to Next
// applies exactly one step: it updates the flags (and, for the last step of an
// insert, the tree and the layout), appends a log message and returns a
// snapshot of the result. The sequencer never sleeps; Step.Pause tells the
// caller how long to wait before pulling the next step, so tests can drain an
// animation without delay.
//
// Only one operation runs at a time. Start returns false while an animation is
// running, and the rejected command leaves no trace.
package anim

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/layout"
)

// Defaults for Config.
const (
	DefaultStepDelay   = 400 * time.Millisecond
	DefaultLogCapacity = 6
)

// Config configures a Sequencer.
type Config struct {
	Layout layout.Config
	// StepDelay is the pause requested after every step.
	StepDelay time.Duration
	// LogCapacity is the number of log messages retained.
	LogCapacity int
}

// EnsureDefaults sets unset fields to their defaults.
func (c *Config) EnsureDefaults() {
	c.Layout.EnsureDefaults()
	if c.StepDelay == 0 {
		c.StepDelay = DefaultStepDelay
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = DefaultLogCapacity
	}
}

// Step is one applied step of an animation.
type Step struct {
	Kind StepKind
	// Node is the node the step is about, or NoNode.
	Node bst.NodeID
	// Message is the log line describing the decision made by the step.
	Message string
	// Pause is how long the caller should wait before the next step.
	Pause time.Duration
	// Frame is the state after the step.
	Frame *Snapshot
}

// Final returns true if this is the last step of its animation.
func (s Step) Final() bool {
	return s.Kind.Final()
}

// animation produces the steps of one operation. next applies the next step
// to the sequencer and returns it (without Pause and Frame).
type animation interface {
	next(s *Sequencer) Step
}

// Sequencer drives animated operations over a tree. It is not safe for
// concurrent use; Snapshots it returns are.
type Sequencer struct {
	cfg   Config
	tree  *bst.Tree
	flags bst.FlagMap
	pos   layout.Positions
	log   Log
	state State
	cmd   Command
	anim  animation
	// last is the currently highlighted node.
	last    bst.NodeID
	version uint64
}

// New returns a Sequencer over an empty tree. The configuration must have
// been validated.
func New(cfg Config) *Sequencer {
	cfg.EnsureDefaults()
	return &Sequencer{
		cfg:  cfg,
		tree: bst.New(),
		log:  MakeLog(cfg.LogCapacity),
		last: bst.NoNode,
	}
}

// State returns the state of the sequencer.
func (s *Sequencer) State() State {
	return s.state
}

// Busy returns true while an animation is running.
func (s *Sequencer) Busy() bool {
	return s.state == Running
}

// Command returns the last started command.
func (s *Sequencer) Command() Command {
	return s.cmd
}

// Tree returns the tree. Callers must not modify it.
func (s *Sequencer) Tree() *bst.Tree {
	return s.tree
}

// Positions returns the current layout. Callers must not modify it.
func (s *Sequencer) Positions() layout.Positions {
	return s.pos
}

// Flags returns the flags of a node.
func (s *Sequencer) Flags(id bst.NodeID) bst.Flags {
	return s.flags.Get(id)
}

// Start begins an animated operation. It returns false, without changing
// anything, if an animation is already running or if there is nothing to
// animate (a search or traversal of an empty tree).
func (s *Sequencer) Start(cmd Command) bool {
	if s.state == Running {
		return false
	}
	switch cmd.Kind {
	case Insert:
		s.anim = &insertAnim{walker: s.tree.Walk(cmd.Value)}
	case Search:
		if s.tree.Empty() {
			return false
		}
		s.anim = &searchAnim{walker: s.tree.Walk(cmd.Value)}
	case Traverse:
		if s.tree.Empty() {
			return false
		}
		s.anim = &traverseAnim{order: cmd.Order, ids: s.tree.Traverse(cmd.Order)}
	default:
		return false
	}
	s.cmd = cmd
	s.state = Running
	s.last = bst.NoNode
	return true
}

// Next applies the next step of the running animation and returns it. It
// returns false if no animation is running. The final step of an animation
// moves the sequencer to Completed.
func (s *Sequencer) Next() (Step, bool) {
	if s.state != Running {
		return Step{}, false
	}
	step := s.anim.next(s)
	step.Pause = s.cfg.StepDelay
	if step.Final() {
		s.state = Completed
		s.anim = nil
	}
	s.log.Add(step.Message)
	s.version++
	step.Frame = s.Snapshot()
	return step, true
}

// Steps returns an iterator applying the remaining steps of the running
// animation.
func (s *Sequencer) Steps() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for {
			step, ok := s.Next()
			if !ok || !yield(step) {
				return
			}
		}
	}
}

// Run starts cmd and applies all its steps without pausing. It returns the
// steps, or nil if the command was rejected.
func (s *Sequencer) Run(cmd Command) []Step {
	if !s.Start(cmd) {
		return nil
	}
	var steps []Step
	for step := range s.Steps() {
		steps = append(steps, step)
	}
	return steps
}

// ClearHighlights unsets all flags on all nodes. It returns false, without
// changing anything, while an animation is running.
func (s *Sequencer) ClearHighlights() bool {
	if s.state == Running {
		return false
	}
	s.flags.ClearSubtree(s.tree, s.tree.Root())
	s.last = bst.NoNode
	s.version++
	return true
}

// ClearTree discards the tree and the log. It returns false, without changing
// anything, while an animation is running.
func (s *Sequencer) ClearTree() bool {
	if s.state == Running {
		return false
	}
	s.tree = bst.New()
	s.flags.Reset()
	s.pos = nil
	s.log.Reset()
	s.state = Idle
	s.last = bst.NoNode
	s.version++
	return true
}

// Log returns the log messages, oldest first.
func (s *Sequencer) Log() []string {
	return s.log.Entries()
}

// Snapshot returns a copy of the current state.
func (s *Sequencer) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version: s.version,
		State:   s.state,
		Root:    s.tree.Root(),
		Nodes:   make([]NodeState, s.tree.Len()),
		Log:     s.log.Entries(),
	}
	s.tree.All(func(id bst.NodeID) bool {
		snap.Nodes[id] = NodeState{
			ID:    id,
			Value: s.tree.Value(id),
			Left:  s.tree.Left(id),
			Right: s.tree.Right(id),
			Pos:   s.pos[id],
			Flags: s.flags.Get(id),
		}
		return true
	})
	return snap
}

// highlight moves the highlight to id. The previously highlighted node is
// marked visited.
func (s *Sequencer) highlight(id bst.NodeID) {
	s.unhighlight()
	s.flags.Clear(id)
	s.flags.Set(id, bst.Highlighted)
	s.last = id
}

// unhighlight marks the highlighted node, if any, visited.
func (s *Sequencer) unhighlight() {
	if s.last == bst.NoNode {
		return
	}
	s.flags.Unset(s.last, bst.Highlighted)
	s.flags.Set(s.last, bst.Visited)
	s.last = bst.NoNode
}

func (s *Sequencer) relayout() {
	s.pos = layout.Compute(s.tree, s.cfg.Layout)
}

// visitMessage describes the comparison of v against the node id.
func (s *Sequencer) visitMessage(v int, id bst.NodeID, dir bst.Direction) string {
	key := s.tree.Value(id)
	switch dir {
	case bst.Left:
		return fmt.Sprintf("%d < %d, go left", v, key)
	case bst.Right:
		return fmt.Sprintf("%d > %d, go right", v, key)
	default:
		return fmt.Sprintf("%d == %d", v, key)
	}
}

type insertAnim struct {
	walker  bst.Walker
	started bool
}

func (a *insertAnim) next(s *Sequencer) Step {
	v := a.walker.Value()
	if !a.started {
		a.started = true
		return Step{Kind: StepStart, Node: bst.NoNode, Message: fmt.Sprintf("Inserting %d", v)}
	}
	if id, dir, ok := a.walker.Step(); ok {
		s.highlight(id)
		return Step{Kind: StepVisit, Node: id, Message: s.visitMessage(v, id, dir)}
	}
	s.unhighlight()
	// The walk stopped on the key or on the missing child; Insert attaches the
	// new leaf exactly there.
	parent, dir := a.walker.Slot()
	id, res := a.walker.Insert()
	if res == bst.Duplicate {
		return Step{Kind: StepDuplicate, Node: id, Message: fmt.Sprintf("%d already exists in the tree", v)}
	}
	s.relayout()
	s.flags.Set(id, bst.Visited)
	msg := fmt.Sprintf("Inserted %d as the root", v)
	if parent != bst.NoNode {
		msg = fmt.Sprintf("Inserted %d as the %s child of %d", v, dir, s.tree.Value(parent))
	}
	return Step{Kind: StepInserted, Node: id, Message: msg}
}

type searchAnim struct {
	walker  bst.Walker
	started bool
}

func (a *searchAnim) next(s *Sequencer) Step {
	v := a.walker.Value()
	if !a.started {
		a.started = true
		return Step{Kind: StepStart, Node: bst.NoNode, Message: fmt.Sprintf("Searching for %d", v)}
	}
	if id, dir, ok := a.walker.Step(); ok {
		s.highlight(id)
		return Step{Kind: StepVisit, Node: id, Message: s.visitMessage(v, id, dir)}
	}
	s.unhighlight()
	if id, ok := a.walker.Found(); ok {
		s.flags.Set(id, bst.SearchResult)
		return Step{Kind: StepFound, Node: id, Message: fmt.Sprintf("Found %d", v)}
	}
	parent, dir := a.walker.Slot()
	return Step{
		Kind:    StepNotFound,
		Node:    parent,
		Message: fmt.Sprintf("%d not found: %d has no %s child", v, s.tree.Value(parent), dir),
	}
}

type traverseAnim struct {
	order   bst.Order
	ids     []bst.NodeID
	i       int
	started bool
}

func (a *traverseAnim) next(s *Sequencer) Step {
	if !a.started {
		a.started = true
		return Step{Kind: StepStart, Node: bst.NoNode, Message: fmt.Sprintf("%s traversal", a.order.Title())}
	}
	if a.i < len(a.ids) {
		id := a.ids[a.i]
		a.i++
		s.highlight(id)
		return Step{Kind: StepVisit, Node: id, Message: fmt.Sprintf("Visit %d", s.tree.Value(id))}
	}
	s.unhighlight()
	vals := s.tree.Values(a.ids)
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = fmt.Sprint(v)
	}
	return Step{
		Kind:    StepDone,
		Node:    bst.NoNode,
		Message: fmt.Sprintf("%s traversal: %s", a.order.Title(), strings.Join(strs, ", ")),
	}
}
