// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bstviz provides an animated binary search tree for teaching: every
// insert, search and traversal is played back one decision at a time, with
// the path through the tree highlighted and every decision logged.
//
// A Visualizer accepts commands from a user interface and plays them. Only one
// animation runs at a time; commands issued while an animation is running are
// ignored, as are invalid commands and searches or traversals of an empty
// tree. After every step the Visualizer publishes an immutable Snapshot (tree
// shape, keys, coordinates, flags and log) that a presentation layer can read
// from any goroutine.
package bstviz

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/bstviz/internal/anim"
	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/prometheus/client_golang/prometheus"
)

// Command exports the anim.Command type.
type Command = anim.Command

// Snapshot exports the anim.Snapshot type.
type Snapshot = anim.Snapshot

// Order exports the bst.Order type.
type Order = bst.Order

// Traversal orders.
const (
	Inorder   = bst.Inorder
	Preorder  = bst.Preorder
	Postorder = bst.Postorder
)

// Visualizer plays animated operations over a binary search tree. It is safe
// for concurrent use.
type Visualizer struct {
	opts *Options
	prom promMetrics
	// playing tracks background playback started by Go.
	playing sync.WaitGroup

	mu struct {
		sync.Mutex
		seq *anim.Sequencer
		// snap is the last published snapshot.
		snap    *anim.Snapshot
		metrics Metrics
	}
}

// New returns a Visualizer over an empty tree. The options are copied; a nil
// opts uses the defaults.
func New(opts *Options) (*Visualizer, error) {
	opts = opts.Clone().EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	v := &Visualizer{
		opts: opts,
		prom: makePromMetrics(),
	}
	v.mu.seq = anim.New(opts.sequencerConfig())
	v.publishLocked()
	return v, nil
}

// Insert plays the insertion of value, returning once the animation has
// completed. It returns false if the command was ignored.
func (v *Visualizer) Insert(ctx context.Context, value int) bool {
	return v.Play(ctx, anim.InsertCommand(value))
}

// Search plays the search for value, returning once the animation has
// completed. It returns false if the command was ignored.
func (v *Visualizer) Search(ctx context.Context, value int) bool {
	return v.Play(ctx, anim.SearchCommand(value))
}

// Traverse plays a traversal in the given order, returning once the animation
// has completed. It returns false if the command was ignored.
func (v *Visualizer) Traverse(ctx context.Context, order Order) bool {
	return v.Play(ctx, anim.TraverseCommand(order))
}

// Play plays cmd, returning once the animation has completed. It returns false
// if the command was ignored.
//
// If ctx is canceled during playback, the remaining steps are applied without
// pausing: an animation always runs to completion once started.
func (v *Visualizer) Play(ctx context.Context, cmd Command) bool {
	if !v.start(cmd) {
		return false
	}
	v.play(ctx, cmd)
	return true
}

// Go starts playing cmd in the background and returns immediately. It returns
// false if the command was ignored. Wait blocks until the playback is done.
func (v *Visualizer) Go(ctx context.Context, cmd Command) bool {
	if !v.start(cmd) {
		return false
	}
	v.playing.Add(1)
	go func() {
		defer v.playing.Done()
		v.play(ctx, cmd)
	}()
	return true
}

// Wait blocks until all animations started by Go have completed.
func (v *Visualizer) Wait() {
	v.playing.Wait()
}

// Busy returns true while an animation is running.
func (v *Visualizer) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mu.seq.Busy()
}

// Exec parses and plays a command entered by a user: "insert <int>", "search
// <int>", "traverse <order>", "clear-highlights" or "clear". It returns false
// if the command was ignored; invalid input is ignored silently, apart from
// the CommandIgnored event.
func (v *Visualizer) Exec(ctx context.Context, line string) bool {
	switch strings.TrimSpace(line) {
	case "clear-highlights":
		return v.ClearHighlights()
	case "clear":
		return v.ClearTree()
	}
	cmd, err := anim.ParseCommand(line)
	if err != nil {
		v.ignored(line, ignoredInvalid)
		return false
	}
	return v.Play(ctx, cmd)
}

// ClearHighlights resets the flags of every node. It returns false, without
// changing anything, while an animation is running.
func (v *Visualizer) ClearHighlights() bool {
	v.mu.Lock()
	ok := v.mu.seq.ClearHighlights()
	if ok {
		v.publishLocked()
	}
	v.mu.Unlock()
	if !ok {
		v.ignored("clear-highlights", ignoredBusy)
	}
	return ok
}

// ClearTree discards the tree and the log. It returns false, without changing
// anything, while an animation is running.
func (v *Visualizer) ClearTree() bool {
	v.mu.Lock()
	ok := v.mu.seq.ClearTree()
	if ok {
		v.publishLocked()
	}
	v.mu.Unlock()
	if !ok {
		v.ignored("clear", ignoredBusy)
	}
	return ok
}

// Snapshot returns the state published after the last step or command. The
// snapshot is immutable and may be retained.
func (v *Visualizer) Snapshot() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mu.snap
}

// Log returns the log messages, oldest first.
func (v *Visualizer) Log() []string {
	return v.Snapshot().Log
}

// Metrics returns a copy of the metrics.
func (v *Visualizer) Metrics() Metrics {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := v.mu.metrics
	t := v.mu.seq.Tree()
	m.Tree.Nodes = t.Len()
	m.Tree.Height = t.Height()
	m.Tree.Version = v.mu.snap.Version
	return m
}

// Collectors returns prometheus collectors mirroring the counters of Metrics,
// for registration with a prometheus.Registerer.
func (v *Visualizer) Collectors() []prometheus.Collector {
	return v.prom.collectors()
}

// start applies the busy gate and starts cmd.
func (v *Visualizer) start(cmd Command) bool {
	v.mu.Lock()
	reason := ""
	switch seq := v.mu.seq; {
	case seq.Busy():
		reason = ignoredBusy
	case cmd.Kind != anim.Insert && seq.Tree().Empty():
		reason = ignoredEmpty
	default:
		if !v.opts.KeepHighlights {
			seq.ClearHighlights()
		}
		if !seq.Start(cmd) {
			reason = ignoredInvalid
			break
		}
		v.mu.metrics.recordStart(cmd.Kind)
		v.publishLocked()
	}
	v.mu.Unlock()

	if reason != "" {
		v.ignored(cmd.String(), reason)
		return false
	}
	v.prom.animations.WithLabelValues(cmd.Kind.String()).Inc()
	v.opts.EventListener.AnimationStarted(AnimationInfo{Command: cmd.String()})
	return true
}

// play applies the steps of the running animation, pausing after every step
// but the last.
func (v *Visualizer) play(ctx context.Context, cmd Command) {
	start := crtime.NowMono()
	info := AnimationInfo{Command: cmd.String()}
	for {
		v.mu.Lock()
		step, ok := v.mu.seq.Next()
		if ok {
			v.mu.metrics.recordStep(step.Kind)
			if step.Final() && info.Canceled {
				v.mu.metrics.Animations.Canceled++
			}
			v.mu.snap = step.Frame
		}
		v.mu.Unlock()
		if !ok {
			break
		}

		v.prom.steps.Inc()
		v.opts.EventListener.StepApplied(StepInfo{
			Command: info.Command,
			Index:   info.Steps,
			Kind:    step.Kind.String(),
			Message: step.Message,
			Version: step.Frame.Version,
		})
		info.Steps++
		if step.Final() {
			info.Outcome = step.Kind.String()
			info.Message = step.Message
			break
		}
		if !info.Canceled {
			pauseStart := crtime.NowMono()
			if err := v.opts.Pacer.Pause(ctx, step.Pause); err != nil {
				info.Canceled = true
			}
			if v.opts.StepLatency != nil {
				v.opts.StepLatency.Observe(pauseStart.Elapsed().Seconds())
			}
		}
	}
	info.Duration = start.Elapsed()
	v.opts.EventListener.AnimationCompleted(info)
}

func (v *Visualizer) ignored(cmd string, reason string) {
	v.mu.Lock()
	v.mu.metrics.Ignored++
	v.mu.Unlock()
	v.prom.ignored.WithLabelValues(reason).Inc()
	v.opts.EventListener.CommandIgnored(IgnoredInfo{Command: cmd, Reason: reason})
}

func (v *Visualizer) publishLocked() {
	v.mu.snap = v.mu.seq.Snapshot()
}
