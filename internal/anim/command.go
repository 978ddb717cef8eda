// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package anim

import (
	"fmt"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/bstviz/internal/strparse"
	"github.com/cockroachdb/errors"
)

// State is the state of a Sequencer.
type State int8

const (
	// Idle means no animation has run since the sequencer was created or the
	// tree was cleared.
	Idle State = iota
	// Running means an animation has started and has not yet produced its
	// final step.
	Running
	// Completed means the last animation produced its final step.
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int8(s))
	}
}

// CommandKind is the kind of an animated operation.
type CommandKind int8

const (
	// Insert animates the insertion of a key.
	Insert CommandKind = iota
	// Search animates the search for a key.
	Search
	// Traverse animates a depth-first traversal.
	Traverse
)

func (k CommandKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Search:
		return "search"
	case Traverse:
		return "traverse"
	default:
		return fmt.Sprintf("CommandKind(%d)", int8(k))
	}
}

// Command describes an animated operation.
type Command struct {
	Kind CommandKind
	// Value is the key to insert or search for.
	Value int
	// Order is the traversal order.
	Order bst.Order
}

// InsertCommand returns a command inserting v.
func InsertCommand(v int) Command { return Command{Kind: Insert, Value: v} }

// SearchCommand returns a command searching for v.
func SearchCommand(v int) Command { return Command{Kind: Search, Value: v} }

// TraverseCommand returns a command traversing the tree in the given order.
func TraverseCommand(o bst.Order) Command { return Command{Kind: Traverse, Order: o} }

func (c Command) String() string {
	if c.Kind == Traverse {
		return fmt.Sprintf("traverse(%s)", c.Order)
	}
	return fmt.Sprintf("%s(%d)", c.Kind, c.Value)
}

// ParseCommand parses a command of the form "insert <int>", "search <int>" or
// "traverse <order>".
func ParseCommand(s string) (Command, error) {
	var cmd Command
	err := strparse.Catch(func() {
		p := strparse.MakeParser("", s)
		switch kind := p.Next(); kind {
		case "insert":
			cmd = InsertCommand(p.Int())
		case "search":
			cmd = SearchCommand(p.Int())
		case "traverse":
			cmd = TraverseCommand(p.Order())
		default:
			p.Errf("unknown command %q", kind)
		}
		if !p.Done() {
			p.Errf("unexpected arguments %q", p.Remaining())
		}
	})
	if err != nil {
		return Command{}, errors.Wrap(err, "anim")
	}
	return cmd, nil
}

// StepKind describes what a step did.
type StepKind int8

const (
	// StepStart announces the operation. It does not change any flags.
	StepStart StepKind = iota
	// StepVisit highlights the next node on the path and marks the
	// previously highlighted node visited.
	StepVisit
	// StepFound ends a search that found its key.
	StepFound
	// StepNotFound ends a search that reached a missing child.
	StepNotFound
	// StepDuplicate ends an insert whose key was already present.
	StepDuplicate
	// StepInserted ends an insert that attached a new leaf.
	StepInserted
	// StepDone ends a traversal.
	StepDone
)

var stepKindNames = [...]string{
	StepStart:     "start",
	StepVisit:     "visit",
	StepFound:     "found",
	StepNotFound:  "not-found",
	StepDuplicate: "duplicate",
	StepInserted:  "inserted",
	StepDone:      "done",
}

func (k StepKind) String() string {
	if int(k) < len(stepKindNames) {
		return stepKindNames[k]
	}
	return fmt.Sprintf("StepKind(%d)", int8(k))
}

// Final returns true if steps of this kind end an animation.
func (k StepKind) Final() bool {
	return k >= StepFound
}
