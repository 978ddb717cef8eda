// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"time"

	"github.com/cockroachdb/redact"
)

// AnimationInfo contains the info for an animation event.
type AnimationInfo struct {
	// Command is the animated command, e.g. "insert(5)".
	Command string
	// Steps is the number of steps applied so far. It is zero for
	// AnimationStarted.
	Steps int
	// Outcome is the kind of the final step, e.g. "found". It is empty for
	// AnimationStarted.
	Outcome string
	// Message is the log message of the final step.
	Message string
	// Duration is the wall time of the animation, pauses included.
	Duration time.Duration
	// Canceled is set if the context was canceled during playback and the
	// remaining steps were applied without pausing.
	Canceled bool
}

func (i AnimationInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i AnimationInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	if i.Outcome == "" {
		w.Printf("[%s] animation started", redact.SafeString(i.Command))
		return
	}
	w.Printf("[%s] animation completed: %s in %d steps (%.1fs)",
		redact.SafeString(i.Command), redact.SafeString(i.Outcome), redact.Safe(i.Steps),
		redact.Safe(i.Duration.Seconds()))
	if i.Canceled {
		w.SafeString(" [canceled]")
	}
	if i.Message != "" {
		w.Printf(": %s", i.Message)
	}
}

// StepInfo contains the info for a step event.
type StepInfo struct {
	Command string
	// Index is the position of the step in its animation, starting at 0.
	Index int
	// Kind is the kind of the step, e.g. "visit".
	Kind    string
	Message string
	// Version is the version of the snapshot produced by the step.
	Version uint64
}

func (i StepInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i StepInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] step %d (%s, v%d): %s",
		redact.SafeString(i.Command), redact.Safe(i.Index), redact.SafeString(i.Kind),
		redact.Safe(i.Version), i.Message)
}

// IgnoredInfo contains the info for a command that was not executed.
type IgnoredInfo struct {
	// Command is the command as entered.
	Command string
	// Reason is a short description of why the command was ignored.
	Reason string
}

func (i IgnoredInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i IgnoredInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("ignored %q: %s", i.Command, redact.SafeString(i.Reason))
}

// EventListener contains a set of functions that will be invoked when various
// significant events occur. Note that the functions should not run for an
// excessive amount of time as they are invoked synchronously by the
// visualizer and may block the playback of an animation.
type EventListener struct {
	// AnimationStarted is invoked after a command was accepted and before its
	// first step is applied.
	AnimationStarted func(AnimationInfo)

	// StepApplied is invoked after every applied step, before the pause that
	// follows it.
	StepApplied func(StepInfo)

	// AnimationCompleted is invoked after the final step of an animation.
	AnimationCompleted func(AnimationInfo)

	// CommandIgnored is invoked when a command is rejected: because an
	// animation is running, the input is invalid or there is nothing to
	// animate.
	CommandIgnored func(IgnoredInfo)
}

// EnsureDefaults ensures that event listeners for which no function has been
// provided are set to no-ops. If a logger is provided, ignored commands are
// logged.
func (l *EventListener) EnsureDefaults(logger Logger) {
	if l.AnimationStarted == nil {
		l.AnimationStarted = func(info AnimationInfo) {}
	}
	if l.StepApplied == nil {
		l.StepApplied = func(info StepInfo) {}
	}
	if l.AnimationCompleted == nil {
		l.AnimationCompleted = func(info AnimationInfo) {}
	}
	if l.CommandIgnored == nil {
		if logger != nil {
			l.CommandIgnored = func(info IgnoredInfo) {
				logger.Infof("%s", info)
			}
		} else {
			l.CommandIgnored = func(info IgnoredInfo) {}
		}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger{}
	}

	return EventListener{
		AnimationStarted: func(info AnimationInfo) {
			logger.Infof("%s", info)
		},
		StepApplied: func(info StepInfo) {
			logger.Infof("%s", info)
		},
		AnimationCompleted: func(info AnimationInfo) {
			logger.Infof("%s", info)
		},
		CommandIgnored: func(info IgnoredInfo) {
			logger.Infof("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults(nil)
	b.EnsureDefaults(nil)
	return EventListener{
		AnimationStarted: func(info AnimationInfo) {
			a.AnimationStarted(info)
			b.AnimationStarted(info)
		},
		StepApplied: func(info StepInfo) {
			a.StepApplied(info)
			b.StepApplied(info)
		},
		AnimationCompleted: func(info AnimationInfo) {
			a.AnimationCompleted(info)
			b.AnimationCompleted(info)
		},
		CommandIgnored: func(info IgnoredInfo) {
			a.CommandIgnored(info)
			b.CommandIgnored(info)
		},
	}
}
