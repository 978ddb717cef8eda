// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bstviz

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/bstviz/internal/anim"
	"github.com/cockroachdb/bstviz/internal/layout"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Defaults for Options.
const (
	DefaultStepDelay   = anim.DefaultStepDelay
	DefaultLogCapacity = anim.DefaultLogCapacity
)

// Options holds the optional parameters for configuring a Visualizer. These
// options apply to the Visualizer at creation time.
type Options struct {
	// Layout holds the parameters of the node layout.
	Layout layout.Config

	// StepDelay is the fixed pause between two steps of an animation.
	//
	// The default value is 400ms. A zero value selects the default; use
	// NoPacer to apply steps without pausing. Negative values are rejected
	// by Validate.
	StepDelay time.Duration

	// LogCapacity is the number of log messages retained; older messages are
	// dropped.
	//
	// The default value is 6.
	LogCapacity int

	// KeepHighlights disables clearing the flags of all nodes before every
	// animation. When set, the trails of earlier animations accumulate.
	KeepHighlights bool

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// EventListener provides hooks to listening to significant events. See the
	// EventListener type for details.
	EventListener *EventListener

	// Pacer implements the pauses between steps. The default is a
	// TimerPacer.
	Pacer Pacer

	// StepLatency, if set, observes the duration of every pause in seconds.
	StepLatency prometheus.Histogram
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	o.Layout.EnsureDefaults()
	if o.StepDelay == 0 {
		o.StepDelay = anim.DefaultStepDelay
	}
	if o.LogCapacity == 0 {
		o.LogCapacity = anim.DefaultLogCapacity
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults(o.Logger)
	if o.Pacer == nil {
		o.Pacer = TimerPacer{}
	}
	return o
}

func (o *Options) sequencerConfig() anim.Config {
	return anim.Config{
		Layout:      o.Layout,
		StepDelay:   o.StepDelay,
		LogCapacity: o.LogCapacity,
	}
}

// Clone creates a shallow-copy of the supplied options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	n := *o
	if o.EventListener != nil {
		l := *o.EventListener
		n.EventListener = &l
	}
	return &n
}

// String returns the options in the INI-style format read by Parse. Only the
// fields that can be parsed are included.
func (o *Options) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[Options]\n")
	fmt.Fprintf(&buf, "  keep_highlights=%t\n", o.KeepHighlights)
	fmt.Fprintf(&buf, "  log_capacity=%d\n", o.LogCapacity)
	fmt.Fprintf(&buf, "  step_delay=%s\n", o.StepDelay)
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "[Layout]\n")
	fmt.Fprintf(&buf, "  base_spacing=%s\n", formatFloat(o.Layout.BaseSpacing))
	fmt.Fprintf(&buf, "  center_x=%s\n", formatFloat(o.Layout.CenterX))
	fmt.Fprintf(&buf, "  decay=%s\n", formatFloat(o.Layout.Decay))
	fmt.Fprintf(&buf, "  level_step=%s\n", formatFloat(o.Layout.LevelStep))
	fmt.Fprintf(&buf, "  min_spacing=%s\n", formatFloat(o.Layout.MinSpacing))
	fmt.Fprintf(&buf, "  node_radius=%s\n", formatFloat(o.Layout.NodeRadius))
	fmt.Fprintf(&buf, "  root_y=%s\n", formatFloat(o.Layout.RootY))
	return buf.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseOptions calls fn for every key=value pair in s. Blank lines and lines
// starting with ';' or '#' are skipped.
func parseOptions(s string, fn func(section, key, value string) error) error {
	var section string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == ';' || line[0] == '#' {
			continue
		}
		n := len(line)
		if line[0] == '[' && line[n-1] == ']' {
			section = line[1 : n-1]
			continue
		}
		pos := strings.Index(line, "=")
		if pos < 0 {
			const maxLen = 50
			if len(line) > maxLen {
				line = line[:maxLen-3] + "..."
			}
			return errors.Errorf("bstviz: invalid key=value syntax: %q", errors.Safe(line))
		}
		key := strings.TrimSpace(line[:pos])
		value := strings.TrimSpace(line[pos+1:])
		if err := fn(section, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses the options from the specified string. Note that certain
// options cannot be parsed into populated fields. For example, the Logger and
// the Pacer are not populated.
func (o *Options) Parse(s string) error {
	return parseOptions(s, func(section, key, value string) error {
		var err error
		switch {
		case section == "Options":
			switch key {
			case "keep_highlights":
				o.KeepHighlights, err = strconv.ParseBool(value)
			case "log_capacity":
				o.LogCapacity, err = strconv.Atoi(value)
			case "step_delay":
				o.StepDelay, err = time.ParseDuration(value)
			default:
				return errors.Errorf("bstviz: unknown option: %s.%s",
					errors.Safe(section), errors.Safe(key))
			}

		case section == "Layout":
			var f *float64
			switch key {
			case "base_spacing":
				f = &o.Layout.BaseSpacing
			case "center_x":
				f = &o.Layout.CenterX
			case "decay":
				f = &o.Layout.Decay
			case "level_step":
				f = &o.Layout.LevelStep
			case "min_spacing":
				f = &o.Layout.MinSpacing
			case "node_radius":
				f = &o.Layout.NodeRadius
			case "root_y":
				f = &o.Layout.RootY
			default:
				return errors.Errorf("bstviz: unknown option: %s.%s",
					errors.Safe(section), errors.Safe(key))
			}
			*f, err = strconv.ParseFloat(value, 64)

		default:
			return errors.Errorf("bstviz: unknown section: %q", errors.Safe(section))
		}
		if err != nil {
			return errors.Wrapf(err, "bstviz: parsing %s.%s", errors.Safe(section), errors.Safe(key))
		}
		return nil
	})
}

// Validate verifies that the options are mutually consistent. For example,
// the layout's minimum spacing must exceed the node diameter.
func (o *Options) Validate() error {
	// Note that we can presume Options.EnsureDefaults has been called, so there
	// is no need to check for zero values.

	var buf strings.Builder
	if o.LogCapacity < 1 {
		fmt.Fprintf(&buf, "LogCapacity (%d) must be >= 1\n", o.LogCapacity)
	}
	if o.StepDelay < 0 {
		fmt.Fprintf(&buf, "StepDelay (%s) must be >= 0\n", o.StepDelay)
	}
	if err := o.Layout.Validate(); err != nil {
		fmt.Fprintf(&buf, "%s\n", err)
	}
	if buf.Len() == 0 {
		return nil
	}
	return errors.New(buf.String())
}
