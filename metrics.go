// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bstviz

import (
	"github.com/cockroachdb/bstviz/internal/anim"
	"github.com/cockroachdb/redact"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds metrics for various subsystems of the visualizer.
type Metrics struct {
	Animations struct {
		// The number of accepted commands, by kind.
		Insert   int64
		Search   int64
		Traverse int64
		// The number of animations whose context was canceled during playback.
		Canceled int64
	}
	// The number of applied steps.
	Steps int64
	// The number of ignored commands: busy, invalid or nothing to animate.
	Ignored int64
	Inserts struct {
		Inserted   int64
		Duplicates int64
	}
	Searches struct {
		Found    int64
		NotFound int64
	}
	Tree struct {
		Nodes int
		// Height is the number of levels.
		Height  int
		Version uint64
	}
}

// String pretty-prints the metrics.
func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

var _ redact.SafeFormatter = &Metrics{}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("animations: insert %d, search %d, traverse %d, canceled %d\n",
		redact.Safe(m.Animations.Insert), redact.Safe(m.Animations.Search),
		redact.Safe(m.Animations.Traverse), redact.Safe(m.Animations.Canceled))
	w.Printf("steps: %d, ignored: %d\n", redact.Safe(m.Steps), redact.Safe(m.Ignored))
	w.Printf("inserts: %d inserted, %d duplicates\n",
		redact.Safe(m.Inserts.Inserted), redact.Safe(m.Inserts.Duplicates))
	w.Printf("searches: %d found, %d not found\n",
		redact.Safe(m.Searches.Found), redact.Safe(m.Searches.NotFound))
	w.Printf("tree: %d nodes, height %d, version %d\n",
		redact.Safe(m.Tree.Nodes), redact.Safe(m.Tree.Height), redact.Safe(m.Tree.Version))
}

func (m *Metrics) recordStart(kind anim.CommandKind) {
	switch kind {
	case anim.Insert:
		m.Animations.Insert++
	case anim.Search:
		m.Animations.Search++
	case anim.Traverse:
		m.Animations.Traverse++
	}
}

func (m *Metrics) recordStep(kind anim.StepKind) {
	m.Steps++
	switch kind {
	case anim.StepInserted:
		m.Inserts.Inserted++
	case anim.StepDuplicate:
		m.Inserts.Duplicates++
	case anim.StepFound:
		m.Searches.Found++
	case anim.StepNotFound:
		m.Searches.NotFound++
	}
}

// Reasons a command is ignored.
const (
	ignoredBusy    = "busy"
	ignoredInvalid = "invalid input"
	ignoredEmpty   = "empty tree"
)

// promMetrics mirrors the counters of Metrics as prometheus collectors.
type promMetrics struct {
	animations *prometheus.CounterVec
	steps      prometheus.Counter
	ignored    *prometheus.CounterVec
}

func makePromMetrics() promMetrics {
	return promMetrics{
		animations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bstviz",
			Name:      "animations_total",
			Help:      "Number of accepted animated commands.",
		}, []string{"kind"}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bstviz",
			Name:      "steps_total",
			Help:      "Number of applied animation steps.",
		}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bstviz",
			Name:      "ignored_commands_total",
			Help:      "Number of ignored commands.",
		}, []string{"reason"}),
	}
}

func (p *promMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.animations, p.steps, p.ignored}
}
