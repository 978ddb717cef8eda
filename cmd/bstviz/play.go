// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/bstviz"
	"github.com/cockroachdb/bstviz/internal/ascii"
	"github.com/cockroachdb/bstviz/internal/compression"
	"github.com/cockroachdb/bstviz/internal/strparse"
	"github.com/cockroachdb/bstviz/internal/treesteps"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	minFrameLatency = time.Microsecond
	maxFrameLatency = time.Second
	// renderInterval is how often the renderer polls for a new snapshot.
	renderInterval = 10 * time.Millisecond
	// recordDepth bounds the depth of recorded trees. Recordings hold whole
	// trees: a chain of n keys is n+1 levels deep below the snapshot node.
	recordDepth = 1 << 20
)

var playConfig struct {
	keepHighlights bool
	metrics        bool
	record         string
}

var playCmd = &cobra.Command{
	Use:   "play [script]",
	Short: "play a script of tree commands",
	Long: `
Play reads commands from the script, or from stdin if no script is given, and
animates them one at a time, redrawing the tree after every step. A line holds
one command:

  insert <int>...
  search <int>...
  traverse inorder|preorder|postorder
  clear-highlights
  clear

Empty lines and lines starting with # are skipped.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

// player plays a script against a Visualizer and renders its frames.
type player struct {
	out  io.Writer
	opts *bstviz.Options
	alg  compression.Algorithm
	// recordTo receives the recording, if set.
	recordTo io.Writer
	// printMetrics prints the gathered prometheus metrics at the end.
	printMetrics bool
	// interval is how often the renderer polls for a new snapshot.
	interval time.Duration

	frames *hdrhistogram.Histogram
}

func runPlay(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	if opts.StepDelay == 0 || cmd.Flags().Changed("delay") {
		opts.StepDelay = delay
	}
	if delay == 0 && cmd.Flags().Changed("delay") {
		opts.Pacer = bstviz.NoPacer{}
	}
	opts.KeepHighlights = opts.KeepHighlights || playConfig.keepHighlights
	if verbose {
		l := bstviz.MakeLoggingEventListener(bstviz.DefaultLogger{})
		opts.EventListener = &l
	}
	alg, err := compression.ParseAlgorithm(codec)
	if err != nil {
		return err
	}

	p := &player{
		out:          cmd.OutOrStdout(),
		opts:         opts,
		alg:          alg,
		printMetrics: playConfig.metrics,
		interval:     renderInterval,
	}
	if playConfig.record != "" {
		f, err := os.Create(playConfig.record)
		if err != nil {
			return err
		}
		defer f.Close()
		p.recordTo = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return p.play(ctx, in)
}

// expand splits a line holding several values ("insert 50 30 70") into one
// command per value. Other lines are returned unchanged, including malformed
// ones: the Visualizer ignores those.
func expand(line string) []string {
	var lines []string
	err := strparse.Catch(func() {
		p := strparse.MakeParser(",", line)
		kind := p.Next()
		if kind != "insert" && kind != "search" {
			return
		}
		for _, v := range p.Ints() {
			lines = append(lines, fmt.Sprintf("%s %d", kind, v))
		}
	})
	if err != nil || len(lines) == 0 {
		return []string{line}
	}
	return lines
}

func (p *player) play(ctx context.Context, in io.Reader) error {
	opts := p.opts.Clone()

	reg := prometheus.NewRegistry()
	stepLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bstviz_step_pause_seconds",
		Help:    "Pauses between the steps of an animation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	opts.StepLatency = stepLatency

	// The recording follows the published snapshots. StepApplied runs on the
	// playing goroutine right after the snapshot of the step is published.
	var v *bstviz.Visualizer
	var rec *treesteps.Recording
	recorder := bstviz.EventListener{
		StepApplied: func(info bstviz.StepInfo) {
			if rec != nil {
				rec.Stepf(v.Snapshot(), "%s", info.Message)
			}
		},
	}
	if opts.EventListener != nil {
		recorder = bstviz.TeeEventListener(*opts.EventListener, recorder)
	}
	opts.EventListener = &recorder

	v, err := bstviz.New(opts)
	if err != nil {
		return err
	}
	reg.MustRegister(stepLatency)
	reg.MustRegister(v.Collectors()...)
	if p.recordTo != nil {
		rec = treesteps.StartRecording(v.Snapshot(), "bstviz", treesteps.MaxTreeDepth(recordDepth))
	}

	p.frames = hdrhistogram.New(minFrameLatency.Nanoseconds(), maxFrameLatency.Nanoseconds(), 1)
	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.render(gctx, v, done)
	})
	g.Go(func() error {
		defer close(done)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			for _, l := range expand(line) {
				if gctx.Err() != nil {
					return nil
				}
				if v.Exec(gctx, l) && rec != nil && (l == "clear" || l == "clear-highlights") {
					rec.Stepf(v.Snapshot(), "%s", l)
				}
			}
		}
		return errors.Wrap(scanner.Err(), "reading script")
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if rec != nil {
		if err := rec.Finish().Encode(p.recordTo, p.alg); err != nil {
			return err
		}
	}
	m := v.Metrics()
	fmt.Fprintf(p.out, "\n%s", &m)
	fmt.Fprintf(p.out, "frames: %d, render p50 %s, p99 %s, max %s\n",
		p.frames.TotalCount(),
		time.Duration(p.frames.ValueAtQuantile(50)),
		time.Duration(p.frames.ValueAtQuantile(99)),
		time.Duration(p.frames.Max()))
	if p.printMetrics {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		printFamilies(p.out, families)
	}
	return nil
}

// render draws a frame every time the snapshot version changes, until done is
// closed. The last snapshot is always drawn.
func (p *player) render(ctx context.Context, v *bstviz.Visualizer, done <-chan struct{}) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	var last uint64
	drawn := false
	draw := func() error {
		snap := v.Snapshot()
		if drawn && snap.Version == last {
			return nil
		}
		start := crtime.NowMono()
		frame := ascii.DrawFrame(snap)
		if _, err := fmt.Fprintf(p.out, "--- v%d ---\n%s\n", snap.Version, frame); err != nil {
			return err
		}
		elapsed := max(min(start.Elapsed(), maxFrameLatency), minFrameLatency)
		if err := p.frames.RecordValue(elapsed.Nanoseconds()); err != nil {
			return err
		}
		last, drawn = snap.Version, true
		return nil
	}
	for {
		select {
		case <-done:
			return draw()
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := draw(); err != nil {
				return err
			}
		}
	}
}

// printFamilies prints one line per counter and histogram.
func printFamilies(w io.Writer, families []*dto.MetricFamily) {
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", l.GetName(), l.GetValue())
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				fmt.Fprintf(w, "%s count=%d sum=%g\n", name,
					m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
}
