// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bstviz

import (
	"context"
	"time"
)

// Pacer implements the pause between two steps of an animation. Pause must
// return promptly once ctx is done, with a non-nil error.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

// TimerPacer pauses for the requested duration.
type TimerPacer struct{}

var _ Pacer = TimerPacer{}

// Pause implements the Pacer interface.
func (TimerPacer) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoPacer applies steps back to back. It is used by tests and by
// non-interactive tools.
type NoPacer struct{}

var _ Pacer = NoPacer{}

// Pause implements the Pacer interface.
func (NoPacer) Pause(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}
