// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bstviz

import "github.com/cockroachdb/bstviz/internal/base"

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger exports the base.DefaultLogger type.
type DefaultLogger = base.DefaultLogger

// AnimationInfo exports the base.AnimationInfo type.
type AnimationInfo = base.AnimationInfo

// StepInfo exports the base.StepInfo type.
type StepInfo = base.StepInfo

// IgnoredInfo exports the base.IgnoredInfo type.
type IgnoredInfo = base.IgnoredInfo

// EventListener exports the base.EventListener type.
type EventListener = base.EventListener

// MakeLoggingEventListener exports the base.MakeLoggingEventListener function.
func MakeLoggingEventListener(logger Logger) EventListener {
	return base.MakeLoggingEventListener(logger)
}

// TeeEventListener exports the base.TeeEventListener function.
func TeeEventListener(a, b EventListener) EventListener {
	return base.TeeEventListener(a, b)
}
