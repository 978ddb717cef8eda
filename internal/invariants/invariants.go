// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants gates expensive self-checks behind the "invariants" (or
// "race") build tag.
package invariants

import "github.com/cockroachdb/errors"

// Check runs fn if invariants are enabled and panics with the returned error,
// wrapped as an assertion failure. In non-invariant builds fn is never called.
func Check(fn func() error) {
	if !Enabled {
		return
	}
	if err := fn(); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "invariant violated"))
	}
}
