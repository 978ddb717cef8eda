// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package treesteps records step-by-step states of hierarchical data
// structures.
//
// Each node in the structure must implement the Node interface, which returns
// a descriptive name, key properties (as key-value pairs) and the node's
// children. A Recording captures the whole hierarchy every time Stepf is
// called; Finish returns the captured steps, which can be rendered as text or
// encoded to a compact binary form and decoded again later.
//
// # Example
//
//	type SumTree struct {
//	    Value, Sum  int
//	    Left, Right *SumTree
//	}
//
//	// TreeStepsNode implements the treesteps.Node interface.
//	func (t *SumTree) TreeStepsNode() treesteps.NodeInfo {
//	    info := treesteps.NodeInfof("node")
//	    info.AddPropf("value", "%d", t.Value)
//	    info.AddPropf("sum", "%d", t.Sum)
//	    info.AddChildren(t.Left, t.Right)
//	    return info
//	}
//
//	rec := treesteps.StartRecording(root, "Update value")
//	root.Left.Value = 10
//	rec.Stepf(root, "value changed")
//	steps := rec.Finish()
//	fmt.Println(steps.String())
//
// Nodes are captured by value: the recorded steps do not alias the recorded
// structure, which may be immutable (every step passing a new root) or
// modified in place between steps.
package treesteps
