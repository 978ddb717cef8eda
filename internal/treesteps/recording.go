// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treesteps

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Node must be implemented by every node in the hierarchy.
type Node interface {
	TreeStepsNode() NodeInfo
}

// NodeInfo contains the information that we present for each node.
type NodeInfo struct {
	name       string
	properties [][2]string
	children   []Node
}

// NodeInfof returns a NodeInfo with the name initialized with a formatted
// string.
func NodeInfof(format string, args ...any) NodeInfo {
	return NodeInfo{name: fmt.Sprintf(format, args...)}
}

// AddPropf adds a property to the NodeInfo.
func (ni *NodeInfo) AddPropf(key string, format string, args ...any) {
	ni.properties = append(ni.properties, [2]string{key, fmt.Sprintf(format, args...)})
}

// AddChildren adds one or more children to the NodeInfo.
//
// Any nil children are ignored (this includes nil pointers of any type).
func (ni *NodeInfo) AddChildren(nodes ...Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if val := reflect.ValueOf(n); val.Kind() == reflect.Ptr && val.IsNil() {
			continue
		}
		ni.children = append(ni.children, n)
	}
}

// RecordingOption is an optional argument to StartRecording.
type RecordingOption func(*Recording)

// MaxTreeDepth configures a recording to only show trees up to a certain
// depth. Deeper nodes are shown as "...".
func MaxTreeDepth(maxTreeDepth int) RecordingOption {
	return func(r *Recording) {
		r.maxTreeDepth = maxTreeDepth
	}
}

// Recording captures the states of a hierarchy. See StartRecording.
//
// A Recording is safe for concurrent use.
type Recording struct {
	name         string
	maxTreeDepth int

	mu struct {
		sync.Mutex
		steps    []Step
		finished bool
	}
}

// StartRecording starts a new recording and captures the initial state of the
// hierarchy rooted at root as the "initial" step. A nil root records an empty
// hierarchy.
func StartRecording(root Node, name string, opts ...RecordingOption) *Recording {
	r := &Recording{
		name:         name,
		maxTreeDepth: 20,
	}
	for _, o := range opts {
		o(r)
	}
	r.Stepf(root, "initial")
	return r
}

// Stepf captures the hierarchy rooted at root as a new step. The formatted
// string is the name/description of the step. Steps recorded after Finish are
// dropped.
func (r *Recording) Stepf(root Node, format string, args ...any) {
	step := Step{Name: fmt.Sprintf(format, args...)}
	if root != nil {
		step.Root = r.buildTree(root, 0)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.mu.finished {
		r.mu.steps = append(r.mu.steps, step)
	}
}

// Len returns the number of steps recorded so far.
func (r *Recording) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mu.steps)
}

// Finish completes the recording and returns the recorded steps.
func (r *Recording) Finish() Steps {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mu.finished = true
	return Steps{Name: r.name, Steps: r.mu.steps}
}

func (r *Recording) buildTree(n Node, depth int) TreeNode {
	info := n.TreeStepsNode()
	t := TreeNode{
		Name:       info.name,
		Properties: info.properties,
	}
	for _, c := range info.children {
		if depth < r.maxTreeDepth {
			t.Children = append(t.Children, r.buildTree(c, depth+1))
		} else {
			t.Children = append(t.Children, TreeNode{Name: "..."})
		}
	}
	return t
}

// TreeToString returns a string representation of the current state of a Node
// tree.
func TreeToString(n Node) string {
	r := &Recording{maxTreeDepth: 1 << 20}
	var buf strings.Builder
	tn := r.buildTree(n, 0)
	tn.format(&buf)
	return buf.String()
}
