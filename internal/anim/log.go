// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package anim

// Log is a bounded log of messages. Once full, adding a message drops the
// oldest one.
type Log struct {
	buf   []string
	start int
	n     int
}

// MakeLog returns a Log holding up to capacity messages. The capacity must be
// positive.
func MakeLog(capacity int) Log {
	if capacity <= 0 {
		panic("anim: log capacity must be positive")
	}
	return Log{buf: make([]string, capacity)}
}

// Add appends a message.
func (l *Log) Add(msg string) {
	if l.n < len(l.buf) {
		l.buf[(l.start+l.n)%len(l.buf)] = msg
		l.n++
		return
	}
	l.buf[l.start] = msg
	l.start = (l.start + 1) % len(l.buf)
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return l.n
}

// Cap returns the maximum number of messages the log holds.
func (l *Log) Cap() int {
	return len(l.buf)
}

// Entries returns a copy of the messages, oldest first.
func (l *Log) Entries() []string {
	res := make([]string, l.n)
	for i := range res {
		res[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return res
}

// Last returns the most recent message, or "" if the log is empty.
func (l *Log) Last() string {
	if l.n == 0 {
		return ""
	}
	return l.buf[(l.start+l.n-1)%len(l.buf)]
}

// Reset removes all messages.
func (l *Log) Reset() {
	clear(l.buf)
	l.start, l.n = 0, 0
}
