// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ascii renders snapshots of the visualizer as text diagrams.
package ascii

import (
	"fmt"
	"slices"
	"strings"
)

// Board is a simple ASCII-based board for rendering ASCII text diagrams. The
// board grows as needed when text is written past its edges.
type Board struct {
	buf   []rune
	width int
}

// Make returns a new Board with the given initial width and height.
func Make(width, height int) Board {
	if width < 1 {
		width = 1
	}
	buf := make([]rune, 0, width*height)
	return Board{buf: buf, width: width}
}

// At returns a position at the given coordinates.
func (b *Board) At(r, c int) Cursor {
	if r >= b.lines() {
		b.growBuf((r - b.lines() + 1) * b.width)
	}
	return Cursor{b: b, r: r, c: c}
}

// NewLine appends a new line to the board and returns a position at the
// beginning of the line.
func (b *Board) NewLine() Cursor {
	return b.At(b.lines(), 0)
}

// String returns the Board as a string. Trailing spaces are trimmed from every
// line.
func (b *Board) String() string {
	var buf strings.Builder
	for r := 0; r < b.lines(); r++ {
		if r > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.TrimRight(string(b.row(r)), " "))
	}
	return buf.String()
}

// Reset resets the board to the given width and clears the contents.
func (b *Board) Reset(w int) {
	b.buf = b.buf[:0]
	b.width = max(w, 1)
}

func (b *Board) growBuf(n int) {
	b.buf = slices.Grow(b.buf, n)
	for range n {
		b.buf = append(b.buf, ' ')
	}
}

func (b *Board) write(r, c int, s string) {
	if n := len([]rune(s)); c+n > b.width {
		b.growWidth(c + n)
	}
	row := b.row(r)
	i := 0
	for _, ch := range s {
		row[c+i] = ch
		i++
	}
}

func (b *Board) growWidth(w int) {
	buf := make([]rune, w*b.lines())
	for i := range buf {
		buf[i] = ' '
	}
	for i := range b.lines() {
		copy(buf[i*w:(i+1)*w], b.buf[i*b.width:(i+1)*b.width])
	}
	b.buf = buf
	b.width = w
}

func (b *Board) lines() int {
	return len(b.buf) / b.width
}

func (b *Board) row(r int) []rune {
	if sz := (r + 1) * b.width; sz > len(b.buf) {
		b.growBuf(sz - len(b.buf))
	}
	return b.buf[r*b.width : (r+1)*b.width]
}

// Cursor is a position on a Board.
type Cursor struct {
	b    *Board
	r, c int
	// carriageReturnCol is the column to which newlines will return.
	carriageReturnCol int
}

// Right returns a new cursor with the given column offset from the current
// cursor.
func (c Cursor) Right(numCols int) Cursor {
	c.c += numCols
	return c
}

// SetCarriageReturnPosition returns a copy of the cursor, but with a carriage
// return position set so that newlines written to the resulting Cursor will
// return to the current column.
func (c Cursor) SetCarriageReturnPosition() Cursor {
	c.carriageReturnCol = c.c
	return c
}

// Row returns the row of the current position.
func (c Cursor) Row() int {
	return c.r
}

// Column returns the column of the current position.
func (c Cursor) Column() int {
	return c.c
}

// Printf writes the formatted string to cursor, returning a cursor where the
// written text ends.
func (c Cursor) Printf(format string, args ...interface{}) Cursor {
	return c.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes the provided string starting at the cursor, returning a
// cursor where the written text ends. Newlines in the string break to the next
// row, with the column reset to the cursor's carriage return column.
func (c Cursor) WriteString(s string) Cursor {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i >= 0 {
			c.b.write(c.r, c.c, s[:i])
			c = c.NewlineReturn()
			s = s[i+1:]
		} else {
			c.b.write(c.r, c.c, s)
			c.c += len([]rune(s))
			break
		}
	}
	return c
}

// NewlineReturn returns a cursor at the next line, with the column set to the
// cursor's carriage return column.
func (c Cursor) NewlineReturn() Cursor {
	c.r += 1
	c.c = c.carriageReturnCol
	return c
}
