// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package strparse provides facilities for parsing command lines, used by the
// command scripts of the CLI and by datadriven tests.
package strparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/bstviz/internal/bst"
	"github.com/cockroachdb/errors"
)

// Parser splits a string into tokens. Tokens are separated by whitespace; in
// addition user-specified separators are always separate tokens. For example,
// with the separators `,` the string `insert 1,2, 3` results in the tokens
// `insert`, `1`, `,`, `2`, `,`, `3`.
//
// All Parser methods panic instead of returning errors. Callers wrap parsing
// in Catch to convert the panics back into errors.
type Parser struct {
	original  string
	tokens    []token
	lastToken token
}

type token struct {
	tok    string
	offset int
}

// MakeParser constructs a new Parser that treats every rune in separators as
// a token of its own, and consumes the provided input string.
func MakeParser(separators string, input string) Parser {
	p := Parser{original: input}
	start := -1
	flush := func(end int) {
		if start >= 0 {
			p.tokens = append(p.tokens, token{tok: input[start:end], offset: start})
			start = -1
		}
	}
	for i, r := range input {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case strings.ContainsRune(separators, r):
			flush(i)
			p.tokens = append(p.tokens, token{tok: string(r), offset: i})
		case start < 0:
			start = i
		}
	}
	flush(len(input))
	return p
}

// Done returns true if there are no more tokens.
func (p *Parser) Done() bool {
	return len(p.tokens) == 0
}

// Offset returns the offset of the next token.
func (p *Parser) Offset() int {
	if p.Done() {
		return len(p.original)
	}
	return p.tokens[0].offset
}

// Peek returns the next token, without consuming the token. Returns "" if there
// are no more tokens.
func (p *Parser) Peek() string {
	if p.Done() {
		p.lastToken = token{}
		return ""
	}
	p.lastToken = p.tokens[0]
	return p.tokens[0].tok
}

// Next returns the next token, or "" if there are no more tokens.
func (p *Parser) Next() string {
	res := p.Peek()
	if res != "" {
		p.tokens = p.tokens[1:]
	}
	return res
}

// Remaining returns all the remaining tokens, separated by spaces.
func (p *Parser) Remaining() string {
	toks := make([]string, len(p.tokens))
	for i := range p.tokens {
		toks[i] = p.tokens[i].tok
	}
	p.tokens = nil
	return strings.Join(toks, " ")
}

// Expect consumes the next tokens, verifying that they exactly match the
// arguments.
func (p *Parser) Expect(tokens ...string) {
	for _, tok := range tokens {
		if res := p.Next(); res != tok {
			p.Errf("expected %q, got %q", tok, res)
		}
	}
}

// Int parses the next token as an integer.
func (p *Parser) Int() int {
	if p.Done() {
		p.Errf("expected number")
	}
	x, err := strconv.Atoi(p.Next())
	if err != nil {
		p.Errf("cannot parse number: %v", err)
	}
	return x
}

// Ints parses all remaining tokens as integers, skipping the "," separator.
func (p *Parser) Ints() []int {
	var res []int
	for !p.Done() {
		if p.Peek() == "," {
			p.Next()
			continue
		}
		res = append(res, p.Int())
	}
	return res
}

// Order parses the next token as a traversal order.
func (p *Parser) Order() bst.Order {
	o, err := bst.ParseOrder(p.Next())
	if err != nil {
		p.Errf("%v", err)
	}
	return o
}

// Errf panics with an error which includes the original string and the last
// token.
func (p *Parser) Errf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	panic(errors.Errorf("error parsing %q at token %q: %s", p.original, p.lastToken.tok, msg))
}

// Catch runs fn and converts a panic raised by a Parser into an error. Other
// panics are propagated.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !strings.HasPrefix(e.Error(), "error parsing") {
				panic(r)
			}
			err = e
		}
	}()
	fn()
	return nil
}
