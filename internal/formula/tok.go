// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A SyntaxError is an error produced by parsing a malformed formula.
type SyntaxError struct {
	Query string // The original formula
	Off   int    // Byte offset of the error in Query
	Msg   string // Error message
}

func (e *SyntaxError) Error() string {
	// Translate byte offset to a rune offset.
	pos := 0
	for i, r := range e.Query {
		if i >= e.Off {
			break
		}
		if unicode.IsGraphic(r) {
			pos++
		}
	}
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, pos, "")
}

type errorTracker struct {
	qOrig string
	err   *SyntaxError
}

func (t *errorTracker) error(q string, msg string) {
	off := len(t.qOrig) - len(q)
	if t.err == nil {
		t.err = &SyntaxError{t.qOrig, off, msg}
	}
}

// A tok is a single token in the formula lexical syntax.
type tok struct {
	// Kind is 'n' for a number, 'w' for an identifier, '^' for
	// both "^" and "**", another operator character, or 0 for
	// the end-of-string token.
	Kind byte
	Off  int    // Byte offset of the beginning of this token
	Tok  string // Literal token contents
	Num  float64
}

type tokenizer struct {
	q    string
	errt *errorTracker
}

func newTokenizer(q string) tokenizer {
	return tokenizer{q, &errorTracker{q, nil}}
}

func isOp(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '^', '(', ')':
		return true
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdent(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// peek returns the next token without consuming it.
func (t *tokenizer) peek() tok {
	tok, _ := t.next()
	return tok
}

// end asserts that t has reached the end of the token stream. If it
// has not, it returns a tokenizer that reports an error.
func (t *tokenizer) end() tokenizer {
	if tok, _ := t.next(); tok.Kind != 0 {
		_, t2 := t.error("unexpected " + strconv.Quote(tok.Tok))
		return t2
	}
	return *t
}

func (t *tokenizer) next() (tok, tokenizer) {
	for len(t.q) > 0 {
		r, size := utf8.DecodeRuneInString(t.q)
		switch {
		case unicode.IsSpace(r):
			t.q = t.q[size:]
		case t.q[0] == '*' && len(t.q) > 1 && t.q[1] == '*':
			return t.tok('^', t.q[:2], t.q[2:])
		case isOp(t.q[0]):
			return t.tok(t.q[0], t.q[:1], t.q[1:])
		case isDigit(t.q[0]) || t.q[0] == '.':
			return t.number()
		case isIdentStart(r):
			return t.ident()
		default:
			return t.error("unexpected character " + strconv.QuoteRune(r))
		}
	}
	// Add an EOF token. This eliminates the need for lots of
	// bounds checks in the parser and gives the EOF a position.
	return t.tok(0, "", "")
}

func (t *tokenizer) tok(kind byte, token string, rest string) (tok, tokenizer) {
	off := len(t.errt.qOrig) - len(t.q)
	return tok{kind, off, token, 0}, tokenizer{rest, t.errt}
}

func (t *tokenizer) error(msg string) (tok, tokenizer) {
	t.errt.error(t.q, msg)
	// Move to the end.
	return t.tok(0, "", "")
}

func (t *tokenizer) number() (tok, tokenizer) {
	q := t.q
	i := 0
	for i < len(q) && isDigit(q[i]) {
		i++
	}
	if i < len(q) && q[i] == '.' {
		i++
		for i < len(q) && isDigit(q[i]) {
			i++
		}
	}
	// Optional exponent. Only consume it if it is well-formed so
	// that "2e" is reported at the "e".
	if i < len(q) && (q[i] == 'e' || q[i] == 'E') {
		j := i + 1
		if j < len(q) && (q[j] == '+' || q[j] == '-') {
			j++
		}
		if j < len(q) && isDigit(q[j]) {
			for j < len(q) && isDigit(q[j]) {
				j++
			}
			i = j
		}
	}
	lit := q[:i]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return t.error("bad number " + strconv.Quote(lit))
	}
	// A number must not run straight into an identifier, as in
	// "2x".
	if r, _ := utf8.DecodeRuneInString(q[i:]); i < len(q) && isIdent(r) {
		t.q = q[i:]
		return t.error("number must be followed by space or an operator")
	}
	tk, next := t.tok('n', lit, q[i:])
	tk.Num = v
	return tk, next
}

func (t *tokenizer) ident() (tok, tokenizer) {
	end := len(t.q)
	for i, r := range t.q {
		if !isIdent(r) {
			end = i
			break
		}
	}
	return t.tok('w', t.q[:end], t.q[end:])
}
