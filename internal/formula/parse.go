// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package formula implements the arithmetic formulas used to combine
// benchmark values in description files.
//
// A formula is an expression over numeric literals and variables
// using +, -, *, /, and ^ (or **) for exponentiation, with unary signs
// and parentheses. Exponentiation is right-associative and binds more
// tightly than a leading sign, so -2^2 is -4.
package formula

// Parse parses a formula into an Expr tree.
func Parse(q string) (Expr, error) {
	toks := newTokenizer(q)
	p := parser{}
	e, toks := p.expr(toks)
	toks.end()
	if toks.errt.err != nil {
		return nil, toks.errt.err
	}
	return e, nil
}

type parser struct{}

func (p *parser) error(toks tokenizer, msg string) tokenizer {
	_, toks = toks.error(msg)
	return toks
}

// expr parses a sum of terms.
func (p *parser) expr(toks tokenizer) (Expr, tokenizer) {
	var e Expr
	e, toks = p.term(toks)
	for {
		op, toks2 := toks.next()
		if op.Kind != '+' && op.Kind != '-' {
			return e, toks
		}
		var r Expr
		r, toks = p.term(toks2)
		e = &Binary{op.Kind, e, r}
	}
}

// term parses a product of signed factors.
func (p *parser) term(toks tokenizer) (Expr, tokenizer) {
	var e Expr
	e, toks = p.unary(toks)
	for {
		op, toks2 := toks.next()
		if op.Kind != '*' && op.Kind != '/' {
			return e, toks
		}
		var r Expr
		r, toks = p.unary(toks2)
		e = &Binary{op.Kind, e, r}
	}
}

func (p *parser) unary(toks tokenizer) (Expr, tokenizer) {
	op, rest := toks.next()
	if op.Kind == '+' || op.Kind == '-' {
		x, rest := p.unary(rest)
		return &Unary{op.Kind, x}, rest
	}
	return p.power(toks)
}

func (p *parser) power(toks tokenizer) (Expr, tokenizer) {
	var base Expr
	base, toks = p.primary(toks)
	op, rest := toks.next()
	if op.Kind != '^' {
		return base, toks
	}
	// The exponent may itself carry a sign, as in 2^-1, and
	// exponentiation groups to the right.
	exp, rest := p.unary(rest)
	return &Binary{'^', base, exp}, rest
}

func (p *parser) primary(start tokenizer) (Expr, tokenizer) {
	tok, rest := start.next()
	switch tok.Kind {
	case 'n':
		return &Num{tok.Tok, tok.Num}, rest
	case 'w':
		return &Var{tok.Tok, tok.Off}, rest
	case '(':
		e, rest := p.expr(rest)
		if rest.peek().Kind != ')' {
			return nil, p.error(rest, "missing \")\"")
		}
		_, rest = rest.next()
		return e, rest
	}
	return nil, p.error(start, "expected number, name, or subexpression")
}
