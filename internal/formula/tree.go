// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"fmt"
	"math"
)

// An Expr is a node in a formula tree. It is one of *Num, *Var,
// *Unary, or *Binary.
type Expr interface {
	isExpr()
	String() string
}

// A Num is a numeric literal.
type Num struct {
	Lit string
	Val float64
}

// A Var is a free variable. In a description file, a variable names a
// value of the dimension the formula selects from.
type Var struct {
	Name string

	// Off is the byte offset of the name in the original formula,
	// for error reporting.
	Off int
}

// A Unary is a sign applied to an operand. Op is '+' or '-'.
type Unary struct {
	Op byte
	X  Expr
}

// A Binary is an arithmetic operation. Op is one of '+', '-', '*',
// '/', or '^' (exponentiation).
type Binary struct {
	Op   byte
	L, R Expr
}

func (*Num) isExpr()    {}
func (*Var) isExpr()    {}
func (*Unary) isExpr()  {}
func (*Binary) isExpr() {}

func (e *Num) String() string   { return e.Lit }
func (e *Var) String() string   { return e.Name }
func (e *Unary) String() string { return string(e.Op) + e.X.String() }
func (e *Binary) String() string {
	return fmt.Sprintf("(%s %c %s)", e.L, e.Op, e.R)
}

// Vars returns the names of the free variables of e in order of first
// appearance, without duplicates.
func Vars(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(e Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case *Var:
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		case *Unary:
			walk(e.X)
		case *Binary:
			walk(e.L)
			walk(e.R)
		}
	}
	walk(e)
	return names
}

// An UnboundError reports a variable with no value during Eval.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("variable %q has no value", e.Name)
}

// Eval evaluates e with the variables bound in env.
//
// Arithmetic follows IEEE 754: division by zero yields an infinity
// and a NaN operand yields NaN. Eval returns an *UnboundError if a
// variable of e is missing from env.
func Eval(e Expr, env map[string]float64) (float64, error) {
	switch e := e.(type) {
	case *Num:
		return e.Val, nil
	case *Var:
		v, ok := env[e.Name]
		if !ok {
			return 0, &UnboundError{e.Name}
		}
		return v, nil
	case *Unary:
		x, err := Eval(e.X, env)
		if err != nil {
			return 0, err
		}
		if e.Op == '-' {
			return -x, nil
		}
		return x, nil
	case *Binary:
		l, err := Eval(e.L, env)
		if err != nil {
			return 0, err
		}
		r, err := Eval(e.R, env)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			return l / r, nil
		case '^':
			return math.Pow(l, r), nil
		}
		panic(fmt.Sprintf("unknown operator %q", e.Op))
	}
	panic(fmt.Sprintf("unknown expression type %T", e))
}
