package calculatics

import (
	"fmt"
	"strings"
)

// Eval evaluates a restructured operation tree in a scope. Items are folded
// from left to right: the first operand initializes the result, and each
// following operator applies the result and the next operand. Identifiers
// are looked up in s, and groups are evaluated recursively.
//
// The tree must be well-formed; otherwise the error is a
// *MalformedExpressionError. Missing variables give an
// *UnresolvedIdentifierError. Every error reports line as its source line.
func Eval(t Tree, s *Scope, line int) (float64, error) {
	e := evaluator{scope: s, line: line}
	return e.fold(t, 0)
}

// evaluator holds the parameters shared by every level of one evaluation.
type evaluator struct {
	scope *Scope
	line  int
}

// fold evaluates one level of a tree. A group that is the whole level is
// folded in place without counting as a level.
func (e *evaluator) fold(items []Item, depth int) (float64, error) {
	items = unwrap(items)
	if depth > MaxDepth {
		return 0, &DepthError{Line: e.line}
	}
	var (
		acc  float64
		init bool // acc holds the first operand, even if it is zero
		op   Op
		pend bool // op has been read but not applied
	)
	for i, it := range items {
		if o, ok := it.(Op); ok {
			switch {
			case !init:
				return 0, e.malformed(i, "leading operator "+o.String())
			case pend:
				return 0, e.malformed(i, "operator "+o.String()+" follows operator "+op.String())
			}
			op, pend = o, true
			continue
		}
		v, err := e.operand(it, i, depth)
		if err != nil {
			return 0, err
		}
		if !init {
			acc, init = v, true
			continue
		}
		if !pend {
			return 0, e.malformed(i, "missing operator before operand "+fmt.Sprint(it))
		}
		r, ok := op.apply(acc, v)
		if !ok {
			return 0, e.malformed(i-1, "unknown operator "+fmt.Sprintf("%q", byte(op)))
		}
		acc, pend = r, false
	}
	switch {
	case !init:
		return 0, e.malformed(0, "empty expression")
	case pend:
		return 0, e.malformed(len(items), "trailing operator "+op.String())
	}
	return acc, nil
}

// operand resolves a single operand to a number.
func (e *evaluator) operand(it Item, i, depth int) (float64, error) {
	switch it := it.(type) {
	case Num:
		return float64(it), nil
	case Ident:
		v, err := e.scope.Lookup(string(it))
		if err != nil {
			return 0, &UnresolvedIdentifierError{Name: string(it), Line: e.line}
		}
		return v, nil
	case Group:
		return e.fold(it, depth+1)
	default:
		return 0, e.malformed(i, fmt.Sprintf("invalid item %v", it))
	}
}

func (e *evaluator) malformed(i int, reason string) error {
	return &MalformedExpressionError{Line: e.line, Index: i, Reason: reason}
}

// EvalString is a shortcut to parse, restructure, and evaluate an expression
// in a new scope created with opts.
func EvalString(src string, opts ...ScopeOption) (float64, error) {
	t, err := ParseExpr(strings.NewReader(src))
	if err != nil {
		return 0, err
	}
	t, err = Restructure(t)
	if err != nil {
		return 0, atline(err, 1)
	}
	return Eval(t, NewScope(opts...), 1)
}
