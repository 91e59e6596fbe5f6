package calculatics

import "math"

// Operators contains the operator symbols the language understands.
const Operators = "+-*/^"

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// sym is the operator symbol. It is zero for invalid operators.
	sym Op
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets the operator for a symbol. If there is no such operator, then
// the result has a sym of zero.
func binop(o Op) operator {
	switch o {
	case '+', '-':
		return operator{1, false, o}
	case '*', '/':
		return operator{5, false, o}
	case '^':
		return operator{15, true, o}
	default:
		return operator{}
	}
}

// sumprec is the precedence of the operators that delimit runs. Only
// operators more binding than it are grouped by Restructure.
var sumprec = binop('+')

// apply computes l o r. The second result is false if o is not an operator.
// Division and exponentiation follow IEEE 754 rules, so 1/0 is +Inf and 0/0
// is NaN.
func (o Op) apply(l, r float64) (float64, bool) {
	switch o {
	case '+':
		return l + r, true
	case '-':
		return l - r, true
	case '*':
		return l * r, true
	case '/':
		return l / r, true
	case '^':
		return math.Pow(l, r), true
	default:
		return 0, false
	}
}
