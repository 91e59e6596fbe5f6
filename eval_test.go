package calculatics_test

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/zephyrtronium/calculatics"
)

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v float64
	}
	type vc struct {
		vars []vv
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"zero", "0", []vc{{nil, 0}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", 0}}, 0},
			{[]vv{{"x", -6}}, -6},
		}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "8/4/2", []vc{{nil, 1}}},
		{"realdiv", "5 / 2", []vc{{nil, 2.5}}},
		{"pow", "4^3^2", []vc{{nil, 262144}}},
		{"powright", "2 ^ 3 ^ 2", []vc{{nil, 512}}},
		{"precedence", "2 + 3 * 4", []vc{{nil, 14}}},
		{"grouped", "(2 + 3) * 4", []vc{{nil, 20}}},
		{"mulpow", "2 * 3 ^ 2 * 4", []vc{{nil, 72}}},
		{"sqrt", "2 ^ 0.5", []vc{{nil, math.Sqrt2}}},
		{"negbase", "(0 - 2) ^ 3", []vc{{nil, -8}}},
		{"brackets", "[2 + {3 - 1}] ^ 2", []vc{{nil, 16}}},
		{"literals", "1e3 + .5", []vc{{nil, 1000.5}}},
		{"vars", "x * 2", []vc{
			{[]vv{{"x", 5}}, 10},
			{[]vv{{"x", 0}}, 0},
		}},
		{"zeroacc", "x - 1", []vc{{[]vv{{"x", 0}}, -1}}},
		{"zeroaccmul", "x * 5 + 1", []vc{{[]vv{{"x", 0}}, 1}}},
		{"zerofirst", "0 + 3", []vc{{nil, 3}}},
		{"twovars", "x ^ y - y", []vc{
			{[]vv{{"x", 2}, {"y", 10}}, 1014},
			{[]vv{{"x", 10}, {"y", 0}}, 1},
		}},
		{"divzero", "1 / 0", []vc{{nil, math.Inf(1)}}},
		{"negdivzero", "0 - 1 / 0", []vc{{nil, math.Inf(-1)}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, v := range c.r {
				var opts []calculatics.ScopeOption
				for _, x := range v.vars {
					opts = append(opts, calculatics.SetVar(x.n, x.v))
				}
				r, err := calculatics.EvalString(c.src, opts...)
				if err != nil {
					t.Errorf("evaluating %q with %v: %v", c.src, v.vars, err)
					continue
				}
				if r != v.r {
					t.Errorf("wrong result for %q with %v: want %g, got %g", c.src, v.vars, v.r, r)
				}
			}
		})
	}
}

func TestEvalNaN(t *testing.T) {
	r, err := calculatics.EvalString("0 / 0")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(r) {
		t.Errorf("0/0 should be NaN, got %g", r)
	}
}

func TestEvalTrees(t *testing.T) {
	cases := []struct {
		name  string
		tree  calculatics.Tree
		scope *calculatics.Scope
		r     float64
	}{
		{
			name: "grouped",
			tree: calculatics.Tree{
				calculatics.Group{calculatics.Num(2), calculatics.Op('+'), calculatics.Num(3)},
				calculatics.Op('*'),
				calculatics.Num(4),
			},
			r: 20,
		},
		{
			name: "scope",
			tree: calculatics.Tree{
				calculatics.Ident("x"),
				calculatics.Op('*'),
				calculatics.Num(2),
			},
			scope: calculatics.NewScope(calculatics.SetVar("x", 5)),
			r:     10,
		},
		{
			name: "precedence",
			tree: calculatics.Tree{
				calculatics.Num(2),
				calculatics.Op('+'),
				calculatics.Num(3),
				calculatics.Op('*'),
				calculatics.Num(4),
			},
			r: 14,
		},
		{
			name: "single-group",
			tree: calculatics.Tree{calculatics.Group{calculatics.Group{calculatics.Num(7)}}},
			r:    7,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := c.scope
			if s == nil {
				s = calculatics.NewScope()
			}
			rt, err := calculatics.Restructure(c.tree)
			if err != nil {
				t.Fatal(err)
			}
			r, err := calculatics.Eval(rt, s, 1)
			if err != nil {
				t.Fatalf("evaluating %v: %v", rt, err)
			}
			if r != c.r {
				t.Errorf("wrong result for %v: want %g, got %g", rt, c.r, r)
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    string
	}{
		{"x", "x", "x"},
		{"add-lhs", "x+1", "x"},
		{"add-rhs", "1+x", "x"},
		{"sub-lhs", "x-1", "x"},
		{"sub-rhs", "1-x", "x"},
		{"mul-lhs", "x*1", "x"},
		{"mul-rhs", "1*x", "x"},
		{"div-lhs", "x/1", "x"},
		{"div-rhs", "1/x", "x"},
		{"pow-lhs", "x^1", "x"},
		{"pow-rhs", "1^x", "x"},
		{"group", "2 * (1 + (y))", "y"},
	}
	ure := regexp.MustCompile(`(?i)\bundefined`)
	vre := regexp.MustCompile(`(?i)\bvariable`)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := calculatics.ParseExpr(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if v := a.Vars(); len(v) != 1 || v[0] != c.r {
				t.Errorf("%q gave wrong variables: want [%q], got %q", c.src, c.r, v)
			}
			a, err = calculatics.Restructure(a)
			if err != nil {
				t.Fatal(err)
			}
			r, err := calculatics.Eval(a, calculatics.NewScope(calculatics.SetVar("z", 1)), 3)
			if err == nil {
				t.Fatalf("evaluating %q gave %g with no error", c.src, r)
			}
			var u *calculatics.UnresolvedIdentifierError
			if !errors.As(err, &u) {
				t.Fatalf("%#v is not *calculatics.UnresolvedIdentifierError", err)
			}
			if u.Name != c.r {
				t.Errorf("wrong name: want %q, got %q", c.r, u.Name)
			}
			if u.Line != 3 || u.SourceLine() != 3 {
				t.Errorf("wrong line: want 3, got %d", u.Line)
			}
			msg := err.Error()
			if !ure.MatchString(msg) || !vre.MatchString(msg) {
				t.Errorf("%q doesn't say undefined variable", msg)
			}
			if !regexp.MustCompile(`\b` + c.r + `\b`).MatchString(msg) {
				t.Errorf("%q doesn't mention %q", msg, c.r)
			}
		})
	}
}

func TestEvalMalformed(t *testing.T) {
	num := func(x float64) calculatics.Item { return calculatics.Num(x) }
	op := func(c byte) calculatics.Item { return calculatics.Op(c) }
	cases := []struct {
		name  string
		tree  calculatics.Tree
		index int
	}{
		{"empty", calculatics.Tree{}, 0},
		{"trailing", calculatics.Tree{num(3), op('+')}, 2},
		{"leading", calculatics.Tree{op('-'), num(3)}, 0},
		{"only-op", calculatics.Tree{op('*')}, 0},
		{"adjacent-ops", calculatics.Tree{num(3), op('+'), op('+'), num(4)}, 2},
		{"adjacent-operands", calculatics.Tree{num(3), num(4)}, 1},
		{"unknown-op", calculatics.Tree{num(3), op('%'), num(4)}, 1},
		{"inner", calculatics.Tree{calculatics.Group{num(3), op('*')}, op('+'), num(1)}, 2},
		{"empty-group", calculatics.Tree{calculatics.Group{}}, 0},
		{"nil", calculatics.Tree{num(1), op('+'), nil}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calculatics.Eval(c.tree, calculatics.NewScope(), 7)
			if err == nil {
				t.Fatalf("evaluating %v gave %g with no error", c.tree, r)
			}
			var m *calculatics.MalformedExpressionError
			if !errors.As(err, &m) {
				t.Fatalf("%#v is not *calculatics.MalformedExpressionError", err)
			}
			if m.Line != 7 {
				t.Errorf("wrong line: want 7, got %d", m.Line)
			}
			if m.Index != c.index {
				t.Errorf("wrong index: want %d, got %d (%v)", c.index, m.Index, err)
			}
			if r != 0 {
				t.Errorf("failed evaluation gave non-zero result %g", r)
			}
		})
	}
}

func TestEvalMalformedSource(t *testing.T) {
	cases := []string{"3 +", "* 3", "3 * * 4", "2 ^", "(1 +) * 2", "3 (4)"}
	for _, src := range cases {
		_, err := calculatics.EvalString(src)
		if !errors.As(err, new(*calculatics.MalformedExpressionError)) {
			t.Errorf("%q gave %v, not *calculatics.MalformedExpressionError", src, err)
		}
	}
}

func TestEvalDepth(t *testing.T) {
	wrapped := calculatics.Tree{calculatics.Num(7)}
	for i := 0; i < 10*calculatics.MaxDepth; i++ {
		wrapped = calculatics.Tree{calculatics.Group(wrapped)}
	}
	if v, err := calculatics.Eval(wrapped, calculatics.NewScope(), 1); err != nil || v != 7 {
		t.Errorf("groups wrapping groups gave %g, %v", v, err)
	}

	deep := calculatics.Tree{calculatics.Num(1)}
	for i := 0; i < calculatics.MaxDepth+1; i++ {
		deep = calculatics.Tree{calculatics.Num(1), calculatics.Op('*'), calculatics.Group(deep)}
	}
	_, err := calculatics.Eval(deep, calculatics.NewScope(), 2)
	var d *calculatics.DepthError
	if !errors.As(err, &d) {
		t.Fatalf("deep tree gave %v, not *calculatics.DepthError", err)
	}
	if d.Line != 2 {
		t.Errorf("wrong line: want 2, got %d", d.Line)
	}
}

func TestEvalNilScope(t *testing.T) {
	a, err := calculatics.ParseExpr(strings.NewReader("2 * x"))
	if err != nil {
		t.Fatal(err)
	}
	a, err = calculatics.Restructure(a)
	if err != nil {
		t.Fatal(err)
	}
	_, err = calculatics.Eval(a, nil, 4)
	var u *calculatics.UnresolvedIdentifierError
	if !errors.As(err, &u) {
		t.Fatalf("%#v is not *calculatics.UnresolvedIdentifierError", err)
	}
	if u.Name != "x" || u.Line != 4 {
		t.Errorf("wrong error: %+v", u)
	}
	if v, err := calculatics.Eval(calculatics.Tree{calculatics.Num(5)}, nil, 1); err != nil || v != 5 {
		t.Errorf("constant in nil scope gave %g, %v", v, err)
	}
}

func TestEvalDoesNotAssign(t *testing.T) {
	s := calculatics.NewScope(calculatics.SetVar("x", 1))
	a, err := calculatics.ParseExpr(strings.NewReader("x + y"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := calculatics.Eval(a, s, 1); err == nil {
		t.Fatal("no error for undefined y")
	}
	if s.Len() != 1 {
		t.Errorf("scope changed: %q", s.Names())
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"order", "z+y+x*w", []string{"z", "y", "x", "w"}},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
		{"nested", "a * (b + [c ^ a])", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := calculatics.ParseExpr(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := a.Vars()
			if fmt.Sprint(vars) != fmt.Sprint(c.vars) || len(vars) != len(c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func BenchmarkEval(b *testing.B) {
	parse := func(b *testing.B, src string) calculatics.Tree {
		a, err := calculatics.ParseExpr(strings.NewReader(src))
		if err != nil {
			b.Fatal(err)
		}
		a, err = calculatics.Restructure(a)
		if err != nil {
			b.Fatal(err)
		}
		return a
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		a := parse(b, "2+3*4^2")
		s := calculatics.NewScope()
		for i := 0; i < b.N; i++ {
			calculatics.Eval(a, s, 1)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		a := parse(b, "x+y*z^2")
		s := calculatics.NewScope(calculatics.SetVars(map[string]float64{"x": 2, "y": 3, "z": 4}))
		for i := 0; i < b.N; i++ {
			calculatics.Eval(a, s, 1)
		}
	})
}

func BenchmarkRestructure(b *testing.B) {
	a, err := calculatics.ParseExpr(strings.NewReader("a + b * c ^ d ^ e / f - (g * h + i) * j"))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		calculatics.Restructure(a)
	}
}
