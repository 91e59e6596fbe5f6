package calculatics

import (
	"strconv"
	"strings"

	"github.com/ahrtr/gocontainer/set"
)

// Item is an element of an operation tree. The concrete types are Num, Ident,
// Op, and Group.
type Item interface {
	item()
}

// Num is a numeric literal.
type Num float64

// Ident is a reference to a variable.
type Ident string

// Op is a binary arithmetic operator: one of '+', '-', '*', '/', or '^'.
type Op byte

// Group is a nested operation tree. The parser creates groups for bracketed
// subexpressions, and Restructure creates them for runs of operators that
// bind more tightly than addition.
type Group []Item

func (Num) item()   {}
func (Ident) item() {}
func (Op) item()    {}
func (Group) item() {}

// Tree is an ordered sequence of operands and operators. A well-formed tree
// has odd length, with operands at even indices and operators at odd ones.
type Tree []Item

// unwrap strips groups that are the only item of their parent. Such groups
// do not change the value of a tree.
func unwrap(items []Item) []Item {
	for len(items) == 1 {
		g, ok := items[0].(Group)
		if !ok {
			break
		}
		items = g
	}
	return items
}

// operand returns whether it can appear where an operand is expected.
func operand(it Item) bool {
	switch it.(type) {
	case Num, Ident, Group:
		return true
	default:
		return false
	}
}

// String formats the tree with alternating round and square brackets
// grouping each level of nesting.
func (t Tree) String() string {
	var b strings.Builder
	fmtitems(&b, t, false)
	return b.String()
}

func (g Group) String() string {
	var b strings.Builder
	fmtitem(&b, g, false)
	return b.String()
}

func (n Num) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (o Op) String() string {
	return string(rune(o))
}

func fmtitems(b *strings.Builder, items []Item, square bool) {
	for i, it := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmtitem(b, it, square)
	}
}

func fmtitem(b *strings.Builder, it Item, square bool) {
	switch it := it.(type) {
	case Num:
		b.WriteString(it.String())
	case Ident:
		b.WriteString(string(it))
	case Op:
		b.WriteByte(byte(it))
	case Group:
		var l, r byte = '(', ')'
		if square {
			l, r = '[', ']'
		}
		b.WriteByte(l)
		fmtitems(b, it, !square)
		b.WriteByte(r)
	case nil:
		// Invalid items use invalid characters.
		b.WriteString("$nil$")
	default:
		panic("calculatics: invalid item type after writing " + b.String())
	}
}

// Vars returns the names of the variables the tree refers to, including those
// in nested groups, in the order they first appear.
func (t Tree) Vars() []string {
	var names []string
	seen := set.New()
	var walk func([]Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch it := it.(type) {
			case Ident:
				if !seen.Contains(string(it)) {
					seen.Add(string(it))
					names = append(names, string(it))
				}
			case Group:
				walk(it)
			}
		}
	}
	walk(t)
	return names
}
