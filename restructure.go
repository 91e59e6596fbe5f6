package calculatics

// MaxDepth is the deepest nesting of groups that the parser, Restructure, and
// Eval accept. A group that is the only item of its parent does not add a
// level, so wrapping a run of * and / in a group costs nothing when the run
// already fills its brackets. Groups that Restructure creates inside a sum,
// and each ^ in a chain after the first, do count.
const MaxDepth = 256

// maxClimb bounds the recursion of Restructure on any input. The depth of the
// result is checked exactly afterward.
const maxClimb = 4 * MaxDepth

// Restructure groups a flat operation tree by operator precedence. Each
// maximal run of * and / with its operands becomes one Group, and each ^ with
// its operands becomes a three-item Group, nested to the right for chains:
//
//	2 + 3 * 4 / 5 - 6  ->  2 + (3 * 4 / 5) - 6
//	2 ^ 3 ^ 2          ->  (2 ^ [3 ^ 2])
//	2 * 3 ^ 2          ->  (2 * [3 ^ 2])
//
// Addition and subtraction stay at the level where they appear. Groups in the
// input are restructured recursively. Restructure does not check that the
// tree is well-formed; operators without an operand on both sides are left
// where they are, for Eval to reject. The only error is a *DepthError.
func Restructure(t Tree) (Tree, error) {
	r, err := restructure(t, 0)
	if err != nil {
		return nil, err
	}
	if tooDeep(r, 0) {
		return nil, &DepthError{}
	}
	return r, nil
}

// tooDeep reports whether items nest more than MaxDepth levels below depth,
// counting levels the same way Eval does.
func tooDeep(items []Item, depth int) bool {
	items = unwrap(items)
	if depth > MaxDepth {
		return true
	}
	for _, it := range items {
		if g, ok := it.(Group); ok && tooDeep(g, depth+1) {
			return true
		}
	}
	return false
}

func restructure(items []Item, depth int) (Tree, error) {
	if depth > maxClimb {
		return nil, &DepthError{}
	}
	r := restructurer{items: items}
	out := make(Tree, 0, len(items))
	for r.pos < len(items) {
		if !operand(items[r.pos]) {
			out = append(out, items[r.pos])
			r.pos++
			continue
		}
		it, err := r.climb(sumprec, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// restructurer is a cursor over the items of one level of a tree.
type restructurer struct {
	items []Item
	pos   int
}

// binop returns the operator at the cursor if there is an operand after it.
// It does not advance the cursor.
func (r *restructurer) binop() (operator, bool) {
	if r.pos+1 >= len(r.items) {
		return operator{}, false
	}
	o, ok := r.items[r.pos].(Op)
	if !ok || !operand(r.items[r.pos+1]) {
		return operator{}, false
	}
	p := binop(o)
	return p, p.sym != 0
}

// operand consumes the operand at the cursor, restructuring it if it is a
// group. Groups that only wrap another group are collapsed.
func (r *restructurer) operand(depth int) (Item, error) {
	it := r.items[r.pos]
	r.pos++
	g, ok := it.(Group)
	if !ok {
		return it, nil
	}
	t, err := restructure(unwrap(g), depth+1)
	if err != nil {
		return nil, err
	}
	return Group(t), nil
}

// climb consumes an operand and every following operator that is more
// binding than until, along with their operands. Left-associative operators
// of the same precedence extend a single group; right-associative ones nest.
func (r *restructurer) climb(until operator, depth int) (Item, error) {
	if depth > maxClimb {
		return nil, &DepthError{}
	}
	lhs, err := r.operand(depth)
	if err != nil {
		return nil, err
	}
	var run Group
	var runop operator
	for {
		op, ok := r.binop()
		if !ok || !op.moreBinding(until) {
			break
		}
		r.pos++
		// Only right-associative operators nest. A left-associative rhs
		// recurses only through tighter operators.
		d := depth
		if op.right {
			d++
		}
		rhs, err := r.climb(op, d)
		if err != nil {
			return nil, err
		}
		if run != nil && !op.right && op.prec == runop.prec {
			run = append(run, op.sym, rhs)
			continue
		}
		if run != nil {
			lhs = run
		}
		run = Group{lhs, op.sym, rhs}
		runop = op
	}
	if run == nil {
		return lhs, nil
	}
	return run, nil
}
