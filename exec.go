package calculatics

import (
	"fmt"
	"io"
	"strings"

	"github.com/edwingeng/deque"
	"github.com/tevino/abool/v2"
)

// Executor runs statements against a scope. Assignments change the scope,
// and log and ret statements write their values to an output. An Executor is
// not safe for concurrent use, except for Interrupt.
type Executor struct {
	scope  *Scope
	out    io.Writer
	verb   string
	report func(error)
	echo   func(Statement, Tree)
	stop   *abool.AtomicBool
	halted bool
}

// ExecOption is an option used when creating an executor.
type ExecOption interface {
	execOption()
}

type (
	verbopt   string
	reportopt func(error)
	echoopt   func(Statement, Tree)
)

func (verbopt) execOption()   {}
func (reportopt) execOption() {}
func (echoopt) execOption()   {}

// Verb sets the fmt verb used to format values written by log and ret
// statements. The default is "%g".
func Verb(verb string) ExecOption {
	return verbopt(verb)
}

// ContinueOnError makes Run pass each statement error to report and move on
// to the next statement instead of stopping.
func ContinueOnError(report func(error)) ExecOption {
	return reportopt(report)
}

// Echo calls f with each statement and its restructured expression before
// the expression is evaluated.
func Echo(f func(st Statement, restructured Tree)) ExecOption {
	return echoopt(f)
}

// NewExecutor creates an executor that evaluates in s and writes to out.
func NewExecutor(s *Scope, out io.Writer, opts ...ExecOption) *Executor {
	x := Executor{
		scope: s,
		out:   out,
		verb:  "%g",
		stop:  abool.New(),
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			continue
		case verbopt:
			x.verb = string(opt)
		case reportopt:
			x.report = opt
		case echoopt:
			x.echo = opt
		default:
			panic("calculatics: unknown option type")
		}
	}
	return &x
}

// Scope returns the executor's scope.
func (x *Executor) Scope() *Scope {
	return x.scope
}

// Halted returns whether a ret statement has run.
func (x *Executor) Halted() bool {
	return x.halted
}

// Interrupt makes Run stop before its next statement and return
// ErrInterrupted. It is safe to call from another goroutine.
func (x *Executor) Interrupt() {
	x.stop.Set()
}

// Run executes statements in order until one returns or, unless the executor
// was created with ContinueOnError, fails. Run does nothing once the executor
// has halted.
func (x *Executor) Run(prog []Statement) error {
	q := deque.NewDeque()
	for _, st := range prog {
		q.PushBack(st)
	}
	for !q.Empty() && !x.halted {
		if x.stop.IsSet() {
			x.stop.UnSet()
			return ErrInterrupted
		}
		st := q.PopFront().(Statement)
		if _, err := x.Exec(st); err != nil {
			if x.report == nil {
				return err
			}
			x.report(err)
		}
	}
	return nil
}

// Exec executes a single statement. halt is true if the statement was a ret.
// A failed statement does not change the scope or write any output.
func (x *Executor) Exec(st Statement) (halt bool, err error) {
	t, err := Restructure(st.Expr)
	if err != nil {
		return false, atline(err, st.Line)
	}
	if x.echo != nil {
		x.echo(st, t)
	}
	v, err := Eval(t, x.scope, st.Line)
	if err != nil {
		return false, err
	}
	switch st.Kind {
	case VariableStatement:
		x.scope.Assign(st.Name, v)
	case LogStatement:
		return false, x.emit(v)
	case ReturnStatement:
		x.halted = true
		return true, x.emit(v)
	default:
		panic("calculatics: invalid statement " + st.String())
	}
	return false, nil
}

func (x *Executor) emit(v float64) error {
	_, err := fmt.Fprintf(x.out, x.verb+"\n", v)
	return err
}

// RunString is a shortcut to parse and run a program in a new scope created
// with opts, writing output to out.
func RunString(src string, out io.Writer, opts ...ScopeOption) (*Scope, error) {
	prog, err := Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	x := NewExecutor(NewScope(opts...), out)
	return x.scope, x.Run(prog)
}
