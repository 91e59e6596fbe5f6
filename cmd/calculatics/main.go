package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	calc "github.com/zephyrtronium/calculatics"
)

const usage = `usage: calculatics [-eikt] [-f verb] [-D name=value]... [-g vars.yaml] [file | -] [expr...]

	-e	treat arguments as expressions and print their values
	-i	start an interactive session even if stdin is not a terminal
	-k	keep running after a statement fails
	-t	print restructured expressions before evaluating them
	-f	result formatting verb (default %g)
	-D	name=value variable definition (any number of times)
	-g	YAML file mapping variable names to numbers`

type options struct {
	exprs, interactive, keep, echo bool

	verb  string
	given [][2]string
	vars  string
}

func main() {
	log.SetFlags(0)
	opts, optind, err := getopt.Getopts(os.Args, "eikthf:D:g:")
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}
	o := options{verb: "%g"}
	for _, opt := range opts {
		switch opt.Option {
		case 'e':
			o.exprs = true
		case 'i':
			o.interactive = true
		case 'k':
			o.keep = true
		case 't':
			o.echo = true
		case 'f':
			o.verb = opt.Value
		case 'D':
			d := strings.SplitN(opt.Value, "=", 2)
			if len(d) != 2 {
				log.Fatalf(`variable definitions must be "name=value", not %q`, opt.Value)
			}
			o.given = append(o.given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		case 'g':
			o.vars = opt.Value
		case 'h':
			fmt.Printf("%s\n", usage)
			return
		}
	}
	args := os.Args[optind:]

	scope, err := initScope(&o)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(run(&o, scope, args))
}

var (
	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

// initScope creates the scope with variables from -g and -D. -D values are
// expressions that may use variables defined before them.
func initScope(o *options) (*calc.Scope, error) {
	scope := calc.NewScope()
	if o.vars != "" {
		vars, err := loadVars(o.vars)
		if err != nil {
			return nil, err
		}
		scope = scope.Clone(calc.SetVars(vars))
	}
	for _, d := range o.given {
		v, err := evalIn(scope, d[1])
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", d[0], err)
		}
		scope.Assign(d[0], v)
	}
	return scope, nil
}

func loadVars(name string) (map[string]float64, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var vars map[string]float64
	if err := yaml.Unmarshal(b, &vars); err != nil {
		return nil, fmt.Errorf("reading variables from %s: %w", name, err)
	}
	return vars, nil
}

// evalIn evaluates a bare expression in scope.
func evalIn(scope *calc.Scope, src string) (float64, error) {
	t, err := calc.ParseExpr(strings.NewReader(src))
	if err != nil {
		return 0, err
	}
	if t, err = calc.Restructure(t); err != nil {
		return 0, err
	}
	return calc.Eval(t, scope, 1)
}

func run(o *options, scope *calc.Scope, args []string) int {
	if o.exprs {
		return exprs(o, scope, args)
	}
	var xopts []calc.ExecOption
	xopts = append(xopts, calc.Verb(o.verb))
	if o.echo {
		xopts = append(xopts, calc.Echo(func(st calc.Statement, t calc.Tree) {
			fmt.Println(cyan(fmt.Sprintf("%d: %v", st.Line, t)))
		}))
	}
	interactive := o.interactive || len(args) == 0 && isatty.IsTerminal(os.Stdin.Fd())
	failed := false
	if o.keep || interactive {
		xopts = append(xopts, calc.ContinueOnError(func(err error) {
			failed = true
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}))
	}
	x := calc.NewExecutor(scope, os.Stdout, xopts...)

	if interactive {
		return repl(x)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			x.Interrupt()
		}
	}()

	f, name, err := infile(args)
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}
	defer f.Close()
	prog, err := calc.Parse(bufio.NewReader(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(name+":"+err.Error()))
		return 1
	}
	if err := x.Run(prog); err != nil {
		fmt.Fprintln(os.Stderr, red(name+":"+err.Error()))
		if errors.Is(err, calc.ErrInterrupted) {
			return 130
		}
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

// exprs evaluates each argument as an expression.
func exprs(o *options, scope *calc.Scope, args []string) int {
	status := 0
	for _, arg := range args {
		if o.echo {
			if t, err := calc.ParseExpr(strings.NewReader(arg)); err == nil {
				if t, err = calc.Restructure(t); err == nil {
					fmt.Print(cyan(t.String()), " : ")
				}
			}
		}
		v, err := evalIn(scope, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			status = 1
			continue
		}
		fmt.Printf(o.verb+"\n", v)
	}
	return status
}

// infile opens the script named by args. The only argument may be a file name
// or "-" for stdin; with no arguments, the script is stdin.
func infile(args []string) (io.ReadCloser, string, error) {
	if len(args) > 1 {
		return nil, "", fmt.Errorf("unexpected arguments after %s: %q (use -e to evaluate expressions)", args[0], args[1:])
	}
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}
