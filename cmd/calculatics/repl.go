package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/peterh/liner"

	calc "github.com/zephyrtronium/calculatics"
)

const (
	historyFile = ".calculatics_history"
	promptMain  = "> "
	promptCont  = "… "
)

func repl(x *calc.Executor) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer(x.Scope()))

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	for !x.Halted() {
		src, prog, ok := readProgram(ln)
		if !ok {
			fmt.Println()
			break
		}
		if prog == nil {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err := x.Run(prog); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
	}
	return 0
}

// readProgram reads lines until they parse or fail with something other than
// an unclosed bracket. ok is false at the end of input.
func readProgram(ln *liner.State) (src string, prog []calc.Statement, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", nil, false
		}
		if err != nil {
			// Ctrl-C abandons the current entry.
			return "", nil, true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src = b.String()
		prog, err := calc.ParseString(src)
		if err == nil {
			return src, prog, true
		}
		var be *calc.BracketError
		if errors.As(err, &be) && be.Unclosed() {
			continue
		}
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return src, nil, true
	}
}

// completer completes keywords and the names of defined variables.
func completer(scope *calc.Scope) liner.Completer {
	return func(line string) []string {
		k := strings.LastIndexFunc(line, func(r rune) bool {
			return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		head, word := line[:k+1], line[k+1:]
		if word == "" {
			return nil
		}
		var c []string
		for _, name := range append([]string{"log", "ret"}, scope.Names()...) {
			if strings.HasPrefix(name, word) {
				c = append(c, head+name)
			}
		}
		return c
	}
}
