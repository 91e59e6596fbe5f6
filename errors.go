package calculatics

import (
	"errors"
	"strconv"
)

// UnresolvedIdentifierError is an error from a lookup for a variable that is
// not defined in the scope. It implements SourceError.
type UnresolvedIdentifierError struct {
	// Name is the name that was missing.
	Name string
	// Line is the source line of the expression, or 0 if unknown.
	Line int
}

func (err *UnresolvedIdentifierError) Error() string {
	return errline(err.Line, "undefined variable "+strconv.Quote(err.Name))
}

func (err *UnresolvedIdentifierError) SourceLine() int {
	return err.Line
}

// MalformedExpressionError is an error indicating an operation tree that does
// not alternate between operands and operators. It implements SourceError.
type MalformedExpressionError struct {
	// Line is the source line of the expression.
	Line int
	// Index is the index of the offending item within its group, or the
	// length of the group if an operand is missing at the end.
	Index int
	// Reason describes what is wrong.
	Reason string
}

func (err *MalformedExpressionError) Error() string {
	return errline(err.Line, "malformed expression: "+err.Reason)
}

func (err *MalformedExpressionError) SourceLine() int {
	return err.Line
}

// DepthError is an error indicating an expression nested more deeply than
// MaxDepth. It implements SourceError.
type DepthError struct {
	// Line is the source line of the expression.
	Line int
	// Col is the column where the limit was exceeded, or 0 if the error
	// occurred after parsing.
	Col int
}

func (err *DepthError) Error() string {
	msg := "expression nested more than " + strconv.Itoa(MaxDepth) + " levels deep"
	if err.Col > 0 {
		return errpos(err.Line, err.Col, msg)
	}
	return errline(err.Line, msg)
}

func (err *DepthError) SourceLine() int {
	return err.Line
}

// BracketError is an error indicating mismatched brackets in the input. It
// implements SourceError.
type BracketError struct {
	// Line and Col are the position of the bracket or end of input.
	Line, Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Line, err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Line, err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Line, err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) SourceLine() int {
	return err.Line
}

// Unclosed returns whether the error is an open bracket that reached the end
// of input. Interactive callers can read more input and try again.
func (err *BracketError) Unclosed() bool {
	return err.Left != "" && err.Right == ""
}

// EmptyExpressionError is an error indicating a missing expression, either
// after a statement keyword or inside brackets. It implements SourceError.
type EmptyExpressionError struct {
	// Line and Col are the position of the token that ended the expression.
	Line, Col int
	// End is the token that ended the expression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" || err.End == "\n" {
		return errpos(err.Line, err.Col, "no expression at end of line")
	}
	return errpos(err.Line, err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) SourceLine() int {
	return err.Line
}

// StatementError is an error indicating a token that cannot appear where it
// was found in a statement. It implements SourceError.
type StatementError struct {
	// Line and Col are the position of the token.
	Line, Col int
	// Token is the offending token text.
	Token string
	// Want describes what the parser expected instead.
	Want string
}

func (err *StatementError) Error() string {
	tok := strconv.Quote(err.Token)
	if err.Token == "" {
		tok = "end of input"
	}
	return errpos(err.Line, err.Col, "unexpected "+tok+", want "+err.Want)
}

func (err *StatementError) SourceLine() int {
	return err.Line
}

// ErrInterrupted is returned by Executor.Run when Interrupt stops a program.
var ErrInterrupted = errors.New("calculatics: program interrupted")

// errline is a shortcut to create an error message with a line number.
func errline(line int, msg string) string {
	if line <= 0 {
		return msg
	}
	return strconv.Itoa(line) + ": " + msg
}

// errpos is a shortcut to create an error message with a line and column.
func errpos(line, col int, msg string) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(col) + ": " + msg
}

// SourceError is an error with position information. Every error resulting
// from invalid input or a failed evaluation implements SourceError.
type SourceError interface {
	error
	// SourceLine returns the 1-based line of the statement that caused the
	// error, or 0 if the error did not come from parsed source.
	SourceLine() int
}

var (
	_ SourceError = (*UnresolvedIdentifierError)(nil)
	_ SourceError = (*MalformedExpressionError)(nil)
	_ SourceError = (*DepthError)(nil)
	_ SourceError = (*BracketError)(nil)
	_ SourceError = (*EmptyExpressionError)(nil)
	_ SourceError = (*StatementError)(nil)
	_ SourceError = (*LexError)(nil)
)

// atline sets the line of errors produced without source information.
func atline(err error, line int) error {
	var (
		ue *UnresolvedIdentifierError
		me *MalformedExpressionError
		de *DepthError
	)
	switch {
	case errors.As(err, &ue):
		if ue.Line == 0 {
			ue.Line = line
		}
	case errors.As(err, &me):
		if me.Line == 0 {
			me.Line = line
		}
	case errors.As(err, &de):
		if de.Line == 0 {
			de.Line = line
		}
	}
	return err
}
