package calculatics

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Statement = ident '->' Expr | 'log' Expr | 'ret' Expr
// Expr = Item { Item }
// Item = num | ident | op | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
//
// Statements end at newlines, except inside brackets. Expr is not checked
// for operator placement.

// StatementKind identifies what a statement does.
type StatementKind int8

const (
	// VariableStatement assigns the value of its expression to a variable.
	VariableStatement StatementKind = iota + 1
	// LogStatement writes the value of its expression to the output.
	LogStatement
	// ReturnStatement writes the value of its expression to the output and
	// ends the program.
	ReturnStatement
)

// Statement is a single parsed statement.
type Statement struct {
	Kind StatementKind
	// Name is the variable a VariableStatement assigns.
	Name string
	// Expr is the flat expression, with bracketed groups as Group items.
	Expr Tree
	// Line is the line on which the statement begins.
	Line int
}

func (st Statement) String() string {
	switch st.Kind {
	case VariableStatement:
		return st.Name + " -> " + st.Expr.String()
	case LogStatement:
		return keywordLog + " " + st.Expr.String()
	case ReturnStatement:
		return keywordReturn + " " + st.Expr.String()
	default:
		return "invalid statement kind " + strconv.Itoa(int(st.Kind))
	}
}

// Parse parses a program. Parsing stops at the first error.
func Parse(src io.RuneScanner) ([]Statement, error) {
	p := parser{scan: lex(src)}
	var prog []Statement
	for {
		tok, err := p.scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenEOF:
			return prog, nil
		case tokenNewline:
			continue
		}
		st, err := p.statement(tok)
		if err != nil {
			return nil, err
		}
		prog = append(prog, st)
		switch end := p.scan.must(); end.kind {
		case tokenNewline: // do nothing
		case tokenEOF:
			return prog, nil
		default:
			return nil, itShouldNotHaveEndedThisWay(end, -1)
		}
	}
}

// ParseString is a shortcut to parse a program from a string.
func ParseString(src string) ([]Statement, error) {
	return Parse(strings.NewReader(src))
}

// ParseExpr parses a single expression into a flat operation tree. Blank
// lines before and after the expression are ignored. The result still needs
// Restructure before it can be evaluated.
func ParseExpr(src io.RuneScanner) (Tree, error) {
	p := parser{scan: lex(src)}
	tok, err := p.skipNewlines()
	if err != nil {
		return nil, err
	}
	p.scan.push(tok)
	t, err := p.expr()
	if err != nil {
		return nil, err
	}
	tok = p.scan.must()
	if tok.kind == tokenNewline {
		if tok, err = p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return t, nil
}

// parser holds the state of a parse.
type parser struct {
	scan *lexer
}

// skipNewlines scans and returns the first token that is not a newline.
func (p *parser) skipNewlines() (lexToken, error) {
	for {
		tok, err := p.scan.next()
		if err != nil || tok.kind != tokenNewline {
			return tok, err
		}
	}
}

// statement parses the statement beginning with tok. If there is no error,
// then statement pushes the token that ended it.
func (p *parser) statement(tok lexToken) (Statement, error) {
	st := Statement{Line: tok.line}
	switch tok.kind {
	case tokenKeyword:
		switch tok.text {
		case keywordLog:
			st.Kind = LogStatement
		case keywordReturn:
			st.Kind = ReturnStatement
		default:
			panic("calculatics: unknown keyword " + strconv.Quote(tok.text))
		}
	case tokenIdent:
		arrow, err := p.scan.next()
		if err != nil {
			return st, err
		}
		if arrow.kind != tokenArrow {
			return st, unexpected(arrow, "->")
		}
		st.Kind = VariableStatement
		st.Name = tok.text
	default:
		return st, unexpected(tok, "statement")
	}
	t, err := p.expr()
	if err != nil {
		return st, err
	}
	st.Expr = t
	return st, nil
}

// expr parses a non-empty expression. If there is no error, then expr pushes
// the token that ended it.
func (p *parser) expr() (Tree, error) {
	t, err := p.items(0)
	if err != nil {
		return nil, err
	}
	if len(t) == 0 {
		end := p.scan.must()
		p.scan.push(end)
		return nil, &EmptyExpressionError{Line: end.line, Col: end.col, End: end.text}
	}
	return t, nil
}

// items parses items up to the end of the expression at the given bracket
// depth, then pushes the token that ended it. The result may be empty.
func (p *parser) items(depth int) (Tree, error) {
	var t Tree
	for {
		tok, err := p.scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum:
			t = append(t, Num(tok.num))
		case tokenIdent:
			t = append(t, Ident(tok.text))
		case tokenOp:
			t = append(t, Op(tok.text[0]))
		case tokenOpen:
			if depth >= MaxDepth {
				return nil, &DepthError{Line: tok.line, Col: tok.col}
			}
			g, err := p.group(tok, depth+1)
			if err != nil {
				return nil, err
			}
			t = append(t, g)
		case tokenNewline:
			if depth > 0 {
				// Brackets continue statements across lines.
				continue
			}
			p.scan.push(tok)
			return t, nil
		case tokenClose, tokenEOF:
			p.scan.push(tok)
			return t, nil
		default:
			return nil, unexpected(tok, "operand or operator")
		}
	}
}

// group parses the contents of brackets opened by open.
func (p *parser) group(open lexToken, depth int) (Group, error) {
	match := rightbracket(open.text)
	t, err := p.items(depth)
	if err != nil {
		return nil, err
	}
	end := p.scan.must()
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return nil, itShouldNotHaveEndedThisWay(end, match)
	}
	if len(t) == 0 {
		return nil, &EmptyExpressionError{Line: end.line, Col: end.col, End: end.text}
	}
	return Group(t), nil
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("calculatics: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of an expression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Line: tok.line, Col: tok.col, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of a statement.
		return &BracketError{Line: tok.line, Col: tok.col, Left: leftbracket(match), Right: tok.text}
	default:
		return unexpected(tok, "end of statement")
	}
}

func unexpected(tok lexToken, want string) error {
	text := tok.text
	if tok.kind == tokenNewline {
		text = "newline"
	}
	return &StatementError{Line: tok.line, Col: tok.col, Token: text, Want: want}
}
