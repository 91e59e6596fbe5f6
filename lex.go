package calculatics

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	line int
	col  int
	// num is the value of a tokenNum.
	num float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + strconv.Quote(t.text) + "@" + strconv.Itoa(t.line) + ":" + strconv.Itoa(t.col)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNewline ends a statement.
	tokenNewline
	// tokenNum is a number.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenKeyword is a statement keyword, log or ret.
	tokenKeyword
	// tokenOp is an operator.
	tokenOp
	// tokenArrow is the assignment arrow, ->.
	tokenArrow
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
)

var tokenKindNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNewline: "Newline",
	tokenNum:     "Num",
	tokenIdent:   "Ident",
	tokenKeyword: "Keyword",
	tokenOp:      "Op",
	tokenArrow:   "Arrow",
	tokenOpen:    "Open",
	tokenClose:   "Close",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Keywords that begin statements.
const (
	keywordLog    = "log"
	keywordReturn = "ret"
)

// OpenBrackets and CloseBrackets list the bracket pairs that group
// subexpressions. The bracket at index k in OpenBrackets closes with the one
// at index k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

// punct maps each single-rune operator and bracket to its token kind.
var punct = func() map[rune]tokenKind {
	m := make(map[rune]tokenKind, len(Operators)+len(OpenBrackets)+len(CloseBrackets))
	for _, set := range []struct {
		runes string
		kind  tokenKind
	}{{Operators, tokenOp}, {OpenBrackets, tokenOpen}, {CloseBrackets, tokenClose}} {
		for _, r := range set.runes {
			m[r] = set.kind
		}
	}
	return m
}()

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// line and col are the position of the last rune read. pline and pcol
	// are the position before it, for unreading.
	line, col   int
	pline, pcol int
	p           lexToken
	eof         bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		line: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calculatics: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calculatics: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	r, _, err := l.src.ReadRune()
	if err != nil {
		return r, err
	}
	l.pline, l.pcol = l.line, l.col
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r, nil
}

// unreadRune unreads a rune from the src and restores the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.line, l.col = l.pline, l.pcol
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		return l.must(), nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{line: l.line, col: l.col + 1}
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case r == '\n':
			tok.text = "\n"
			tok.kind = tokenNewline
			return tok, nil
		case unicode.IsSpace(r):
			continue
		case r == '#':
			if err := l.skipComment(); err != nil {
				return tok, err
			}
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(tok); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			tok.num, err = strconv.ParseFloat(tok.text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				// ParseFloat has the final say on what is a number.
				return lexToken{line: tok.line, col: tok.col}, &LexError{Text: tok.text, Kind: "number", Line: tok.line, Col: tok.col}
			}
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			switch tok.text {
			case keywordLog, keywordReturn:
				tok.kind = tokenKeyword
			default:
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == '-':
			// Either subtraction or the start of an arrow.
			s, err := l.readRune()
			switch {
			case err == nil && s == '>':
				tok.text = "->"
				tok.kind = tokenArrow
				return tok, nil
			case err == nil:
				l.unreadRune()
			case !errors.Is(err, io.EOF):
				return tok, err
			}
			tok.text = "-"
			tok.kind = tokenOp
			return tok, nil
		default:
			if k, ok := punct[r]; ok {
				tok.text = string(r)
				tok.kind = k
				return tok, nil
			}
			// The bad rune is the whole token text.
			l.buf.WriteRune(r)
			return lexToken{line: tok.line, col: tok.col}, l.error("", tok)
		}
	}
}

// skipComment discards runes up to but not including the next newline.
func (l *lexer) skipComment() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r == '\n' {
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) scanNum(tok lexToken) error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// A sign belongs to the number only right after the exponent
			// marker. Anywhere else it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if _, ok := punct[r]; ok || r == '#' {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number", tok)
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number", tok)
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number", tok)
		}
	}
	if !dig || (e && !ed) {
		return l.error("number", tok)
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string, tok lexToken) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Line: tok.line,
		Col:  tok.col,
	}
}

// LexError is an error from input that does not form a token. It implements
// SourceError.
type LexError struct {
	// Text is what was scanned of the bad token, up to and including the rune
	// that made it bad.
	Text string
	// Kind is "number" for a malformed number, or empty for a rune that
	// cannot start any token.
	Kind string
	// Line and Col are the position of the start of the token.
	Line, Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Line, err.Col, "invalid token: "+err.Text)
	}
	return errpos(err.Line, err.Col, "invalid "+err.Kind+" token: "+err.Text)
}

func (err *LexError) SourceLine() int {
	return err.Line
}
