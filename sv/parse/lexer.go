package parse

import (
	"fmt"
	"strconv"

	"github.com/zuspec/svir/sv/ast"
)

type (
	tokKind int

	token struct {
		kind tokKind
		text string
		val  int64 // number value
		pos  ast.Pos
	}

	lexer struct {
		file string
		b    []byte

		i    int
		line int
		col  int

		toks []token
	}
)

const (
	tEOF tokKind = iota
	tIdent
	tNumber
	tPunct
)

// operator and punctuation tokens, longest first within a family
var puncts = []string{
	"===", "!==", "==?", "!=?",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"++", "--", "+=", "-=", "*=", "/=",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "<", ">",
	"(", ")", "[", "]", "{", "}", ";", ":", ",", ".", "=", "#",
}

func lex(file string, text []byte) ([]token, error) {
	lx := &lexer{
		file: file,
		b:    text,
		line: 1,
		col:  1,
	}

	err := lx.run()
	if err != nil {
		return nil, err
	}

	return lx.toks, nil
}

func (lx *lexer) run() error {
	for {
		lx.skipSpaces()

		if lx.i == len(lx.b) {
			lx.emit(token{kind: tEOF, pos: lx.pos()})
			return nil
		}

		c := lx.b[lx.i]

		switch {
		case isIdentStart(c):
			lx.ident()
		case c >= '0' && c <= '9' || c == '\'':
			err := lx.number()
			if err != nil {
				return err
			}
		default:
			ok := lx.punct()
			if !ok {
				return &Error{Pos: lx.pos(), Msg: fmt.Sprintf("unexpected character %q", c)}
			}
		}
	}
}

func (lx *lexer) ident() {
	p := lx.pos()
	st := lx.i

	for lx.i < len(lx.b) && isIdentPart(lx.b[lx.i]) {
		lx.advance()
	}

	lx.emit(token{kind: tIdent, text: string(lx.b[st:lx.i]), pos: p})
}

// number lexes a decimal literal or a sized literal like 8'hFF or 'd10.
func (lx *lexer) number() error {
	p := lx.pos()
	st := lx.i

	for lx.i < len(lx.b) && lx.b[lx.i] >= '0' && lx.b[lx.i] <= '9' {
		lx.advance()
	}

	if lx.i == len(lx.b) || lx.b[lx.i] != '\'' {
		if lx.i == st {
			return &Error{Pos: p, Msg: "malformed number"}
		}

		v, err := strconv.ParseInt(string(lx.b[st:lx.i]), 10, 64)
		if err != nil {
			return &Error{Pos: p, Msg: fmt.Sprintf("parse number: %v", err)}
		}

		lx.emit(token{kind: tNumber, text: string(lx.b[st:lx.i]), val: v, pos: p})

		return nil
	}

	lx.advance() // '

	if lx.i == len(lx.b) {
		return &Error{Pos: p, Msg: "truncated sized literal"}
	}

	base := 10

	switch lx.b[lx.i] {
	case 'b', 'B':
		base = 2
	case 'o', 'O':
		base = 8
	case 'd', 'D':
		base = 10
	case 'h', 'H':
		base = 16
	default:
		return &Error{Pos: p, Msg: fmt.Sprintf("bad literal base %q", lx.b[lx.i])}
	}

	lx.advance()

	dst := lx.i
	for lx.i < len(lx.b) && isBaseDigit(lx.b[lx.i], base) {
		lx.advance()
	}

	if lx.i == dst {
		return &Error{Pos: p, Msg: "sized literal has no digits"}
	}

	v, err := strconv.ParseInt(string(lx.b[dst:lx.i]), base, 64)
	if err != nil {
		return &Error{Pos: p, Msg: fmt.Sprintf("parse sized literal: %v", err)}
	}

	lx.emit(token{kind: tNumber, text: string(lx.b[st:lx.i]), val: v, pos: p})

	return nil
}

func (lx *lexer) punct() bool {
	for _, p := range puncts {
		if len(lx.b)-lx.i < len(p) || string(lx.b[lx.i:lx.i+len(p)]) != p {
			continue
		}

		pos := lx.pos()

		for range p {
			lx.advance()
		}

		lx.emit(token{kind: tPunct, text: p, pos: pos})

		return true
	}

	return false
}

func (lx *lexer) skipSpaces() {
	for lx.i < len(lx.b) {
		switch lx.b[lx.i] {
		case ' ', '\t', '\r', '\n':
			lx.advance()
		case '/':
			if lx.i+1 < len(lx.b) && lx.b[lx.i+1] == '/' {
				for lx.i < len(lx.b) && lx.b[lx.i] != '\n' {
					lx.advance()
				}

				continue
			}

			if lx.i+1 < len(lx.b) && lx.b[lx.i+1] == '*' {
				lx.advance()
				lx.advance()

				for lx.i+1 < len(lx.b) && !(lx.b[lx.i] == '*' && lx.b[lx.i+1] == '/') {
					lx.advance()
				}

				if lx.i+1 < len(lx.b) {
					lx.advance()
					lx.advance()
				}

				continue
			}

			return
		default:
			return
		}
	}
}

func (lx *lexer) advance() {
	if lx.b[lx.i] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	lx.i++
}

func (lx *lexer) emit(t token) {
	lx.toks = append(lx.toks, t)
}

func (lx *lexer) pos() ast.Pos {
	return ast.Pos{File: lx.file, Line: lx.line, Col: lx.col}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isBaseDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 10:
		return c >= '0' && c <= '9'
	default:
		return c >= '0' && c <= '9' ||
			c >= 'a' && c <= 'f' ||
			c >= 'A' && c <= 'F'
	}
}
