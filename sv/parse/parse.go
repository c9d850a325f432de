// Package parse is the input collaborator of the mapping pipeline: a lexer
// and recursive-descent parser for the supported SystemVerilog subset.
// Macros are assumed already expanded. Constructs outside the mapper's
// subset (modules, interfaces, four-state operators, case statements,
// mid-block declarations) are parsed into syntax nodes so the mapper can
// reject them with located diagnostics.
package parse

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/zuspec/svir/sv/ast"
)

type (
	Parser struct{}

	// Error is a hard syntax failure at a source position.
	Error struct {
		Pos ast.Pos
		Msg string
	}

	state struct {
		toks []token
		i    int
	}
)

// type keywords that may start a field, parameter or local declaration
var typeKeywords = map[string]bool{
	"bit":      true,
	"byte":     true,
	"shortint": true,
	"int":      true,
	"longint":  true,
	"logic":    true,
	"reg":      true,
	"integer":  true,
	"time":     true,
}

// member qualifiers accepted and dropped before a declaration
var qualifiers = map[string]bool{
	"rand":      true,
	"randc":     true,
	"local":     true,
	"protected": true,
	"static":    true,
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Pos, e.Msg)
}

func New() *Parser { return &Parser{} }

// Parse parses one source unit. It returns the syntax tree or a single
// *Error at the first unrecoverable syntax failure.
func (p *Parser) Parse(ctx context.Context, name string, text []byte) (u *ast.Unit, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse unit", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	toks, err := lex(name, text)
	if err != nil {
		return nil, err
	}

	s := &state{toks: toks}

	u = &ast.Unit{}

	for s.tok().kind != tEOF {
		d, err := s.decl()
		if err != nil {
			return nil, err
		}

		u.Decls = append(u.Decls, d)
	}

	tr.Printw("parsed", "decls", len(u.Decls))

	return u, nil
}

func (s *state) decl() (ast.Decl, error) {
	t := s.tok()

	if t.kind != tIdent {
		return nil, s.fail("declaration expected, got %q", t.text)
	}

	switch t.text {
	case "virtual":
		// virtual class; virtual at a method is handled inside the class
		if n := s.peek(1); n.kind == tIdent && n.text == "class" {
			s.next()
			return s.classDecl()
		}

		return nil, s.fail("declaration expected after virtual, got %q", s.peek(1).text)
	case "class":
		return s.classDecl()
	case "module", "interface":
		return s.moduleDecl()
	default:
		return nil, s.fail("unsupported top-level declaration %q", t.text)
	}
}

// moduleDecl recognizes a module or interface header and skips to the
// matching end keyword. The mapper rejects the node; nothing inside it is
// translated.
func (s *state) moduleDecl() (ast.Decl, error) {
	kw := s.tok()
	s.next()

	name, err := s.ident("name")
	if err != nil {
		return nil, err
	}

	end := "end" + kw.text

	for {
		t := s.tok()
		if t.kind == tEOF {
			return nil, s.fail("missing %v", end)
		}

		s.next()

		if t.kind == tIdent && t.text == end {
			break
		}
	}

	return &ast.ModuleDecl{P: kw.pos, Keyword: kw.text, Name: name}, nil
}

func (s *state) classDecl() (ast.Decl, error) {
	kw := s.tok()
	s.next()

	name, err := s.ident("class name")
	if err != nil {
		return nil, err
	}

	d := &ast.ClassDecl{P: kw.pos, Name: name}

	if s.isPunct("#") {
		s.next()

		err = s.skipParens()
		if err != nil {
			return nil, err
		}

		d.Parameterized = true
	}

	if s.isKeyword("extends") {
		s.next()

		d.Base, err = s.ident("base class name")
		if err != nil {
			return nil, err
		}

		// parameterized base specialization is not translated either
		if s.isPunct("#") {
			s.next()

			err = s.skipParens()
			if err != nil {
				return nil, err
			}

			d.Parameterized = true
		}
	}

	err = s.punct(";")
	if err != nil {
		return nil, err
	}

	for !s.isKeyword("endclass") {
		if s.tok().kind == tEOF {
			return nil, s.fail("missing endclass")
		}

		err = s.classItem(d)
		if err != nil {
			return nil, err
		}
	}

	s.next() // endclass

	return d, nil
}

func (s *state) classItem(d *ast.ClassDecl) error {
	for s.tok().kind == tIdent && qualifiers[s.tok().text] {
		s.next()
	}

	virtual := false
	if s.isKeyword("virtual") {
		virtual = true
		s.next()
	}

	t := s.tok()

	switch {
	case s.isKeyword("function"):
		f, err := s.funcDecl(false, virtual)
		if err != nil {
			return err
		}

		d.Funcs = append(d.Funcs, f)

		return nil
	case s.isKeyword("task"):
		f, err := s.funcDecl(true, virtual)
		if err != nil {
			return err
		}

		d.Funcs = append(d.Funcs, f)

		return nil
	case t.kind == tIdent && typeKeywords[t.text]:
		if virtual {
			return s.fail("virtual is only valid on methods")
		}

		return s.fieldDecl(d)
	default:
		return s.fail("class member expected, got %q", t.text)
	}
}

func (s *state) fieldDecl(d *ast.ClassDecl) error {
	ts, err := s.typeSpec()
	if err != nil {
		return err
	}

	for {
		np := s.tok().pos

		name, err := s.ident("field name")
		if err != nil {
			return err
		}

		d.Fields = append(d.Fields, &ast.FieldDecl{P: np, Name: name, Type: ts})

		if !s.isPunct(",") {
			break
		}

		s.next()
	}

	return s.punct(";")
}

func (s *state) funcDecl(task, virtual bool) (*ast.FuncDecl, error) {
	kw := s.tok()
	s.next()

	f := &ast.FuncDecl{P: kw.pos, Task: task, Virtual: virtual}

	if !task {
		// return type; void means none
		if s.isKeyword("void") {
			s.next()
		} else if s.tok().kind == tIdent && typeKeywords[s.tok().text] {
			ts, err := s.typeSpec()
			if err != nil {
				return nil, err
			}

			f.Return = ts
		}
	}

	name, err := s.ident("method name")
	if err != nil {
		return nil, err
	}

	f.Name = name

	if s.isPunct("(") {
		s.next()

		err = s.params(f)
		if err != nil {
			return nil, err
		}
	}

	err = s.punct(";")
	if err != nil {
		return nil, err
	}

	end := "endfunction"
	if task {
		end = "endtask"
	}

	for !s.isKeyword(end) {
		if s.tok().kind == tEOF {
			return nil, s.fail("missing %v", end)
		}

		st, err := s.stmt()
		if err != nil {
			return nil, err
		}

		f.Body = append(f.Body, st)
	}

	s.next() // endfunction / endtask

	return f, nil
}

func (s *state) params(f *ast.FuncDecl) error {
	if s.isPunct(")") {
		s.next()
		return nil
	}

	for {
		// direction qualifiers are accepted and dropped
		for s.isKeyword("input") || s.isKeyword("output") || s.isKeyword("inout") {
			s.next()
		}

		pp := s.tok().pos

		ts, err := s.typeSpec()
		if err != nil {
			return err
		}

		name, err := s.ident("parameter name")
		if err != nil {
			return err
		}

		f.Params = append(f.Params, &ast.ParamDecl{P: pp, Name: name, Type: ts})

		if s.isPunct(",") {
			s.next()
			continue
		}

		break
	}

	return s.punct(")")
}

// typeSpec parses: keyword [signed|unsigned] [ "[" hi ":" lo "]" ].
// The signed flag is also accepted after the range.
func (s *state) typeSpec() (*ast.TypeSpec, error) {
	t := s.tok()

	if t.kind != tIdent || !typeKeywords[t.text] {
		return nil, s.fail("type expected, got %q", t.text)
	}

	s.next()

	ts := &ast.TypeSpec{P: t.pos, Keyword: t.text}

	signedSeen := s.signedFlag(ts)

	if s.isPunct("[") {
		s.next()

		hi, err := s.intTok("range bound")
		if err != nil {
			return nil, err
		}

		err = s.punct(":")
		if err != nil {
			return nil, err
		}

		lo, err := s.intTok("range bound")
		if err != nil {
			return nil, err
		}

		err = s.punct("]")
		if err != nil {
			return nil, err
		}

		ts.HasRange = true
		ts.Hi, ts.Lo = hi, lo
	}

	if !signedSeen {
		s.signedFlag(ts)
	}

	return ts, nil
}

func (s *state) signedFlag(ts *ast.TypeSpec) bool {
	switch {
	case s.isKeyword("signed"):
		ts.Signed = true
		s.next()

		return true
	case s.isKeyword("unsigned"):
		s.next()
		return true
	}

	return false
}

// skipParens consumes a balanced ( ... ) group.
func (s *state) skipParens() error {
	err := s.punct("(")
	if err != nil {
		return err
	}

	depth := 1

	for depth > 0 {
		t := s.tok()
		if t.kind == tEOF {
			return s.fail("unbalanced parentheses")
		}

		if t.kind == tPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				depth--
			}
		}

		s.next()
	}

	return nil
}

// token cursor helpers

func (s *state) tok() token { return s.toks[s.i] }

func (s *state) peek(n int) token {
	if s.i+n >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}

	return s.toks[s.i+n]
}

func (s *state) next() { s.i++ }

func (s *state) isPunct(text string) bool {
	t := s.tok()
	return t.kind == tPunct && t.text == text
}

func (s *state) isKeyword(text string) bool {
	t := s.tok()
	return t.kind == tIdent && t.text == text
}

func (s *state) punct(text string) error {
	if !s.isPunct(text) {
		return s.fail("%q expected, got %q", text, s.tok().text)
	}

	s.next()

	return nil
}

func (s *state) ident(what string) (string, error) {
	t := s.tok()
	if t.kind != tIdent {
		return "", s.fail("%v expected, got %q", what, t.text)
	}

	s.next()

	return t.text, nil
}

func (s *state) intTok(what string) (int, error) {
	t := s.tok()
	if t.kind != tNumber {
		return 0, s.fail("%v expected, got %q", what, t.text)
	}

	s.next()

	return int(t.val), nil
}

func (s *state) fail(format string, args ...any) error {
	return &Error{Pos: s.tok().pos, Msg: fmt.Sprintf(format, args...)}
}
