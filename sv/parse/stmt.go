package parse

import (
	"github.com/zuspec/svir/sv/ast"
)

func (s *state) stmt() (ast.Stmt, error) {
	t := s.tok()

	switch {
	case s.isKeyword("begin"):
		return s.blockStmt()
	case s.isKeyword("if"):
		return s.ifStmt()
	case s.isKeyword("while"):
		return s.whileStmt()
	case s.isKeyword("do"):
		return s.doWhileStmt()
	case s.isKeyword("for"):
		return s.forStmt()
	case s.isKeyword("return"):
		return s.returnStmt()
	case s.isKeyword("break"):
		s.next()
		return &ast.BreakStmt{P: t.pos}, s.punct(";")
	case s.isKeyword("continue"):
		s.next()
		return &ast.ContinueStmt{P: t.pos}, s.punct(";")
	case s.isKeyword("case"):
		return s.caseStmt()
	case t.kind == tIdent && typeKeywords[t.text]:
		return s.declStmt()
	default:
		st, err := s.simpleStmt()
		if err != nil {
			return nil, err
		}

		return st, s.punct(";")
	}
}

func (s *state) blockStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	b := &ast.BlockStmt{P: t.pos}

	for !s.isKeyword("end") {
		if s.tok().kind == tEOF {
			return nil, s.fail("missing end")
		}

		st, err := s.stmt()
		if err != nil {
			return nil, err
		}

		b.Body = append(b.Body, st)
	}

	s.next() // end

	return b, nil
}

func (s *state) ifStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	err := s.punct("(")
	if err != nil {
		return nil, err
	}

	cond, err := s.expr()
	if err != nil {
		return nil, err
	}

	err = s.punct(")")
	if err != nil {
		return nil, err
	}

	then, err := s.stmt()
	if err != nil {
		return nil, err
	}

	st := &ast.IfStmt{P: t.pos, Cond: cond, Then: []ast.Stmt{then}}

	if s.isKeyword("else") {
		s.next()

		els, err := s.stmt()
		if err != nil {
			return nil, err
		}

		st.Else = []ast.Stmt{els}
	}

	return st, nil
}

func (s *state) whileStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	err := s.punct("(")
	if err != nil {
		return nil, err
	}

	cond, err := s.expr()
	if err != nil {
		return nil, err
	}

	err = s.punct(")")
	if err != nil {
		return nil, err
	}

	body, err := s.stmt()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{P: t.pos, Cond: cond, Body: []ast.Stmt{body}}, nil
}

func (s *state) doWhileStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	body, err := s.stmt()
	if err != nil {
		return nil, err
	}

	if !s.isKeyword("while") {
		return nil, s.fail("while expected after do body, got %q", s.tok().text)
	}

	s.next()

	err = s.punct("(")
	if err != nil {
		return nil, err
	}

	cond, err := s.expr()
	if err != nil {
		return nil, err
	}

	err = s.punct(")")
	if err != nil {
		return nil, err
	}

	return &ast.DoWhileStmt{P: t.pos, Cond: cond, Body: []ast.Stmt{body}}, s.punct(";")
}

func (s *state) forStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	err := s.punct("(")
	if err != nil {
		return nil, err
	}

	var init ast.Stmt

	if s.tok().kind == tIdent && typeKeywords[s.tok().text] {
		init, err = s.declHeader()
	} else {
		init, err = s.simpleStmt()
	}
	if err != nil {
		return nil, err
	}

	err = s.punct(";")
	if err != nil {
		return nil, err
	}

	cond, err := s.expr()
	if err != nil {
		return nil, err
	}

	err = s.punct(";")
	if err != nil {
		return nil, err
	}

	step, err := s.simpleStmt()
	if err != nil {
		return nil, err
	}

	err = s.punct(")")
	if err != nil {
		return nil, err
	}

	body, err := s.stmt()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{P: t.pos, Init: init, Cond: cond, Step: step, Body: []ast.Stmt{body}}, nil
}

func (s *state) returnStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	st := &ast.ReturnStmt{P: t.pos}

	if !s.isPunct(";") {
		val, err := s.expr()
		if err != nil {
			return nil, err
		}

		st.Value = val
	}

	return st, s.punct(";")
}

// caseStmt recognizes a case statement and skips its arms. The mapper
// rejects the node; nothing inside it is translated.
func (s *state) caseStmt() (ast.Stmt, error) {
	t := s.tok()
	s.next()

	depth := 1

	for depth > 0 {
		switch {
		case s.tok().kind == tEOF:
			return nil, s.fail("missing endcase")
		case s.isKeyword("case"):
			depth++
		case s.isKeyword("endcase"):
			depth--
		}

		s.next()
	}

	return &ast.CaseStmt{P: t.pos}, nil
}

// declStmt parses a mid-block variable declaration. The mapper rejects it.
func (s *state) declStmt() (ast.Stmt, error) {
	st, err := s.declHeader()
	if err != nil {
		return nil, err
	}

	return st, s.punct(";")
}

func (s *state) declHeader() (ast.Stmt, error) {
	p := s.tok().pos

	ts, err := s.typeSpec()
	if err != nil {
		return nil, err
	}

	name, err := s.ident("variable name")
	if err != nil {
		return nil, err
	}

	if s.isPunct("=") {
		s.next()

		_, err = s.expr()
		if err != nil {
			return nil, err
		}
	}

	return &ast.DeclStmt{P: p, Name: name, Type: ts}, nil
}

// simpleStmt parses an assignment, an increment/compound assignment
// (desugared to a plain assignment), or a bare expression statement.
// The trailing semicolon is the caller's business.
func (s *state) simpleStmt() (ast.Stmt, error) {
	p := s.tok().pos

	lhs, err := s.unary()
	if err != nil {
		return nil, err
	}

	t := s.tok()

	if t.kind == tPunct {
		switch t.text {
		case "=", "<=":
			s.next()

			val, err := s.expr()
			if err != nil {
				return nil, err
			}

			return &ast.AssignStmt{P: p, Target: lhs, Value: val}, nil
		case "++", "--":
			s.next()

			op := "+"
			if t.text == "--" {
				op = "-"
			}

			one := &ast.IntLit{P: t.pos, Value: 1}

			return &ast.AssignStmt{P: p, Target: lhs, Value: &ast.Binary{P: t.pos, Op: op, Left: lhs, Right: one}}, nil
		case "+=", "-=", "*=", "/=":
			s.next()

			val, err := s.expr()
			if err != nil {
				return nil, err
			}

			op := t.text[:1]

			return &ast.AssignStmt{P: p, Target: lhs, Value: &ast.Binary{P: t.pos, Op: op, Left: lhs, Right: val}}, nil
		}
	}

	// not an assignment: finish the expression with lhs as the left operand
	x, err := s.binary(lhs, 0)
	if err != nil {
		return nil, err
	}

	return &ast.ExprStmt{P: p, X: x}, nil
}
