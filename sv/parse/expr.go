package parse

import (
	"github.com/zuspec/svir/sv/ast"
)

// binary operator precedence, higher binds tighter.
// Four-state comparison forms are lexed and parsed so the mapper can reject
// them at their own location.
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6, "==?": 6, "!=?": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (s *state) expr() (ast.Expr, error) {
	left, err := s.unary()
	if err != nil {
		return nil, err
	}

	return s.binary(left, 0)
}

func (s *state) binary(left ast.Expr, minPrec int) (ast.Expr, error) {
	for {
		t := s.tok()

		if t.kind != tPunct {
			return left, nil
		}

		prec, ok := binPrec[t.text]
		if !ok || prec <= minPrec {
			return left, nil
		}

		s.next()

		right, err := s.unary()
		if err != nil {
			return nil, err
		}

		right, err = s.binary(right, prec)
		if err != nil {
			return nil, err
		}

		left = &ast.Binary{P: t.pos, Op: t.text, Left: left, Right: right}
	}
}

func (s *state) unary() (ast.Expr, error) {
	t := s.tok()

	if t.kind == tPunct {
		switch t.text {
		case "!", "~", "+", "-":
			s.next()

			x, err := s.unary()
			if err != nil {
				return nil, err
			}

			return &ast.Unary{P: t.pos, Op: t.text, X: x}, nil
		}
	}

	return s.postfix()
}

func (s *state) postfix() (ast.Expr, error) {
	x, err := s.primary()
	if err != nil {
		return nil, err
	}

	for {
		t := s.tok()

		if t.kind != tPunct {
			return x, nil
		}

		switch t.text {
		case ".":
			s.next()

			name, err := s.ident("member name")
			if err != nil {
				return nil, err
			}

			x = &ast.MemberExpr{P: t.pos, X: x, Name: name}
		case "[":
			s.next()

			sub, err := s.expr()
			if err != nil {
				return nil, err
			}

			err = s.punct("]")
			if err != nil {
				return nil, err
			}

			x = &ast.IndexExpr{P: t.pos, X: x, Sub: sub}
		case "(":
			s.next()

			call := &ast.CallExpr{P: t.pos, Callee: x}

			for !s.isPunct(")") {
				if len(call.Args) > 0 {
					err = s.punct(",")
					if err != nil {
						return nil, err
					}
				}

				arg, err := s.expr()
				if err != nil {
					return nil, err
				}

				call.Args = append(call.Args, arg)
			}

			s.next() // )

			x = call
		default:
			return x, nil
		}
	}
}

func (s *state) primary() (ast.Expr, error) {
	t := s.tok()

	switch {
	case t.kind == tNumber:
		s.next()
		return &ast.IntLit{P: t.pos, Value: t.val}, nil
	case t.kind == tIdent:
		s.next()
		return &ast.Ident{P: t.pos, Name: t.text}, nil
	case t.kind == tPunct && t.text == "(":
		s.next()

		x, err := s.expr()
		if err != nil {
			return nil, err
		}

		return x, s.punct(")")
	default:
		return nil, s.fail("expression expected, got %q", t.text)
	}
}
