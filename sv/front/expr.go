package front

import (
	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
)

// exprMapper translates expressions depth-first, children before parent.
// It resolves names through the enclosing function scope: parameters first,
// then the enclosing class's field table; callees resolve through the
// signature tables completed before any body pass started.
type exprMapper struct {
	m  *Mapper
	d  *diag.Reporter
	sc *funcScope
}

// funcScope is the resolution context of one method body.
type funcScope struct {
	class  *classScope
	params map[string]ir.Type
}

var binOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
	"&&": true, "||": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// operators yielding a single-bit result
var boolOps = map[string]bool{
	"&&": true, "||": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

var fourStateOps = map[string]bool{
	"===": true, "!==": true, "==?": true, "!=?": true,
}

// mapExpr returns a fully resolved IR expression or reports why it could
// not. A failing child poisons the parent; siblings are still visited by the
// callers above.
func (em *exprMapper) mapExpr(e ast.Expr) (ir.Expr, bool) {
	switch e := e.(type) {
	case *ast.IntLit:
		// unsized literals carry int semantics
		return ir.Lit{Value: e.Value, T: ir.Type{Kind: ir.FixedInt, Bits: 32, Signed: true}}, true
	case *ast.Ident:
		return em.mapIdent(e)
	case *ast.Binary:
		return em.mapBinary(e)
	case *ast.Unary:
		return em.mapUnary(e)
	case *ast.MemberExpr:
		return em.mapMember(e)
	case *ast.IndexExpr:
		return em.mapIndex(e)
	case *ast.CallExpr:
		return em.mapCall(e)
	default:
		em.d.Error(diag.UnsupportedOperator, pos(e.Loc()), "unsupported expression %T", e)
		return nil, false
	}
}

func (em *exprMapper) mapIdent(e *ast.Ident) (ir.Expr, bool) {
	if t, ok := em.sc.params[e.Name]; ok {
		return ir.Ref{Name: e.Name, T: t}, true
	}

	if t, ok := em.sc.class.fields[e.Name]; ok {
		return ir.Member{Name: e.Name, T: t}, true
	}

	em.d.Error(diag.UnknownMember, pos(e.P), "unknown member '%v' in class '%v'", e.Name, em.sc.class.cls.Name)

	return nil, false
}

func (em *exprMapper) mapBinary(e *ast.Binary) (ir.Expr, bool) {
	if fourStateOps[e.Op] {
		em.d.ErrorSuggest(diag.UnsupportedOperator, pos(e.P),
			"use 2-state operators (==, !=)",
			"4-state operator '%v' not supported", e.Op)

		return nil, false
	}

	if !binOps[e.Op] {
		em.d.Error(diag.UnsupportedOperator, pos(e.P), "unsupported operator '%v'", e.Op)
		return nil, false
	}

	left, okl := em.mapExpr(e.Left)
	right, okr := em.mapExpr(e.Right)

	if !okl || !okr {
		return nil, false
	}

	lt, okl := em.valueType(left, e.Left)
	_, okr = em.valueType(right, e.Right)

	if !okl || !okr {
		return nil, false
	}

	t := ir.Bit1()
	if !boolOps[e.Op] {
		t = lt
	}

	return ir.BinOp{Op: e.Op, Left: left, Right: right, T: t}, true
}

// valueType rejects void calls used as values.
func (em *exprMapper) valueType(x ir.Expr, e ast.Expr) (ir.Type, bool) {
	t := x.Type()
	if t == nil {
		em.d.Error(diag.UnknownCallee, pos(e.Loc()), "void call used as a value")
		return ir.Type{}, false
	}

	return *t, true
}

func (em *exprMapper) mapUnary(e *ast.Unary) (ir.Expr, bool) {
	switch e.Op {
	case "!", "~", "+", "-":
	default:
		em.d.Error(diag.UnsupportedOperator, pos(e.P), "unsupported operator '%v'", e.Op)
		return nil, false
	}

	x, ok := em.mapExpr(e.X)
	if !ok {
		return nil, false
	}

	t, ok := em.valueType(x, e.X)
	if !ok {
		return nil, false
	}

	if e.Op == "!" {
		t = ir.Bit1()
	}

	return ir.UnOp{Op: e.Op, X: x, T: t}, true
}

// mapMember resolves a field access. Only the receiver's own field table is
// consulted: base-class links are unresolved names at this stage, so access
// through any other object stays unknown by decision.
func (em *exprMapper) mapMember(e *ast.MemberExpr) (ir.Expr, bool) {
	if x, ok := e.X.(*ast.Ident); !ok || x.Name != "this" {
		em.d.Error(diag.UnknownMember, pos(e.P), "member '%v' is not resolvable: only receiver fields are known before base-class resolution", e.Name)
		return nil, false
	}

	t, ok := em.sc.class.fields[e.Name]
	if !ok {
		em.d.Error(diag.UnknownMember, pos(e.P), "unknown member '%v' in class '%v'", e.Name, em.sc.class.cls.Name)
		return nil, false
	}

	return ir.Member{Name: e.Name, T: t}, true
}

func (em *exprMapper) mapIndex(e *ast.IndexExpr) (ir.Expr, bool) {
	x, okx := em.mapExpr(e.X)
	sub, oks := em.mapExpr(e.Sub)

	if !okx || !oks {
		return nil, false
	}

	xt, okt := em.valueType(x, e.X)
	if !okt {
		return nil, false
	}

	if xt.Kind != ir.Vector {
		em.d.Error(diag.NotIndexable, pos(e.P), "type is not indexable, only bit vectors may be subscripted")
		return nil, false
	}

	return ir.Index{X: x, Sub: sub, T: ir.Bit1()}, true
}

// mapCall resolves the callee against the method signatures registered by
// the signature passes. Bodies are not needed: this is what lets forward and
// mutual references work.
func (em *exprMapper) mapCall(e *ast.CallExpr) (ir.Expr, bool) {
	name, ok := calleeName(e.Callee)
	if !ok {
		em.d.Error(diag.UnknownCallee, pos(e.P), "callee is not a resolvable method name")
		return nil, false
	}

	f, ok := em.m.method(em.sc.class, name)
	if !ok {
		em.d.Error(diag.UnknownCallee, pos(e.P), "unknown callee '%v'", name)
		return nil, false
	}

	args := make([]ir.Expr, 0, len(e.Args))
	failed := false

	for _, a := range e.Args {
		x, ok := em.mapExpr(a)
		if !ok {
			failed = true
			continue
		}

		args = append(args, x)
	}

	if failed {
		return nil, false
	}

	// copy the return type so IR nodes never alias the signature table
	var t *ir.Type
	if f.Return != nil {
		rt := *f.Return
		t = &rt
	}

	return ir.Call{Callee: name, Args: args, T: t}, true
}

func calleeName(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name, true
	case *ast.MemberExpr:
		// this.m() is the method m of the receiver
		if x, ok := e.X.(*ast.Ident); ok && x.Name == "this" {
			return e.Name, true
		}
	}

	return "", false
}
