package front

import (
	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
)

// stmtMapper translates the closed statement set. For-loops are desugared
// into init + while with the step appended to the loop body, so the IR
// carries a single looping construct. break/continue placement is checked
// structurally with a nesting counter during the descent.
type stmtMapper struct {
	d  *diag.Reporter
	em *exprMapper

	loops int
}

// mapBody maps a statement list. A failing statement poisons the list but
// siblings are still translated so one run surfaces every diagnostic.
func (sm *stmtMapper) mapBody(body []ast.Stmt) ([]ir.Stmt, bool) {
	out := make([]ir.Stmt, 0, len(body))
	ok := true

	for _, st := range body {
		y, sok := sm.mapStmt(st)
		if !sok {
			ok = false
			continue
		}

		out = append(out, y)
	}

	if !ok {
		return nil, false
	}

	return out, true
}

// branch maps an if/loop branch, flattening a sole block so the IR branch
// is the statement list itself.
func (sm *stmtMapper) branch(body []ast.Stmt) ([]ir.Stmt, bool) {
	if len(body) == 1 {
		if b, ok := body[0].(*ast.BlockStmt); ok {
			return sm.mapBody(b.Body)
		}
	}

	return sm.mapBody(body)
}

func (sm *stmtMapper) mapStmt(st ast.Stmt) (ir.Stmt, bool) {
	switch st := st.(type) {
	case *ast.AssignStmt:
		return sm.mapAssign(st)
	case *ast.ReturnStmt:
		return sm.mapReturn(st)
	case *ast.IfStmt:
		return sm.mapIf(st)
	case *ast.WhileStmt:
		return sm.mapWhile(st)
	case *ast.ForStmt:
		return sm.mapFor(st)
	case *ast.BreakStmt:
		if sm.loops == 0 {
			sm.d.Error(diag.BreakOutsideLoop, pos(st.P), "break outside of a loop")
			return nil, false
		}

		return ir.Break{}, true
	case *ast.ContinueStmt:
		if sm.loops == 0 {
			sm.d.Error(diag.ContinueOutsideLoop, pos(st.P), "continue outside of a loop")
			return nil, false
		}

		return ir.Continue{}, true
	case *ast.BlockStmt:
		body, ok := sm.mapBody(st.Body)
		if !ok {
			return nil, false
		}

		return ir.Block{Body: body}, true
	case *ast.ExprStmt:
		sm.d.Error(diag.UnsupportedStatement, pos(st.P), "expression statement not supported")
		return nil, false
	case *ast.DeclStmt:
		sm.d.Error(diag.UnsupportedStatement, pos(st.P), "local variable declaration '%v' not supported inside a body", st.Name)
		return nil, false
	case *ast.CaseStmt:
		sm.d.Error(diag.UnsupportedStatement, pos(st.P), "case statement not supported")
		return nil, false
	case *ast.DoWhileStmt:
		sm.d.Error(diag.UnsupportedStatement, pos(st.P), "do-while loop not supported")
		return nil, false
	default:
		sm.d.Error(diag.UnsupportedStatement, pos(st.Loc()), "unsupported statement %T", st)
		return nil, false
	}
}

func (sm *stmtMapper) mapAssign(st *ast.AssignStmt) (ir.Stmt, bool) {
	target, okt := sm.em.mapExpr(st.Target)
	value, okv := sm.em.mapExpr(st.Value)

	if !okt || !okv {
		return nil, false
	}

	switch target.(type) {
	case ir.Ref, ir.Member, ir.Index:
	default:
		sm.d.Error(diag.UnsupportedStatement, pos(st.P), "assignment target is not assignable")
		return nil, false
	}

	if value.Type() == nil {
		sm.d.Error(diag.UnknownCallee, pos(st.P), "void call used as a value")
		return nil, false
	}

	return ir.Assign{Target: target, Value: value}, true
}

func (sm *stmtMapper) mapReturn(st *ast.ReturnStmt) (ir.Stmt, bool) {
	if st.Value == nil {
		return ir.Return{}, true
	}

	v, ok := sm.em.mapExpr(st.Value)
	if !ok {
		return nil, false
	}

	return ir.Return{Value: v}, true
}

func (sm *stmtMapper) mapIf(st *ast.IfStmt) (ir.Stmt, bool) {
	cond, okc := sm.em.mapExpr(st.Cond)
	then, okt := sm.branch(st.Then)

	els := []ir.Stmt(nil)
	oke := true

	if st.Else != nil {
		els, oke = sm.branch(st.Else)
	}

	if !okc || !okt || !oke {
		return nil, false
	}

	return ir.If{Cond: cond, Then: then, Else: els}, true
}

func (sm *stmtMapper) mapWhile(st *ast.WhileStmt) (ir.Stmt, bool) {
	cond, okc := sm.em.mapExpr(st.Cond)

	sm.loops++
	body, okb := sm.branch(st.Body)
	sm.loops--

	if !okc || !okb {
		return nil, false
	}

	return ir.While{Cond: cond, Body: body}, true
}

// mapFor desugars: { init; while (cond) { body...; step } }.
func (sm *stmtMapper) mapFor(st *ast.ForStmt) (ir.Stmt, bool) {
	init, oki := sm.mapStmt(st.Init)
	cond, okc := sm.em.mapExpr(st.Cond)

	// the step belongs to the loop structurally, but break/continue
	// cannot appear in it, so it is mapped outside the loop counter
	step, oks := sm.mapStmt(st.Step)

	sm.loops++
	body, okb := sm.branch(st.Body)
	sm.loops--

	if !oki || !okc || !oks || !okb {
		return nil, false
	}

	return ir.Block{Body: []ir.Stmt{
		init,
		ir.While{Cond: cond, Body: append(body, step)},
	}}, true
}
