package front

import (
	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
)

// functionMapper maps one function or task declaration in two steps:
// signature (header only) during the signature pass, body once every class's
// signature table is complete. A method may call another method declared
// later in the source, or one that mutually calls back: both resolve through
// the finished tables.
type functionMapper struct {
	m  *Mapper
	d  *diag.Reporter
	tm *typeMapper
}

// signature records name, return type and ordered parameters without
// descending into the body. Tasks and void functions have no return type.
func (fm *functionMapper) signature(fd *ast.FuncDecl) (*ir.Func, bool) {
	f := &ir.Func{
		Name:    fd.Name,
		Task:    fd.Task,
		Virtual: fd.Virtual,
	}

	ok := true

	if fd.Return != nil {
		t, tok := fm.tm.mapType(fd.Return)
		if tok {
			f.Return = &t
		} else {
			ok = false
		}
	}

	for _, p := range fd.Params {
		t, tok := fm.tm.mapType(p.Type)
		if !tok {
			ok = false
			continue
		}

		f.Params = append(f.Params, ir.Param{Name: p.Name, Type: t})
	}

	return f, ok
}

// body translates the statement list. The owning class's full signature
// table, including this function's own entry, is already registered.
func (fm *functionMapper) body(sc *classScope, fd *ast.FuncDecl, f *ir.Func) bool {
	fs := &funcScope{
		class:  sc,
		params: make(map[string]ir.Type, len(f.Params)),
	}

	for _, p := range f.Params {
		fs.params[p.Name] = p.Type
	}

	em := &exprMapper{m: fm.m, d: fm.d, sc: fs}
	sm := &stmtMapper{d: fm.d, em: em}

	body, ok := sm.mapBody(fd.Body)
	if !ok {
		return false
	}

	f.Body = body

	return true
}
