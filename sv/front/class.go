package front

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/ir"
)

// signaturePass resolves and records, in declaration order, every field's
// type and every method's header. The base class stays a name: no validation
// that it exists or is compatible happens here, that resolution is deferred
// to the downstream consumer.
func (m *Mapper) signaturePass(ctx context.Context, sc *classScope) {
	tr := tlog.SpanFromContext(ctx)
	tr.Printw("signature pass", "class", sc.cls.Name, "base", sc.cls.Base)

	tm := &typeMapper{d: m.d}

	for _, fd := range sc.decl.Fields {
		t, ok := tm.mapType(fd.Type)
		if !ok {
			continue
		}

		sc.cls.Fields = append(sc.cls.Fields, ir.Field{Name: fd.Name, Type: t})
		sc.fields[fd.Name] = t
	}

	fm := &functionMapper{m: m, d: m.d, tm: tm}

	for _, fd := range sc.decl.Funcs {
		f, ok := fm.signature(fd)
		if !ok {
			// a failed header is not registered: calls to it stay
			// unresolved, the class is withdrawn either way
			continue
		}

		sc.cls.Funcs = append(sc.cls.Funcs, f)
		sc.methods[fd.Name] = f
		sc.sigs = append(sc.sigs, methodSig{decl: fd, f: f})
	}
}

// bodyPass maps every method body of one class. It must not start anywhere
// in the unit before every class's signature pass has completed.
func (m *Mapper) bodyPass(ctx context.Context, sc *classScope) {
	tr := tlog.SpanFromContext(ctx)
	tr.Printw("body pass", "class", sc.cls.Name, "methods", len(sc.sigs))

	fm := &functionMapper{m: m, d: m.d, tm: &typeMapper{d: m.d}}

	for _, ms := range sc.sigs {
		fm.body(sc, ms.decl, ms.f)
	}
}

type methodSig struct {
	decl *ast.FuncDecl
	f    *ir.Func
}
