// Package front maps the parsed SystemVerilog subset onto the restricted
// verification IR. The pipeline is a strict two-sub-pass translation: every
// class's signature (fields, method headers, base name) is recorded before
// any method body is mapped, so forward and mutual references across classes
// resolve through completed signature tables only.
package front

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
	"github.com/zuspec/svir/sv/parse"
)

type (
	// Parser is the external input collaborator.
	Parser interface {
		Parse(ctx context.Context, name string, text []byte) (*ast.Unit, error)
	}

	// Config carries translation knobs. The zero value is the strict
	// default: everything outside the subset is a fatal diagnostic.
	Config struct {
		// MaxDiagnostics caps how many diagnostics are recorded.
		// Zero means unlimited. Fatal diagnostics past the cap still
		// fail the run, they are just not retained.
		MaxDiagnostics int
	}

	// Mapper is the orchestrator. One Map call translates one source unit;
	// results and diagnostics are valid until the next call.
	Mapper struct {
		p   Parser
		cfg Config

		d *diag.Reporter

		classes []*classScope
		byName  map[string]*classScope

		out    []*ir.Class
		mapped bool
	}

	// classScope is one discovered class with its signature-pass tables.
	// It stays visible to diagnostics and sibling classes even when the
	// class itself is withdrawn.
	classScope struct {
		decl *ast.ClassDecl
		cls  *ir.Class

		fields  map[string]ir.Type
		methods map[string]*ir.Func
		sigs    []methodSig

		fatals    int
		withdrawn bool
	}
)

func New(p Parser) *Mapper {
	return NewWithConfig(p, Config{})
}

func NewWithConfig(p Parser, cfg Config) *Mapper {
	if p == nil {
		p = parse.New()
	}

	return &Mapper{p: p, cfg: cfg}
}

// Map runs the full pipeline over one source unit: parse, discover classes,
// signature pass for every class, body pass for every class. It reports
// true iff no fatal diagnostic was raised in any pass. Map never panics past
// its boundary; failures land in the diagnostics reporter.
func (m *Mapper) Map(ctx context.Context, name string, text []byte) (ok bool) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "map unit", "name", name)
	defer tr.Finish("ok", &ok)

	m.d = diag.New()
	m.d.Limit = m.cfg.MaxDiagnostics
	m.classes = nil
	m.byName = map[string]*classScope{}
	m.out = nil
	m.mapped = true

	u, err := m.p.Parse(ctx, name, text)
	if err != nil {
		p := diag.Pos{File: name, Line: 1, Col: 1}

		if perr, ok := err.(*parse.Error); ok {
			p = pos(perr.Pos)
		}

		m.d.Error(diag.SyntaxError, p, "parse failed: %v", err)

		return false
	}

	m.discover(u)

	for _, sc := range m.classes {
		before := m.d.Errors()
		m.signaturePass(ctx, sc)
		sc.fatals += m.d.Errors() - before
	}

	// barrier: every signature table is complete before any body is mapped

	for _, sc := range m.classes {
		before := m.d.Errors()
		m.bodyPass(ctx, sc)
		sc.fatals += m.d.Errors() - before
	}

	for _, sc := range m.classes {
		sc.withdrawn = sc.fatals > 0

		if sc.withdrawn {
			tr.Printw("class withdrawn", "class", sc.cls.Name, "fatals", sc.fatals)
			continue
		}

		m.out = append(m.out, sc.cls)
	}

	tr.Printw("mapped", "classes", len(m.out), "discovered", len(m.classes), "diagnostics", len(m.d.All()))

	return !m.d.HasErrors()
}

// discover registers top-level declarations. Modules, interfaces and
// parameterized classes are rejected here; their contents are never visited.
func (m *Mapper) discover(u *ast.Unit) {
	for _, d := range u.Decls {
		switch d := d.(type) {
		case *ast.ClassDecl:
			if d.Parameterized {
				m.d.Error(diag.ParameterizedClassUnsupported, pos(d.P), "parameterized class '%v' not supported", d.Name)
				continue
			}

			sc := &classScope{
				decl:    d,
				cls:     &ir.Class{Name: d.Name, Base: d.Base},
				fields:  map[string]ir.Type{},
				methods: map[string]*ir.Func{},
			}

			m.classes = append(m.classes, sc)
			m.byName[d.Name] = sc
		case *ast.ModuleDecl:
			m.d.Error(diag.ModuleOrInterfaceUnsupported, pos(d.P), "%v '%v' not supported, only class declarations are translated", d.Keyword, d.Name)
		}
	}
}

// Classes returns the non-withdrawn classes in discovery order. It is empty
// before the first Map call.
func (m *Mapper) Classes() []*ir.Class {
	if !m.mapped {
		return nil
	}

	return m.out
}

// Signature returns the signature-pass data recorded for a class, including
// withdrawn ones. The returned class carries fields and method headers;
// method bodies are present only for non-withdrawn classes.
func (m *Mapper) Signature(name string) (*ir.Class, bool) {
	sc, ok := m.byName[name]
	if !ok {
		return nil, false
	}

	return sc.cls, true
}

// Diagnostics returns every diagnostic in discovery order.
func (m *Mapper) Diagnostics() []diag.Diagnostic {
	if m.d == nil {
		return nil
	}

	return m.d.All()
}

// ErrorReport renders one line per diagnostic, ordered by source location,
// ties broken by discovery order.
func (m *Mapper) ErrorReport() string {
	if m.d == nil {
		return ""
	}

	return m.d.Report()
}

// method resolves a callee name: the enclosing class first, then the
// unit-wide table populated by the completed signature passes.
func (m *Mapper) method(own *classScope, name string) (*ir.Func, bool) {
	if f, ok := own.methods[name]; ok {
		return f, true
	}

	for _, sc := range m.classes {
		if f, ok := sc.methods[name]; ok {
			return f, true
		}
	}

	return nil, false
}

func pos(p ast.Pos) diag.Pos {
	return diag.Pos{File: p.File, Line: p.Line, Col: p.Col}
}
