package front

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
	"github.com/zuspec/svir/sv/parse"
)

func mapText(t *testing.T, text string) (*Mapper, bool) {
	t.Helper()

	m := New(parse.New())
	ok := m.Map(context.Background(), "test.sv", []byte(text))

	return m, ok
}

func TestMapSimpleClass(t *testing.T) {
	m, ok := mapText(t, `
class C;
	bit [31:0] addr;

	function bit f();
		return addr[0];
	endfunction
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())

	cs := m.Classes()
	require.Len(t, cs, 1)

	c := cs[0]
	assert.Equal(t, "C", c.Name)
	assert.Equal(t, "", c.Base)

	require.Len(t, c.Fields, 1)
	assert.Equal(t, "addr", c.Fields[0].Name)
	assert.Equal(t, ir.Type{Kind: ir.Vector, Bits: 32}, c.Fields[0].Type)

	require.Len(t, c.Funcs, 1)

	f := c.Funcs[0]
	assert.Equal(t, "f", f.Name)
	require.NotNil(t, f.Return)
	assert.Equal(t, ir.Type{Kind: ir.Vector, Bits: 1}, *f.Return)

	require.Len(t, f.Body, 1)

	ret, rok := f.Body[0].(ir.Return)
	require.True(t, rok)

	idx, iok := ret.Value.(ir.Index)
	require.True(t, iok)
	assert.Equal(t, ir.Bit1(), idx.T)

	mem, mok := idx.X.(ir.Member)
	require.True(t, mok)
	assert.Equal(t, "addr", mem.Name)
}

func TestFieldOrderPreserved(t *testing.T) {
	m, ok := mapText(t, `
class C;
	bit [7:0] a;
	int b;
	bit c;
	longint d;
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())

	c := m.Classes()[0]
	require.Len(t, c.Fields, 4)

	names := []string{}
	for _, f := range c.Fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, ir.Type{Kind: ir.FixedInt, Bits: 64, Signed: true}, c.Fields[3].Type)
}

func TestFourStateFieldRejected(t *testing.T) {
	m, ok := mapText(t, `
class C;
	logic [7:0] bad;
endclass
`)

	assert.False(t, ok)
	assert.Empty(t, m.Classes())

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.FourStateUnsupported, ds[0].Kind)
	assert.Contains(t, ds[0].Suggestion, "bit")
}

func TestFourStateOperators(t *testing.T) {
	for _, op := range []string{"===", "!==", "==?", "!=?"} {
		t.Run(op, func(t *testing.T) {
			m, ok := mapText(t, `
class C;
	int a;
	int b;

	function bit f();
		return a `+op+` b;
	endfunction
endclass
`)

			assert.False(t, ok)
			assert.Empty(t, m.Classes())

			ds := m.Diagnostics()
			require.Len(t, ds, 1, "exactly one diagnostic expected, report:\n%v", m.ErrorReport())
			assert.Equal(t, diag.UnsupportedOperator, ds[0].Kind)
			assert.Equal(t, 7, ds[0].Pos.Line)
			assert.Contains(t, ds[0].Message, op)
		})
	}
}

func TestBreakContinueOutsideLoop(t *testing.T) {
	m, ok := mapText(t, `
class C;
	int n;

	function void f();
		break;
	endfunction

	function void g();
		if (n > 0) begin
			continue;
		end
	endfunction

	function void h();
		while (n > 0) begin
			n = n - 1;
			break;
		end
	endfunction
endclass
`)

	assert.False(t, ok)

	kinds := []diag.Kind{}
	for _, d := range m.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}

	// the break inside h's while is fine, only f and g fail
	assert.Equal(t, []diag.Kind{diag.BreakOutsideLoop, diag.ContinueOutsideLoop}, kinds)
}

func TestForLoopDesugaring(t *testing.T) {
	m, ok := mapText(t, `
class C;
	function void run(int i, int n, int acc);
		for (i = 0; i < n; i++) begin
			acc = acc + i;
		end
	endfunction
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())

	f := m.Classes()[0].Funcs[0]
	require.Len(t, f.Body, 1)

	blk, bok := f.Body[0].(ir.Block)
	require.True(t, bok, "for must desugar to a block, got %T", f.Body[0])
	require.Len(t, blk.Body, 2)

	_, iok := blk.Body[0].(ir.Assign)
	assert.True(t, iok, "first element is the init assignment")

	w, wok := blk.Body[1].(ir.While)
	require.True(t, wok, "second element is the while node")

	require.Len(t, w.Body, 2, "loop body plus appended step")

	step, sok := w.Body[1].(ir.Assign)
	require.True(t, sok)

	// i++ desugars to i = i + 1
	bin, binok := step.Value.(ir.BinOp)
	require.True(t, binok)
	assert.Equal(t, "+", bin.Op)
}

func TestMutualCrossClassCalls(t *testing.T) {
	m, ok := mapText(t, `
class A;
	function bit ping();
		return pong();
	endfunction
endclass

class B;
	function bit pong();
		return ping();
	endfunction
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())
	require.Len(t, m.Classes(), 2)

	ret := m.Classes()[0].Funcs[0].Body[0].(ir.Return)
	call, cok := ret.Value.(ir.Call)
	require.True(t, cok)
	assert.Equal(t, "pong", call.Callee)
	require.NotNil(t, call.T)
	assert.Equal(t, ir.Bit1(), *call.T)
}

func TestForwardReferenceWithinClass(t *testing.T) {
	m, ok := mapText(t, `
class C;
	function bit first();
		return later();
	endfunction

	function bit later();
		return 1;
	endfunction
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())
}

func TestWithdrawnClass(t *testing.T) {
	m, ok := mapText(t, `
class Bad;
	bit [3:0] x;

	function void oops();
		break;
	endfunction

	function bit fine();
		return x[0];
	endfunction
endclass

class Good;
	function bit ok();
		return 0;
	endfunction
endclass
`)

	assert.False(t, ok)

	cs := m.Classes()
	require.Len(t, cs, 1, "withdrawn class must not be listed")
	assert.Equal(t, "Good", cs[0].Name)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.BreakOutsideLoop, ds[0].Kind)

	// signature-pass data of the withdrawn class stays inspectable
	sig, found := m.Signature("Bad")
	require.True(t, found)
	assert.Len(t, sig.Fields, 1)
	assert.Len(t, sig.Funcs, 2)
}

func TestUnknownMember(t *testing.T) {
	m, ok := mapText(t, `
class C;
	function bit f();
		return missing;
	endfunction
endclass
`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.UnknownMember, ds[0].Kind)
	assert.Contains(t, ds[0].Message, "missing")
}

func TestMemberThroughBaseStaysUnknown(t *testing.T) {
	// counter is declared in the base class; base links are unresolved
	// names at this stage, so the access must fail, not guess
	m, ok := mapText(t, `
class Base;
	int counter;
endclass

class C extends Base;
	function int f();
		return counter;
	endfunction
endclass
`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.UnknownMember, ds[0].Kind)

	sig, found := m.Signature("C")
	require.True(t, found)
	assert.Equal(t, "Base", sig.Base)
}

func TestUnknownCallee(t *testing.T) {
	m, ok := mapText(t, `
class C;
	function bit f();
		return nope();
	endfunction
endclass
`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.UnknownCallee, ds[0].Kind)
	assert.Contains(t, ds[0].Message, "nope")
}

func TestNotIndexable(t *testing.T) {
	m, ok := mapText(t, `
class C;
	function bit f(int x);
		return x[0];
	endfunction
endclass
`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.NotIndexable, ds[0].Kind)
}

func TestInvalidRange(t *testing.T) {
	m, ok := mapText(t, `
class C;
	bit [0:7] backwards;
endclass
`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.InvalidRange, ds[0].Kind)
}

func TestModuleAndInterfaceRejected(t *testing.T) {
	m, ok := mapText(t, `
module top;
endmodule

interface bus;
endinterface

class C;
endclass
`)

	assert.False(t, ok)

	kinds := []diag.Kind{}
	for _, d := range m.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}

	assert.Equal(t, []diag.Kind{diag.ModuleOrInterfaceUnsupported, diag.ModuleOrInterfaceUnsupported}, kinds)

	// the class next to them still maps
	sig, found := m.Signature("C")
	require.True(t, found)
	assert.Equal(t, "C", sig.Name)
}

func TestParameterizedClassRejected(t *testing.T) {
	m, ok := mapText(t, `
class P #(parameter WIDTH = 8);
	bit [7:0] data;
endclass

class C;
endclass
`)

	assert.False(t, ok)
	require.Len(t, m.Classes(), 1)
	assert.Equal(t, "C", m.Classes()[0].Name)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.ParameterizedClassUnsupported, ds[0].Kind)
}

func TestUnsupportedStatements(t *testing.T) {
	m, ok := mapText(t, `
class C;
	int n;

	function void f();
		int local_var;
	endfunction

	function void g();
		case (n)
		endcase
	endfunction

	function void h();
		do begin
			n = n - 1;
		end while (n > 0);
	endfunction
endclass
`)

	assert.False(t, ok)

	kinds := []diag.Kind{}
	for _, d := range m.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}

	assert.Equal(t, []diag.Kind{diag.UnsupportedStatement, diag.UnsupportedStatement, diag.UnsupportedStatement}, kinds)
}

func TestTasksAndVoidFunctions(t *testing.T) {
	m, ok := mapText(t, `
class C;
	int n;

	task t();
		n = 0;
	endtask

	virtual function void v();
		n = 1;
	endfunction
endclass
`)

	require.True(t, ok, "report:\n%v", m.ErrorReport())

	fs := m.Classes()[0].Funcs
	require.Len(t, fs, 2)

	assert.True(t, fs[0].Task)
	assert.Nil(t, fs[0].Return)

	assert.False(t, fs[1].Task)
	assert.True(t, fs[1].Virtual)
	assert.Nil(t, fs[1].Return)
}

func TestErrorReportFormat(t *testing.T) {
	m, ok := mapText(t, `
class C;
	logic bad;
endclass
`)

	assert.False(t, ok)

	rep := m.ErrorReport()
	assert.True(t, strings.HasPrefix(rep, "test.sv:3:2: error: "), "report:\n%v", rep)
}

func TestReportOrderedByLocation(t *testing.T) {
	// h fails before f in source order even though both are in one class
	m, ok := mapText(t, `
class C;
	function void f();
		break;
	endfunction

	function void g();
		continue;
	endfunction
endclass
`)

	assert.False(t, ok)

	ds := m.d.Sorted()
	require.Len(t, ds, 2)
	assert.Less(t, ds[0].Pos.Line, ds[1].Pos.Line)
}

func TestSyntaxErrorIsDiagnostic(t *testing.T) {
	m, ok := mapText(t, `class C;`)

	assert.False(t, ok)

	ds := m.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.SyntaxError, ds[0].Kind)
	assert.Empty(t, m.Classes())
}

func TestMaxDiagnostics(t *testing.T) {
	m := NewWithConfig(parse.New(), Config{MaxDiagnostics: 1})

	ok := m.Map(context.Background(), "test.sv", []byte(`
class C;
	logic a;
	reg b;
	integer c;
endclass
`))

	assert.False(t, ok)
	assert.Len(t, m.Diagnostics(), 1)
}

func TestMapResetsBetweenRuns(t *testing.T) {
	m := New(parse.New())

	ok := m.Map(context.Background(), "a.sv", []byte(`class A; logic x; endclass`))
	assert.False(t, ok)
	assert.NotEmpty(t, m.Diagnostics())

	ok = m.Map(context.Background(), "b.sv", []byte(`class B; bit y; endclass`))
	assert.True(t, ok)
	assert.Empty(t, m.Diagnostics())
	require.Len(t, m.Classes(), 1)
	assert.Equal(t, "B", m.Classes()[0].Name)
}

func TestTypeMapperTwoState(t *testing.T) {
	tm := &typeMapper{d: diag.New()}

	for _, tc := range []struct {
		ts   *ast.TypeSpec
		want ir.Type
	}{
		{&ast.TypeSpec{Keyword: "bit"}, ir.Type{Kind: ir.Vector, Bits: 1}},
		{&ast.TypeSpec{Keyword: "bit", HasRange: true, Hi: 7, Lo: 0}, ir.Type{Kind: ir.Vector, Bits: 8}},
		{&ast.TypeSpec{Keyword: "bit", HasRange: true, Hi: 31, Lo: 0, Signed: true}, ir.Type{Kind: ir.Vector, Bits: 32, Signed: true}},
		{&ast.TypeSpec{Keyword: "bit", HasRange: true, Hi: 15, Lo: 8}, ir.Type{Kind: ir.Vector, Bits: 8}},
		{&ast.TypeSpec{Keyword: "byte"}, ir.Type{Kind: ir.FixedInt, Bits: 8, Signed: true}},
		{&ast.TypeSpec{Keyword: "shortint"}, ir.Type{Kind: ir.FixedInt, Bits: 16, Signed: true}},
		{&ast.TypeSpec{Keyword: "int"}, ir.Type{Kind: ir.FixedInt, Bits: 32, Signed: true}},
		{&ast.TypeSpec{Keyword: "longint"}, ir.Type{Kind: ir.FixedInt, Bits: 64, Signed: true}},
	} {
		got, ok := tm.mapType(tc.ts)
		require.True(t, ok, "%+v", tc.ts)
		assert.Equal(t, tc.want, got, "%+v", tc.ts)

		// deterministic: same descriptor, same type
		again, _ := tm.mapType(tc.ts)
		assert.Equal(t, got, again)
	}

	assert.False(t, tm.d.HasErrors())
}

func TestTypeMapperFourState(t *testing.T) {
	for _, kw := range []string{"logic", "reg", "integer", "time"} {
		d := diag.New()
		tm := &typeMapper{d: d}

		_, ok := tm.mapType(&ast.TypeSpec{Keyword: kw})
		assert.False(t, ok, kw)

		ds := d.All()
		require.Len(t, ds, 1, kw)
		assert.Equal(t, diag.FourStateUnsupported, ds[0].Kind, kw)
		assert.NotEmpty(t, ds[0].Suggestion, kw)
	}
}
