package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuspec/svir/sv/ast"
)

func parseText(t *testing.T, text string) (*ast.Unit, error) {
	t.Helper()
	return New().Parse(context.Background(), "test.sv", []byte(text))
}

func TestParseClass(t *testing.T) {
	u, err := parseText(t, `
// leading comment
class packet extends base_packet;
	rand bit [7:0] data;
	int len;

	virtual function bit valid(int limit);
		return len <= limit;
	endfunction

	task reset();
		len = 0;
	endtask
endclass
`)

	require.NoError(t, err)
	require.Len(t, u.Decls, 1)

	c, ok := u.Decls[0].(*ast.ClassDecl)
	require.True(t, ok)

	assert.Equal(t, "packet", c.Name)
	assert.Equal(t, "base_packet", c.Base)
	assert.False(t, c.Parameterized)

	require.Len(t, c.Fields, 2)
	assert.Equal(t, "data", c.Fields[0].Name)
	assert.Equal(t, "bit", c.Fields[0].Type.Keyword)
	assert.True(t, c.Fields[0].Type.HasRange)
	assert.Equal(t, 7, c.Fields[0].Type.Hi)
	assert.Equal(t, 0, c.Fields[0].Type.Lo)

	require.Len(t, c.Funcs, 2)

	f := c.Funcs[0]
	assert.Equal(t, "valid", f.Name)
	assert.True(t, f.Virtual)
	assert.False(t, f.Task)
	require.NotNil(t, f.Return)
	assert.Equal(t, "bit", f.Return.Keyword)
	require.Len(t, f.Params, 1)
	assert.Equal(t, "limit", f.Params[0].Name)
	require.Len(t, f.Body, 1)

	tk := c.Funcs[1]
	assert.Equal(t, "reset", tk.Name)
	assert.True(t, tk.Task)
	assert.Nil(t, tk.Return)
}

func TestParsePositions(t *testing.T) {
	u, err := parseText(t, "class C;\n\tbit f;\nendclass\n")
	require.NoError(t, err)

	c := u.Decls[0].(*ast.ClassDecl)
	assert.Equal(t, ast.Pos{File: "test.sv", Line: 1, Col: 1}, c.P)
	assert.Equal(t, ast.Pos{File: "test.sv", Line: 2, Col: 6}, c.Fields[0].P)
}

func TestParseFourStateOperators(t *testing.T) {
	// the parser accepts four-state comparison forms so the mapper can
	// reject them at their own location
	u, err := parseText(t, `
class C;
	function bit f(int a, int b);
		return a === b;
	endfunction
endclass
`)

	require.NoError(t, err)

	f := u.Decls[0].(*ast.ClassDecl).Funcs[0]
	ret := f.Body[0].(*ast.ReturnStmt)

	bin, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "===", bin.Op)
}

func TestParseSizedLiterals(t *testing.T) {
	u, err := parseText(t, `
class C;
	function int f(int x);
		x = 8'hFF;
		x = 4'b1010;
		x = 'd42;
		x = 12;
		return x;
	endfunction
endclass
`)

	require.NoError(t, err)

	body := u.Decls[0].(*ast.ClassDecl).Funcs[0].Body

	vals := []int64{}
	for _, st := range body[:4] {
		vals = append(vals, st.(*ast.AssignStmt).Value.(*ast.IntLit).Value)
	}

	assert.Equal(t, []int64{255, 10, 42, 12}, vals)
}

func TestParsePrecedence(t *testing.T) {
	u, err := parseText(t, `
class C;
	function int f(int a, int b, int c);
		return a + b * c;
	endfunction
endclass
`)

	require.NoError(t, err)

	ret := u.Decls[0].(*ast.ClassDecl).Funcs[0].Body[0].(*ast.ReturnStmt)

	add, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)

	mul, ok := add.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseForLoop(t *testing.T) {
	u, err := parseText(t, `
class C;
	function void f(int i, int n);
		for (i = 0; i < n; i++) begin
			n = n - 1;
		end
	endfunction
endclass
`)

	require.NoError(t, err)

	body := u.Decls[0].(*ast.ClassDecl).Funcs[0].Body
	require.Len(t, body, 1)

	fs, ok := body[0].(*ast.ForStmt)
	require.True(t, ok)

	_, ok = fs.Init.(*ast.AssignStmt)
	assert.True(t, ok)

	step, ok := fs.Step.(*ast.AssignStmt)
	require.True(t, ok, "i++ desugars in the parser")

	bin, ok := step.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseMemberCallChain(t *testing.T) {
	u, err := parseText(t, `
class C;
	function void f();
		this.x = this.get(1, 2);
	endfunction
endclass
`)

	require.NoError(t, err)

	st := u.Decls[0].(*ast.ClassDecl).Funcs[0].Body[0].(*ast.AssignStmt)

	mem, ok := st.Target.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "x", mem.Name)

	call, ok := st.Value.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseModuleSkipsBody(t *testing.T) {
	u, err := parseText(t, `
module top;
	wire w;
	assign w = 1;
endmodule
`)

	require.NoError(t, err)
	require.Len(t, u.Decls, 1)

	m, ok := u.Decls[0].(*ast.ModuleDecl)
	require.True(t, ok)
	assert.Equal(t, "module", m.Keyword)
	assert.Equal(t, "top", m.Name)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{"missing endclass", "class C;"},
		{"missing semicolon", "class C\nendclass"},
		{"bad member", "class C;\n\t42;\nendclass"},
		{"unbalanced range", "class C;\n\tbit [7:0 x;\nendclass"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseText(t, tc.text)
			require.Error(t, err)

			perr, ok := err.(*Error)
			require.True(t, ok, "parse failures carry a position: %v", err)
			assert.Equal(t, "test.sv", perr.Pos.File)
		})
	}
}

func TestLexComments(t *testing.T) {
	toks, err := lex("test.sv", []byte("a /* block\ncomment */ b // line\nc"))
	require.NoError(t, err)

	texts := []string{}
	for _, tk := range toks {
		if tk.kind == tIdent {
			texts = append(texts, tk.text)
		}
	}

	assert.Equal(t, []string{"a", "b", "c"}, texts)
}
