// Package ast defines the syntax tree handed to the mapping pipeline by the
// parser. Every node carries a source position; node kinds outside the
// mapper's supported set are still represented here so the mapper can reject
// them with a located diagnostic instead of skipping them.
package ast

import "fmt"

type (
	// Pos is a file/line/column source position.
	Pos struct {
		File string
		Line int
		Col  int
	}

	Node interface {
		Loc() Pos
	}

	// Unit is one parsed source unit: the ordered top-level declarations.
	Unit struct {
		Decls []Decl
	}

	Decl interface {
		Node
		decl()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}
)

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Declarations.
type (
	ClassDecl struct {
		P    Pos
		Name string
		Base string // "" if no extends clause

		// Parameterized is set when the class declares parameter ports
		// (class C #(...)). Such classes are rejected by the mapper.
		Parameterized bool

		Fields []*FieldDecl
		Funcs  []*FuncDecl
	}

	// ModuleDecl covers module and interface declarations. They are parsed
	// only far enough to be rejected.
	ModuleDecl struct {
		P       Pos
		Keyword string // "module" or "interface"
		Name    string
	}

	FieldDecl struct {
		P    Pos
		Name string
		Type *TypeSpec
	}

	FuncDecl struct {
		P       Pos
		Name    string
		Task    bool
		Virtual bool
		Return  *TypeSpec // nil for tasks and void functions
		Params  []*ParamDecl
		Body    []Stmt
	}

	ParamDecl struct {
		P    Pos
		Name string
		Type *TypeSpec
	}

	// TypeSpec is a primitive type descriptor: keyword, optional packed
	// range, optional signed flag.
	TypeSpec struct {
		P        Pos
		Keyword  string
		HasRange bool
		Hi, Lo   int
		Signed   bool
	}
)

func (d ClassDecl) Loc() Pos  { return d.P }
func (d ModuleDecl) Loc() Pos { return d.P }
func (d FieldDecl) Loc() Pos  { return d.P }
func (d FuncDecl) Loc() Pos   { return d.P }
func (d ParamDecl) Loc() Pos  { return d.P }
func (d TypeSpec) Loc() Pos   { return d.P }

func (*ClassDecl) decl()  {}
func (*ModuleDecl) decl() {}

// Statements. DeclStmt, CaseStmt, DoWhileStmt and ExprStmt are parsed but
// not translatable; the mapper rejects them by kind.
type (
	AssignStmt struct {
		P      Pos
		Target Expr
		Value  Expr
	}

	ReturnStmt struct {
		P     Pos
		Value Expr // nil for a bare return
	}

	IfStmt struct {
		P    Pos
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	WhileStmt struct {
		P    Pos
		Cond Expr
		Body []Stmt
	}

	ForStmt struct {
		P    Pos
		Init Stmt
		Cond Expr
		Step Stmt
		Body []Stmt
	}

	BreakStmt struct {
		P Pos
	}

	ContinueStmt struct {
		P Pos
	}

	BlockStmt struct {
		P    Pos
		Body []Stmt
	}

	ExprStmt struct {
		P Pos
		X Expr
	}

	DeclStmt struct {
		P    Pos
		Name string
		Type *TypeSpec
	}

	CaseStmt struct {
		P Pos
	}

	DoWhileStmt struct {
		P    Pos
		Cond Expr
		Body []Stmt
	}
)

func (s AssignStmt) Loc() Pos   { return s.P }
func (s ReturnStmt) Loc() Pos   { return s.P }
func (s IfStmt) Loc() Pos       { return s.P }
func (s WhileStmt) Loc() Pos    { return s.P }
func (s ForStmt) Loc() Pos      { return s.P }
func (s BreakStmt) Loc() Pos    { return s.P }
func (s ContinueStmt) Loc() Pos { return s.P }
func (s BlockStmt) Loc() Pos    { return s.P }
func (s ExprStmt) Loc() Pos     { return s.P }
func (s DeclStmt) Loc() Pos     { return s.P }
func (s CaseStmt) Loc() Pos     { return s.P }
func (s DoWhileStmt) Loc() Pos  { return s.P }

func (*AssignStmt) stmt()   {}
func (*ReturnStmt) stmt()   {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*BlockStmt) stmt()    {}
func (*ExprStmt) stmt()     {}
func (*DeclStmt) stmt()     {}
func (*CaseStmt) stmt()     {}
func (*DoWhileStmt) stmt()  {}

// Expressions.
type (
	IntLit struct {
		P     Pos
		Value int64
	}

	Ident struct {
		P    Pos
		Name string
	}

	Binary struct {
		P           Pos
		Op          string
		Left, Right Expr
	}

	Unary struct {
		P  Pos
		Op string
		X  Expr
	}

	MemberExpr struct {
		P    Pos
		X    Expr
		Name string
	}

	IndexExpr struct {
		P   Pos
		X   Expr
		Sub Expr
	}

	CallExpr struct {
		P      Pos
		Callee Expr
		Args   []Expr
	}
)

func (e IntLit) Loc() Pos     { return e.P }
func (e Ident) Loc() Pos      { return e.P }
func (e Binary) Loc() Pos     { return e.P }
func (e Unary) Loc() Pos      { return e.P }
func (e MemberExpr) Loc() Pos { return e.P }
func (e IndexExpr) Loc() Pos  { return e.P }
func (e CallExpr) Loc() Pos   { return e.P }

func (*IntLit) expr()     {}
func (*Ident) expr()      {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*MemberExpr) expr() {}
func (*IndexExpr) expr()  {}
func (*CallExpr) expr()   {}
