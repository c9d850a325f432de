// Package ir is the restricted intermediate representation handed to the
// downstream verification-modeling toolchain. Every value type is two-state.
// Nodes are immutable after construction and owned by their container.
package ir

type (
	TypeKind int

	// Type is a scalar two-state value type. There is no variant for
	// four-state kinds: the frontend rejects them before construction.
	Type struct {
		Kind   TypeKind
		Bits   int
		Signed bool
	}

	// Field is one class member in declaration order.
	Field struct {
		Name string
		Type Type
	}

	// Param is one callable parameter in declaration order.
	Param struct {
		Name string
		Type Type
	}

	// Func is a mapped function or task. Return is nil for void functions
	// and for tasks; Task marks the latter.
	Func struct {
		Name    string
		Return  *Type
		Params  []Param
		Body    []Stmt
		Task    bool
		Virtual bool
	}

	// Class is a mapped class declaration. Base is the declared base-class
	// name only: an unresolved reference, never a validated link. Callers
	// must treat it as a name until a later resolution phase.
	Class struct {
		Name   string
		Base   string // "" if the class has no base
		Fields []Field
		Funcs  []*Func
	}

	// Expr is the closed expression variant set. Implementations live in
	// this package only; switches over Expr may be exhaustive.
	Expr interface {
		Type() *Type
		expr()
	}

	// Stmt is the closed statement variant set.
	Stmt interface {
		stmt()
	}
)

const (
	// Vector is an unsigned bit vector (bit, bit [hi:lo]).
	Vector TypeKind = iota

	// FixedInt is a fixed-width signed integer alias (byte, shortint,
	// int, longint).
	FixedInt
)

// Expressions.
type (
	Lit struct {
		Value int64
		T     Type
	}

	// Ref names a parameter of the enclosing function. Field accesses,
	// bare or through the receiver, map to Member instead.
	Ref struct {
		Name string
		T    Type
	}

	BinOp struct {
		Op          string
		Left, Right Expr
		T           Type
	}

	UnOp struct {
		Op string
		X  Expr
		T  Type
	}

	// Member is a receiver field access (this.name). The field is resolved
	// against the enclosing class's own table; access through a base-class
	// reference stays unresolved until base links are validated downstream.
	Member struct {
		Name string
		T    Type
	}

	// Index subscripts a vector-typed base.
	Index struct {
		X   Expr
		Sub Expr
		T   Type
	}

	// Call invokes a method by name. T is nil when the callee is void.
	Call struct {
		Callee string
		Args   []Expr
		T      *Type
	}
)

func (e Lit) Type() *Type    { return &e.T }
func (e Ref) Type() *Type    { return &e.T }
func (e BinOp) Type() *Type  { return &e.T }
func (e UnOp) Type() *Type   { return &e.T }
func (e Member) Type() *Type { return &e.T }
func (e Index) Type() *Type  { return &e.T }
func (e Call) Type() *Type   { return e.T }

func (Lit) expr()    {}
func (Ref) expr()    {}
func (BinOp) expr()  {}
func (UnOp) expr()   {}
func (Member) expr() {}
func (Index) expr()  {}
func (Call) expr()   {}

// Statements.
type (
	Assign struct {
		Target Expr
		Value  Expr
	}

	Return struct {
		Value Expr // nil for a bare return
	}

	If struct {
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// While is the single looping construct. For-loops are desugared into
	// init + While with the step appended to the body.
	While struct {
		Cond Expr
		Body []Stmt
	}

	Break    struct{}
	Continue struct{}

	Block struct {
		Body []Stmt
	}
)

func (Assign) stmt()   {}
func (Return) stmt()   {}
func (If) stmt()       {}
func (While) stmt()    {}
func (Break) stmt()    {}
func (Continue) stmt() {}
func (Block) stmt()    {}

// Bit1 is the type of comparison and logical results.
func Bit1() Type { return Type{Kind: Vector, Bits: 1} }
