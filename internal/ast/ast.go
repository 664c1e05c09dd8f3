// Package ast defines the syntax tree produced by the parser and consumed
// by the analysis engine. Nodes carry source spans so diagnostics can point
// at the offending code.
package ast

import "github.com/phlin-dev/phlin/internal/types"

// Node is implemented by every syntax tree node.
type Node interface {
	Span() types.Span
}

// Expr is a PHP-like expression.
type Expr interface {
	Node
	isExpr()
}

// Stmt is a statement.
type Stmt interface {
	Node
	isStmt()
}

// Variable is a `$name` reference.
type Variable struct {
	Name string
	Pos  types.Span
}

// PropertyFetch is `Target->Name`.
type PropertyFetch struct {
	Target Expr
	Name   string
	Pos    types.Span
}

// IndexFetch is `Target[Index]`.
type IndexFetch struct {
	Target Expr
	Index  Expr
	Pos    types.Span
}

// Call is a function call by name, e.g. `is_int($x)`.
type Call struct {
	Name string
	Args []Expr
	Pos  types.Span
}

// Isset is the `isset($a, $b, ...)` language construct.
type Isset struct {
	Targets []Expr
	Pos     types.Span
}

// Instanceof is `Value instanceof Class`.
type Instanceof struct {
	Value Expr
	Class string
	Pos   types.Span
}

// UnaryOp is the operator of a Unary expression.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

// Unary is a prefix operator application; only `!` is modeled.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Pos     types.Span
}

// BinaryOp is the operator of a Binary expression.
type BinaryOp int

const (
	OpAnd BinaryOp = iota // &&
	OpOr                  // ||
	OpIdentical           // ===
	OpNotIdentical        // !==
	OpEqual               // ==
	OpNotEqual            // !=
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpIdentical:
		return "==="
	case OpNotIdentical:
		return "!=="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	default:
		return "?"
	}
}

// Binary is an infix operator application.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Pos   types.Span
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   types.Span
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
	Pos   types.Span
}

// StringLit is a single- or double-quoted string literal.
type StringLit struct {
	Value string
	Pos   types.Span
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Pos   types.Span
}

// NullLit is `null`.
type NullLit struct {
	Pos types.Span
}

// ArrayLit is `[a, b, ...]`; element values are not modeled further.
type ArrayLit struct {
	Elems []Expr
	Pos   types.Span
}

// ConstFetch is a bare constant reference such as `PHP_EOL`.
type ConstFetch struct {
	Name string
	Pos  types.Span
}

func (e *Variable) isExpr()      {}
func (e *PropertyFetch) isExpr() {}
func (e *IndexFetch) isExpr()    {}
func (e *Call) isExpr()          {}
func (e *Isset) isExpr()         {}
func (e *Instanceof) isExpr()    {}
func (e *Unary) isExpr()         {}
func (e *Binary) isExpr()        {}
func (e *IntLit) isExpr()        {}
func (e *FloatLit) isExpr()      {}
func (e *StringLit) isExpr()     {}
func (e *BoolLit) isExpr()       {}
func (e *NullLit) isExpr()       {}
func (e *ArrayLit) isExpr()      {}
func (e *ConstFetch) isExpr()    {}

func (e *Variable) Span() types.Span      { return e.Pos }
func (e *PropertyFetch) Span() types.Span { return e.Pos }
func (e *IndexFetch) Span() types.Span    { return e.Pos }
func (e *Call) Span() types.Span          { return e.Pos }
func (e *Isset) Span() types.Span         { return e.Pos }
func (e *Instanceof) Span() types.Span    { return e.Pos }
func (e *Unary) Span() types.Span         { return e.Pos }
func (e *Binary) Span() types.Span        { return e.Pos }
func (e *IntLit) Span() types.Span        { return e.Pos }
func (e *FloatLit) Span() types.Span      { return e.Pos }
func (e *StringLit) Span() types.Span     { return e.Pos }
func (e *BoolLit) Span() types.Span       { return e.Pos }
func (e *NullLit) Span() types.Span       { return e.Pos }
func (e *ArrayLit) Span() types.Span      { return e.Pos }
func (e *ConstFetch) Span() types.Span    { return e.Pos }

// Block is a `{ ... }` statement list.
type Block struct {
	Stmts []Stmt
	Pos   types.Span
}

// If is an if/elseif/else chain. Else is either *Block, *If (elseif), or nil.
type If struct {
	Cond Expr
	Then *Block
	Else Stmt
	Pos  types.Span
}

// Return is `return expr?;`.
type Return struct {
	Value Expr // may be nil
	Pos   types.Span
}

// Break is `break;` inside a switch.
type Break struct {
	Pos types.Span
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	X   Expr
	Pos types.Span
}

// Assign is `Target = Value;`.
type Assign struct {
	Target Expr
	Value  Expr
	Pos    types.Span
}

// SwitchCase is one `case v:` arm; Values is nil for `default:`.
type SwitchCase struct {
	Values []Expr
	Body   []Stmt
	Pos    types.Span
}

// Switch is `switch (Subject) { ... }`.
type Switch struct {
	Subject Expr
	Cases   []*SwitchCase
	Pos     types.Span
}

func (s *Block) isStmt()    {}
func (s *If) isStmt()       {}
func (s *Return) isStmt()   {}
func (s *Break) isStmt()    {}
func (s *ExprStmt) isStmt() {}
func (s *Assign) isStmt()   {}
func (s *Switch) isStmt()   {}

func (s *Block) Span() types.Span    { return s.Pos }
func (s *If) Span() types.Span       { return s.Pos }
func (s *Return) Span() types.Span   { return s.Pos }
func (s *Break) Span() types.Span    { return s.Pos }
func (s *ExprStmt) Span() types.Span { return s.Pos }
func (s *Assign) Span() types.Span   { return s.Pos }
func (s *Switch) Span() types.Span   { return s.Pos }

// Param is a function parameter with an optional type hint such as
// `int|string` or `?string`.
type Param struct {
	Name string
	Hint string // empty means no hint (mixed)
	Pos  types.Span
}

// Function is a top-level function or a class method.
type Function struct {
	Name   string
	Params []*Param
	Body   *Block
	Pos    types.Span
}

// Property is a typed class property declaration.
type Property struct {
	Name string
	Hint string
	Pos  types.Span
}

// Class is a class declaration. Methods are analyzed like functions with
// `$this` bound to the class.
type Class struct {
	Name       string
	Parent     string
	Interfaces []string
	Final      bool
	IsIface    bool
	Properties []*Property
	Methods    []*Function
	Pos        types.Span
}

// Comment is a retained source comment; suppression pragmas are parsed
// out of these.
type Comment struct {
	Text string
	Pos  types.Span
}

// File is a parsed source file.
type File struct {
	Filename  string
	Functions []*Function
	Classes   []*Class
	Comments  []*Comment
}
