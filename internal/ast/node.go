package ast

import "encoding/json"

// Pos is a source position reported by the external parser.
// The zero value means "unknown position".
type Pos struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// IsValid reports whether the position carries real source information.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Node represents a syntax-tree node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the compiler passes.
type Node interface {
	node() // Marker method - seals interface to this package

	// Position returns the node's source position (zero if unknown).
	Position() Pos
}

// Program is the root of a compilation unit.
type Program struct {
	File string
	Body []Node
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Node
	Pos  Pos
}

// VarDecl is a single-name variable declaration with an optional
// initializer. The compiler only needs it to reach call sites inside
// initializers; multi-declarator forms arrive as Opaque.
type VarDecl struct {
	Kind string // "const", "let" or "var"
	Name string
	Init Node
	Pos  Pos
}

// BinaryExpr is a binary expression with the source-level operator
// spelling ("&&", "==", ">=", ...).
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
	Pos   Pos
}

// MemberExpr is a non-computed member access (obj.prop). Computed member
// access is decoded as Opaque.
type MemberExpr struct {
	Object   Node
	Property string
	Pos      Pos
}

// Ident is a name reference. Whether it is a lambda parameter or a captured
// outer variable is a scope-resolution question answered by the compiler
// against the enclosing arrow's parameter list.
type Ident struct {
	Name string
	Pos  Pos
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Pos   Pos
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
	Pos   Pos
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
	Pos   Pos
}

// CallExpr is a call expression.
type CallExpr struct {
	Callee Node
	Args   []Node
	Pos    Pos
}

// ArrowFn is an arrow function with simple (non-destructuring) parameters.
// Body is either an expression or a BlockStmt.
type ArrowFn struct {
	Params []string
	Body   Node
	Pos    Pos
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Node
	Pos  Pos
}

// BlockStmt is a statement block.
type BlockStmt struct {
	Body []Node
	Pos  Pos
}

// ReturnStmt is a return statement with an optional argument.
type ReturnStmt struct {
	Arg Node // nil for bare return
	Pos Pos
}

// AwaitExpr is an await expression.
type AwaitExpr struct {
	Arg Node
	Pos Pos
}

// ObjectLiteral is an object literal. Only entries with literal keys are
// decoded; computed keys are preserved but marked so consumers skip them.
type ObjectLiteral struct {
	Props []ObjectProp
	Pos   Pos
}

// ObjectProp is a single object-literal entry.
type ObjectProp struct {
	Key       string
	Computed  bool // key is a computed expression; Key is empty
	Shorthand bool // { name } form
	Value     Node // nil for shorthand entries
	Raw       json.RawMessage // original encoding, kept for round-tripping
}

// Opaque is any node shape the compiler does not understand. It re-emits
// its original JSON verbatim so rewrites never lose structure.
type Opaque struct {
	Type string
	Raw  json.RawMessage
	Pos  Pos
}

func (*Program) node()       {}
func (*ExprStmt) node()      {}
func (*VarDecl) node()       {}
func (*BinaryExpr) node()    {}
func (*MemberExpr) node()    {}
func (*Ident) node()         {}
func (*StringLit) node()     {}
func (*NumberLit) node()     {}
func (*BoolLit) node()       {}
func (*CallExpr) node()      {}
func (*ArrowFn) node()       {}
func (*ParenExpr) node()     {}
func (*BlockStmt) node()     {}
func (*ReturnStmt) node()    {}
func (*AwaitExpr) node()     {}
func (*ObjectLiteral) node() {}
func (*Opaque) node()        {}

func (n *Program) Position() Pos       { return Pos{} }
func (n *ExprStmt) Position() Pos      { return n.Pos }
func (n *VarDecl) Position() Pos       { return n.Pos }
func (n *BinaryExpr) Position() Pos    { return n.Pos }
func (n *MemberExpr) Position() Pos    { return n.Pos }
func (n *Ident) Position() Pos         { return n.Pos }
func (n *StringLit) Position() Pos     { return n.Pos }
func (n *NumberLit) Position() Pos     { return n.Pos }
func (n *BoolLit) Position() Pos       { return n.Pos }
func (n *CallExpr) Position() Pos      { return n.Pos }
func (n *ArrowFn) Position() Pos       { return n.Pos }
func (n *ParenExpr) Position() Pos     { return n.Pos }
func (n *BlockStmt) Position() Pos     { return n.Pos }
func (n *ReturnStmt) Position() Pos    { return n.Pos }
func (n *AwaitExpr) Position() Pos     { return n.Pos }
func (n *ObjectLiteral) Position() Pos { return n.Pos }
func (n *Opaque) Position() Pos        { return n.Pos }
