package queryir

// Expr represents a predicate expression in the query IR.
//
// This is a sealed interface - only types in this package implement it.
//
// Expr variants:
//   - BinaryExpr: left op right, for the eight supported operators
//   - PropertyAccess: field access, chains compose through Object
//   - Ident: a captured outer variable (not a lambda parameter)
//   - Param: the Nth parameter of the predicate lambda
//   - Value: a literal constant
//
// Trees are finite, acyclic, and fully owned by their parent: no shared
// subtrees, no back-references. Binary nodes are strictly binary; nested
// same-operator expressions stay nested.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// BinaryOp is a binary operator. The constant spelling is the wire
// contract consumed by the query runtime and must not change without a
// version bump.
type BinaryOp string

const (
	OpAnd   BinaryOp = "And"
	OpOr    BinaryOp = "Or"
	OpEq    BinaryOp = "Eq"
	OpNotEq BinaryOp = "NotEq"
	OpGt    BinaryOp = "Gt"
	OpLt    BinaryOp = "Lt"
	OpGtEq  BinaryOp = "GtEq"
	OpLtEq  BinaryOp = "LtEq"
)

// IsLogical reports whether the operator is And or Or.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsComparison reports whether the operator compares two operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNotEq, OpGt, OpLt, OpGtEq, OpLtEq:
		return true
	}
	return false
}

// BinaryExpr is a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// PropertyAccess is a field access. Object is typically a Param or another
// PropertyAccess, which composes chains like a.b.c. The property name is a
// plain string, not an Ident node - that is the canonical contract.
type PropertyAccess struct {
	Object   Expr
	Property string
}

func (*PropertyAccess) exprNode() {}

// Ident is a free variable captured from the enclosing scope. Its value is
// resolved by the runtime at query time, not by the compiler.
type Ident struct {
	Name string
}

func (*Ident) exprNode() {}

// Param references a predicate lambda parameter by position. Position 0 is
// the entity itself in single-argument filters.
type Param struct {
	Position int
}

func (*Param) exprNode() {}

// Value is a literal constant.
type Value struct {
	Lit Literal
}

func (*Value) exprNode() {}

// Literal is a sealed interface over the literal kinds a Value can carry.
// Only Str, Num, and Bool implement it.
type Literal interface {
	literalValue() // Marker method - seals interface to this package
}

// Str is a string literal.
type Str string

func (Str) literalValue() {}

// Num is a numeric literal. Source-language numbers are doubles.
type Num float64

func (Num) literalValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) literalValue() {}

// RootParam returns the parameter a property chain is rooted at, or false
// if the chain bottoms out in anything other than a Param.
func RootParam(e Expr) (*Param, bool) {
	switch v := e.(type) {
	case *Param:
		return v, true
	case *PropertyAccess:
		return RootParam(v.Object)
	default:
		return nil, false
	}
}
