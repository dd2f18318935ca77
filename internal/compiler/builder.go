package compiler

import (
	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/queryir"
)

// Source-level operator spellings accepted by the builder, mapped to the
// wire operator tags. Everything else ("in", "instanceof", "%", ...) is
// outside the supported grammar.
var binaryOps = map[string]queryir.BinaryOp{
	"&&": queryir.OpAnd,
	"||": queryir.OpOr,
	"==": queryir.OpEq,
	"!=": queryir.OpNotEq,
	">":  queryir.OpGt,
	"<":  queryir.OpLt,
	">=": queryir.OpGtEq,
	"<=": queryir.OpLtEq,
}

// Build converts the syntax subtree of a predicate body into a queryir
// expression. The second result is false when the subtree falls outside
// the supported grammar; that marks the subtree opaque for the caller.
// Opacity is a lattice value, not an error - it propagates bottom-up and
// never aborts the pass. Build never executes user code.
//
// Name references are resolved against the lambda's parameter list: a name
// matching a parameter becomes a positional Param, anything else is a
// captured outer Ident. The frontend guarantees captured names are not
// locally reassigned.
func Build(n ast.Node, params []string) (queryir.Expr, bool) {
	switch v := n.(type) {
	case *ast.ParenExpr:
		return Build(v.Expr, params)

	case *ast.BinaryExpr:
		op, ok := binaryOps[v.Op]
		if !ok {
			return nil, false
		}
		left, ok := Build(v.Left, params)
		if !ok {
			return nil, false
		}
		right, ok := Build(v.Right, params)
		if !ok {
			return nil, false
		}
		return &queryir.BinaryExpr{Left: left, Op: op, Right: right}, true

	case *ast.MemberExpr:
		obj, ok := Build(v.Object, params)
		if !ok {
			return nil, false
		}
		return &queryir.PropertyAccess{Object: obj, Property: v.Property}, true

	case *ast.Ident:
		for i, p := range params {
			if p == v.Name {
				return &queryir.Param{Position: i}, true
			}
		}
		return &queryir.Ident{Name: v.Name}, true

	case *ast.StringLit:
		return &queryir.Value{Lit: queryir.Str(v.Value)}, true

	case *ast.NumberLit:
		return &queryir.Value{Lit: queryir.Num(v.Value)}, true

	case *ast.BoolLit:
		return &queryir.Value{Lit: queryir.Bool(v.Value)}, true

	default:
		// Calls, computed members, unary/ternary/template expressions,
		// assignments and unknown node kinds are all opaque here.
		return nil, false
	}
}
