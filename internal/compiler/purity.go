package compiler

import "github.com/queryc/queryc/internal/queryir"

// Pure classifies a built expression as pure (safe to push down) or not.
//
// The classification is structural and static - it never evaluates the
// predicate:
//   - Value, Ident and Param are pure.
//   - A PropertyAccess is pure iff its chain is rooted at a Param. A chain
//     rooted at a captured identifier would make the runtime dereference an
//     object it does not hold, so it stays on the residual side.
//   - A comparison is pure iff both operands are pure.
//   - And/Or are pure iff both operands are pure. (An impure And is still
//     split into conjuncts by the splitter; an impure Or is not
//     decomposable and falls back whole.)
//
// Anything the builder refused to build never reaches this function; the
// caller treats those subtrees as opaque directly.
func Pure(e queryir.Expr) bool {
	switch v := e.(type) {
	case *queryir.Value, *queryir.Ident, *queryir.Param:
		return true
	case *queryir.PropertyAccess:
		_, rooted := queryir.RootParam(v)
		return rooted
	case *queryir.BinaryExpr:
		return Pure(v.Left) && Pure(v.Right)
	default:
		return false
	}
}
