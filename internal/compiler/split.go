package compiler

import (
	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/queryir"
)

// SplitResult partitions a predicate body into a pushable expression and a
// residual syntax tree. For any well-formed predicate at least one side is
// populated.
type SplitResult struct {
	// Pushable is the part expressible in the query IR, or nil.
	Pushable queryir.Expr
	// Residual is the part that must still run against materialized rows,
	// or nil when the whole predicate was pushable.
	Residual ast.Node
}

// Split partitions a predicate body so that evaluating Pushable and, on
// rows that pass, Residual is equivalent to evaluating the original
// predicate. Splitting only decomposes conjunctions: reordering pure
// conjuncts ahead of impure ones cannot change an And's truth value, only
// shrink the row set the impure side observes. Side effects therefore run
// at most as often as in the unsplit predicate, and only on rows that
// already passed the pushable check - a deliberate work reduction, not a
// bug. Disjunctions are never decomposed: splitting an Or would re-run
// side effects on rows that should have short-circuited.
func Split(body ast.Node, params []string) SplitResult {
	// Fast path: the whole predicate converts and is pure.
	if expr, ok := Build(body, params); ok && Pure(expr) {
		return SplitResult{Pushable: expr}
	}

	conjuncts := flattenAnd(body, nil)
	if len(conjuncts) < 2 {
		// Opaque leaf, or an Or with an opaque operand: no decomposition
		// is possible, the whole predicate stays a residual callback.
		return SplitResult{Residual: body}
	}

	var pure []queryir.Expr
	var impure []ast.Node
	for _, c := range conjuncts {
		if expr, ok := Build(c, params); ok && Pure(expr) {
			pure = append(pure, expr)
			continue
		}
		impure = append(impure, c)
	}

	if len(pure) == 0 {
		return SplitResult{Residual: body}
	}
	if len(impure) == 0 {
		return SplitResult{Pushable: foldPure(pure)}
	}
	return SplitResult{
		Pushable: foldPure(pure),
		Residual: foldResidual(impure),
	}
}

// flattenAnd flattens a conjunction into its immediate conjuncts in source
// order, recursing through nested && and parentheses.
func flattenAnd(n ast.Node, out []ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.ParenExpr:
		return flattenAnd(v.Expr, out)
	case *ast.BinaryExpr:
		if v.Op == "&&" {
			out = flattenAnd(v.Left, out)
			return flattenAnd(v.Right, out)
		}
	}
	return append(out, n)
}

// foldPure rebuilds a left-associated conjunction, matching how the source
// language parses chained &&.
func foldPure(exprs []queryir.Expr) queryir.Expr {
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = &queryir.BinaryExpr{Left: acc, Op: queryir.OpAnd, Right: e}
	}
	return acc
}

// foldResidual rebuilds the impure conjuncts into a left-associated &&
// chain, preserving original left-to-right short-circuit order.
func foldResidual(nodes []ast.Node) ast.Node {
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = &ast.BinaryExpr{Op: "&&", Left: acc, Right: n, Pos: acc.Position()}
	}
	return acc
}
