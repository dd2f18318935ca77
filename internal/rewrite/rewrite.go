// Package rewrite walks a compilation unit, replaces qualifying cursor
// filter calls with internal runtime primitives, and accumulates
// index-candidate metadata along the way.
//
// The same walk serves both emission modes: the report mode discards the
// rewritten tree and keeps the candidates, the rewrite mode keeps both.
package rewrite

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/compiler"
	"github.com/queryc/queryc/internal/indexing"
)

// Rewriter transforms one compilation unit. Not safe for concurrent use;
// create one per unit.
type Rewriter struct {
	syms *compiler.Symbols
	file string
	agg  *indexing.Aggregator
	errs []error
}

// New creates a Rewriter over the given symbol table.
func New(syms *compiler.Symbols) *Rewriter {
	return &Rewriter{syms: syms, agg: indexing.NewAggregator()}
}

// Rewrite transforms a program. Call-site errors are recorded, not
// returned: a unit with errors still produces output for every call site
// that processed cleanly. Check Err after the walk.
func (r *Rewriter) Rewrite(prog *ast.Program) *ast.Program {
	r.file = prog.File
	body := make([]ast.Node, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		body = append(body, r.rewriteNode(stmt))
	}
	return &ast.Program{File: prog.File, Body: body}
}

// Candidates returns the index candidates accumulated so far, one per
// entity type in first-encounter order.
func (r *Rewriter) Candidates() []indexing.IndexCandidate {
	return r.agg.Candidates()
}

// Err returns the accumulated per-call-site errors, or nil.
func (r *Rewriter) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, err := range r.errs {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

func (r *Rewriter) rewriteNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.ExprStmt:
		return &ast.ExprStmt{Expr: r.rewriteNode(v.Expr), Pos: v.Pos}
	case *ast.VarDecl:
		decl := &ast.VarDecl{Kind: v.Kind, Name: v.Name, Pos: v.Pos}
		if v.Init != nil {
			decl.Init = r.rewriteNode(v.Init)
		}
		return decl
	case *ast.AwaitExpr:
		return &ast.AwaitExpr{Arg: r.rewriteNode(v.Arg), Pos: v.Pos}
	case *ast.ParenExpr:
		return &ast.ParenExpr{Expr: r.rewriteNode(v.Expr), Pos: v.Pos}
	case *ast.BlockStmt:
		body := make([]ast.Node, 0, len(v.Body))
		for _, stmt := range v.Body {
			body = append(body, r.rewriteNode(stmt))
		}
		return &ast.BlockStmt{Body: body, Pos: v.Pos}
	case *ast.ReturnStmt:
		ret := &ast.ReturnStmt{Pos: v.Pos}
		if v.Arg != nil {
			ret.Arg = r.rewriteNode(v.Arg)
		}
		return ret
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Op: v.Op, Left: r.rewriteNode(v.Left), Right: r.rewriteNode(v.Right), Pos: v.Pos}
	case *ast.MemberExpr:
		return &ast.MemberExpr{Object: r.rewriteNode(v.Object), Property: v.Property, Pos: v.Pos}
	case *ast.ArrowFn:
		return &ast.ArrowFn{Params: v.Params, Body: r.rewriteNode(v.Body), Pos: v.Pos}
	case *ast.CallExpr:
		return r.rewriteCall(v)
	default:
		// Leaves and opaque nodes pass through untouched.
		return n
	}
}

func (r *Rewriter) rewriteCall(call *ast.CallExpr) ast.Node {
	kind, entity, ok := compiler.DetectCallSite(call, r.syms)
	if !ok {
		return r.rewriteCallChildren(call)
	}

	site, err := compiler.AnalyzeCallSite(kind, entity, call, r.file)
	if err != nil {
		// Input-shape error: record it, leave the call site alone, keep
		// walking the rest of the unit.
		r.errs = append(r.errs, err)
		return r.rewriteCallChildren(call)
	}

	// Candidates are emitted independently of the split outcome.
	r.agg.Add(site.EntityType, site.Properties)

	if !site.Rewritable() {
		// Nothing pushable (restriction object, residual-only predicate):
		// the call runs unchanged at runtime. Documented degradation.
		return r.rewriteCallChildren(call)
	}

	rewritten, err := r.emitPrimitiveCall(site)
	if err != nil {
		r.errs = append(r.errs, &compiler.CompileError{
			Code:    compiler.ErrCodeSerialize,
			File:    r.file,
			Pos:     call.Pos,
			Message: fmt.Sprintf("serializing pushdown expression: %v", err),
		})
		return r.rewriteCallChildren(call)
	}
	return rewritten
}

// rewriteCallChildren recurses into a call that is not being transformed,
// so call sites nested in its arguments are still found.
func (r *Rewriter) rewriteCallChildren(call *ast.CallExpr) *ast.CallExpr {
	args := make([]ast.Node, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, r.rewriteNode(arg))
	}
	return &ast.CallExpr{Callee: r.rewriteNode(call.Callee), Args: args, Pos: call.Pos}
}

// emitPrimitiveCall builds the internal primitive call for a rewritable
// site: __filter(fallbackLambda, wireExpression[, residualLambda]).
// The fallback lambda carries the pushable expression in source form so
// the runtime can evaluate it when query transformation is unavailable.
func (r *Rewriter) emitPrimitiveCall(site *compiler.CallSite) (ast.Node, error) {
	member := site.Call.Callee.(*ast.MemberExpr)
	pos := site.Call.Pos

	pushableSource, err := exprToSource(site.Split.Pushable, site.Arrow.Params, pos)
	if err != nil {
		return nil, err
	}
	fallback := rewriteArrow(site.Arrow, pushableSource)

	wireExpr, err := wireObject(site.Split.Pushable, pos)
	if err != nil {
		return nil, err
	}

	args := []ast.Node{fallback, wireExpr}
	if site.Split.Residual != nil {
		args = append(args, rewriteArrow(site.Arrow, site.Split.Residual))
	}

	callee := &ast.MemberExpr{
		Object:   r.rewriteNode(member.Object),
		Property: site.Kind.Primitive(),
		Pos:      member.Pos,
	}
	return &ast.CallExpr{Callee: callee, Args: args, Pos: pos}, nil
}
