package compiler

import (
	"fmt"

	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/queryir"
)

// Kind identifies which cursor method a call site uses.
type Kind int

const (
	KindFilter Kind = iota
	KindFindOne
	KindFindMany
)

// Method returns the source-level method name.
func (k Kind) Method() string {
	switch k {
	case KindFindOne:
		return "findOne"
	case KindFindMany:
		return "findMany"
	}
	return "filter"
}

// Primitive returns the internal runtime primitive the call rewrites to.
func (k Kind) Primitive() string {
	switch k {
	case KindFindOne:
		return "__findOne"
	case KindFindMany:
		return "__findMany"
	}
	return "__filter"
}

// CallSite is the analysis result for one qualifying filter call.
type CallSite struct {
	Kind       Kind
	EntityType string
	Call       *ast.CallExpr

	// Arrow is the predicate lambda, nil for restriction-object filters.
	Arrow *ast.ArrowFn
	// Split is the pushable/residual partition of the lambda body.
	// Zero-valued for restriction-object filters.
	Split SplitResult

	// Properties are the property paths this call site contributes to the
	// entity's index candidate. May be empty.
	Properties []string
}

// Rewritable reports whether the call site carries a pushable expression
// the rewriter can act on.
func (s *CallSite) Rewritable() bool {
	return s.Split.Pushable != nil
}

var cursorMethods = map[string]Kind{
	"filter":   KindFilter,
	"findOne":  KindFindOne,
	"findMany": KindFindMany,
}

// DetectCallSite decides whether a call expression is a qualifying cursor
// filter call. Detection is silent: a call that does not qualify is simply
// not a call site, never an error.
func DetectCallSite(call *ast.CallExpr, syms *Symbols) (Kind, string, bool) {
	member, ok := call.Callee.(*ast.MemberExpr)
	if !ok {
		return 0, "", false
	}
	kind, ok := cursorMethods[member.Property]
	if !ok {
		return 0, "", false
	}

	switch kind {
	case KindFilter:
		// filter() hangs off a cursor-producing call chain:
		// Person.cursor().filter(...), Person.cursor().take(5).filter(...)
		if _, isCall := member.Object.(*ast.CallExpr); !isCall {
			return 0, "", false
		}
	case KindFindOne, KindFindMany:
		// findOne/findMany are entity statics: Person.findOne(...)
		if _, isIdent := member.Object.(*ast.Ident); !isIdent {
			return 0, "", false
		}
	}

	entity, ok := rootEntity(member.Object)
	if !ok || !syms.IsEntity(entity) {
		return 0, "", false
	}
	return kind, entity, true
}

// rootEntity walks a member/call chain down to its root identifier.
func rootEntity(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.Ident:
		return v.Name, true
	case *ast.MemberExpr:
		return rootEntity(v.Object)
	case *ast.CallExpr:
		return rootEntity(v.Callee)
	case *ast.ParenExpr:
		return rootEntity(v.Expr)
	default:
		return "", false
	}
}

// AnalyzeCallSite runs the build/classify/split pipeline for a detected
// call site. Input-shape problems (wrong argument count, an argument that
// is neither a lambda nor a restriction object) return a CompileError
// attributed to the call position; the caller records it and keeps
// processing the rest of the unit.
func AnalyzeCallSite(kind Kind, entity string, call *ast.CallExpr, file string) (*CallSite, error) {
	if len(call.Args) != 1 {
		return nil, &CompileError{
			Code:    ErrCodeBadArgCount,
			File:    file,
			Pos:     call.Pos,
			Message: fmt.Sprintf("%s.%s expects exactly one predicate argument, got %d", entity, kind.Method(), len(call.Args)),
		}
	}

	site := &CallSite{Kind: kind, EntityType: entity, Call: call}

	switch arg := call.Args[0].(type) {
	case *ast.ArrowFn:
		site.Arrow = arg
		body, ok := predicateBody(arg)
		if !ok {
			// Multi-statement lambda: wholly opaque, nothing pushable.
			site.Split = SplitResult{Residual: arg.Body}
			return site, nil
		}
		site.Split = Split(body, arg.Params)
		if site.Split.Pushable != nil {
			site.Properties = queryir.PropertyPaths(site.Split.Pushable)
		}
		return site, nil

	case *ast.ObjectLiteral:
		// Restriction-object filter: nothing to transform, but the literal
		// keys feed the index candidate.
		site.Properties = restrictionProperties(arg)
		return site, nil

	default:
		return nil, &CompileError{
			Code:    ErrCodeBadPredicate,
			File:    file,
			Pos:     call.Pos,
			Message: fmt.Sprintf("%s.%s argument must be a lambda or a restriction object", entity, kind.Method()),
		}
	}
}

// predicateBody unwraps an arrow body to its single predicate expression.
// Expression bodies qualify directly; block bodies qualify when they hold
// exactly one return statement with an argument.
func predicateBody(arrow *ast.ArrowFn) (ast.Node, bool) {
	switch body := arrow.Body.(type) {
	case *ast.BlockStmt:
		if len(body.Body) != 1 {
			return nil, false
		}
		ret, ok := body.Body[0].(*ast.ReturnStmt)
		if !ok || ret.Arg == nil {
			return nil, false
		}
		return ret.Arg, true
	case nil:
		return nil, false
	default:
		return body, true
	}
}

// restrictionProperties collects the literal keys of a restriction object.
// Computed keys contribute nothing.
func restrictionProperties(lit *ast.ObjectLiteral) []string {
	var props []string
	seen := make(map[string]struct{})
	for _, p := range lit.Props {
		if p.Computed || p.Key == "" {
			continue
		}
		if _, dup := seen[p.Key]; dup {
			continue
		}
		seen[p.Key] = struct{}{}
		props = append(props, p.Key)
	}
	return props
}
