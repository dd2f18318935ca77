package rewrite

import (
	"fmt"

	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/queryir"
	"github.com/queryc/queryc/internal/wire"
)

// Inverse of the builder's operator table: wire tags back to source
// spellings, used when a pushable expression is re-emitted as a fallback
// lambda body.
var opToSource = map[queryir.BinaryOp]string{
	queryir.OpAnd:   "&&",
	queryir.OpOr:    "||",
	queryir.OpEq:    "==",
	queryir.OpNotEq: "!=",
	queryir.OpGt:    ">",
	queryir.OpLt:    "<",
	queryir.OpGtEq:  ">=",
	queryir.OpLtEq:  "<=",
}

// exprToSource renders a queryir expression back into source-level syntax.
// Params maps positional parameters back to the lambda's parameter names.
func exprToSource(e queryir.Expr, params []string, pos ast.Pos) (ast.Node, error) {
	switch v := e.(type) {
	case *queryir.BinaryExpr:
		op, ok := opToSource[v.Op]
		if !ok {
			return nil, fmt.Errorf("no source spelling for operator %q", v.Op)
		}
		left, err := exprToSource(v.Left, params, pos)
		if err != nil {
			return nil, err
		}
		right, err := exprToSource(v.Right, params, pos)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}, nil

	case *queryir.PropertyAccess:
		obj, err := exprToSource(v.Object, params, pos)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Object: obj, Property: v.Property, Pos: pos}, nil

	case *queryir.Ident:
		return &ast.Ident{Name: v.Name, Pos: pos}, nil

	case *queryir.Param:
		if v.Position < 0 || v.Position >= len(params) {
			return nil, fmt.Errorf("parameter position %d out of range", v.Position)
		}
		return &ast.Ident{Name: params[v.Position], Pos: pos}, nil

	case *queryir.Value:
		switch lit := v.Lit.(type) {
		case queryir.Str:
			return &ast.StringLit{Value: string(lit), Pos: pos}, nil
		case queryir.Num:
			return &ast.NumberLit{Value: float64(lit), Pos: pos}, nil
		case queryir.Bool:
			return &ast.BoolLit{Value: bool(lit), Pos: pos}, nil
		default:
			return nil, fmt.Errorf("unrecognized literal kind %T", v.Lit)
		}

	default:
		return nil, fmt.Errorf("unrecognized expression variant %T", e)
	}
}

// wireObject renders a pushable expression as an object-literal AST node
// in the wire format, so the emitted source carries the serialized
// expression inline as the primitive call's second argument.
func wireObject(e queryir.Expr, pos ast.Pos) (ast.Node, error) {
	switch v := e.(type) {
	case *queryir.BinaryExpr:
		left, err := wireObject(v.Left, pos)
		if err != nil {
			return nil, err
		}
		right, err := wireObject(v.Right, pos)
		if err != nil {
			return nil, err
		}
		return objectLit(pos,
			prop("exprType", &ast.StringLit{Value: wire.TypeBinary, Pos: pos}),
			prop("left", left),
			prop("op", &ast.StringLit{Value: string(v.Op), Pos: pos}),
			prop("right", right),
		), nil

	case *queryir.PropertyAccess:
		obj, err := wireObject(v.Object, pos)
		if err != nil {
			return nil, err
		}
		return objectLit(pos,
			prop("exprType", &ast.StringLit{Value: wire.TypeProperty, Pos: pos}),
			prop("object", obj),
			prop("property", &ast.StringLit{Value: v.Property, Pos: pos}),
		), nil

	case *queryir.Ident:
		return objectLit(pos,
			prop("exprType", &ast.StringLit{Value: wire.TypeIdentifier, Pos: pos}),
			prop("name", &ast.StringLit{Value: v.Name, Pos: pos}),
		), nil

	case *queryir.Param:
		return objectLit(pos,
			prop("exprType", &ast.StringLit{Value: wire.TypeParameter, Pos: pos}),
			prop("position", &ast.NumberLit{Value: float64(v.Position), Pos: pos}),
		), nil

	case *queryir.Value:
		var value ast.Node
		switch lit := v.Lit.(type) {
		case queryir.Str:
			value = &ast.StringLit{Value: string(lit), Pos: pos}
		case queryir.Num:
			value = &ast.NumberLit{Value: float64(lit), Pos: pos}
		case queryir.Bool:
			value = &ast.BoolLit{Value: bool(lit), Pos: pos}
		default:
			return nil, fmt.Errorf("unrecognized literal kind %T", v.Lit)
		}
		return objectLit(pos,
			prop("exprType", &ast.StringLit{Value: wire.TypeValue, Pos: pos}),
			prop("value", value),
		), nil

	default:
		return nil, fmt.Errorf("unrecognized expression variant %T", e)
	}
}

func objectLit(pos ast.Pos, props ...ast.ObjectProp) *ast.ObjectLiteral {
	return &ast.ObjectLiteral{Props: props, Pos: pos}
}

func prop(key string, value ast.Node) ast.ObjectProp {
	return ast.ObjectProp{Key: key, Value: value}
}

// rewriteArrow substitutes a new body expression into an arrow while
// keeping its parameter list and body shape. Substitution is safe because
// the parameters are unchanged and the new body is assembled from pieces
// of the original expression.
func rewriteArrow(arrow *ast.ArrowFn, body ast.Node) *ast.ArrowFn {
	newBody := body
	if _, wasBlock := arrow.Body.(*ast.BlockStmt); wasBlock {
		newBody = &ast.BlockStmt{
			Body: []ast.Node{&ast.ReturnStmt{Arg: body, Pos: body.Position()}},
			Pos:  arrow.Body.Position(),
		}
	}
	return &ast.ArrowFn{Params: arrow.Params, Body: newBody, Pos: arrow.Pos}
}
