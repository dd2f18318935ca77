// Package querysql compiles pushable expressions to parameterized SQL.
//
// This is the reference backend: it demonstrates that every expression
// the splitter classifies as pushable really can run inside a SQL engine,
// and the equivalence tests hold the splitter to that claim.
package querysql

import (
	"fmt"
	"strings"

	"github.com/queryc/queryc/internal/queryir"
)

// Compiler compiles pushable expressions to SQL for one entity table.
//
// All values are parameterized, never interpolated. Every generated query
// carries an ORDER BY so result order is deterministic across runs.
type Compiler struct {
	// Table is the entity's backing table.
	Table string

	// BoundValues resolves captured identifiers at compile time. An
	// identifier with no bound value is a compile error: emitting a
	// placeholder with no parameter would silently change results.
	BoundValues map[string]any
}

// NewCompiler creates a Compiler for the given table.
func NewCompiler(table string) *Compiler {
	return &Compiler{
		Table:       table,
		BoundValues: make(map[string]any),
	}
}

// Select builds a full SELECT for the entity table, filtered by the
// pushable expression. A nil expression selects everything.
func (c *Compiler) Select(e queryir.Expr) (string, []any, error) {
	var whereClause string
	var params []any
	if e != nil {
		sql, p, err := c.Where(e)
		if err != nil {
			return "", nil, err
		}
		whereClause = " WHERE " + sql
		params = p
	}

	sql := fmt.Sprintf("SELECT * FROM %s%s ORDER BY id COLLATE BINARY ASC",
		c.Table, whereClause)
	return sql, params, nil
}

// Where compiles a pushable expression to a WHERE-clause fragment.
// Returns (sql, params, error).
func (c *Compiler) Where(e queryir.Expr) (string, []any, error) {
	bin, ok := e.(*queryir.BinaryExpr)
	if !ok {
		return "", nil, fmt.Errorf("querysql: top-level expression must be binary, got %T", e)
	}
	return c.compileBinary(bin)
}

func (c *Compiler) compileBinary(bin *queryir.BinaryExpr) (string, []any, error) {
	if bin.Op.IsLogical() {
		return c.compileLogical(bin)
	}
	if bin.Op.IsComparison() {
		return c.compileComparison(bin)
	}
	return "", nil, fmt.Errorf("querysql: unsupported operator %q", bin.Op)
}

func (c *Compiler) compileLogical(bin *queryir.BinaryExpr) (string, []any, error) {
	left, ok := bin.Left.(*queryir.BinaryExpr)
	if !ok {
		return "", nil, fmt.Errorf("querysql: logical operand must be binary, got %T", bin.Left)
	}
	right, ok := bin.Right.(*queryir.BinaryExpr)
	if !ok {
		return "", nil, fmt.Errorf("querysql: logical operand must be binary, got %T", bin.Right)
	}

	leftSQL, leftParams, err := c.compileBinary(left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightParams, err := c.compileBinary(right)
	if err != nil {
		return "", nil, err
	}

	var op string
	switch bin.Op {
	case queryir.OpAnd:
		op = "AND"
	case queryir.OpOr:
		op = "OR"
	default:
		return "", nil, fmt.Errorf("querysql: unsupported logical operator %q", bin.Op)
	}

	sql := fmt.Sprintf("(%s %s %s)", leftSQL, op, rightSQL)
	return sql, append(leftParams, rightParams...), nil
}

var comparisonOps = map[queryir.BinaryOp]string{
	queryir.OpEq:    "=",
	queryir.OpNotEq: "<>",
	queryir.OpGt:    ">",
	queryir.OpLt:    "<",
	queryir.OpGtEq:  ">=",
	queryir.OpLtEq:  "<=",
}

func (c *Compiler) compileComparison(bin *queryir.BinaryExpr) (string, []any, error) {
	op, ok := comparisonOps[bin.Op]
	if !ok {
		return "", nil, fmt.Errorf("querysql: unsupported comparison operator %q", bin.Op)
	}

	leftSQL, leftParams, err := c.compileOperand(bin.Left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightParams, err := c.compileOperand(bin.Right)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("%s %s %s", leftSQL, op, rightSQL)
	return sql, append(leftParams, rightParams...), nil
}

// compileOperand compiles a comparison operand: a property access becomes
// a column reference, a literal or captured identifier becomes a
// parameterized placeholder.
func (c *Compiler) compileOperand(e queryir.Expr) (string, []any, error) {
	switch v := e.(type) {
	case *queryir.PropertyAccess:
		col, err := columnName(v)
		if err != nil {
			return "", nil, err
		}
		return col, nil, nil

	case *queryir.Value:
		param, err := literalToParam(v.Lit)
		if err != nil {
			return "", nil, err
		}
		return "?", []any{param}, nil

	case *queryir.Ident:
		val, ok := c.BoundValues[v.Name]
		if !ok {
			return "", nil, fmt.Errorf("querysql: no bound value for identifier %q", v.Name)
		}
		return "?", []any{val}, nil

	default:
		return "", nil, fmt.Errorf("querysql: unsupported operand %T", e)
	}
}

// columnName maps a property access rooted at the entity parameter to a
// column. The table schema is flat, so only single-segment paths map;
// nested paths are rejected rather than guessed at.
func columnName(p *queryir.PropertyAccess) (string, error) {
	if _, ok := p.Object.(*queryir.Param); !ok {
		if nested, isNested := p.Object.(*queryir.PropertyAccess); isNested {
			path, err := columnName(nested)
			if err != nil {
				return "", err
			}
			return "", fmt.Errorf("querysql: nested property path %s.%s has no column", path, p.Property)
		}
		return "", fmt.Errorf("querysql: property access not rooted at the entity parameter")
	}
	if strings.ContainsAny(p.Property, "\"'`; ") {
		return "", fmt.Errorf("querysql: property %q is not a valid column name", p.Property)
	}
	return p.Property, nil
}

func literalToParam(lit queryir.Literal) (any, error) {
	switch v := lit.(type) {
	case queryir.Str:
		return string(v), nil
	case queryir.Num:
		return float64(v), nil
	case queryir.Bool:
		return bool(v), nil
	default:
		return nil, fmt.Errorf("querysql: unsupported literal kind %T", lit)
	}
}
