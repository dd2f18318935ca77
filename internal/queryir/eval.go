package queryir

import "fmt"

// Eval interprets an expression against a set of lambda arguments and a
// captured-variable environment. Rows are plain maps; nested maps support
// property chains.
//
// This is the reference semantics for the wire format: the preview backend
// and the equivalence tests both check against it. The compiler itself
// never evaluates predicates - Eval exists for consumers and tests.
func Eval(e Expr, args []any, env map[string]any) (any, error) {
	switch v := e.(type) {
	case *Value:
		switch lit := v.Lit.(type) {
		case Str:
			return string(lit), nil
		case Num:
			return float64(lit), nil
		case Bool:
			return bool(lit), nil
		default:
			return nil, fmt.Errorf("unknown literal kind %T", v.Lit)
		}

	case *Param:
		if v.Position < 0 || v.Position >= len(args) {
			return nil, fmt.Errorf("parameter position %d out of range (have %d arguments)", v.Position, len(args))
		}
		return args[v.Position], nil

	case *Ident:
		val, ok := env[v.Name]
		if !ok {
			return nil, fmt.Errorf("unbound identifier %q", v.Name)
		}
		return val, nil

	case *PropertyAccess:
		obj, err := Eval(v.Object, args, env)
		if err != nil {
			return nil, err
		}
		row, ok := obj.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("property %q accessed on non-object %T", v.Property, obj)
		}
		return row[v.Property], nil

	case *BinaryExpr:
		return evalBinary(v, args, env)

	default:
		return nil, fmt.Errorf("unknown expression variant %T", e)
	}
}

// EvalBool evaluates an expression and requires a boolean result.
func EvalBool(e Expr, args []any, env map[string]any) (bool, error) {
	val, err := Eval(e, args, env)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("predicate evaluated to non-boolean %T", val)
	}
	return b, nil
}

func evalBinary(e *BinaryExpr, args []any, env map[string]any) (any, error) {
	// Logical operators short-circuit like the source language.
	if e.Op.IsLogical() {
		left, err := EvalBool(e.Left, args, env)
		if err != nil {
			return nil, err
		}
		if e.Op == OpAnd && !left {
			return false, nil
		}
		if e.Op == OpOr && left {
			return true, nil
		}
		return EvalBool(e.Right, args, env)
	}

	left, err := Eval(e.Left, args, env)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, args, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpEq:
		return looseEqual(left, right), nil
	case OpNotEq:
		return !looseEqual(left, right), nil
	case OpGt, OpLt, OpGtEq, OpLtEq:
		return evalOrdered(e.Op, left, right)
	}
	return nil, fmt.Errorf("unknown binary operator %q", e.Op)
}

func looseEqual(a, b any) bool {
	if na, ok := asNumber(a); ok {
		if nb, ok := asNumber(b); ok {
			return na == nb
		}
	}
	return a == b
}

func evalOrdered(op BinaryOp, a, b any) (any, error) {
	if na, aok := asNumber(a); aok {
		nb, bok := asNumber(b)
		if !bok {
			return nil, fmt.Errorf("cannot compare number with %T", b)
		}
		return applyOrder(op, compareFloats(na, nb)), nil
	}
	if sa, aok := a.(string); aok {
		sb, bok := b.(string)
		if !bok {
			return nil, fmt.Errorf("cannot compare string with %T", b)
		}
		switch {
		case sa < sb:
			return applyOrder(op, -1), nil
		case sa > sb:
			return applyOrder(op, 1), nil
		}
		return applyOrder(op, 0), nil
	}
	return nil, fmt.Errorf("operands of %q are not ordered: %T", op, a)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func applyOrder(op BinaryOp, cmp int) bool {
	switch op {
	case OpGt:
		return cmp > 0
	case OpLt:
		return cmp < 0
	case OpGtEq:
		return cmp >= 0
	case OpLtEq:
		return cmp <= 0
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
