package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propPath(names ...string) Expr {
	var e Expr = &Param{Position: 0}
	for _, n := range names {
		e = &PropertyAccess{Object: e, Property: n}
	}
	return e
}

func val(lit Literal) Expr { return &Value{Lit: lit} }

func binx(op BinaryOp, l, r Expr) Expr {
	return &BinaryExpr{Left: l, Op: op, Right: r}
}

func TestEval_Comparisons(t *testing.T) {
	row := map[string]any{"name": "Glauber Costa", "age": float64(45)}

	testCases := []struct {
		name string
		expr Expr
		want bool
	}{
		{"eq string match", binx(OpEq, propPath("name"), val(Str("Glauber Costa"))), true},
		{"eq string mismatch", binx(OpEq, propPath("name"), val(Str("Pekka"))), false},
		{"noteq", binx(OpNotEq, propPath("name"), val(Str("Pekka"))), true},
		{"gt", binx(OpGt, propPath("age"), val(Num(40))), true},
		{"lt", binx(OpLt, propPath("age"), val(Num(40))), false},
		{"gteq boundary", binx(OpGtEq, propPath("age"), val(Num(45))), true},
		{"lteq boundary", binx(OpLtEq, propPath("age"), val(Num(45))), true},
		{"string ordering", binx(OpLt, propPath("name"), val(Str("Z"))), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvalBool(tc.expr, []any{row}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEval_LogicalShortCircuit(t *testing.T) {
	row := map[string]any{"age": float64(10)}

	// Right operand would fail evaluation (unbound identifier), but the
	// left operand short-circuits first.
	bad := binx(OpEq, &Ident{Name: "missing"}, val(Num(1)))

	and := binx(OpAnd, binx(OpGt, propPath("age"), val(Num(100))), bad)
	got, err := EvalBool(and, []any{row}, nil)
	require.NoError(t, err)
	assert.False(t, got)

	or := binx(OpOr, binx(OpLt, propPath("age"), val(Num(100))), bad)
	got, err = EvalBool(or, []any{row}, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEval_CapturedIdentifier(t *testing.T) {
	row := map[string]any{"age": float64(30)}
	env := map[string]any{"cutoff": float64(21)}

	got, err := EvalBool(binx(OpGtEq, propPath("age"), &Ident{Name: "cutoff"}), []any{row}, env)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = EvalBool(binx(OpEq, propPath("age"), &Ident{Name: "nope"}), []any{row}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unbound identifier "nope"`)
}

func TestEval_NestedProperty(t *testing.T) {
	row := map[string]any{
		"address": map[string]any{"city": "Helsinki"},
	}

	got, err := EvalBool(binx(OpEq, propPath("address", "city"), val(Str("Helsinki"))), []any{row}, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEval_NumericCoercion(t *testing.T) {
	row := map[string]any{"age": int64(45)}

	got, err := EvalBool(binx(OpEq, propPath("age"), val(Num(45))), []any{row}, nil)
	require.NoError(t, err)
	assert.True(t, got, "int64 and float64 representations of the same number compare equal")
}

func TestEval_Errors(t *testing.T) {
	row := map[string]any{"name": "x"}

	t.Run("property on non-object", func(t *testing.T) {
		_, err := Eval(propPath("name", "length"), []any{row}, nil)
		require.Error(t, err)
	})

	t.Run("param out of range", func(t *testing.T) {
		_, err := Eval(&Param{Position: 2}, []any{row}, nil)
		require.Error(t, err)
	})

	t.Run("non-boolean logical operand", func(t *testing.T) {
		_, err := EvalBool(binx(OpAnd, propPath("name"), val(Bool(true))), []any{row}, nil)
		require.Error(t, err)
	})

	t.Run("ordering across types", func(t *testing.T) {
		_, err := Eval(binx(OpGt, propPath("name"), val(Num(1))), []any{row}, nil)
		require.Error(t, err)
	})
}
