package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProgram_Basic(t *testing.T) {
	input := []byte(`{
		"type": "Program",
		"file": "find.ts",
		"body": [
			{
				"type": "VariableDeclaration",
				"kind": "const",
				"name": "people",
				"init": {
					"type": "CallExpression",
					"callee": {
						"type": "MemberExpression",
						"object": {
							"type": "CallExpression",
							"callee": {
								"type": "MemberExpression",
								"object": {"type": "Identifier", "name": "Person"},
								"property": "cursor"
							},
							"args": []
						},
						"property": "filter"
					},
					"args": [
						{
							"type": "ArrowFunction",
							"params": ["person"],
							"body": {
								"type": "BinaryExpression",
								"op": "==",
								"left": {
									"type": "MemberExpression",
									"object": {"type": "Identifier", "name": "person"},
									"property": "name"
								},
								"right": {"type": "StringLiteral", "value": "Glauber Costa"}
							}
						}
					]
				}
			}
		]
	}`)

	prog, err := DecodeProgram(input)
	require.NoError(t, err)
	assert.Equal(t, "find.ts", prog.File)
	require.Len(t, prog.Body, 1)

	decl, ok := prog.Body[0].(*VarDecl)
	require.True(t, ok)
	assert.Equal(t, "const", decl.Kind)
	assert.Equal(t, "people", decl.Name)

	call, ok := decl.Init.(*CallExpr)
	require.True(t, ok)

	member, ok := call.Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "filter", member.Property)

	require.Len(t, call.Args, 1)
	arrow, ok := call.Args[0].(*ArrowFn)
	require.True(t, ok)
	assert.Equal(t, []string{"person"}, arrow.Params)

	body, ok := arrow.Body.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "==", body.Op)

	left, ok := body.Left.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "name", left.Property)

	right, ok := body.Right.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "Glauber Costa", right.Value)
}

func TestDecodeNode_UnknownTypeBecomesOpaque(t *testing.T) {
	input := []byte(`{"type":"TemplateLiteral","quasis":["hello "],"exprs":[{"type":"Identifier","name":"who"}]}`)

	n, err := DecodeNode(input)
	require.NoError(t, err)

	op, ok := n.(*Opaque)
	require.True(t, ok)
	assert.Equal(t, "TemplateLiteral", op.Type)

	// Opaque nodes re-emit their original bytes verbatim.
	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, string(input), string(out))
}

func TestDecodeNode_ComputedMemberBecomesOpaque(t *testing.T) {
	input := []byte(`{
		"type": "MemberExpression",
		"object": {"type": "Identifier", "name": "person"},
		"property": {"type": "Identifier", "name": "key"},
		"computed": true
	}`)

	n, err := DecodeNode(input)
	require.NoError(t, err)
	_, ok := n.(*Opaque)
	assert.True(t, ok, "computed member access must decode as opaque, got %T", n)
}

func TestDecodeNode_MissingTypeIsError(t *testing.T) {
	_, err := DecodeNode([]byte(`{"name":"person"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "type" discriminator`)
}

func TestDecodeProgram_WrongRootType(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"type":"BlockStatement","body":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected type "Program"`)
}

func TestDecodeNode_BlockBodyArrow(t *testing.T) {
	input := []byte(`{
		"type": "ArrowFunction",
		"params": ["p"],
		"body": {
			"type": "BlockStatement",
			"body": [
				{"type": "ReturnStatement", "arg": {"type": "BooleanLiteral", "value": true}}
			]
		}
	}`)

	n, err := DecodeNode(input)
	require.NoError(t, err)

	arrow, ok := n.(*ArrowFn)
	require.True(t, ok)

	block, ok := arrow.Body.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Body, 1)

	ret, ok := block.Body[0].(*ReturnStmt)
	require.True(t, ok)
	lit, ok := ret.Arg.(*BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

func TestDecodeNode_ObjectLiteral(t *testing.T) {
	input := []byte(`{
		"type": "ObjectLiteral",
		"props": [
			{"key": "name", "value": {"type": "StringLiteral", "value": "Jan"}},
			{"key": "age", "value": {"type": "NumberLiteral", "value": 29}},
			{"key": "live", "computed": true, "value": {"type": "Identifier", "name": "x"}}
		]
	}`)

	n, err := DecodeNode(input)
	require.NoError(t, err)

	lit, ok := n.(*ObjectLiteral)
	require.True(t, ok)
	require.Len(t, lit.Props, 3)

	assert.Equal(t, "name", lit.Props[0].Key)
	assert.False(t, lit.Props[0].Computed)
	assert.True(t, lit.Props[2].Computed)
}

// Encoding is stable: encode(decode(encode(decode(x)))) == encode(decode(x)).
func TestEncode_Idempotent(t *testing.T) {
	input := []byte(`{
		"type": "Program",
		"file": "u.ts",
		"body": [
			{
				"type": "ExpressionStatement",
				"expr": {
					"type": "CallExpression",
					"callee": {"type": "Identifier", "name": "log"},
					"args": [
						{"type": "Custom", "weird": [1, 2, {"deep": true}]},
						{"type": "NumberLiteral", "value": 3.5}
					]
				}
			}
		]
	}`)

	prog, err := DecodeProgram(input)
	require.NoError(t, err)
	first, err := json.Marshal(prog)
	require.NoError(t, err)

	prog2, err := DecodeProgram(first)
	require.NoError(t, err)
	second, err := json.Marshal(prog2)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
