package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeProgram decodes a JSON-encoded compilation unit.
//
// The expected shape is {"type":"Program","file":"...","body":[...]}.
// Statements and expressions with unknown "type" tags decode as Opaque
// nodes; only a missing or malformed "type" field is a hard error.
func DecodeProgram(data []byte) (*Program, error) {
	var raw struct {
		Type string            `json:"type"`
		File string            `json:"file"`
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if raw.Type != "Program" {
		return nil, fmt.Errorf("decode program: expected type \"Program\", got %q", raw.Type)
	}

	prog := &Program{File: raw.File, Body: make([]Node, 0, len(raw.Body))}
	for i, item := range raw.Body {
		n, err := DecodeNode(item)
		if err != nil {
			return nil, fmt.Errorf("decode program body[%d]: %w", i, err)
		}
		prog.Body = append(prog.Body, n)
	}
	return prog, nil
}

// DecodeNode decodes a single tagged node. Unknown tags become Opaque.
func DecodeNode(data []byte) (Node, error) {
	var head struct {
		Type string `json:"type"`
		Pos  Pos    `json:"pos"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("decode node: missing \"type\" discriminator")
	}

	switch head.Type {
	case "ExpressionStatement":
		var raw struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		expr, err := DecodeNode(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Pos: head.Pos}, nil

	case "VariableDeclaration":
		var raw struct {
			Kind string          `json:"kind"`
			Name string          `json:"name"`
			Init json.RawMessage `json:"init"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if raw.Name == "" {
			// Destructuring or multi-declarator form: keep it opaque.
			return opaque(head.Type, data, head.Pos), nil
		}
		decl := &VarDecl{Kind: raw.Kind, Name: raw.Name, Pos: head.Pos}
		if len(raw.Init) > 0 {
			init, err := DecodeNode(raw.Init)
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
		return decl, nil

	case "BinaryExpression":
		var raw struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		left, err := DecodeNode(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeNode(raw.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: raw.Op, Left: left, Right: right, Pos: head.Pos}, nil

	case "MemberExpression":
		var raw struct {
			Object   json.RawMessage `json:"object"`
			Property string          `json:"property"`
			Computed bool            `json:"computed"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			// Computed members carry an expression in "property"; the
			// compiler treats the whole access as opaque.
			return opaque(head.Type, data, head.Pos), nil
		}
		if raw.Computed {
			return opaque(head.Type, data, head.Pos), nil
		}
		obj, err := DecodeNode(raw.Object)
		if err != nil {
			return nil, err
		}
		return &MemberExpr{Object: obj, Property: raw.Property, Pos: head.Pos}, nil

	case "Identifier":
		var raw struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &Ident{Name: raw.Name, Pos: head.Pos}, nil

	case "StringLiteral":
		var raw struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &StringLit{Value: raw.Value, Pos: head.Pos}, nil

	case "NumberLiteral":
		var raw struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &NumberLit{Value: raw.Value, Pos: head.Pos}, nil

	case "BooleanLiteral":
		var raw struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &BoolLit{Value: raw.Value, Pos: head.Pos}, nil

	case "CallExpression":
		var raw struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		callee, err := DecodeNode(raw.Callee)
		if err != nil {
			return nil, err
		}
		call := &CallExpr{Callee: callee, Args: make([]Node, 0, len(raw.Args)), Pos: head.Pos}
		for i, arg := range raw.Args {
			n, err := DecodeNode(arg)
			if err != nil {
				return nil, fmt.Errorf("decode call arg[%d]: %w", i, err)
			}
			call.Args = append(call.Args, n)
		}
		return call, nil

	case "ArrowFunction":
		var raw struct {
			Params []string        `json:"params"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			// Destructuring parameters: opaque.
			return opaque(head.Type, data, head.Pos), nil
		}
		body, err := DecodeNode(raw.Body)
		if err != nil {
			return nil, err
		}
		return &ArrowFn{Params: raw.Params, Body: body, Pos: head.Pos}, nil

	case "ParenExpression":
		var raw struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		expr, err := DecodeNode(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: expr, Pos: head.Pos}, nil

	case "BlockStatement":
		var raw struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		block := &BlockStmt{Body: make([]Node, 0, len(raw.Body)), Pos: head.Pos}
		for i, item := range raw.Body {
			n, err := DecodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("decode block body[%d]: %w", i, err)
			}
			block.Body = append(block.Body, n)
		}
		return block, nil

	case "ReturnStatement":
		var raw struct {
			Arg json.RawMessage `json:"arg"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		ret := &ReturnStmt{Pos: head.Pos}
		if len(raw.Arg) > 0 && string(raw.Arg) != "null" {
			arg, err := DecodeNode(raw.Arg)
			if err != nil {
				return nil, err
			}
			ret.Arg = arg
		}
		return ret, nil

	case "AwaitExpression":
		var raw struct {
			Arg json.RawMessage `json:"arg"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		arg, err := DecodeNode(raw.Arg)
		if err != nil {
			return nil, err
		}
		return &AwaitExpr{Arg: arg, Pos: head.Pos}, nil

	case "ObjectLiteral":
		var raw struct {
			Props []json.RawMessage `json:"props"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		lit := &ObjectLiteral{Props: make([]ObjectProp, 0, len(raw.Props)), Pos: head.Pos}
		for i, p := range raw.Props {
			prop, err := decodeObjectProp(p)
			if err != nil {
				return nil, fmt.Errorf("decode object prop[%d]: %w", i, err)
			}
			lit.Props = append(lit.Props, prop)
		}
		return lit, nil

	default:
		return opaque(head.Type, data, head.Pos), nil
	}
}

func decodeObjectProp(data []byte) (ObjectProp, error) {
	var raw struct {
		Key       json.RawMessage `json:"key"`
		Computed  bool            `json:"computed"`
		Shorthand bool            `json:"shorthand"`
		Value     json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ObjectProp{}, err
	}

	prop := ObjectProp{
		Computed:  raw.Computed,
		Shorthand: raw.Shorthand,
		Raw:       append(json.RawMessage(nil), data...),
	}

	// Literal keys are plain JSON strings; computed keys are expressions
	// and stay undecoded (the entry is preserved via Raw).
	if !raw.Computed {
		var key string
		if err := json.Unmarshal(raw.Key, &key); err != nil {
			return ObjectProp{}, fmt.Errorf("object prop key: %w", err)
		}
		prop.Key = key
	}

	if !raw.Shorthand && !raw.Computed && len(raw.Value) > 0 {
		value, err := DecodeNode(raw.Value)
		if err != nil {
			return ObjectProp{}, err
		}
		prop.Value = value
	}
	return prop, nil
}

func opaque(typ string, data []byte, pos Pos) *Opaque {
	return &Opaque{Type: typ, Raw: append(json.RawMessage(nil), data...), Pos: pos}
}
