package ast

import (
	"encoding/json"
	"fmt"
)

// Nodes marshal back to the same tagged-object encoding they were decoded
// from, so a rewritten Program can be handed straight to the external
// pretty-printer. Opaque nodes re-emit their original bytes verbatim.

func posField(p Pos) *Pos {
	if !p.IsValid() {
		return nil
	}
	cp := p
	return &cp
}

func (n *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		File string `json:"file,omitempty"`
		Body []Node `json:"body"`
	}{"Program", n.File, n.Body})
}

func (n *ExprStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Expr Node   `json:"expr"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"ExpressionStatement", n.Expr, posField(n.Pos)})
}

func (n *VarDecl) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Kind string `json:"kind,omitempty"`
		Name string `json:"name"`
		Init Node   `json:"init,omitempty"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"VariableDeclaration", n.Kind, n.Name, n.Init, posField(n.Pos)})
}

func (n *BinaryExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Op    string `json:"op"`
		Left  Node   `json:"left"`
		Right Node   `json:"right"`
		Pos   *Pos   `json:"pos,omitempty"`
	}{"BinaryExpression", n.Op, n.Left, n.Right, posField(n.Pos)})
}

func (n *MemberExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Object   Node   `json:"object"`
		Property string `json:"property"`
		Pos      *Pos   `json:"pos,omitempty"`
	}{"MemberExpression", n.Object, n.Property, posField(n.Pos)})
}

func (n *Ident) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"Identifier", n.Name, posField(n.Pos)})
}

func (n *StringLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
		Pos   *Pos   `json:"pos,omitempty"`
	}{"StringLiteral", n.Value, posField(n.Pos)})
}

func (n *NumberLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
		Pos   *Pos    `json:"pos,omitempty"`
	}{"NumberLiteral", n.Value, posField(n.Pos)})
}

func (n *BoolLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value bool   `json:"value"`
		Pos   *Pos   `json:"pos,omitempty"`
	}{"BooleanLiteral", n.Value, posField(n.Pos)})
}

func (n *CallExpr) MarshalJSON() ([]byte, error) {
	args := n.Args
	if args == nil {
		args = []Node{}
	}
	return json.Marshal(struct {
		Type   string `json:"type"`
		Callee Node   `json:"callee"`
		Args   []Node `json:"args"`
		Pos    *Pos   `json:"pos,omitempty"`
	}{"CallExpression", n.Callee, args, posField(n.Pos)})
}

func (n *ArrowFn) MarshalJSON() ([]byte, error) {
	params := n.Params
	if params == nil {
		params = []string{}
	}
	return json.Marshal(struct {
		Type   string   `json:"type"`
		Params []string `json:"params"`
		Body   Node     `json:"body"`
		Pos    *Pos     `json:"pos,omitempty"`
	}{"ArrowFunction", params, n.Body, posField(n.Pos)})
}

func (n *ParenExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Expr Node   `json:"expr"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"ParenExpression", n.Expr, posField(n.Pos)})
}

func (n *BlockStmt) MarshalJSON() ([]byte, error) {
	body := n.Body
	if body == nil {
		body = []Node{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		Body []Node `json:"body"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"BlockStatement", body, posField(n.Pos)})
}

func (n *ReturnStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Arg  Node   `json:"arg,omitempty"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"ReturnStatement", n.Arg, posField(n.Pos)})
}

func (n *AwaitExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Arg  Node   `json:"arg"`
		Pos  *Pos   `json:"pos,omitempty"`
	}{"AwaitExpression", n.Arg, posField(n.Pos)})
}

func (n *ObjectLiteral) MarshalJSON() ([]byte, error) {
	props := make([]json.RawMessage, 0, len(n.Props))
	for i, p := range n.Props {
		enc, err := p.encode()
		if err != nil {
			return nil, fmt.Errorf("object prop[%d]: %w", i, err)
		}
		props = append(props, enc)
	}
	return json.Marshal(struct {
		Type  string            `json:"type"`
		Props []json.RawMessage `json:"props"`
		Pos   *Pos              `json:"pos,omitempty"`
	}{"ObjectLiteral", props, posField(n.Pos)})
}

func (p ObjectProp) encode() (json.RawMessage, error) {
	// Entries decoded from source round-trip their original bytes; entries
	// synthesized by the rewriter are encoded from fields.
	if p.Raw != nil {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Key       string `json:"key"`
		Shorthand bool   `json:"shorthand,omitempty"`
		Value     Node   `json:"value,omitempty"`
	}{p.Key, p.Shorthand, p.Value})
}

func (n *Opaque) MarshalJSON() ([]byte, error) {
	if len(n.Raw) == 0 {
		return nil, fmt.Errorf("opaque node %q has no source bytes", n.Type)
	}
	return n.Raw, nil
}
