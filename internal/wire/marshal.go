// Package wire serializes pushable expressions into the canonical
// tagged-object format consumed by the query runtime.
//
// The encoding is a stability contract: key order is fixed, strings are
// NFC normalized with no HTML escaping, and numbers use the shortest
// round-trip form. Serializing the same expression twice always produces
// byte-identical output.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/queryc/queryc/internal/queryir"
)

// Expression type discriminators.
const (
	TypeBinary     = "Binary"
	TypeProperty   = "Property"
	TypeIdentifier = "Identifier"
	TypeParameter  = "Parameter"
	TypeValue      = "Value"
)

// MarshalExpr renders a pushable expression into the wire format.
//
// An expression variant the serializer does not recognize is a hard error:
// silently dropping structure would corrupt pushdown semantics downstream,
// so the failure surfaces to the caller as a compilation error for the
// call site.
func MarshalExpr(e queryir.Expr) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeExpr(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExpr(buf *bytes.Buffer, e queryir.Expr) error {
	switch v := e.(type) {
	case *queryir.BinaryExpr:
		buf.WriteString(`{"exprType":`)
		writeString(buf, TypeBinary)
		buf.WriteString(`,"left":`)
		if err := writeExpr(buf, v.Left); err != nil {
			return err
		}
		buf.WriteString(`,"op":`)
		writeString(buf, string(v.Op))
		buf.WriteString(`,"right":`)
		if err := writeExpr(buf, v.Right); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *queryir.PropertyAccess:
		buf.WriteString(`{"exprType":`)
		writeString(buf, TypeProperty)
		buf.WriteString(`,"object":`)
		if err := writeExpr(buf, v.Object); err != nil {
			return err
		}
		buf.WriteString(`,"property":`)
		writeString(buf, v.Property)
		buf.WriteByte('}')
		return nil

	case *queryir.Ident:
		buf.WriteString(`{"exprType":`)
		writeString(buf, TypeIdentifier)
		buf.WriteString(`,"name":`)
		writeString(buf, v.Name)
		buf.WriteByte('}')
		return nil

	case *queryir.Param:
		buf.WriteString(`{"exprType":`)
		writeString(buf, TypeParameter)
		buf.WriteString(`,"position":`)
		buf.WriteString(strconv.Itoa(v.Position))
		buf.WriteByte('}')
		return nil

	case *queryir.Value:
		buf.WriteString(`{"exprType":`)
		writeString(buf, TypeValue)
		buf.WriteString(`,"value":`)
		if err := writeLiteral(buf, v.Lit); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("wire: unrecognized expression variant %T", e)
	}
}

func writeLiteral(buf *bytes.Buffer, lit queryir.Literal) error {
	switch v := lit.(type) {
	case queryir.Str:
		writeString(buf, string(v))
		return nil
	case queryir.Num:
		s, err := formatNumber(float64(v))
		if err != nil {
			return err
		}
		buf.WriteString(s)
		return nil
	case queryir.Bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	default:
		return fmt.Errorf("wire: unrecognized literal kind %T", lit)
	}
}

// writeString emits a JSON string, NFC normalized at the serialization
// boundary and without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encode on a string cannot fail.
	_ = enc.Encode(normalized)

	out := tmp.Bytes()
	// json.Encoder appends a trailing newline, drop it.
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
}

// formatNumber renders a source-language number. Integral values print
// without a fraction or exponent; everything else uses the shortest form
// that round-trips a double.
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("wire: number %v is not representable in JSON", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}
