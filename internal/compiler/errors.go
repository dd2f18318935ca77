package compiler

import (
	"errors"
	"fmt"

	"github.com/queryc/queryc/internal/ast"
)

// Compile error codes (E200-E299)
const (
	// ErrCodeBadArgCount: a filter call with an argument count the
	// compiler cannot analyze (the contract is exactly one predicate).
	ErrCodeBadArgCount = "E201"

	// ErrCodeBadPredicate: the single argument is neither a lambda nor a
	// restriction object literal.
	ErrCodeBadPredicate = "E202"

	// ErrCodeSerialize: an internal inconsistency reached the serializer.
	// Continuing would silently produce wrong pushdown semantics, so this
	// is fatal for the call site.
	ErrCodeSerialize = "E210"
)

// CompileError is a compilation error attributed to a call site.
// Errors never stop processing of other call sites in the same unit.
type CompileError struct {
	Code    string
	File    string
	Pos     ast.Pos
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s:%d:%d: %s", e.Code, e.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.File, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// AsCompileError extracts a CompileError from an error chain.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
