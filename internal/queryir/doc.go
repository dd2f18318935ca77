// Package queryir is the query expression intermediate representation.
//
// The compiler inspects the predicate lambdas passed to entity-cursor
// filter/findOne/findMany calls and converts the supported subset of their
// expression language into this IR. The IR is what gets serialized to the
// wire format consumed by the query runtime.
//
// Expr is a sealed interface - only types in this package implement it.
// Every consumer type-switches exhaustively over the five variants, so
// adding a variant forces every consumer to handle it.
package queryir
