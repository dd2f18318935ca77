// Package ast defines the syntax-tree contract consumed from the external
// source-language parser and handed back to the external pretty-printer.
//
// The tree arrives as JSON-encoded tagged objects (a "type" discriminator per
// node). Only the shapes the compiler understands are decoded into concrete
// node types; everything else becomes an Opaque node that round-trips its
// raw JSON untouched. This keeps decoding total: an unsupported construct is
// never a decode failure, it is simply invisible to the analysis passes.
//
// Node is a sealed interface - only types in this package implement it.
package ast
