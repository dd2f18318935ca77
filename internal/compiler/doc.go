// Package compiler analyzes predicate lambdas at cursor filter call sites.
//
// The pipeline for a single call site is strictly sequential and
// deterministic: build (syntax tree to queryir), classify (pure vs opaque),
// split (pushable expression vs residual callback), then the rewrite and
// wire packages consume the result. No pass executes user code and no pass
// aborts the unit: unsupported syntax degrades to an opaque subtree and
// input-shape problems become per-call-site CompileErrors.
package compiler
