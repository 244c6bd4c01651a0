// Package layout turns the sparse, hand-authored grid coordinates of a
// legacy form fragment into a dense table matrix the target platform can
// render. The passes run in a fixed order per fragment: decode position
// tokens, compact row numbers, optionally extract a title row, resolve
// column spans for wide controls, then assemble the cell matrix.
//
// Every pass is a pure copy-on-write transform: inputs are never mutated,
// lookup tables are built per invocation, and re-running a pass on its own
// output yields the same result. Diagnostics travel through an injected
// diag.Sink so callers can assert on structured events instead of log text.
package layout
