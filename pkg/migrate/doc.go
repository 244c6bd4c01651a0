// Package migrate orchestrates the full conversion of a legacy freeform
// definition into a structured layout. A Migrator wires the intake contracts
// (loader, parser), the per-fragment layout passes, pair composition, and
// visibility assignment into one Run call that returns a self-contained
// Result.
//
// Runs are one-shot and stateless: every invocation builds its own lookup
// tables and diagnostic collector, so the same input always produces the
// same output (up to the generated run identifier) and a Migrator can be
// shared across goroutines.
package migrate
