// Package export renders migration results as OpenAPI 3 documents. Each form
// gets a single POST submission path whose request schema is derived from the
// resolved widgets; the parts OpenAPI cannot express — the assembled grids,
// the composed area order, the initial-visibility directives — travel in
// x-formport-* extensions on the operation.
package export
