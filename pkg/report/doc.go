// Package report renders human-readable summaries of migration results: the
// per-fragment grids, the composed area order, and every diagnostic the run
// emitted. Output is built from pongo2 templates behind the TemplateRenderer
// seam and can be themed through go-theme manifests; the embedded bundle
// ships unthemed HTML and plain-text layouts.
package report
