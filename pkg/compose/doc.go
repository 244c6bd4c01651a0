// Package compose arranges the independently migrated fragments of a legacy
// form into one display sequence. Standalone fragments order by their
// authored position; the list and item halves of a repeating section are
// matched by section name and grouped into a composite area whose internal
// member order depends on whether the section is top-level or nested inside
// another repeating section.
//
// Matching and ordering are read-only passes over fragment metadata: no
// fragment content is touched, position lookups are built once per document
// and passed by reference, and every half that cannot be composed is
// reported through the diagnostic sink rather than dropped silently.
package compose
