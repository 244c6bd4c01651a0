// Package template defines the renderer-agnostic template contract report
// renderers consume, keeping the concrete engine behind an interface so
// callers can swap the default pongo2-backed adapter for their own.
package template
