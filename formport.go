package formport

import (
	"context"

	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/export"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/report"
)

// Source names a legacy definition location; alias exported via the root
// package for convenience.
type Source = formdef.Source

// Document is raw definition bytes paired with their source.
type Document = formdef.Document

// Definition is the decoded legacy form definition.
type Definition = formdef.Definition

// Request selects the migration input; exactly one of Source, Document, or
// Definition is consulted, in reverse order of that list.
type Request = migrate.Request

// Result is the complete outcome of one migration run.
type Result = migrate.Result

// FragmentResult is the migrated layout of a single fragment.
type FragmentResult = migrate.FragmentResult

// Event is one diagnostic occurrence emitted during a run.
type Event = diag.Event

// NewMigrator exposes the migrator constructor from the top-level module,
// mirroring the quick start guidance in go-formport.md:120-158.
func NewMigrator(options ...migrate.Option) *migrate.Migrator {
	return migrate.New(options...)
}

// NewExporter constructs the OpenAPI exporter for migrated results.
func NewExporter(options ...export.Option) *export.Exporter {
	return export.New(options...)
}

// NewReportRenderer constructs the migration report renderer.
func NewReportRenderer(options ...report.Option) (*report.Renderer, error) {
	return report.New(options...)
}

// MigrateFile loads the legacy definition at path, migrates it, and returns
// the result. It is the simplest entry point for callers that just want the
// structured layout.
func MigrateFile(ctx context.Context, path string, options ...migrate.Option) (*migrate.Result, error) {
	m := migrate.New(options...)
	return m.Run(ctx, migrate.Request{Source: formdef.SourceFromFile(path)})
}

// MigrateDocument migrates a pre-loaded document, bypassing the loader stage
// while still delegating to the migrator pipeline.
func MigrateDocument(ctx context.Context, doc formdef.Document, options ...migrate.Option) (*migrate.Result, error) {
	m := migrate.New(options...)
	return m.Run(ctx, migrate.Request{Document: &doc})
}

// WithSink forwards run diagnostics to the provided sink alongside the
// result's event log.
func WithSink(sink diag.Sink) migrate.Option {
	return migrate.WithSink(sink)
}

// WithStrictPlacement makes runs fail when any control is dropped from
// placement instead of recording the drop and continuing.
func WithStrictPlacement(strict bool) migrate.Option {
	return migrate.WithStrictPlacement(strict)
}

// WithTitleExtraction toggles promotion of a fragment's leading label row to
// its title. Enabled by default.
func WithTitleExtraction(enabled bool) migrate.Option {
	return migrate.WithTitleExtraction(enabled)
}

// WithEmitSolitaryHalves re-adds unmatched list or item halves to the
// composed output as standalone sections after their diagnostics are
// recorded.
func WithEmitSolitaryHalves(emit bool) migrate.Option {
	return migrate.WithEmitSolitaryHalves(emit)
}
