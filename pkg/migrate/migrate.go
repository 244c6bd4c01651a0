package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	internalloader "github.com/goliatone/go-formport/internal/formdef/loader"
	internalparser "github.com/goliatone/go-formport/internal/formdef/parser"
	"github.com/goliatone/go-formport/pkg/compose"
	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/layout"
	"github.com/goliatone/go-formport/pkg/visibility"
	"github.com/goliatone/go-formport/pkg/widgets"
)

// ErrOrphanedControls is wrapped into the error returned when strict
// placement is enabled and a fragment placed controls outside its compacted
// grid.
var ErrOrphanedControls = errors.New("controls placed outside the compacted grid")

// Migrator converts legacy freeform definitions into structured layouts. It
// runs the full pipeline in one shot: load, parse, per-fragment grid
// assembly, pair matching, area ordering, and visibility assignment. A
// Migrator holds no per-run state and is safe for concurrent use once
// constructed.
type Migrator struct {
	loader     formdef.Loader
	parser     formdef.Parser
	registry   *widgets.Registry
	assigner   visibility.Assigner
	sink       diag.Sink
	newRunID   func() string
	minColumns int

	extractTitles      bool
	strictPlacement    bool
	emitSolitaryHalves bool
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLoader injects a custom definition loader.
func WithLoader(loader formdef.Loader) Option {
	return func(m *Migrator) {
		if loader != nil {
			m.loader = loader
		}
	}
}

// WithParser injects a custom definition parser.
func WithParser(parser formdef.Parser) Option {
	return func(m *Migrator) {
		if parser != nil {
			m.parser = parser
		}
	}
}

// WithWidgets injects the registry that classifies control types and
// resolves their target widgets.
func WithWidgets(registry *widgets.Registry) Option {
	return func(m *Migrator) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithVisibility injects the assigner that derives initial-visibility
// directives from composed areas.
func WithVisibility(assigner visibility.Assigner) Option {
	return func(m *Migrator) {
		if assigner != nil {
			m.assigner = assigner
		}
	}
}

// WithSink routes run diagnostics to the given sink in addition to the
// Result's own event list.
func WithSink(sink diag.Sink) Option {
	return func(m *Migrator) {
		m.sink = sink
	}
}

// WithMinColumns sets the lower bound for assembled table widths. Values
// below one are ignored.
func WithMinColumns(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.minColumns = n
		}
	}
}

// WithTitleExtraction toggles promoting a solitary leading label row to the
// fragment title. On by default.
func WithTitleExtraction(enabled bool) Option {
	return func(m *Migrator) {
		m.extractTitles = enabled
	}
}

// WithStrictPlacement makes Run fail when a control lands outside its
// fragment's compacted grid, instead of dropping it with a diagnostic.
func WithStrictPlacement(strict bool) Option {
	return func(m *Migrator) {
		m.strictPlacement = strict
	}
}

// WithEmitSolitaryHalves re-adds unmatched pair halves to the composed
// output as standalone areas instead of leaving them out.
func WithEmitSolitaryHalves(emit bool) Option {
	return func(m *Migrator) {
		m.emitSolitaryHalves = emit
	}
}

// WithRunID overrides the run identifier generator. Useful for deterministic
// output in tests and golden files.
func WithRunID(gen func() string) Option {
	return func(m *Migrator) {
		if gen != nil {
			m.newRunID = gen
		}
	}
}

// New builds a Migrator. Without options it loads local files, parses with
// sanitization on, classifies controls through the built-in widget registry,
// and keeps diagnostics on the Result only.
func New(options ...Option) *Migrator {
	m := &Migrator{extractTitles: true}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	m.applyDefaults()
	return m
}

func (m *Migrator) applyDefaults() {
	if m.loader == nil {
		m.loader = internalloader.New(formdef.NewLoaderOptions())
	}
	if m.parser == nil {
		m.parser = internalparser.New(formdef.NewParserOptions())
	}
	if m.registry == nil {
		m.registry = widgets.NewRegistry()
	}
	if m.assigner == nil {
		m.assigner = visibility.Default()
	}
	if m.newRunID == nil {
		m.newRunID = uuid.NewString
	}
	if m.minColumns <= 0 {
		m.minColumns = layout.DefaultMinColumns
	}
}

// Request names the input of a single run. Exactly one of Source, Document,
// or Definition should be set; when several are, the most processed form
// wins: Definition over Document over Source.
type Request struct {
	Source formdef.Source

	// Document bypasses the loader when the caller already has the bytes.
	Document *formdef.Document

	// Definition bypasses loading and parsing entirely.
	Definition *formdef.Definition
}

// Run executes the migration pipeline and returns a self-contained Result.
// Diagnostics never abort the run unless strict placement is enabled; they
// accumulate on the Result in emission order.
func (m *Migrator) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("migrate: nil context")
	}

	def, err := m.resolveDefinition(ctx, req)
	if err != nil {
		return nil, err
	}

	collector := diag.NewCollector()
	sink := diag.Tee(collector, m.sink)

	result := &Result{
		RunID: m.newRunID(),
		Form:  def.Name,
		Title: def.Title,
	}

	controlTotal := 0
	for _, frag := range def.Fragments {
		fragResult, err := m.migrateFragment(frag, sink)
		if err != nil {
			return nil, err
		}
		result.Fragments = append(result.Fragments, fragResult)
		controlTotal += len(frag.Controls)
		if result.Title == "" && fragResult.Title != "" {
			result.Title = fragResult.Title
		}
	}

	match := compose.MatchPairs(composeDescriptors(def), sink)
	unmatched := len(match.Unmatched)
	if m.emitSolitaryHalves {
		match = adoptSolitaryHalves(match)
	}
	areas := compose.BuildAreas(match, rowIndexOf(def), sink)
	result.Areas = areas
	result.Directives = m.assigner.Assign(areas)

	result.Events = collector.Events()
	result.Stats = Stats{
		Fragments: len(result.Fragments),
		Controls:  controlTotal,
		Areas:     len(areas),
		Pairs:     len(match.Pairs),
		Unmatched: unmatched,
		Events:    tallyEvents(result.Events),
	}
	return result, nil
}

func (m *Migrator) resolveDefinition(ctx context.Context, req Request) (*formdef.Definition, error) {
	if req.Definition != nil {
		if err := req.Definition.Validate(); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return req.Definition, nil
	}

	var doc formdef.Document
	switch {
	case req.Document != nil:
		doc = *req.Document
	case req.Source != nil:
		loaded, err := m.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		doc = loaded
	default:
		return nil, fmt.Errorf("migrate: request carries no source, document, or definition")
	}

	def, err := m.parser.Parse(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return def, nil
}

// composeDescriptors projects the definition's fragment descriptors into the
// composition package's terms.
func composeDescriptors(def *formdef.Definition) []compose.Descriptor {
	out := make([]compose.Descriptor, 0, len(def.Descriptors))
	for _, d := range def.Descriptors {
		out = append(out, compose.Descriptor{
			Fragment: compose.FragmentRef(d.ID),
			Role:     composeRole(d.Role),
			Section:  d.Section,
			Parent:   d.Parent,
			Sequence: d.Sequence,
		})
	}
	return out
}

func composeRole(role formdef.Role) compose.Role {
	switch role {
	case formdef.RoleList:
		return compose.RoleList
	case formdef.RoleItem:
		return compose.RoleItem
	default:
		return compose.RoleStandalone
	}
}

// adoptSolitaryHalves demotes unmatched pair halves to standalone
// descriptors so they still reach the composed output. Sequence survives, so
// each half orders by its own authored position.
func adoptSolitaryHalves(match compose.Match) compose.Match {
	for _, d := range match.Unmatched {
		d.Role = compose.RoleStandalone
		match.Standalone = append(match.Standalone, d)
	}
	match.Unmatched = nil
	return match
}

// rowIndexOf gathers the independently known original rows: the minimum
// parsable control row per fragment, and the declared starting row of each
// repeating section. Both are read before any compaction, which is the row
// space the ordering step expects. Malformed tokens contribute nothing; a
// fragment with no parsable position stays out of the index and falls back
// to its sequence position downstream.
func rowIndexOf(def *formdef.Definition) *compose.RowIndex {
	fragmentRows := make(map[compose.FragmentRef]int)
	sectionRows := make(map[string]int)
	for _, frag := range def.Fragments {
		ref := compose.FragmentRef(frag.Name)
		for _, ctl := range frag.Controls {
			pos, ok := layout.ParsePosition(ctl.Position)
			if !ok {
				continue
			}
			if cur, seen := fragmentRows[ref]; !seen || pos.Row < cur {
				fragmentRows[ref] = pos.Row
			}
		}
		for _, marker := range frag.Markers {
			if marker.Kind != formdef.MarkerRepeating {
				continue
			}
			if cur, seen := sectionRows[marker.Name]; !seen || marker.Start < cur {
				sectionRows[marker.Name] = marker.Start
			}
		}
	}
	return compose.NewRowIndex(fragmentRows, sectionRows)
}
