package formdef

import "context"

// Parser decodes a loaded Document into the Definition model the migration
// pipeline consumes.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*Definition, error)
}

// ParserOptions exposes the decoding toggles.
type ParserOptions struct {
	// SanitizeText strips markup from human-authored label and title text.
	// Defaults to true; legacy exports routinely embed presentation HTML.
	SanitizeText bool

	// DefaultFragmentName wraps documents that carry a bare control list in
	// a single standalone fragment of this name. Defaults to "main".
	DefaultFragmentName string
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithSanitizeText toggles markup stripping on parsed display text.
func WithSanitizeText(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.SanitizeText = enabled
	}
}

// WithDefaultFragmentName overrides the fragment name used for bare control
// lists.
func WithDefaultFragmentName(name string) ParserOption {
	return func(opts *ParserOptions) {
		if name != "" {
			opts.DefaultFragmentName = name
		}
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration. Implementations under internal/formdef call this helper to
// remain consistent.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		SanitizeText:        true,
		DefaultFragmentName: "main",
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level formport package to avoid import cycles.
