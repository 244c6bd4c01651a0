package formport

import (
	internalLoader "github.com/goliatone/go-formport/internal/formdef/loader"
	internalParser "github.com/goliatone/go-formport/internal/formdef/parser"
	"github.com/goliatone/go-formport/pkg/formdef"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...formdef.LoaderOption) formdef.Loader {
	cfg := formdef.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...formdef.ParserOption) formdef.Parser {
	cfg := formdef.NewParserOptions(options...)
	return internalParser.New(cfg)
}
