package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formport/pkg/migrate"
)

// Extension keys carrying the migrated layout through an OpenAPI document.
// Everything the submission schema cannot express (grids, composed order,
// initial visibility) rides in these, namespaced like any vendor extension.
const (
	ExtLayout     = "x-formport-layout"
	ExtAreas      = "x-formport-areas"
	ExtVisibility = "x-formport-visibility"
)

// Exporter renders migration results as OpenAPI 3 documents: one POST
// submission path per form, a request schema derived from the resolved
// widgets, and the layout riding in x-formport-* extensions.
type Exporter struct {
	basePath string
	version  string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithBasePath overrides the path prefix submission paths are built under.
// Defaults to "/forms".
func WithBasePath(path string) Option {
	return func(e *Exporter) {
		if trimmed := strings.TrimRight(strings.TrimSpace(path), "/"); trimmed != "" {
			e.basePath = trimmed
		}
	}
}

// WithVersion sets the Info.Version stamped on emitted documents. Defaults
// to "1.0.0".
func WithVersion(version string) Option {
	return func(e *Exporter) {
		if version != "" {
			e.version = version
		}
	}
}

// New builds an Exporter.
func New(options ...Option) *Exporter {
	e := &Exporter{basePath: "/forms", version: "1.0.0"}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Document builds the OpenAPI document for a migrated form. The document is
// self-contained and valid against OpenAPI 3.0; JSON round-trips through
// openapi3.Loader.
func (e *Exporter) Document(result *migrate.Result) (*openapi3.T, error) {
	if result == nil {
		return nil, errors.New("export: nil result")
	}
	if result.Form == "" {
		return nil, errors.New("export: result carries no form name")
	}

	operation := &openapi3.Operation{
		OperationID: operationID(result.Form),
		Summary:     "Submit " + displayTitle(result),
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(requestSchema(result)),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission accepted"),
			}),
		),
		Extensions: map[string]any{
			ExtLayout:     layoutPayload(result),
			ExtAreas:      areasPayload(result.Areas),
			ExtVisibility: visibilityPayload(result.Directives),
		},
	}

	paths := openapi3.NewPaths()
	paths.Set(e.submissionPath(result.Form), &openapi3.PathItem{Post: operation})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   displayTitle(result),
			Version: e.version,
		},
		Paths: paths,
	}, nil
}

// JSON renders the document for a migrated form as OpenAPI JSON.
func (e *Exporter) JSON(result *migrate.Result) ([]byte, error) {
	doc, err := e.Document(result)
	if err != nil {
		return nil, err
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export: marshal document: %w", err)
	}
	return raw, nil
}

func (e *Exporter) submissionPath(form string) string {
	return e.basePath + "/" + form + "/submissions"
}

func displayTitle(result *migrate.Result) string {
	if result.Title != "" {
		return result.Title
	}
	return result.Form
}

// operationID derives a camel-case operation identifier from the form name:
// "incident-report" becomes "submitIncidentReport".
func operationID(form string) string {
	var b strings.Builder
	b.WriteString("submit")
	for _, part := range strings.FieldsFunc(form, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
