package report

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/report/template"
	"github.com/goliatone/go-formport/pkg/report/template/gotemplate"
)

// Renderer turns migration results into HTML or plain-text summaries. The
// zero value is not usable; construct one with New.
type Renderer struct {
	templates template.TemplateRenderer
	partials  map[string]string
	theme     *theme.RendererConfig
}

// Option configures the renderer during construction.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templateDir  string
	renderer     template.TemplateRenderer
	themeConfig  *theme.RendererConfig
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	fallbacks    map[string]string
}

// WithTemplatesFS renders from the provided template filesystem instead of
// the embedded bundle. Paths in partial mappings resolve against it.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir renders from templates under a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer swaps the template engine. The default is the
// pongo2-backed adapter over the embedded bundle.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithTheme resolves the named theme and variant through the selector when
// the renderer is constructed. Resolution failures fail construction.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithThemeConfig injects an already-derived renderer configuration,
// bypassing selection.
func WithThemeConfig(themeConfig *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeConfig = themeConfig
	}
}

// WithThemeFallbacks overlays the default partial mapping consulted when a
// theme does not override a report surface.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(cfg *config) {
		if len(fallbacks) == 0 {
			return
		}
		if cfg.fallbacks == nil {
			cfg.fallbacks = make(map[string]string, len(fallbacks))
		}
		for key, path := range fallbacks {
			cfg.fallbacks[key] = path
		}
	}
}

// New constructs a report renderer. Without options it renders the embedded
// templates through the default engine, unthemed.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	fallbacks := defaultPartials()
	for key, path := range cfg.fallbacks {
		fallbacks[key] = path
	}

	themeConfig := cfg.themeConfig
	if themeConfig == nil && cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("report renderer: select theme %q: %w", cfg.themeName, err)
		}
		themeConfig = buildThemeConfig(selection, fallbacks)
	}

	partials := fallbacks
	if themeConfig != nil && len(themeConfig.Partials) > 0 {
		merged := make(map[string]string, len(fallbacks)+len(themeConfig.Partials))
		for key, path := range fallbacks {
			merged[key] = path
		}
		for key, path := range themeConfig.Partials {
			merged[key] = path
		}
		partials = merged
	}

	templates := cfg.renderer
	if templates == nil {
		var engineOptions []gotemplate.Option
		if cfg.templateDir != "" {
			engineOptions = append(engineOptions, gotemplate.WithBaseDir(cfg.templateDir))
		}
		templateFS := cfg.templateFS
		if templateFS == nil && cfg.templateDir == "" {
			templateFS = TemplatesFS()
		}
		if templateFS != nil {
			engineOptions = append(engineOptions, gotemplate.WithFS(templateFS))
		}
		engine, err := gotemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("report renderer: create template engine: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates: templates,
		partials:  partials,
		theme:     themeConfig,
	}, nil
}

// HTML renders the HTML migration summary for the result.
func (r *Renderer) HTML(result *migrate.Result) ([]byte, error) {
	return r.render("report.html", result)
}

// Text renders the plain-text migration summary for the result.
func (r *Renderer) Text(result *migrate.Result) ([]byte, error) {
	return r.render("report.text", result)
}

func (r *Renderer) render(surface string, result *migrate.Result) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("report renderer: renderer is nil")
	}
	if result == nil {
		return nil, errors.New("report renderer: nil result")
	}

	name := r.partials[surface]
	if name == "" {
		name = defaultPartials()[surface]
	}
	if name == "" {
		return nil, fmt.Errorf("report renderer: no template mapped for surface %q", surface)
	}

	data := map[string]any{
		"report": Build(result),
		"theme":  themeContext(r.theme),
	}
	rendered, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("report renderer: render %s: %w", surface, err)
	}
	return []byte(rendered), nil
}
