package report

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// defaultPartials maps the logical report surfaces to the embedded template
// paths rendered when no theme overrides them. Theme manifests override
// entries by key through Manifest.Templates and Variant.Templates.
func defaultPartials() map[string]string {
	return map[string]string{
		"report.html": "templates/report.html",
		"report.text": "templates/report.text",
	}
}

// stylesheetAssetKey is the manifest asset looked up for the HTML report's
// stylesheet link.
const stylesheetAssetKey = "report.stylesheet"

// buildThemeConfig derives the renderer configuration for a resolved theme
// selection. Partials start from the fallback map, overlaid by the manifest
// templates and then the selected variant's; tokens merge the same way, and
// each merged token also becomes a --key CSS variable. AssetURL resolves
// manifest asset keys against the merged file map, preferring the variant's
// prefix when it declares one.
func buildThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}

	partials := make(map[string]string, len(fallbacks))
	for key, path := range fallbacks {
		partials[key] = path
	}
	tokens := map[string]string{}
	files := map[string]string{}
	prefix := ""

	if manifest := selection.Manifest; manifest != nil {
		for key, path := range manifest.Templates {
			partials[key] = path
		}
		for key, value := range manifest.Tokens {
			tokens[key] = value
		}
		for key, file := range manifest.Assets.Files {
			files[key] = file
		}
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			for key, path := range variant.Templates {
				partials[key] = path
			}
			for key, value := range variant.Tokens {
				tokens[key] = value
			}
			for key, file := range variant.Assets.Files {
				files[key] = file
			}
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	cfg.Partials = partials
	cfg.Tokens = tokens
	cfg.CSSVars = make(map[string]string, len(tokens))
	for key, value := range tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = assetResolver(strings.TrimRight(prefix, "/"), files)

	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + file
	}
}

// themeContext projects the renderer configuration into the template
// context. The AssetURL resolver cannot survive the JSON round-trip into
// pongo2, so asset lookups the templates need are resolved here.
func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}

	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
	}
	if len(cfg.Tokens) > 0 {
		ctx["tokens"] = cfg.Tokens
	}
	if style := cssVarsStyle(cfg.CSSVars); style != "" {
		ctx["css_vars_style"] = style
	}
	if cfg.AssetURL != nil {
		if url := cfg.AssetURL(stylesheetAssetKey); url != "" {
			ctx["stylesheet_url"] = url
		}
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
