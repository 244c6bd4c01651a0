package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/report"
)

// Report surfaces.
const (
	formatHTML = "html"
	formatText = "text"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	config        string
	out           string
	format        string
	templates     string
	themeManifest string
	theme         string
	variant       string
}

// applyConfig fills opts from cfg for every flag the user did not set.
func (o *reportOpts) applyConfig(cmd *cobra.Command, cfg Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Report.Format != "" {
		o.format = cfg.Report.Format
	}
	if !flags.Changed("templates") && cfg.Report.Templates != "" {
		o.templates = cfg.Report.Templates
	}
	if !flags.Changed("theme-manifest") && cfg.Report.ThemeManifest != "" {
		o.themeManifest = cfg.Report.ThemeManifest
	}
	if !flags.Changed("theme") && cfg.Report.Theme != "" {
		o.theme = cfg.Report.Theme
	}
	if !flags.Changed("variant") && cfg.Report.Variant != "" {
		o.variant = cfg.Report.Variant
	}
}

// renderConfig returns the resolved report configuration.
func (o *reportOpts) renderConfig() ReportConfig {
	return ReportConfig{
		Format:        o.format,
		Templates:     o.templates,
		ThemeManifest: o.themeManifest,
		Theme:         o.theme,
		Variant:       o.variant,
	}
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	opts := &reportOpts{}

	cmd := &cobra.Command{
		Use:   "report <definition>",
		Short: "Render a migration report for a legacy form definition",
		Long: `Render a migration report for a legacy form definition.

The definition is migrated and the outcome is rendered as an HTML page or a
plain-text summary: the compacted grids, the composed section order, the
default-hidden members, and every diagnostic the run emitted. Reports can be
themed through a go-theme manifest file.

Examples:
  formport report claims.json                        # plain text to stdout
  formport report claims.json -o report.html         # HTML inferred from extension
  formport report claims.json -f html                # HTML to stdout
  formport report claims.json --theme-manifest acme.json --variant dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			opts.applyConfig(cmd, cfg)

			renderer, err := buildRenderer(opts.renderConfig())
			if err != nil {
				return err
			}
			result, err := c.runMigration(cmd.Context(), args[0],
				c.pipelineOptions(cfg, false, cfg.Migrate.KeepUnmatched))
			if err != nil {
				return err
			}
			return c.writeReport(renderer, result, opts.out, formatForPath(opts.out, opts.format))
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default .formport.toml if present)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: html or text (default inferred from --out extension)")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "directory of report templates overriding the embedded set")
	cmd.Flags().StringVar(&opts.themeManifest, "theme-manifest", "", "JSON theme manifest for report styling")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (default the manifest's own name)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "theme variant")

	return cmd
}

// buildRenderer assembles a report renderer from the resolved configuration.
func buildRenderer(cfg ReportConfig) (*report.Renderer, error) {
	var options []report.Option
	if cfg.Templates != "" {
		options = append(options, report.WithTemplatesDir(cfg.Templates))
	}
	if cfg.ThemeManifest != "" {
		manifest, err := loadThemeManifest(cfg.ThemeManifest)
		if err != nil {
			return nil, err
		}
		options = append(options, report.WithTheme(manifestSelector{manifest: manifest}, cfg.Theme, cfg.Variant))
	}
	return report.New(options...)
}

// loadThemeManifest reads and validates a go-theme manifest from a JSON file.
func loadThemeManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("cli: parse theme manifest %s: %w", path, err)
	}
	if err := theme.NewRegistry().Register(&manifest); err != nil {
		return nil, fmt.Errorf("cli: invalid theme manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// manifestSelector serves a single manifest loaded from disk. The CLI themes
// one report at a time from one manifest file, so no registry is involved.
type manifestSelector struct {
	manifest *theme.Manifest
}

func (s manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.manifest.Name
	}
	if variant != "" {
		if _, ok := s.manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("cli: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: s.manifest}, nil
}

// formatForPath resolves the report format: an explicit format wins,
// otherwise the output extension decides, defaulting to plain text.
func formatForPath(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return formatHTML
	default:
		return formatText
	}
}

// writeReport renders the requested surface and writes it to path (or stdout
// if empty).
func (c *CLI) writeReport(renderer *report.Renderer, result *migrate.Result, path, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatHTML:
		data, err = renderer.HTML(result)
	case formatText:
		data, err = renderer.Text(result)
	default:
		return fmt.Errorf("cli: unknown report format %q (want html or text)", format)
	}
	if err != nil {
		return err
	}

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		c.Logger.Infof("Wrote report to %s", path)
	}
	return nil
}
