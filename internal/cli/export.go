package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formport/pkg/export"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	config     string
	out        string
	basePath   string
	apiVersion string
	strict     bool
}

// applyConfig fills opts from cfg for every flag the user did not set.
func (o *exportOpts) applyConfig(cmd *cobra.Command, cfg Config) {
	flags := cmd.Flags()
	if !flags.Changed("strict") {
		o.strict = cfg.Migrate.Strict
	}
	if !flags.Changed("base-path") && cfg.Export.BasePath != "" {
		o.basePath = cfg.Export.BasePath
	}
	if !flags.Changed("api-version") && cfg.Export.APIVersion != "" {
		o.apiVersion = cfg.Export.APIVersion
	}
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := &exportOpts{}

	cmd := &cobra.Command{
		Use:   "export <definition>",
		Short: "Export a migrated form definition as an OpenAPI 3 document",
		Long: `Export a migrated form definition as an OpenAPI 3 document.

The definition is migrated first, then emitted as an OpenAPI document whose
submission schema mirrors the resolved widgets and whose x-formport-*
extensions carry the layout: grids, sections, areas, and visibility.

Examples:
  formport export claims.json                      # OpenAPI JSON to stdout
  formport export claims.json -o claims.openapi.json
  formport export claims.json --base-path /v2/forms --api-version 2.0.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			opts.applyConfig(cmd, cfg)
			return c.runExport(cmd.Context(), cfg, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default .formport.toml if present)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.basePath, "base-path", "", "base path for submission endpoints")
	cmd.Flags().StringVar(&opts.apiVersion, "api-version", "", "version stamped on the OpenAPI info block")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a control lands outside the compacted grid")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, cfg Config, opts *exportOpts, path string) error {
	result, err := c.runMigration(ctx, path, c.pipelineOptions(cfg, opts.strict, cfg.Migrate.KeepUnmatched))
	if err != nil {
		return err
	}

	var exportOptions []export.Option
	if opts.basePath != "" {
		exportOptions = append(exportOptions, export.WithBasePath(opts.basePath))
	}
	if opts.apiVersion != "" {
		exportOptions = append(exportOptions, export.WithVersion(opts.apiVersion))
	}
	data, err := export.New(exportOptions...).JSON(result)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.out)
	if err != nil {
		return err
	}
	defer out.Close()

	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.out != "" {
		c.Logger.Infof("Wrote OpenAPI document to %s", opts.out)
	}
	return nil
}
