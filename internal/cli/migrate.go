package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/migrate"
)

// migrateOpts holds the command-line flags for the migrate command.
type migrateOpts struct {
	config        string // config file path (empty means discover .formport.toml)
	out           string // layout JSON output path (stdout if empty)
	report        string // optional migration report output path
	strict        bool   // fail on controls outside the compacted grid
	interactive   bool   // resolve unmatched pair halves via prompts
	keepUnmatched bool   // keep unmatched pair halves as standalone sections
}

// applyConfig fills opts from cfg for every flag the user did not set.
func (o *migrateOpts) applyConfig(cmd *cobra.Command, cfg Config) {
	if !cmd.Flags().Changed("strict") {
		o.strict = cfg.Migrate.Strict
	}
	if !cmd.Flags().Changed("keep-unmatched") {
		o.keepUnmatched = cfg.Migrate.KeepUnmatched
	}
}

// migrateCommand creates the migrate command.
func (c *CLI) migrateCommand() *cobra.Command {
	opts := &migrateOpts{}

	cmd := &cobra.Command{
		Use:   "migrate <definition>",
		Short: "Migrate a legacy form definition into the structured layout model",
		Long: `Migrate a legacy form definition into the structured layout model.

The definition is loaded from a JSON or YAML export. Each fragment's sparse
rows are compacted into a dense grid, wide controls become column spans, and
list/item fragment pairs compose into repeating sections with their default
visibility. The migrated layout is written as JSON.

Examples:
  formport migrate claims.json                       # layout JSON to stdout
  formport migrate claims.json -o layout.json        # write layout JSON
  formport migrate claims.json --report report.html  # also write an HTML report
  formport migrate claims.json --strict              # fail on orphaned controls
  formport migrate claims.json --interactive         # resolve unmatched halves via prompts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			opts.applyConfig(cmd, cfg)
			return c.runMigrate(cmd.Context(), cfg, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default .formport.toml if present)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file for the migrated layout (stdout if empty)")
	cmd.Flags().StringVar(&opts.report, "report", "", "also write a migration report to this path (.html renders HTML, anything else plain text)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a control lands outside the compacted grid")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "resolve unmatched pair halves through prompts")
	cmd.Flags().BoolVar(&opts.keepUnmatched, "keep-unmatched", false, "keep unmatched pair halves as standalone sections")

	return cmd
}

func (c *CLI) runMigrate(ctx context.Context, cfg Config, opts *migrateOpts, path string) error {
	options := c.pipelineOptions(cfg, opts.strict, opts.keepUnmatched)
	result, err := c.runMigration(ctx, path, options)
	if err != nil {
		return err
	}

	if opts.interactive && !opts.keepUnmatched {
		action, err := c.resolveUnmatched(ctx, result.EventsOf(diag.KindUnmatchedPair))
		if err != nil {
			return err
		}
		switch action {
		case unmatchedAbort:
			return ErrAborted
		case unmatchedKeep:
			options = append(options, migrate.WithEmitSolitaryHalves(true))
			if result, err = c.runMigration(ctx, path, options); err != nil {
				return err
			}
		}
	}

	if opts.interactive {
		for _, target := range []string{opts.out, opts.report} {
			if err := c.confirmOverwrite(ctx, target); err != nil {
				return err
			}
		}
	}

	if err := c.writeResult(result, opts.out); err != nil {
		return err
	}
	if opts.report != "" {
		renderer, err := buildRenderer(cfg.Report)
		if err != nil {
			return err
		}
		return c.writeReport(renderer, result, opts.report, formatForPath(opts.report, ""))
	}
	return nil
}

// pipelineOptions assembles the migrator options shared by all commands:
// diagnostics narrate through the CLI logger, config supplies the grid floor
// and title policy, flags supply strictness and the unmatched-half policy.
func (c *CLI) pipelineOptions(cfg Config, strict, keepUnmatched bool) []migrate.Option {
	options := []migrate.Option{migrate.WithSink(diag.NewLogSink(c.Logger))}
	if strict {
		options = append(options, migrate.WithStrictPlacement(true))
	}
	if keepUnmatched {
		options = append(options, migrate.WithEmitSolitaryHalves(true))
	}
	if cfg.Migrate.MinColumns > 0 {
		options = append(options, migrate.WithMinColumns(cfg.Migrate.MinColumns))
	}
	if cfg.Migrate.NoTitleExtraction {
		options = append(options, migrate.WithTitleExtraction(false))
	}
	return options
}

// runMigration executes the pipeline for the definition at path and logs a
// one-line summary.
func (c *CLI) runMigration(ctx context.Context, path string, options []migrate.Option) (*migrate.Result, error) {
	c.Logger.Infof("Migrating %s", path)

	prog := newProgress(c.Logger)
	result, err := migrate.New(options...).Run(ctx, migrate.Request{Source: formdef.SourceFromFile(path)})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Migrated %d controls across %d fragments into %d areas",
		result.Stats.Controls, result.Stats.Fragments, result.Stats.Areas))

	if !result.Clean() {
		c.Logger.Warnf("%d diagnostic(s) emitted; run with --report for details", len(result.Events))
	}
	return result, nil
}

// unmatchedAction is the interactive decision for pair halves without a
// partner fragment.
type unmatchedAction int

const (
	unmatchedDrop unmatchedAction = iota
	unmatchedKeep
	unmatchedAbort
)

// resolveUnmatched prompts for the unmatched-half policy. With no unmatched
// halves it returns unmatchedDrop without prompting.
func (c *CLI) resolveUnmatched(ctx context.Context, events []diag.Event) (unmatchedAction, error) {
	if len(events) == 0 {
		return unmatchedDrop, nil
	}
	for _, e := range events {
		if err := c.Prompt.Info(ctx, "unmatched: "+e.String()); err != nil {
			return unmatchedDrop, err
		}
	}
	idx, err := c.Prompt.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("%d pair half(s) have no partner fragment. What should happen to them?", len(events)),
		Options:      []string{"drop them from the composed layout", "keep them as standalone sections", "abort without writing"},
		DefaultIndex: 0,
		Help:         "List and item fragments compose in pairs; a half without its partner cannot form a repeating section.",
	})
	if err != nil {
		return unmatchedDrop, err
	}
	switch idx {
	case 1:
		return unmatchedKeep, nil
	case 2:
		return unmatchedAbort, nil
	default:
		return unmatchedDrop, nil
	}
}

// confirmOverwrite asks before clobbering an existing file. Empty and
// missing paths pass silently.
func (c *CLI) confirmOverwrite(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ok, err := c.Prompt.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s exists. Overwrite?", path),
		Default: true,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// writeResult serializes the migrated layout as indented JSON to path (or
// stdout if empty).
func (c *CLI) writeResult(result *migrate.Result, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: encode layout: %w", err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		c.Logger.Infof("Wrote layout to %s", path)
	}
	return nil
}
