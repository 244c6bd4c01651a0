// Package cli implements the formport command-line interface.
//
// The CLI wraps the migration pipeline in pkg/migrate with three commands:
//   - migrate: compact a legacy definition into the structured layout model
//   - export: emit a migrated definition as an OpenAPI 3 document
//   - report: render a migration report (HTML or plain text)
//
// All commands support --verbose (-v) for debug-level logging and an optional
// .formport.toml project config. Interactive runs resolve unmatched pair
// halves through survey prompts behind the PromptDriver seam.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// appName is the application name used for config discovery and display.
const appName = "formport"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Main calls
// it with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Prompt PromptDriver
}

// New creates a new CLI instance with a default logger and the survey-backed
// prompt driver.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Prompt: newSurveyDriver(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Formport migrates legacy freeform e-form layouts into structured grids",
		Long:         `Formport reads legacy e-form definitions that place controls with freeform position tokens, compacts their sparse rows into a dense grid, resolves wide-control column spans, and composes list/item fragment pairs into repeating sections with default-visibility rules.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.reportCommand())

	return root
}

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can be
// used where an io.WriteCloser is expected.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when path is
// empty. An existing file at path is overwritten.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
