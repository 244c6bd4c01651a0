package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const sampleConfig = `
[migrate]
strict = true
keep_unmatched = true
min_columns = 6
no_title_extraction = true

[export]
base_path = "/v2/forms"
api_version = "2.0.0"

[report]
format = "html"
templates = "templates/reports"
theme_manifest = "themes/acme.json"
theme = "acme"
variant = "dark"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formport.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if !cfg.Migrate.Strict || !cfg.Migrate.KeepUnmatched || !cfg.Migrate.NoTitleExtraction {
		t.Errorf("migrate booleans not read: %+v", cfg.Migrate)
	}
	if cfg.Migrate.MinColumns != 6 {
		t.Errorf("min_columns = %d, want 6", cfg.Migrate.MinColumns)
	}
	if cfg.Export.BasePath != "/v2/forms" || cfg.Export.APIVersion != "2.0.0" {
		t.Errorf("export section not read: %+v", cfg.Export)
	}
	if cfg.Report.Format != "html" || cfg.Report.Theme != "acme" || cfg.Report.Variant != "dark" {
		t.Errorf("report section not read: %+v", cfg.Report)
	}
	if cfg.Report.Templates != "templates/reports" || cfg.Report.ThemeManifest != "themes/acme.json" {
		t.Errorf("report paths not read: %+v", cfg.Report)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("explicit missing config should error")
	}
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config should not error, got %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[migrate\nstrict ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestMigrateOptsFlagsBeatConfig(t *testing.T) {
	cmd := &cobra.Command{}
	opts := &migrateOpts{}
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "")
	cmd.Flags().BoolVar(&opts.keepUnmatched, "keep-unmatched", false, "")

	if err := cmd.Flags().Set("strict", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	opts.applyConfig(cmd, Config{Migrate: MigrateConfig{Strict: false, KeepUnmatched: true}})

	if !opts.strict {
		t.Error("explicit --strict must not be overridden by config")
	}
	if !opts.keepUnmatched {
		t.Error("unset flag should take the config value")
	}
}
