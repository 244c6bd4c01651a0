package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// defaultConfigName is the project config file looked up in the working
// directory when --config is not given.
const defaultConfigName = ".formport.toml"

// Config is the optional TOML project configuration. Flags given on the
// command line take precedence over values read from the file.
type Config struct {
	Migrate MigrateConfig `toml:"migrate"`
	Export  ExportConfig  `toml:"export"`
	Report  ReportConfig  `toml:"report"`
}

// MigrateConfig tunes the migration pipeline.
type MigrateConfig struct {
	// Strict fails the run when a control lands outside the compacted grid.
	Strict bool `toml:"strict"`
	// KeepUnmatched appends unmatched pair halves as standalone sections.
	KeepUnmatched bool `toml:"keep_unmatched"`
	// MinColumns widens the grid floor; 0 keeps the pipeline default.
	MinColumns int `toml:"min_columns"`
	// NoTitleExtraction keeps leading label rows in the grid instead of
	// promoting them to fragment titles.
	NoTitleExtraction bool `toml:"no_title_extraction"`
}

// ExportConfig shapes the OpenAPI document.
type ExportConfig struct {
	BasePath   string `toml:"base_path"`
	APIVersion string `toml:"api_version"`
}

// ReportConfig selects report templates and theming.
type ReportConfig struct {
	Format        string `toml:"format"`
	Templates     string `toml:"templates"`
	ThemeManifest string `toml:"theme_manifest"`
	Theme         string `toml:"theme"`
	Variant       string `toml:"variant"`
}

// loadConfig reads the TOML config at path. An empty path falls back to
// .formport.toml in the working directory, where a missing file is not an
// error; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("cli: read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cli: parse %s: %w", path, err)
	}
	return cfg, nil
}
