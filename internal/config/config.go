// Package config loads ligature.toml: registry overrides and CLI defaults.
// Grounded on the TOML-based configuration pattern used throughout the
// example corpus's config loaders.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"ligature/internal/registry"
)

// Function describes one registry entry overridden or added from config.
type Function struct {
	Params  []string `toml:"params"`
	Outputs []string `toml:"outputs"`
	Multi   bool     `toml:"multi"`
}

// Config is ligature.toml's top-level shape.
type Config struct {
	Compiler struct {
		// EntryPoint is decoded from `entry_point`; the CLI's compile
		// command always takes the file as its one argument and does not
		// read this field.
		EntryPoint string `toml:"entry_point"`
		// PrintBlocks controls whether `ligaturec compile` prints the
		// compiled constraint blocks to stdout in addition to reporting
		// diagnostics.
		PrintBlocks bool `toml:"print_blocks"`
	} `toml:"compiler"`

	Registry struct {
		Functions map[string]Function `toml:"functions"`
	} `toml:"registry"`

	LSP struct {
		LogLevel int `toml:"log_level"`
	} `toml:"lsp"`
}

// Default returns a Config with the same defaults the CLI uses when no
// ligature.toml is present.
func Default() Config {
	var cfg Config
	cfg.Compiler.PrintBlocks = true
	cfg.LSP.LogLevel = 1
	return cfg
}

// Load reads and decodes path. A missing file is not an error: callers get
// Default() back so a bare `ligaturec compile foo.md` works with no config
// file in sight.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyRegistry registers every function cfg.Registry.Functions names onto
// reg, overriding any built-in of the same name.
func (cfg Config) ApplyRegistry(reg *registry.Registry) {
	for name, fn := range cfg.Registry.Functions {
		reg.Register(name, registry.Info{
			Params:  fn.Params,
			Outputs: fn.Outputs,
			IsMulti: fn.Multi,
		})
	}
}
