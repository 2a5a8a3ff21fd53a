// Package project carries the compilation configuration handed to the
// oracle's parse stage.
package project

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// CompilationConfig holds the flags a project compiles with. The oracle
// treats these as opaque; they only matter for parse/typecheck fidelity.
type CompilationConfig struct {
	// Defines are conditional-compilation symbols (e.g. DEBUG).
	Defines []string `toml:"defines" json:"defines,omitempty"`

	// Flags are additional compiler flags passed through verbatim.
	Flags []string `toml:"flags" json:"flags,omitempty"`

	// ProjectRoot anchors relative source paths. Empty means cwd.
	ProjectRoot string `toml:"projectRoot" json:"projectRoot,omitempty"`
}

// Default returns an empty configuration.
func Default() *CompilationConfig {
	return &CompilationConfig{}
}

// Load reads a compilation configuration from a TOML file.
func Load(path string) (*CompilationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CompilationConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
