// Package config loads mc4c's optional TOML configuration file,
// grounded on lookbusy1344-arm_emulator/config/config.go's shape: a
// tagged struct, a Default, and a Load/LoadFrom pair that falls back
// to defaults when the file is missing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is where Load looks, relative to the current
// working directory -- a project-local file, not a per-user one, since
// mc4c has no per-user state worth keeping (spec §4.7.3).
const DefaultConfigFile = "./mc4c.toml"

// Config holds mc4c's configurable defaults. Command-line flags
// (spec §6) always take precedence over these when both are set.
type Config struct {
	// Compiler settings.
	Compiler struct {
		LogLevel   string `toml:"log_level"`   // NONE, ERROR, WARN, INFO, INFO_MEDIUM_LEVEL, INFO_LOW_LEVEL
		MemoryBase int    `toml:"memory_base"` // first address the assembly generator assigns (spec §3: fixed at 1)
	} `toml:"compiler"`

	// Output settings.
	Output struct {
		Path    string `toml:"path"`     // default used when -o is omitted
		EmitTac bool   `toml:"emit_tac"` // also write the intermediate TAC dump
	} `toml:"output"`
}

// Default returns a Config with mc4c's built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Compiler.LogLevel = "WARN"
	cfg.Compiler.MemoryBase = 1
	cfg.Output.Path = "./output.txt"
	cfg.Output.EmitTac = false
	return cfg
}

// Load loads configuration from DefaultConfigFile, falling back to
// Default when it does not exist -- never an error, since the file is
// purely optional (spec §4.7.3).
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom loads configuration from path, falling back to Default
// when path does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
