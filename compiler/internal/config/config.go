// Package config handles javamm.toml compiler configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const FileName = "javamm.toml"

const (
	DefaultStackLimit  = 99
	DefaultLocalsLimit = 99
)

type Config struct {
	Analysis Analysis `toml:"analysis"`
	Ollir    Ollir    `toml:"ollir"`
	Jasmin   Jasmin   `toml:"jasmin"`
	Log      Log      `toml:"log"`
}

// Analysis selects the semantic passes. Disabled holds pass names.
type Analysis struct {
	Disabled []string `toml:"disabled"`
}

// Ollir controls the lowered text. With PositionalActuals, parameter reads are written as
// $<index>.<name>.<type>.
type Ollir struct {
	PositionalActuals bool `toml:"positional_actuals"`
}

// Jasmin holds the fixed .limit values written into every method.
type Jasmin struct {
	StackLimit  int `toml:"stack_limit"`
	LocalsLimit int `toml:"locals_limit"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

func Default() *Config {
	return &Config{
		Jasmin: Jasmin{StackLimit: DefaultStackLimit, LocalsLimit: DefaultLocalsLimit},
	}
}

// Load reads the configuration at path. A missing file gives the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return Parse(data, path)
}

func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse error in %s", path)
	}
	if cfg.Jasmin.StackLimit <= 0 {
		cfg.Jasmin.StackLimit = DefaultStackLimit
	}
	if cfg.Jasmin.LocalsLimit <= 0 {
		cfg.Jasmin.LocalsLimit = DefaultLocalsLimit
	}
	return cfg, nil
}

// IsDisabled reports whether the pass called name is turned off.
func (analysis Analysis) IsDisabled(name string) bool {
	for _, disabled := range analysis.Disabled {
		if disabled == name {
			return true
		}
	}
	return false
}
