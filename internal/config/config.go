// Package config loads the checker's runtime configuration: the two
// flags that resolve spec.md's Open Questions rather than hard-coding
// one reading of them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls checker behaviour that the spec leaves open.
type Config struct {
	// AllowMutation gates set_head/set_tail in the predeclared
	// environment. Defaults to true (the spec's literal reading).
	AllowMutation bool `yaml:"allowMutation"`

	// VariadicMathBuiltins selects a fixed two-argument number signature
	// for math_hypot/math_max/math_min instead of the spec's ∀T. T
	// fallback reading. Defaults to false.
	VariadicMathBuiltins bool `yaml:"variadicMathBuiltins"`

	// OutputFormat is the diagnostic render format: "text" or "json".
	OutputFormat string `yaml:"outputFormat"`
}

// Default returns the checker's built-in configuration.
func Default() *Config {
	return &Config{
		AllowMutation:        true,
		VariadicMathBuiltins: false,
		OutputFormat:         "text",
	}
}

// Load reads a YAML config file at path, overlaying it onto Default().
// A missing file is not an error — callers get the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
