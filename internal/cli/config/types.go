package config

import (
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// Defaults applied before any config file, environment variable or flag.
const (
	DefaultOutput        = "auto"
	DefaultSeverity      = "info"
	DefaultMaxLineLength = 120
)

// Config is the resolved CLI configuration.
type Config struct {
	// ProjectRoot is the directory the config file was found in, or the
	// working directory when none was. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`

	// RulesFile points to a standalone rule-set file. Empty means the
	// rules come from the `rules` section of the main config file.
	RulesFile string `koanf:"rules_file"`

	// Rules are rule definitions inlined in the main config file.
	Rules []RuleSpec `koanf:"rules"`

	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`

	// Severity is the minimum severity to report: error, warning or info.
	Severity string `koanf:"severity"`

	MaxLineLength     int               `koanf:"max_line_length"`
	AllowInlineStyles bool              `koanf:"allow_inline_styles"`
	IgnoreRules       []string          `koanf:"ignore_rules"`
	SelectorAliases   map[string]string `koanf:"selector_aliases"`
}

// LinterOptions converts the CLI configuration into engine options.
func (c *Config) LinterOptions() lint.LinterOptions {
	return lint.LinterOptions{
		MaxLineLength:     c.MaxLineLength,
		AllowInlineStyles: c.AllowInlineStyles,
		IgnoreRules:       c.IgnoreRules,
		SelectorAliases:   c.SelectorAliases,
	}
}

// RuleSpec is the wire shape of one rule definition in YAML. Severity and
// type arrive as strings and are validated in BuildRules.
type RuleSpec struct {
	Name      string         `koanf:"name"`
	Type      string         `koanf:"type"`
	Severity  string         `koanf:"severity"`
	Selector  string         `koanf:"selector"`
	Condition string         `koanf:"condition"`
	Message   string         `koanf:"message"`
	Options   map[string]any `koanf:"options"`
}
