package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// BuildRules resolves the configured rule set: rule definitions inlined
// in the main config file plus, when rules_file is set, the definitions
// from that standalone file. Invalid definitions fail the load; rule
// options are deliberately not validated here, the engine reports them as
// per-rule configuration findings instead.
func BuildRules(cfg *Config) ([]lint.Rule, error) {
	specs := append([]RuleSpec(nil), cfg.Rules...)

	if cfg.RulesFile != "" {
		fromFile, err := LoadRulesFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		specs = append(specs, fromFile...)
	}

	rules := make([]lint.Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := spec.ToRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRulesFile reads rule definitions from a YAML file with a top-level
// `rules` list.
func LoadRulesFile(path string) ([]RuleSpec, error) {
	rk := koanf.New(".")
	if err := rk.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading rules file %s: %w", path, err)
	}

	var specs []RuleSpec
	if err := rk.Unmarshal("rules", &specs); err != nil {
		return nil, fmt.Errorf("unable to decode rules file %s: %w", path, err)
	}
	return specs, nil
}

// ToRule validates the definition and converts it to an engine rule. Severity
// defaults to warning when omitted.
func (s RuleSpec) ToRule() (lint.Rule, error) {
	if s.Name == "" {
		return lint.Rule{}, fmt.Errorf("rule with selector %q has no name", s.Selector)
	}

	ruleType, ok := lint.ParseRuleType(s.Type)
	if !ok {
		return lint.Rule{}, fmt.Errorf("rule %q: unknown type %q", s.Name, s.Type)
	}

	severity := lint.SeverityWarning
	if s.Severity != "" {
		sev, ok := lint.ParseSeverity(s.Severity)
		if !ok {
			return lint.Rule{}, fmt.Errorf("rule %q: unknown severity %q", s.Name, s.Severity)
		}
		severity = sev
	}

	return lint.Rule{
		Name:      s.Name,
		Type:      ruleType,
		Severity:  severity,
		Selector:  s.Selector,
		Condition: s.Condition,
		Message:   s.Message,
		Options:   lint.Options(s.Options),
	}, nil
}
