// Package lint defines the data model shared across the HTML lint engine:
// rules, severities, findings and linter-wide options.
//
// The package holds types only. The evaluation engine lives in
// pkg/lint/html and the document model in pkg/dom, keeping this package
// free of import cycles.
package lint

import (
	"fmt"
	"strings"
)

// Severity indicates the importance of a finding.
type Severity int

// Severity levels for findings.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// RuleType identifies which condition evaluator a rule dispatches to.
type RuleType string

// Rule types understood by the engine.
const (
	ElementPresence   RuleType = "element-presence"
	AttributePresence RuleType = "attribute-presence"
	AttributeValue    RuleType = "attribute-value"
	ElementOrder      RuleType = "element-order"
	ElementContent    RuleType = "element-content"
	WhiteSpace        RuleType = "white-space"
	Nesting           RuleType = "nesting"
	Semantics         RuleType = "semantics"
	Custom            RuleType = "custom"
	Compound          RuleType = "compound"
	TextContent       RuleType = "text-content"
	DocumentStructure RuleType = "document-structure"
	ElementCount      RuleType = "element-count"
	ElementCase       RuleType = "element-case"
	AttributeQuotes   RuleType = "attribute-quotes"
)

var ruleTypes = map[RuleType]bool{
	ElementPresence:   true,
	AttributePresence: true,
	AttributeValue:    true,
	ElementOrder:      true,
	ElementContent:    true,
	WhiteSpace:        true,
	Nesting:           true,
	Semantics:         true,
	Custom:            true,
	Compound:          true,
	TextContent:       true,
	DocumentStructure: true,
	ElementCount:      true,
	ElementCase:       true,
	AttributeQuotes:   true,
}

// ParseRuleType converts a rule type name to a RuleType.
func ParseRuleType(s string) (RuleType, bool) {
	t := RuleType(strings.ToLower(strings.TrimSpace(s)))
	if ruleTypes[t] {
		return t, true
	}
	return "", false
}

// Options holds rule-specific configuration as a free-form mapping.
// Values are strings, numbers, bools, lists or nested mappings; each
// evaluator validates and coerces only the keys it needs, at evaluation
// time. See options.go for the typed accessors.
type Options map[string]any

// Rule is a declarative lint rule supplied by the caller.
//
// Rules are immutable once handed to a linter. Name uniqueness is not
// enforced: duplicate names produce findings that are individually correct
// but ambiguous to consumers correlating by name, so keeping names unique
// is the caller's responsibility.
//
// For Custom rules the Condition field carries the validator name to look
// up in the custom-validator registry.
type Rule struct {
	Name      string   `koanf:"name"      json:"name"`
	Type      RuleType `koanf:"type"      json:"type"`
	Severity  Severity `koanf:"-"         json:"severity"`
	Selector  string   `koanf:"selector"  json:"selector"`
	Condition string   `koanf:"condition" json:"condition"`
	Message   string   `koanf:"message"   json:"message"`
	Options   Options  `koanf:"options"   json:"options,omitempty"`
}

// LinterOptions are process-wide defaults consulted by evaluators when a
// rule omits its own override.
type LinterOptions struct {
	// MaxLineLength is the fallback for white-space line-length rules
	// that do not set options.max_line_length. Zero means unset.
	MaxLineLength int

	// AllowInlineStyles disables the style-attribute condition of
	// attribute-presence rules.
	AllowInlineStyles bool

	// IgnoreRules lists rule names to skip. Each entry is treated as a
	// regular expression when it compiles, and as a literal name
	// otherwise.
	IgnoreRules []string

	// SelectorAliases maps a symbolic name to a selector string. A rule
	// whose selector equals an alias name is compiled from the aliased
	// selector instead.
	SelectorAliases map[string]string
}

// Location is the source anchor of a finding.
type Location struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Element string `json:"element"`
}

// Finding is a single reported rule violation. Findings are produced by
// the engine and never mutated after creation.
type Finding struct {
	RuleName string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	// Snippet is the raw source line around the offending element.
	Snippet string `json:"snippet,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%d:%d %s %s: %s",
		f.Location.Line, f.Location.Column, f.Severity, f.RuleName, f.Message)
}
