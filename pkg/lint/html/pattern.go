package html

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Pattern is a compiled declarative value pattern: a pure function from a
// candidate string to a match boolean.
//
// Regex variants compile through the standard library's RE2 engine, which
// does not backtrack; rule authors who port patterns from backtracking
// engines get linear-time matching for free.
type Pattern struct {
	kind patternKind
	str  string
	n    int
	max  int
	list []string
	re   *regexp.Regexp
}

type patternKind int

const (
	patternRegex patternKind = iota
	patternMinLength
	patternMaxLength
	patternLengthRange
	patternNonEmpty
	patternExact
	patternOneOf
	patternContains
	patternStartsWith
	patternEndsWith
)

// patternSpec is the wire shape of a structured pattern option:
// {type: "MinLength", value: 50} or {type: "LengthRange", min: 10, max: 80}.
type patternSpec struct {
	Type  string `mapstructure:"type"`
	Value any    `mapstructure:"value"`
	Min   int    `mapstructure:"min"`
	Max   int    `mapstructure:"max"`
}

// ParsePattern compiles a pattern option value. A plain string is treated
// as a regular expression (the dominant shorthand in rule files); a
// mapping selects a variant by its `type` key.
func ParsePattern(v any) (*Pattern, error) {
	switch val := v.(type) {
	case string:
		return compileRegexPattern(val)
	case *Pattern:
		return val, nil
	default:
		var spec patternSpec
		if err := mapstructure.Decode(v, &spec); err != nil {
			return nil, fmt.Errorf("invalid pattern %v: %w", v, err)
		}
		return compilePatternSpec(spec)
	}
}

func compileRegexPattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern regex %q: %w", expr, err)
	}
	return &Pattern{kind: patternRegex, str: expr, re: re}, nil
}

func compilePatternSpec(spec patternSpec) (*Pattern, error) {
	switch spec.Type {
	case "Regex", "regex":
		s, ok := spec.Value.(string)
		if !ok {
			return nil, fmt.Errorf("regex pattern requires a string value")
		}
		return compileRegexPattern(s)
	case "MinLength", "min_length":
		n, err := specInt(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("min_length pattern: %w", err)
		}
		return &Pattern{kind: patternMinLength, n: n}, nil
	case "MaxLength", "max_length":
		n, err := specInt(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("max_length pattern: %w", err)
		}
		return &Pattern{kind: patternMaxLength, n: n}, nil
	case "LengthRange", "length_range":
		return &Pattern{kind: patternLengthRange, n: spec.Min, max: spec.Max}, nil
	case "NonEmpty", "non_empty":
		return &Pattern{kind: patternNonEmpty}, nil
	case "Exact", "exact":
		s, ok := spec.Value.(string)
		if !ok {
			return nil, fmt.Errorf("exact pattern requires a string value")
		}
		return &Pattern{kind: patternExact, str: s}, nil
	case "OneOf", "one_of":
		list, err := specStrings(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("one_of pattern: %w", err)
		}
		return &Pattern{kind: patternOneOf, list: list}, nil
	case "Contains", "contains":
		s, ok := spec.Value.(string)
		if !ok {
			return nil, fmt.Errorf("contains pattern requires a string value")
		}
		return &Pattern{kind: patternContains, str: s}, nil
	case "StartsWith", "starts_with":
		s, ok := spec.Value.(string)
		if !ok {
			return nil, fmt.Errorf("starts_with pattern requires a string value")
		}
		return &Pattern{kind: patternStartsWith, str: s}, nil
	case "EndsWith", "ends_with":
		s, ok := spec.Value.(string)
		if !ok {
			return nil, fmt.Errorf("ends_with pattern requires a string value")
		}
		return &Pattern{kind: patternEndsWith, str: s}, nil
	default:
		return nil, fmt.Errorf("unknown pattern type %q", spec.Type)
	}
}

func specInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer value, got %T", v)
	}
}

func specStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string list, found %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", v)
	}
}

// Matches evaluates the pattern against a candidate string. Length
// variants count characters, not bytes.
func (p *Pattern) Matches(candidate string) bool {
	switch p.kind {
	case patternRegex:
		return p.re.MatchString(candidate)
	case patternMinLength:
		return len([]rune(candidate)) >= p.n
	case patternMaxLength:
		return len([]rune(candidate)) <= p.n
	case patternLengthRange:
		l := len([]rune(candidate))
		return l >= p.n && l <= p.max
	case patternNonEmpty:
		return strings.TrimSpace(candidate) != ""
	case patternExact:
		return candidate == p.str
	case patternOneOf:
		for _, s := range p.list {
			if candidate == s {
				return true
			}
		}
		return false
	case patternContains:
		return strings.Contains(candidate, p.str)
	case patternStartsWith:
		return strings.HasPrefix(candidate, p.str)
	case patternEndsWith:
		return strings.HasSuffix(candidate, p.str)
	default:
		return false
	}
}

// CheckMode wraps a raw pattern-match boolean into a report decision.
//
// CheckModeNormal and CheckModeEnsureNonexistence are behaviorally
// identical: both report when the pattern matches. The duplication comes
// from the original rule format and both literals stay accepted so that
// existing rule files keep their meaning; treat ensure_nonexistence as a
// documentation-only alias.
type CheckMode string

// Accepted check modes.
const (
	CheckModeNormal             CheckMode = "normal"
	CheckModeEnsureExistence    CheckMode = "ensure_existence"
	CheckModeEnsureNonexistence CheckMode = "ensure_nonexistence"
)

// ParseCheckMode validates a check_mode option value. An empty string
// defaults to normal.
func ParseCheckMode(s string) (CheckMode, error) {
	switch CheckMode(s) {
	case "", CheckModeNormal:
		return CheckModeNormal, nil
	case CheckModeEnsureExistence:
		return CheckModeEnsureExistence, nil
	case CheckModeEnsureNonexistence:
		return CheckModeEnsureNonexistence, nil
	default:
		return "", fmt.Errorf("unknown check_mode %q", s)
	}
}

// ShouldReport converts a match boolean into "raise a finding".
func (m CheckMode) ShouldReport(matched bool) bool {
	if m == CheckModeEnsureExistence {
		return !matched
	}
	return matched
}
