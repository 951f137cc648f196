package html

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// CompoundCondition is one sub-condition of a compound rule, evaluated to
// a boolean against a single element. Type selects the variant:
//
//	TextContent:        pattern over the element's trimmed text
//	AttributeValue:     pattern over a named attribute's trimmed value
//	AttributeReference: a named attribute's value must (or must not)
//	                    resolve to an element id elsewhere in the document
type CompoundCondition struct {
	Type               string `mapstructure:"type"`
	Pattern            any    `mapstructure:"pattern"`
	Attribute          string `mapstructure:"attribute"`
	ReferenceMustExist bool   `mapstructure:"reference_must_exist"`
}

type compiledCondition struct {
	spec    CompoundCondition
	kind    string
	pattern *Pattern
}

func compileCondition(spec CompoundCondition) (compiledCondition, error) {
	cc := compiledCondition{spec: spec, kind: normalizeVariant(spec.Type)}
	switch cc.kind {
	case "textcontent":
		if spec.Pattern == nil {
			return cc, fmt.Errorf("TextContent condition requires a pattern")
		}
	case "attributevalue":
		if spec.Attribute == "" {
			return cc, fmt.Errorf("AttributeValue condition requires an attribute")
		}
		if spec.Pattern == nil {
			return cc, fmt.Errorf("AttributeValue condition requires a pattern")
		}
	case "attributereference":
		if spec.Attribute == "" {
			return cc, fmt.Errorf("AttributeReference condition requires an attribute")
		}
		return cc, nil
	default:
		return cc, fmt.Errorf("unknown compound condition type %q", spec.Type)
	}

	p, err := ParsePattern(spec.Pattern)
	if err != nil {
		return cc, fmt.Errorf("condition %q: %w", spec.Type, err)
	}
	cc.pattern = p
	return cc, nil
}

func (c compiledCondition) eval(node *dom.Node, doc *dom.Document) bool {
	switch c.kind {
	case "textcontent":
		text := strings.TrimSpace(node.Text())
		if text == "" {
			return false
		}
		return c.pattern.Matches(text)

	case "attributevalue":
		value, ok := node.Attr(c.spec.Attribute)
		if !ok {
			return false
		}
		value = strings.TrimSpace(value)
		return value != "" && c.pattern.Matches(value)

	case "attributereference":
		value, ok := node.Attr(c.spec.Attribute)
		if !ok {
			return false
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return false
		}
		exists := false
		for _, other := range doc.Elements() {
			if id, ok := other.Attr("id"); ok && id == value {
				exists = true
				break
			}
		}
		return exists == c.spec.ReferenceMustExist
	}
	return false
}

// describe renders one line of the condition breakdown appended to
// compound findings.
func (c compiledCondition) describe(matched bool) string {
	status := "met"
	if !matched {
		status = "not met"
	}
	switch c.kind {
	case "textcontent":
		return fmt.Sprintf("  [%s] text content matches pattern", status)
	case "attributevalue":
		return fmt.Sprintf("  [%s] attribute %q matches pattern", status, c.spec.Attribute)
	default:
		polarity := "exists"
		if !c.spec.ReferenceMustExist {
			polarity = "does not exist"
		}
		return fmt.Sprintf("  [%s] attribute %q reference %s", status, c.spec.Attribute, polarity)
	}
}

// compoundMode is a compiled check mode: a pass predicate over the
// ordered boolean vector plus a failure explanation.
type compoundMode struct {
	name   string
	report func(v []bool) bool
	detail func(v []bool) string
}

// compileCompoundMode validates the mode's options once, before any
// element is evaluated. n is the condition count.
func compileCompoundMode(name string, opts lint.Options, n int) (*compoundMode, error) {
	switch name {
	case "all":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return countTrue(v) != len(v) },
			detail: func(v []bool) string {
				return fmt.Sprintf("only %d/%d conditions were satisfied; all must be met", countTrue(v), len(v))
			},
		}, nil

	case "any", "at_least_one":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return countTrue(v) == 0 },
			detail: func(v []bool) string {
				return fmt.Sprintf("none of the %d conditions were met; at least one must be satisfied", len(v))
			},
		}, nil

	case "none":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return countTrue(v) > 0 },
			detail: func(v []bool) string {
				return fmt.Sprintf("%d conditions matched where none should", countTrue(v))
			},
		}, nil

	case "exactly_one":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return countTrue(v) != 1 },
			detail: func(v []bool) string {
				return fmt.Sprintf("%d conditions matched where exactly 1 was expected", countTrue(v))
			},
		}, nil

	case "majority":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return countTrue(v) <= len(v)/2 },
			detail: func(v []bool) string {
				return fmt.Sprintf("only %d/%d conditions matched; more than half (%d) must match", countTrue(v), len(v), len(v)/2+1)
			},
		}, nil

	case "ratio":
		ratio, err := lint.RequireFloatOption(opts, "ratio")
		if err != nil {
			return nil, err
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return float64(countTrue(v)) < ratio*float64(len(v)) },
			detail: func(v []bool) string {
				return fmt.Sprintf("%d/%d conditions matched, below the required ratio %.2f", countTrue(v), len(v), ratio)
			},
		}, nil

	case "range":
		min, err := lint.RequireIntOption(opts, "min")
		if err != nil {
			return nil, err
		}
		max, err := lint.RequireIntOption(opts, "max")
		if err != nil {
			return nil, err
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { c := countTrue(v); return c < min || c > max },
			detail: func(v []bool) string {
				return fmt.Sprintf("%d conditions matched, outside the allowed range [%d, %d]", countTrue(v), min, max)
			},
		}, nil

	case "consecutive":
		count, err := lint.RequireIntOption(opts, "count")
		if err != nil {
			return nil, err
		}
		if count <= 0 {
			return nil, fmt.Errorf("consecutive count must be positive, got %d", count)
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return !hasRunOfExactly(v, count) },
			detail: func(v []bool) string {
				return fmt.Sprintf("no run of exactly %d consecutive matching conditions", count)
			},
		}, nil

	case "exclusive_groups":
		var groups map[string][]int
		if err := lint.DecodeOption(opts, "groups", &groups); err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return nil, fmt.Errorf("exclusive_groups requires a non-empty groups option")
		}
		for gname, members := range groups {
			for _, idx := range members {
				if idx < 0 || idx >= n {
					return nil, fmt.Errorf("group %q references condition index %d out of range", gname, idx)
				}
			}
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return !exactlyOneExclusiveGroup(v, groups) },
			detail: func(v []bool) string {
				return "exactly one group must have all conditions met and all other groups none"
			},
		}, nil

	case "weighted":
		var weights []float64
		if err := lint.DecodeOption(opts, "weights", &weights); err != nil {
			return nil, err
		}
		if len(weights) != n {
			return nil, fmt.Errorf("weights has %d entries for %d conditions", len(weights), n)
		}
		threshold, err := lint.RequireFloatOption(opts, "threshold")
		if err != nil {
			return nil, err
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return weightedSum(v, weights) < threshold },
			detail: func(v []bool) string {
				return fmt.Sprintf("total weight of matching conditions (%.2f) is below the threshold (%.2f)", weightedSum(v, weights), threshold)
			},
		}, nil

	case "dependency_chain":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return !isPrefixChain(v) },
			detail: func(v []bool) string {
				prefix := 0
				for _, b := range v {
					if !b {
						break
					}
					prefix++
				}
				return fmt.Sprintf("chain broken after %d conditions; matches must form an unbroken prefix", prefix)
			},
		}, nil

	case "alternating":
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return !isAlternating(v) },
			detail: func(v []bool) string {
				for i := 1; i < len(v); i++ {
					if v[i] == v[i-1] {
						return fmt.Sprintf("conditions %d and %d have the same outcome; results must alternate", i, i+1)
					}
				}
				return "results must alternate"
			},
		}, nil

	case "subset_match":
		var validSets [][]int
		if err := lint.DecodeOption(opts, "valid_sets", &validSets); err != nil {
			return nil, err
		}
		return &compoundMode{
			name:   name,
			report: func(v []bool) bool { return !matchesAnySet(trueIndices(v), validSets) },
			detail: func(v []bool) string {
				return fmt.Sprintf("matching set %v is not one of the valid combinations %v", trueIndices(v), validSets)
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown compound check mode %q", name)
	}
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}

func weightedSum(v []bool, weights []float64) float64 {
	total := 0.0
	for i, b := range v {
		if b {
			total += weights[i]
		}
	}
	return total
}

// hasRunOfExactly reports whether v contains a maximal run of true
// entries of exactly the given length.
func hasRunOfExactly(v []bool, count int) bool {
	if count <= 0 {
		return false
	}
	run := 0
	for i, b := range v {
		if b {
			run++
		}
		if !b || i == len(v)-1 {
			if run == count {
				return true
			}
			run = 0
		}
	}
	return false
}

// isPrefixChain reports whether the true entries form an unbroken prefix:
// once an entry is false, every later entry must be false too.
func isPrefixChain(v []bool) bool {
	seenFalse := false
	for _, b := range v {
		if !b {
			seenFalse = true
		} else if seenFalse {
			return false
		}
	}
	return true
}

func isAlternating(v []bool) bool {
	for i := 1; i < len(v); i++ {
		if v[i] == v[i-1] {
			return false
		}
	}
	return true
}

func exactlyOneExclusiveGroup(v []bool, groups map[string][]int) bool {
	full, touched := 0, 0
	for _, members := range groups {
		trues := 0
		for _, idx := range members {
			if v[idx] {
				trues++
			}
		}
		switch {
		case trues == len(members) && len(members) > 0:
			full++
		case trues > 0:
			touched++
		}
	}
	return full == 1 && touched == 0
}

func trueIndices(v []bool) []int {
	var out []int
	for i, b := range v {
		if b {
			out = append(out, i)
		}
	}
	return out
}

// matchesAnySet reports whether current equals one of the valid sets as
// an unordered set of indices.
func matchesAnySet(current []int, validSets [][]int) bool {
	for _, set := range validSets {
		if sameIndexSet(current, set) {
			return true
		}
	}
	return false
}

func sameIndexSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// checkCompound handles the compound rule type: each matched element
// yields an ordered boolean vector, one entry per sub-condition, and the
// check mode decides whether that vector is a violation. Mode options are
// validated once per evaluation, before any element is considered.
func (l *Linter) checkCompound(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	var specs []CompoundCondition
	if err := lint.DecodeOption(cr.rule.Options, "conditions", &specs); err != nil {
		return nil, err
	}

	conditions := make([]compiledCondition, len(specs))
	for i, spec := range specs {
		cc, err := compileCondition(spec)
		if err != nil {
			return nil, err
		}
		conditions[i] = cc
	}

	modeName := lint.GetStringOption(cr.rule.Options, "check_mode", "all")
	mode, err := compileCompoundMode(modeName, cr.rule.Options, len(conditions))
	if err != nil {
		return nil, err
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		v := make([]bool, len(conditions))
		for i := range conditions {
			v[i] = conditions[i].eval(node, doc)
		}
		if !mode.report(v) {
			continue
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s - %s", cr.rule.Message, mode.detail(v))
		if len(conditions) > 0 {
			sb.WriteString("\ncondition details:")
			for i, cc := range conditions {
				sb.WriteString("\n")
				sb.WriteString(cc.describe(v[i]))
			}
		}
		results = append(results, findingWithMessage(cr.rule, node, sb.String()))
	}
	return results, nil
}

func normalizeVariant(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "_", ""), "-", ""))
}
