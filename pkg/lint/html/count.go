package html

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// checkElementCount handles the element-count rule type: the number of
// selector matches is compared against options.max and/or options.min. At
// least one bound must be configured. An over-max finding anchors at the
// first element past the limit; an under-min finding anchors at the
// document start since there is no offending element to point at.
func (l *Linter) checkElementCount(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	_, hasMax := cr.rule.Options["max"]
	_, hasMin := cr.rule.Options["min"]
	if !hasMax && !hasMin {
		return nil, fmt.Errorf("element-count requires a max or min option")
	}

	matches := cr.sel.Select(doc)
	actual := len(matches)

	var results []lint.Finding
	if hasMax {
		max, err := lint.RequireIntOption(cr.rule.Options, "max")
		if err != nil {
			return nil, err
		}
		if max < 0 {
			return nil, fmt.Errorf("element-count max must not be negative, got %d", max)
		}
		if actual > max {
			msg := fmt.Sprintf("%s (found %d, maximum %d)", cr.rule.Message, actual, max)
			results = append(results, findingWithMessage(cr.rule, matches[max], msg))
		}
	}
	if hasMin {
		min, err := lint.RequireIntOption(cr.rule.Options, "min")
		if err != nil {
			return nil, err
		}
		if min < 0 {
			return nil, fmt.Errorf("element-count min must not be negative, got %d", min)
		}
		if actual < min {
			msg := fmt.Sprintf("%s (found %d, minimum %d)", cr.rule.Message, actual, min)
			results = append(results, findingAtStart(cr.rule, msg))
		}
	}
	return results, nil
}

// checkElementCase handles the element-case rule type over the raw
// lexical view: one finding per element whose original tag or attribute
// names violate options.style ("lowercase" or "uppercase", default
// lowercase). All offending attribute names on an element are coalesced
// into that element's single finding rather than reported one by one;
// the message lists them alongside the tag when it violates too.
func (l *Linter) checkElementCase(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	style := lint.GetStringOption(cr.rule.Options, "style", "lowercase")

	var violates func(string) bool
	switch style {
	case "lowercase":
		violates = func(s string) bool { return strings.ContainsFunc(s, unicode.IsUpper) }
	case "uppercase":
		violates = func(s string) bool { return strings.ContainsFunc(s, unicode.IsLower) }
	default:
		return nil, fmt.Errorf("unknown case style %q", style)
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		badTag := violates(node.RawTag)

		var badAttrs []string
		for _, attr := range node.Attrs {
			if violates(attr.RawName) {
				badAttrs = append(badAttrs, attr.RawName)
			}
		}

		if !badTag && len(badAttrs) == 0 {
			continue
		}
		msg := cr.rule.Message
		if badTag {
			msg += fmt.Sprintf(" (element: %s)", node.RawTag)
		}
		if len(badAttrs) > 0 {
			msg += fmt.Sprintf(" (attributes: %s)", strings.Join(badAttrs, ", "))
		}
		results = append(results, findingWithMessage(cr.rule, node, msg))
	}
	return results, nil
}
