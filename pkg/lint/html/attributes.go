package html

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// checkAttributeValue handles the attribute-value rule type. The default
// condition tests options.attribute against options.pattern under
// options.check_mode; the attribute option is mandatory. A missing
// attribute counts as a non-match, so ensure_existence reports it.
//
// Two conditions bypass the pattern path: `unique-id` (duplicate id
// values among the matches) and `positive-number` (tabindex greater
// than zero).
func (l *Linter) checkAttributeValue(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	switch cr.rule.Condition {
	case "unique-id":
		return l.checkUniqueIDs(cr, doc), nil
	case "positive-number":
		return l.checkPositiveTabindex(cr, doc), nil
	}

	attr, err := lint.RequireStringOption(cr.rule.Options, "attribute")
	if err != nil {
		return nil, err
	}
	rawPattern, err := lint.RequireOption(cr.rule.Options, "pattern")
	if err != nil {
		return nil, err
	}
	pattern, err := ParsePattern(rawPattern)
	if err != nil {
		return nil, err
	}
	mode, err := ParseCheckMode(lint.GetStringOption(cr.rule.Options, "check_mode", ""))
	if err != nil {
		return nil, err
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		value, ok := node.Attr(attr)
		matched := ok && pattern.Matches(value)
		if mode.ShouldReport(matched) {
			results = append(results, finding(cr.rule, node))
		}
	}
	return results, nil
}

func (l *Linter) checkUniqueIDs(cr *compiledRule, doc *dom.Document) []lint.Finding {
	var results []lint.Finding
	seen := make(map[string]bool)
	for _, node := range cr.sel.Select(doc) {
		id, ok := node.Attr("id")
		if !ok || id == "" {
			continue
		}
		if seen[id] {
			msg := fmt.Sprintf("%s (duplicate id %q)", cr.rule.Message, id)
			results = append(results, findingWithMessage(cr.rule, node, msg))
		}
		seen[id] = true
	}
	return results
}

func (l *Linter) checkPositiveTabindex(cr *compiledRule, doc *dom.Document) []lint.Finding {
	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		value, ok := node.Attr("tabindex")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			results = append(results, finding(cr.rule, node))
		}
	}
	return results
}

// checkAttributeQuotes handles the attribute-quotes rule type: one
// finding per attribute whose original quote character differs from
// options.style ("single" or "double", default double). Unquoted values
// never report.
func (l *Linter) checkAttributeQuotes(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	style := lint.GetStringOption(cr.rule.Options, "style", "double")

	var wrong byte
	switch style {
	case "double":
		wrong = '\''
	case "single":
		wrong = '"'
	default:
		return nil, fmt.Errorf("unknown quote style %q", style)
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		for _, attr := range node.Attrs {
			if attr.Quote == wrong {
				msg := fmt.Sprintf("%s (expected %s quotes)", cr.rule.Message, style)
				results = append(results, findingWithMessage(cr.rule, node, msg))
			}
		}
	}
	return results, nil
}
