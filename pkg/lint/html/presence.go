package html

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// checkElementPresence handles the element-presence rule type.
//
//	required:  one finding when the selector matches nothing
//	forbidden: one finding per match
func (l *Linter) checkElementPresence(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	matches := cr.sel.Select(doc)

	switch cr.rule.Condition {
	case "required":
		if len(matches) == 0 {
			msg := fmt.Sprintf("%s (no element matches %q)", cr.rule.Message, cr.rule.Selector)
			return []lint.Finding{findingAtStart(cr.rule, msg)}, nil
		}
		return nil, nil
	case "forbidden":
		var results []lint.Finding
		for _, node := range matches {
			results = append(results, finding(cr.rule, node))
		}
		return results, nil
	default:
		return nil, fmt.Errorf("unknown element-presence condition %q", cr.rule.Condition)
	}
}

// checkAttributePresence handles the attribute-presence rule type. The
// condition encodes the attribute and polarity by convention:
// `<attr>-missing` reports elements lacking the attribute,
// `<attr>-forbidden` reports elements carrying it. Two conditions carry
// over from the original rule format: `style-attribute` (suppressed when
// LinterOptions.AllowInlineStyles is set) and `duplicate-attributes`.
func (l *Linter) checkAttributePresence(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	var results []lint.Finding

	for _, node := range cr.sel.Select(doc) {
		report := false
		message := cr.rule.Message

		switch {
		case cr.rule.Condition == "style-attribute":
			report = !l.opts.AllowInlineStyles && node.HasAttr("style")

		case cr.rule.Condition == "duplicate-attributes":
			dups := node.DuplicateAttrs()
			if len(dups) > 0 {
				report = true
				var parts []string
				for _, d := range dups {
					parts = append(parts, fmt.Sprintf("%s (%d×)", d.Name, d.Count))
				}
				message = fmt.Sprintf("%s (duplicates: %s)", cr.rule.Message, strings.Join(parts, ", "))
			}

		default:
			attr, missing := strings.CutSuffix(cr.rule.Condition, "-missing")
			if missing && attr != "" {
				report = !node.HasAttr(strings.ToLower(attr))
				break
			}
			attr, forbidden := strings.CutSuffix(cr.rule.Condition, "-forbidden")
			if forbidden && attr != "" {
				report = node.HasAttr(strings.ToLower(attr))
				break
			}
			return nil, fmt.Errorf("unknown attribute-presence condition %q", cr.rule.Condition)
		}

		if report {
			results = append(results, findingWithMessage(cr.rule, node, message))
		}
	}
	return results, nil
}
