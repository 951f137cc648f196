package html

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// checkElementOrder handles the element-order rule type with the
// `sequential-order` condition. Each matched element gets a numeric rank
// (its heading level for h1..h6, otherwise one plus its tag's position
// in the selector's alternative list) and a finding is raised whenever a
// rank exceeds its predecessor's by more than one. Decreases never
// report: closing a section and starting a new h2 is fine.
func (l *Linter) checkElementOrder(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	if cr.rule.Condition != "sequential-order" {
		return nil, fmt.Errorf("unknown element-order condition %q", cr.rule.Condition)
	}

	ranks := make(map[string]int)
	for i, tag := range cr.sel.Tags() {
		if _, ok := ranks[tag]; !ok {
			ranks[tag] = i + 1
		}
	}

	var results []lint.Finding
	prev := 0
	for _, node := range cr.sel.Select(doc) {
		rank, ok := rankOf(node.Tag, ranks)
		if !ok {
			continue
		}
		if prev > 0 && rank > prev+1 {
			msg := fmt.Sprintf("%s (rank jumped from %d to %d at <%s>)", cr.rule.Message, prev, rank, node.Tag)
			results = append(results, findingWithMessage(cr.rule, node, msg))
		}
		prev = rank
	}
	return results, nil
}

func rankOf(tag string, ranks map[string]int) (int, bool) {
	if level, ok := headingLevel(tag); ok {
		return level, true
	}
	rank, ok := ranks[tag]
	return rank, ok
}

func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0, false
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n, true
}

// checkNesting handles the nesting rule type with the
// `parent-label-or-for` condition: a matched element passes when it has a
// label ancestor or when some label elsewhere references its id through a
// `for` attribute.
func (l *Linter) checkNesting(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	if cr.rule.Condition != "parent-label-or-for" {
		return nil, fmt.Errorf("unknown nesting condition %q", cr.rule.Condition)
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		if hasAncestorTag(node, "label") || hasMatchingLabel(node, doc) {
			continue
		}
		results = append(results, finding(cr.rule, node))
	}
	return results, nil
}

func hasAncestorTag(node *dom.Node, tag string) bool {
	found := false
	node.Ancestors(func(p *dom.Node) bool {
		if p.Tag == tag {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasMatchingLabel(node *dom.Node, doc *dom.Document) bool {
	id, ok := node.Attr("id")
	if !ok || id == "" {
		return false
	}
	for _, other := range doc.Elements() {
		if other.Tag != "label" {
			continue
		}
		if v, ok := other.Attr("for"); ok && v == id {
			return true
		}
	}
	return false
}

// checkDocumentStructure handles the document-structure rule type with
// the `doctype-present` condition, using the doctype flag reported by the
// document model.
func (l *Linter) checkDocumentStructure(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	if cr.rule.Condition != "doctype-present" {
		return nil, fmt.Errorf("unknown document-structure condition %q", cr.rule.Condition)
	}
	if doc.HasDoctype {
		return nil, nil
	}
	return []lint.Finding{findingAtStart(cr.rule, cr.rule.Message)}, nil
}
