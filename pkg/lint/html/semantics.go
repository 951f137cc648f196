package html

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// semanticKeywords maps class-name keywords to the semantic element that
// should be used instead of a generic container.
var semanticKeywords = []struct {
	keyword string
	tag     string
}{
	{"navigation", "nav"},
	{"header", "header"},
	{"footer", "footer"},
	{"sidebar", "aside"},
	{"aside", "aside"},
	{"article", "article"},
	{"main", "main"},
	{"nav", "nav"},
	{"button", "button"},
}

// genericContainers are the tags the semantics checks consider
// non-semantic wrappers.
var genericContainers = map[string]bool{"div": true, "span": true}

// checkSemantics handles the semantics rule type.
//
//	semantic-structure: a generic container whose class contains a
//	                    recognized semantic keyword (case-insensitive
//	                    substring) suggests the corresponding element
//	semantic-buttons:   div/span with onclick or role=button
//	semantic-tables:    table without th headers or a caption
func (l *Linter) checkSemantics(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	switch cr.rule.Condition {
	case "semantic-structure":
		return l.checkSemanticStructure(cr, doc), nil
	case "semantic-buttons":
		return l.checkSemanticButtons(cr, doc), nil
	case "semantic-tables":
		return l.checkSemanticTables(cr, doc), nil
	default:
		return nil, fmt.Errorf("unknown semantics condition %q", cr.rule.Condition)
	}
}

func (l *Linter) checkSemanticStructure(cr *compiledRule, doc *dom.Document) []lint.Finding {
	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		if !genericContainers[node.Tag] {
			continue
		}
		class, ok := node.Attr("class")
		if !ok {
			continue
		}
		lower := strings.ToLower(class)
		for _, kw := range semanticKeywords {
			if strings.Contains(lower, kw.keyword) {
				msg := fmt.Sprintf("%s (class %q suggests <%s>)", cr.rule.Message, class, kw.tag)
				results = append(results, findingWithMessage(cr.rule, node, msg))
				break
			}
		}
	}
	return results
}

func (l *Linter) checkSemanticButtons(cr *compiledRule, doc *dom.Document) []lint.Finding {
	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		if !genericContainers[node.Tag] {
			continue
		}
		role, _ := node.Attr("role")
		if node.HasAttr("onclick") || role == "button" {
			msg := fmt.Sprintf("%s (use <button> instead of <%s>)", cr.rule.Message, node.Tag)
			results = append(results, findingWithMessage(cr.rule, node, msg))
		}
	}
	return results
}

func (l *Linter) checkSemanticTables(cr *compiledRule, doc *dom.Document) []lint.Finding {
	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		if node.Tag != "table" {
			continue
		}
		hasHeaders := len(collectDescendants(node, "th")) > 0
		hasCaption := len(collectDescendants(node, "caption")) > 0
		if hasHeaders && hasCaption {
			continue
		}

		var missing string
		switch {
		case !hasHeaders && !hasCaption:
			missing = "headers (th) and caption"
		case !hasHeaders:
			missing = "headers (th)"
		default:
			missing = "caption"
		}
		msg := fmt.Sprintf("%s (missing %s)", cr.rule.Message, missing)
		results = append(results, findingWithMessage(cr.rule, node, msg))
	}
	return results
}
