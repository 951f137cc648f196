package html

import (
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// CustomValidator is a named predicate over a single matched element.
// It returns whether to report and a detail string appended to the rule
// message.
type CustomValidator func(node *dom.Node, doc *dom.Document) (report bool, detail string)

// validatorRegistry is the closed set of custom checks. Custom rules name
// an entry; unknown names are a configuration error rather than a silent
// no-op.
var validatorRegistry = struct {
	mu         sync.RWMutex
	validators map[string]CustomValidator
}{
	validators: make(map[string]CustomValidator),
}

// RegisterValidator adds a named validator. Call from init functions.
func RegisterValidator(name string, v CustomValidator) {
	validatorRegistry.mu.Lock()
	defer validatorRegistry.mu.Unlock()
	validatorRegistry.validators[name] = v
}

// LookupValidator returns a registered validator by name.
func LookupValidator(name string) (CustomValidator, bool) {
	validatorRegistry.mu.RLock()
	defer validatorRegistry.mu.RUnlock()
	v, ok := validatorRegistry.validators[name]
	return v, ok
}

// ValidatorNames returns the registered validator names, unsorted.
func ValidatorNames() []string {
	validatorRegistry.mu.RLock()
	defer validatorRegistry.mu.RUnlock()
	names := make([]string, 0, len(validatorRegistry.validators))
	for name := range validatorRegistry.validators {
		names = append(names, name)
	}
	return names
}

func init() {
	RegisterValidator("no-empty-links", noEmptyLinks)
	RegisterValidator("no-empty-headings", noEmptyHeadings)
}

// noEmptyLinks reports anchor elements with no text of their own or of
// any descendant, unless an aria-label or aria-labelledby provides an
// accessible name.
func noEmptyLinks(node *dom.Node, _ *dom.Document) (bool, string) {
	if node.Tag != "a" {
		return false, ""
	}
	if strings.TrimSpace(node.Text()) != "" {
		return false, ""
	}
	if node.HasAttr("aria-label") || node.HasAttr("aria-labelledby") {
		return false, ""
	}
	return true, "link has no content; links need text or an accessible name to describe their purpose"
}

// noEmptyHeadings reports h1..h6 elements with no text content.
func noEmptyHeadings(node *dom.Node, _ *dom.Document) (bool, string) {
	if _, ok := headingLevel(node.Tag); !ok {
		return false, ""
	}
	if strings.TrimSpace(node.Text()) != "" {
		return false, ""
	}
	return true, fmt.Sprintf("heading <%s> has no content; headings need text to maintain document structure", node.Tag)
}

// checkCustom handles the custom rule type: the rule's condition names a
// registered validator applied to each matched element.
func (l *Linter) checkCustom(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	validator, ok := LookupValidator(cr.rule.Condition)
	if !ok {
		return nil, fmt.Errorf("unknown custom validator %q", cr.rule.Condition)
	}

	var results []lint.Finding
	for _, node := range cr.sel.Select(doc) {
		report, detail := validator(node, doc)
		if !report {
			continue
		}
		msg := cr.rule.Message
		if detail != "" {
			msg = fmt.Sprintf("%s - %s", msg, detail)
		}
		results = append(results, findingWithMessage(cr.rule, node, msg))
	}
	return results, nil
}
