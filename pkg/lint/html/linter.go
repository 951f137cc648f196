// Package html evaluates declarative lint rules against parsed HTML
// documents. A Linter is built once from a rule set and linter options,
// compiles every selector eagerly, and may then lint any number of
// documents concurrently.
package html

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// Linter holds an immutable rule set and the linter-wide options. All
// selector compilation happens in New, so concurrent Lint calls share
// only read-only state.
type Linter struct {
	rules  []compiledRule
	opts   lint.LinterOptions
	ignore []func(name string) bool
}

type compiledRule struct {
	rule lint.Rule
	sel  *Selector
	// err records a selector compilation failure. The rule then fails
	// closed: it contributes one configuration-error finding per lint
	// and never silently matches nothing.
	err error
}

// New builds a linter from a rule set. Rules are evaluated in the order
// given. Selector aliases from the options are resolved before
// compilation.
func New(rules []lint.Rule, opts lint.LinterOptions) *Linter {
	l := &Linter{opts: opts}

	for _, pattern := range opts.IgnoreRules {
		if re, err := regexp.Compile(pattern); err == nil {
			l.ignore = append(l.ignore, re.MatchString)
		} else {
			p := pattern
			l.ignore = append(l.ignore, func(name string) bool { return name == p })
		}
	}

	for _, r := range rules {
		cr := compiledRule{rule: r}
		selector := r.Selector
		if alias, ok := opts.SelectorAliases[selector]; ok {
			selector = alias
		}
		if selector == "" && !needsSelector(r.Type) {
			selector = "*"
		}
		cr.sel, cr.err = CompileSelector(selector)
		l.rules = append(l.rules, cr)
	}
	return l
}

// needsSelector reports whether the rule type selects elements at all.
// Document-structure and white-space rules operate on the document, so an
// omitted selector defaults to the wildcard instead of failing.
func needsSelector(t lint.RuleType) bool {
	return t != lint.DocumentStructure && t != lint.WhiteSpace
}

// Rules returns a copy of the rule set.
func (l *Linter) Rules() []lint.Rule {
	out := make([]lint.Rule, len(l.rules))
	for i, cr := range l.rules {
		out[i] = cr.rule
	}
	return out
}

// Options returns the linter-wide options.
func (l *Linter) Options() lint.LinterOptions { return l.opts }

// Lint parses src and evaluates every rule against it. It returns an
// error only when the document itself cannot be consumed; rule-level
// problems surface as Error-severity findings instead.
func (l *Linter) Lint(src string) ([]lint.Finding, error) {
	doc, err := dom.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return l.LintDocument(doc), nil
}

// LintDocument evaluates every rule against an already-parsed document.
// Findings keep rule order first, each rule's internal (document) order
// second; repeated calls with the same inputs yield identical output.
func (l *Linter) LintDocument(doc *dom.Document) []lint.Finding {
	var results []lint.Finding

	for i := range l.rules {
		cr := &l.rules[i]
		if l.ignoreRule(cr.rule.Name) {
			continue
		}
		if cr.err != nil {
			results = append(results, configFinding(cr.rule, cr.err))
			continue
		}
		findings, err := l.evaluate(cr, doc)
		if err != nil {
			// Configuration and pattern errors are scoped to the
			// offending rule; other rules keep running.
			results = append(results, configFinding(cr.rule, err))
			continue
		}
		results = append(results, findings...)
	}
	return results
}

func (l *Linter) ignoreRule(name string) bool {
	for _, match := range l.ignore {
		if match(name) {
			return true
		}
	}
	return false
}

func (l *Linter) evaluate(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	switch cr.rule.Type {
	case lint.ElementPresence:
		return l.checkElementPresence(cr, doc)
	case lint.AttributePresence:
		return l.checkAttributePresence(cr, doc)
	case lint.AttributeValue:
		return l.checkAttributeValue(cr, doc)
	case lint.ElementOrder:
		return l.checkElementOrder(cr, doc)
	case lint.TextContent:
		return l.checkTextContent(cr, doc)
	case lint.ElementContent:
		return l.checkElementContent(cr, doc)
	case lint.WhiteSpace:
		return l.checkWhiteSpace(cr, doc)
	case lint.Nesting:
		return l.checkNesting(cr, doc)
	case lint.Semantics:
		return l.checkSemantics(cr, doc)
	case lint.Compound:
		return l.checkCompound(cr, doc)
	case lint.Custom:
		return l.checkCustom(cr, doc)
	case lint.DocumentStructure:
		return l.checkDocumentStructure(cr, doc)
	case lint.ElementCount:
		return l.checkElementCount(cr, doc)
	case lint.ElementCase:
		return l.checkElementCase(cr, doc)
	case lint.AttributeQuotes:
		return l.checkAttributeQuotes(cr, doc)
	default:
		return nil, fmt.Errorf("unknown rule type %q", cr.rule.Type)
	}
}

// finding builds the standard finding for a rule violation at a node.
func finding(rule lint.Rule, node *dom.Node) lint.Finding {
	return findingWithMessage(rule, node, rule.Message)
}

func findingWithMessage(rule lint.Rule, node *dom.Node, message string) lint.Finding {
	return lint.Finding{
		RuleName: rule.Name,
		Severity: rule.Severity,
		Message:  message,
		Location: lint.Location{
			Line:    node.Line,
			Column:  node.Col,
			Element: node.Tag,
		},
		Snippet: node.Snippet,
	}
}

// findingAtStart anchors a finding at the top of the document, used when
// a violation has no element to point at (missing doctype, zero matches
// for a required element).
func findingAtStart(rule lint.Rule, message string) lint.Finding {
	return lint.Finding{
		RuleName: rule.Name,
		Severity: rule.Severity,
		Message:  message,
		Location: lint.Location{Line: 1, Column: 1},
	}
}

// configFinding is the synthetic Error-severity finding for a rule that
// cannot be evaluated. Severity is forced to Error regardless of the
// rule's own severity.
func configFinding(rule lint.Rule, err error) lint.Finding {
	return lint.Finding{
		RuleName: rule.Name,
		Severity: lint.SeverityError,
		Message:  fmt.Sprintf("configuration error: %v", err),
		Location: lint.Location{Line: 1, Column: 1},
	}
}
