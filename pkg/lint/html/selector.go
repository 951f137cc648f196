package html

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
)

// Selector is a compiled restricted selector: comma-separated
// alternatives, each a tag name or `*` with at most one bracketed
// attribute predicate. An element matches when any alternative matches.
//
// Deliberately not a CSS engine: no combinators, no classes or
// pseudo-classes. The grammar covers exactly what rule selectors need.
type Selector struct {
	alts []selectorAlt
}

type selectorAlt struct {
	tag      string // lowercase; "*" matches any tag
	attr     string // empty when no predicate
	hasValue bool
	value    string
}

// CompileSelector parses a selector string such as `h1, h2`, `*`,
// `input[type='email']` or `[id="main"]`.
func CompileSelector(s string) (*Selector, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty selector")
	}

	var alts []selectorAlt
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty selector alternative in %q", s)
		}
		alt, err := compileAlternative(part)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", s, err)
		}
		alts = append(alts, alt)
	}
	return &Selector{alts: alts}, nil
}

func compileAlternative(part string) (selectorAlt, error) {
	alt := selectorAlt{tag: "*"}

	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsAny(part, "]='\"") {
			return alt, fmt.Errorf("malformed alternative %q", part)
		}
		alt.tag = strings.ToLower(part)
		return alt, nil
	}

	if open > 0 {
		tag := strings.TrimSpace(part[:open])
		if strings.ContainsAny(tag, "]='\"") {
			return alt, fmt.Errorf("malformed tag in %q", part)
		}
		alt.tag = strings.ToLower(tag)
	}

	rest := part[open+1:]
	close := strings.IndexByte(rest, ']')
	if close < 0 {
		return alt, fmt.Errorf("unbalanced bracket in %q", part)
	}
	if trailing := strings.TrimSpace(rest[close+1:]); trailing != "" {
		return alt, fmt.Errorf("unexpected %q after predicate in %q", trailing, part)
	}

	pred := strings.TrimSpace(rest[:close])
	if pred == "" {
		return alt, fmt.Errorf("empty attribute predicate in %q", part)
	}

	if eq := strings.IndexByte(pred, '='); eq >= 0 {
		name := strings.TrimSpace(pred[:eq])
		if name == "" {
			return alt, fmt.Errorf("empty attribute name in %q", part)
		}
		value := strings.TrimSpace(pred[eq+1:])
		value = trimQuotes(value)
		alt.attr = strings.ToLower(name)
		alt.hasValue = true
		alt.value = value
	} else {
		alt.attr = strings.ToLower(pred)
	}
	return alt, nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Matches reports whether the element satisfies any alternative. Tag
// comparison is case-insensitive (tags are stored lowercase); attribute
// predicates require the attribute to exist and, when a value is given,
// to equal it exactly.
func (s *Selector) Matches(n *dom.Node) bool {
	for _, alt := range s.alts {
		if alt.matches(n) {
			return true
		}
	}
	return false
}

func (a selectorAlt) matches(n *dom.Node) bool {
	if a.tag != "*" && a.tag != n.Tag {
		return false
	}
	if a.attr == "" {
		return true
	}
	v, ok := n.Attr(a.attr)
	if !ok {
		return false
	}
	return !a.hasValue || v == a.value
}

// Tags returns the tag names of the alternatives in listed order,
// excluding wildcards. Element-order rules derive ranks from this list.
func (s *Selector) Tags() []string {
	var tags []string
	for _, alt := range s.alts {
		if alt.tag != "*" {
			tags = append(tags, alt.tag)
		}
	}
	return tags
}

// Select returns the document's matching elements in document order.
func (s *Selector) Select(doc *dom.Document) []*dom.Node {
	var out []*dom.Node
	for _, n := range doc.Elements() {
		if s.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}
