package html

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaphtml/pkg/dom"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// checkTextContent handles the text-content rule type. The default
// condition evaluates options.pattern under options.check_mode against
// the concatenated text of each match. The `max-length` and
// `content-length` conditions bound the text length directly.
func (l *Linter) checkTextContent(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	matches := cr.sel.Select(doc)

	switch cr.rule.Condition {
	case "max-length":
		maxLen := lint.GetIntOption(cr.rule.Options, "max_length", 80)
		var results []lint.Finding
		for _, node := range matches {
			if len([]rune(node.Text())) > maxLen {
				results = append(results, finding(cr.rule, node))
			}
		}
		return results, nil

	case "content-length":
		minLen := lint.GetIntOption(cr.rule.Options, "min_length", 0)
		maxLen := lint.GetIntOption(cr.rule.Options, "max_length", int(^uint(0)>>1))
		var results []lint.Finding
		for _, node := range matches {
			n := len([]rune(node.Text()))
			if n < minLen || n > maxLen {
				results = append(results, finding(cr.rule, node))
			}
		}
		return results, nil

	default:
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
		for _, node := range matches {
			if mode.ShouldReport(pattern.Matches(node.Text())) {
				results = append(results, finding(cr.rule, node))
			}
		}
		return results, nil
	}
}

// MetaTagRequirement describes one required or constrained meta tag.
// The tag is identified by its name or property attribute; its content
// attribute must satisfy Pattern.
type MetaTagRequirement struct {
	Name     string `mapstructure:"name"`
	Property string `mapstructure:"property"`
	Pattern  any    `mapstructure:"pattern"`
	Required bool   `mapstructure:"required"`
}

func (r MetaTagRequirement) key() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Property
}

// matchesKey reports whether the meta element is identified by this
// requirement.
func (r MetaTagRequirement) matchesKey(meta *dom.Node) bool {
	if r.Name != "" {
		if v, ok := meta.Attr("name"); ok && v == r.Name {
			return true
		}
	}
	if r.Property != "" {
		if v, ok := meta.Attr("property"); ok && v == r.Property {
			return true
		}
	}
	return false
}

// checkElementContent handles the element-content rule type.
//
// The `meta-tags` condition checks each matched element's meta children
// against options.required_meta_tags: a "missing" finding at the matched
// element when a required key is absent, a "mismatch" finding at the meta
// element whose content fails the pattern.
//
// The `empty-or-default` condition reports elements whose text is empty
// or a placeholder ("Untitled", "Default").
func (l *Linter) checkElementContent(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	matches := cr.sel.Select(doc)

	switch cr.rule.Condition {
	case "meta-tags":
		var reqs []MetaTagRequirement
		if err := lint.DecodeOption(cr.rule.Options, "required_meta_tags", &reqs); err != nil {
			return nil, err
		}
		patterns := make([]*Pattern, len(reqs))
		for i, req := range reqs {
			p, err := ParsePattern(req.Pattern)
			if err != nil {
				return nil, fmt.Errorf("meta tag %q: %w", req.key(), err)
			}
			patterns[i] = p
		}

		var results []lint.Finding
		for _, node := range matches {
			results = append(results, l.checkMetaTags(cr.rule, node, reqs, patterns)...)
		}
		return results, nil

	case "empty-or-default":
		var results []lint.Finding
		for _, node := range matches {
			text := strings.TrimSpace(node.Text())
			if text == "" || text == "Untitled" || text == "Default" {
				results = append(results, finding(cr.rule, node))
			}
		}
		return results, nil

	default:
		return nil, fmt.Errorf("unknown element-content condition %q", cr.rule.Condition)
	}
}

func (l *Linter) checkMetaTags(rule lint.Rule, parent *dom.Node, reqs []MetaTagRequirement, patterns []*Pattern) []lint.Finding {
	metas := collectDescendants(parent, "meta")

	var results []lint.Finding
	for i, req := range reqs {
		var found []*dom.Node
		for _, meta := range metas {
			if req.matchesKey(meta) {
				found = append(found, meta)
			}
		}

		if len(found) == 0 {
			if req.Required {
				msg := fmt.Sprintf("%s (missing meta tag %q)", rule.Message, req.key())
				results = append(results, findingWithMessage(rule, parent, msg))
			}
			continue
		}

		valid := false
		for _, meta := range found {
			content, _ := meta.Attr("content")
			if patterns[i].Matches(content) {
				valid = true
				break
			}
		}
		if !valid {
			msg := fmt.Sprintf("%s (meta tag %q content mismatch)", rule.Message, req.key())
			results = append(results, findingWithMessage(rule, found[0], msg))
		}
	}
	return results
}

func collectDescendants(n *dom.Node, tag string) []*dom.Node {
	var out []*dom.Node
	for _, c := range n.Children {
		if c.Type != dom.ElementNode {
			continue
		}
		if c.Tag == tag {
			out = append(out, c)
		}
		out = append(out, collectDescendants(c, tag)...)
	}
	return out
}

// checkWhiteSpace handles the white-space rule type over the raw source
// lines.
//
//	line-length:         one finding per line longer than
//	                     options.max_line_length (fallback:
//	                     LinterOptions.MaxLineLength)
//	trailing-whitespace: one finding per line with trailing spaces/tabs
func (l *Linter) checkWhiteSpace(cr *compiledRule, doc *dom.Document) ([]lint.Finding, error) {
	switch cr.rule.Condition {
	case "line-length":
		maxLen := lint.GetIntOption(cr.rule.Options, "max_line_length", l.opts.MaxLineLength)
		if maxLen <= 0 {
			return nil, fmt.Errorf("max_line_length not configured (set the rule option or the linter default)")
		}
		var results []lint.Finding
		for i, line := range doc.Lines {
			length := len([]rune(line))
			if length > maxLen {
				results = append(results, lint.Finding{
					RuleName: cr.rule.Name,
					Severity: cr.rule.Severity,
					Message:  fmt.Sprintf("%s (line is %d characters, limit %d)", cr.rule.Message, length, maxLen),
					Location: lint.Location{Line: i + 1, Column: length + 1},
					Snippet:  line,
				})
			}
		}
		return results, nil

	case "trailing-whitespace":
		var results []lint.Finding
		for i, line := range doc.Lines {
			trimmed := strings.TrimRight(line, " \t")
			if len(trimmed) != len(line) {
				results = append(results, lint.Finding{
					RuleName: cr.rule.Name,
					Severity: cr.rule.Severity,
					Message:  cr.rule.Message,
					Location: lint.Location{Line: i + 1, Column: len(trimmed) + 1},
					Snippet:  line,
				})
			}
		}
		return results, nil

	default:
		return nil, fmt.Errorf("unknown white-space condition %q", cr.rule.Condition)
	}
}
