package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// applyLexicalFacts fills the node's normalized attribute list from the
// tokenizer's decoded attributes and overlays the raw facts (original tag
// casing, original attribute casing, quote characters) recovered by
// scanning the start-tag bytes as they appear in the source. The
// tokenizer emits attributes in source order with duplicates preserved,
// so the two views zip by index.
func applyLexicalFacts(node *Node, raw string, attrs []html.Attribute) {
	rawTag, rawAttrs := scanRawTag(raw)
	node.RawTag = rawTag
	if node.RawTag == "" {
		node.RawTag = node.Tag
	}

	node.Attrs = make([]Attr, len(attrs))
	for i, a := range attrs {
		node.Attrs[i] = Attr{
			Name:    strings.ToLower(a.Key),
			Value:   a.Val,
			RawName: a.Key,
		}
		if i < len(rawAttrs) {
			node.Attrs[i].RawName = rawAttrs[i].name
			node.Attrs[i].Quote = rawAttrs[i].quote
		}
	}
}

type rawAttr struct {
	name  string
	quote byte
}

// scanRawTag recovers the original tag name and per-attribute casing and
// quote characters from the raw bytes of a start tag, e.g.
// `<IMG SRC='a.png' alt=x>`.
func scanRawTag(raw string) (string, []rawAttr) {
	pos := 0
	n := len(raw)

	for pos < n && raw[pos] != '<' {
		pos++
	}
	if pos >= n {
		return "", nil
	}
	pos++

	start := pos
	for pos < n && !isSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
		pos++
	}
	tag := string(raw[start:pos])

	var attrs []rawAttr
	for pos < n {
		for pos < n && (isSpace(raw[pos]) || raw[pos] == '/') {
			pos++
		}
		if pos >= n || raw[pos] == '>' {
			break
		}

		start = pos
		for pos < n && !isSpace(raw[pos]) && raw[pos] != '=' && raw[pos] != '>' && raw[pos] != '/' {
			pos++
		}
		if start == pos {
			break
		}
		attr := rawAttr{name: string(raw[start:pos])}

		for pos < n && isSpace(raw[pos]) {
			pos++
		}
		if pos < n && raw[pos] == '=' {
			pos++
			for pos < n && isSpace(raw[pos]) {
				pos++
			}
			if pos < n {
				switch raw[pos] {
				case '"', '\'':
					attr.quote = raw[pos]
					quote := raw[pos]
					pos++
					for pos < n && raw[pos] != quote {
						pos++
					}
					if pos < n {
						pos++
					}
				default:
					for pos < n && !isSpace(raw[pos]) && raw[pos] != '>' {
						pos++
					}
				}
			}
		}
		attrs = append(attrs, attr)
	}

	return tag, attrs
}

// DuplicateAttrs returns the attribute names that occur more than once on
// the node, with their occurrence counts, in first-seen order.
func (n *Node) DuplicateAttrs() []AttrCount {
	counts := make(map[string]int)
	var order []string
	for _, a := range n.Attrs {
		if counts[a.Name] == 0 {
			order = append(order, a.Name)
		}
		counts[a.Name]++
	}
	var dups []AttrCount
	for _, name := range order {
		if counts[name] > 1 {
			dups = append(dups, AttrCount{Name: name, Count: counts[name]})
		}
	}
	return dups
}

// AttrCount pairs an attribute name with its occurrence count.
type AttrCount struct {
	Name  string
	Count int
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
