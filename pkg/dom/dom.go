// Package dom builds an ordered element tree from raw HTML, keeping the
// raw-source facts the lint engine needs: line/column anchors, original
// tag and attribute casing, attribute quote characters, a doctype flag and
// the source split into lines.
//
// The tree is built from the golang.org/x/net/html tokenizer rather than
// its parser: the parser normalizes away casing and quote characters and
// drops duplicate attributes, all of which lint rules inspect.
package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// NodeType discriminates tree nodes.
type NodeType int

// Node types.
const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a single attribute occurrence. Name and Value are normalized
// (lowercase name, entity-decoded value); RawName preserves the original
// casing and Quote the original quote character ('"', '\'' or 0 when the
// value was unquoted or absent).
type Attr struct {
	Name    string
	Value   string
	RawName string
	Quote   byte
}

// Node is one node of the document tree. Text nodes carry Data and have
// an empty Tag; element nodes carry Tag (lowercase), RawTag (original
// casing) and Attrs in source order, duplicates preserved.
type Node struct {
	Type     NodeType
	Tag      string
	RawTag   string
	Data     string
	Attrs    []Attr
	Parent   *Node
	Children []*Node

	// Line and Col anchor the node's start tag in the source, 1-based.
	Line int
	Col  int
	// Snippet is the raw source line containing the start tag.
	Snippet string
}

// Attr returns the value of the named attribute (normalized lowercase
// name). When the attribute appears more than once the first value wins.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Text returns the concatenated text of the node and its descendants in
// document order.
func (n *Node) Text() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Data)
		return
	}
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

// Elements returns the element children of the node, skipping text nodes.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors visits the node's ancestors from parent to root, stopping
// early when visit returns false.
func (n *Node) Ancestors(visit func(*Node) bool) {
	for p := n.Parent; p != nil; p = p.Parent {
		if !visit(p) {
			return
		}
	}
}

// Document is a parsed HTML document.
type Document struct {
	// HasDoctype reports whether the source carried a doctype
	// declaration.
	HasDoctype bool
	// Lines is the raw source split into lines, without terminators.
	Lines []string

	root     *Node
	elements []*Node
}

// Root returns the synthetic document root. Its children are the
// top-level nodes of the source.
func (d *Document) Root() *Node { return d.root }

// Elements returns every element node in document order. The slice is
// shared; callers must not mutate it.
func (d *Document) Elements() []*Node { return d.elements }

// QuerySelector-style helpers live in pkg/lint/html; the document model
// only exposes the tree.

// voidElements close immediately per the HTML spec; they never take end
// tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse tokenizes src into a Document. It fails only when the tokenizer
// reports a non-EOF error; malformed but tokenizable markup (stray end
// tags, unclosed elements) is consumed leniently, matching the original
// parser's forgiving behavior.
func Parse(src string) (*Document, error) {
	doc := &Document{
		Lines: splitLines(src),
		root:  &Node{Type: ElementNode, Tag: "#document"},
	}
	lineOffsets := buildLineOffsets(src)

	z := html.NewTokenizer(strings.NewReader(src))
	stack := []*Node{doc.root}
	offset := 0

	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenize html: %w", err)
			}
			return doc, nil

		case html.DoctypeToken:
			doc.HasDoctype = true

		case html.TextToken:
			parent := stack[len(stack)-1]
			text := html.UnescapeString(string(raw))
			parent.Children = append(parent.Children, &Node{
				Type:   TextNode,
				Data:   text,
				Parent: parent,
			})

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			line, col := position(lineOffsets, start)
			node := &Node{
				Type:    ElementNode,
				Tag:     tok.Data,
				Line:    line,
				Col:     col,
				Snippet: lineAt(doc.Lines, line),
			}
			// The tokenizer lowercases tag and attribute names in place
			// in its internal buffer, so the raw casing facts must be
			// scanned from the original source bytes, not from z.Raw().
			applyLexicalFacts(node, src[start:offset], tok.Attr)
			parent := stack[len(stack)-1]
			node.Parent = parent
			parent.Children = append(parent.Children, node)
			doc.elements = append(doc.elements, node)

			if tt == html.StartTagToken && !voidElements[node.Tag] {
				stack = append(stack, node)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			// Pop to the nearest matching open element; ignore stray
			// end tags entirely.
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func buildLineOffsets(src string) []int {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// position converts a byte offset to a 1-based (line, column) pair.
func position(lineOffsets []int, offset int) (int, int) {
	i := sort.Search(len(lineOffsets), func(i int) bool {
		return lineOffsets[i] > offset
	}) - 1
	return i + 1, offset - lineOffsets[i] + 1
}

func lineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
