package html_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaphtml/pkg/lint"
	"github.com/leapstack-labs/leaphtml/pkg/lint/html"
)

func TestLint_ImgAltMissing(t *testing.T) {
	rule := lint.Rule{
		Name:      "img-alt",
		Type:      lint.AttributePresence,
		Severity:  lint.SeverityError,
		Selector:  "img",
		Condition: "alt-missing",
		Message:   "images need alt text",
	}

	l := html.New([]lint.Rule{rule}, lint.LinterOptions{})
	findings, err := l.Lint(`<html><body><img src="test.jpg"></body></html>`)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, "img-alt", findings[0].RuleName)
	assert.Equal(t, lint.SeverityError, findings[0].Severity)
	assert.Equal(t, "img", findings[0].Location.Element)

	findings, err = l.Lint(`<html><body><img src="test.jpg" alt="a test"></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLint_HeadingOrderSkip(t *testing.T) {
	rule := lint.Rule{
		Name:      "heading-order",
		Type:      lint.ElementOrder,
		Severity:  lint.SeverityWarning,
		Selector:  "h1,h2,h3,h4,h5,h6",
		Condition: "sequential-order",
		Message:   "heading levels must not skip",
	}

	l := html.New([]lint.Rule{rule}, lint.LinterOptions{})
	findings, err := l.Lint("<body><h1>A</h1><h3>B</h3></body>")
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, "h3", findings[0].Location.Element)

	// Decreasing levels never report.
	findings, err = l.Lint("<body><h1>A</h1><h2>B</h2><h1>C</h1><h2>D</h2></body>")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLint_MetaDescriptionLength(t *testing.T) {
	rule := lint.Rule{
		Name:      "meta-description",
		Type:      lint.ElementContent,
		Severity:  lint.SeverityWarning,
		Selector:  "head",
		Condition: "meta-tags",
		Message:   "meta description too short",
		Options: lint.Options{
			"required_meta_tags": []any{
				map[string]any{
					"name":     "description",
					"pattern":  map[string]any{"type": "MinLength", "value": 50},
					"required": true,
				},
			},
		},
	}
	l := html.New([]lint.Rule{rule}, lint.LinterOptions{})

	findings, err := l.Lint(`<head><meta name="description" content="short"></head>`)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "mismatch")

	long := `<head><meta name="description" content="This description is comfortably longer than fifty characters total."></head>`
	findings, err = l.Lint(long)
	require.NoError(t, err)
	assert.Empty(t, findings)

	// Required key absent entirely.
	findings, err = l.Lint(`<head><meta charset="utf-8"></head>`)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "missing")
}

func TestLint_Deterministic(t *testing.T) {
	rules := []lint.Rule{
		{Name: "no-style", Type: lint.AttributePresence, Selector: "*", Condition: "style-attribute", Message: "no inline styles"},
		{Name: "img-alt", Type: lint.AttributePresence, Selector: "img", Condition: "alt-missing", Message: "alt"},
	}
	src := `<div style="x"><img src="a"><p style="y">t</p></div>`

	l := html.New(rules, lint.LinterOptions{})
	first, err := l.Lint(src)
	require.NoError(t, err)
	for range 5 {
		again, err := l.Lint(src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Rule order first, document order within a rule.
	require.Len(t, first, 3)
	assert.Equal(t, "no-style", first[0].RuleName)
	assert.Equal(t, "no-style", first[1].RuleName)
	assert.Equal(t, "img-alt", first[2].RuleName)
	assert.Less(t, first[0].Location.Column, first[1].Location.Column)
}

func TestLint_ElementPresence(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		src       string
		want      int
	}{
		{"required present", "required", "<main>x</main>", 0},
		{"required absent", "required", "<div>x</div>", 1},
		{"forbidden absent", "forbidden", "<div>x</div>", 0},
		{"forbidden present twice", "forbidden", "<main>a</main><main>b</main>", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := lint.Rule{
				Name: "main-check", Type: lint.ElementPresence,
				Selector: "main", Condition: tt.condition, Message: "m",
			}
			findings := lintOne(t, tt.src, rule)
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestLint_AttributeValueCheckModes(t *testing.T) {
	base := lint.Rule{
		Name: "lang", Type: lint.AttributeValue, Selector: "html", Message: "m",
		Options: lint.Options{"attribute": "lang", "pattern": "^en"},
	}

	tests := []struct {
		name string
		mode string
		src  string
		want int
	}{
		{"ensure_existence match", "ensure_existence", `<html lang="en-US"></html>`, 0},
		{"ensure_existence mismatch", "ensure_existence", `<html lang="fr"></html>`, 1},
		{"ensure_existence missing attribute", "ensure_existence", `<html></html>`, 1},
		{"normal reports matches", "normal", `<html lang="en-US"></html>`, 1},
		{"ensure_nonexistence same as normal", "ensure_nonexistence", `<html lang="en-US"></html>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := base
			rule.Options = lint.Options{"attribute": "lang", "pattern": "^en", "check_mode": tt.mode}
			assert.Len(t, lintOne(t, tt.src, rule), tt.want)
		})
	}
}

func TestLint_AttributeValueRequiresAttribute(t *testing.T) {
	rule := lint.Rule{
		Name: "bad", Type: lint.AttributeValue, Selector: "a", Message: "m",
		Options: lint.Options{"pattern": ".*"},
	}
	findings := lintOne(t, `<a href="x">y</a>`, rule)
	require.Len(t, findings, 1)
	assert.Equal(t, lint.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "attribute")
}

func TestLint_UniqueIDs(t *testing.T) {
	rule := lint.Rule{
		Name: "unique-ids", Type: lint.AttributeValue,
		Selector: "*", Condition: "unique-id", Message: "duplicate id",
	}
	findings := lintOne(t, `<div id="a">x</div><span id="a">y</span><p id="b">z</p>`, rule)
	require.Len(t, findings, 1)
	assert.Equal(t, "span", findings[0].Location.Element)
	assert.Contains(t, findings[0].Message, `"a"`)
}

func TestLint_PositiveTabindex(t *testing.T) {
	rule := lint.Rule{
		Name: "tabindex", Type: lint.AttributeValue,
		Selector: "*", Condition: "positive-number", Message: "avoid positive tabindex",
	}
	src := `<button tabindex="2">a</button><button tabindex="0">b</button><button tabindex="-1">c</button>`
	assert.Len(t, lintOne(t, src, rule), 1)
}

func TestLint_TextContent(t *testing.T) {
	rule := lint.Rule{
		Name: "title-pattern", Type: lint.TextContent, Selector: "title", Message: "m",
		Options: lint.Options{"pattern": map[string]any{"type": "NonEmpty"}, "check_mode": "ensure_existence"},
	}
	assert.Len(t, lintOne(t, "<title> </title>", rule), 1)
	assert.Empty(t, lintOne(t, "<title>Home</title>", rule))
}

func TestLint_WhiteSpace(t *testing.T) {
	lineLen := lint.Rule{
		Name: "line-length", Type: lint.WhiteSpace, Condition: "line-length", Message: "m",
		Options: lint.Options{"max_line_length": 10},
	}
	trailing := lint.Rule{
		Name: "trailing", Type: lint.WhiteSpace, Condition: "trailing-whitespace", Message: "m",
	}

	src := "<p>ok</p>\n<p>this line is much too long</p>\n<p>s</p>  "
	l := html.New([]lint.Rule{lineLen, trailing}, lint.LinterOptions{})
	findings, err := l.Lint(src)
	require.NoError(t, err)

	require.Len(t, findings, 2)
	assert.Equal(t, "line-length", findings[0].RuleName)
	assert.Equal(t, 2, findings[0].Location.Line)
	assert.Equal(t, "trailing", findings[1].RuleName)
	assert.Equal(t, 3, findings[1].Location.Line)
}

func TestLint_WhiteSpaceFallbackLimit(t *testing.T) {
	rule := lint.Rule{Name: "ll", Type: lint.WhiteSpace, Condition: "line-length", Message: "m"}

	// No rule option and no linter default is a configuration error.
	l := html.New([]lint.Rule{rule}, lint.LinterOptions{})
	findings, err := l.Lint("<p>x</p>")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "configuration error")

	l = html.New([]lint.Rule{rule}, lint.LinterOptions{MaxLineLength: 5})
	findings, err = l.Lint("<p>long enough</p>")
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestLint_NestingLabel(t *testing.T) {
	rule := lint.Rule{
		Name: "input-label", Type: lint.Nesting,
		Selector: "input", Condition: "parent-label-or-for", Message: "inputs need labels",
	}

	tests := []struct {
		name string
		src  string
		want int
	}{
		{"wrapped in label", "<label>Name <input></label>", 0},
		{"referenced by for", `<label for="n">Name</label><input id="n">`, 0},
		{"unlabelled", `<input id="n">`, 1},
		{"for mismatch", `<label for="other">Name</label><input id="n">`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, lintOne(t, tt.src, rule), tt.want)
		})
	}
}

func TestLint_Semantics(t *testing.T) {
	structure := lint.Rule{
		Name: "sem-structure", Type: lint.Semantics,
		Selector: "div,span", Condition: "semantic-structure", Message: "m",
	}
	buttons := lint.Rule{
		Name: "sem-buttons", Type: lint.Semantics,
		Selector: "div,span", Condition: "semantic-buttons", Message: "m",
	}
	tables := lint.Rule{
		Name: "sem-tables", Type: lint.Semantics,
		Selector: "table", Condition: "semantic-tables", Message: "m",
	}

	findings := lintOne(t, `<div class="main-navigation">x</div>`, structure)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "<nav>")

	assert.Len(t, lintOne(t, `<span onclick="go()">x</span>`, buttons), 1)
	assert.Len(t, lintOne(t, `<div role="button">x</div>`, buttons), 1)
	assert.Empty(t, lintOne(t, `<div>x</div>`, buttons))

	findings = lintOne(t, "<table><tr><td>1</td></tr></table>", tables)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "caption")
	ok := "<table><caption>c</caption><tr><th>h</th></tr></table>"
	assert.Empty(t, lintOne(t, ok, tables))
}

func TestLint_CustomValidators(t *testing.T) {
	emptyLinks := lint.Rule{
		Name: "no-empty-links", Type: lint.Custom,
		Selector: "a", Condition: "no-empty-links", Message: "m",
	}

	assert.Len(t, lintOne(t, `<a href="/x"></a>`, emptyLinks), 1)
	assert.Len(t, lintOne(t, `<a href="/x"><span> </span></a>`, emptyLinks), 1)
	assert.Empty(t, lintOne(t, `<a href="/x">text</a>`, emptyLinks))
	assert.Empty(t, lintOne(t, `<a href="/x"><img src="i.png"></a><!-- no accessible name --><a aria-label="home" href="/"></a>`, lint.Rule{
		Name: "labelled", Type: lint.Custom, Selector: "a[aria-label]", Condition: "no-empty-links", Message: "m",
	}))

	headings := lint.Rule{
		Name: "no-empty-headings", Type: lint.Custom,
		Selector: "h1,h2,h3,h4,h5,h6", Condition: "no-empty-headings", Message: "m",
	}
	assert.Len(t, lintOne(t, "<h2></h2>", headings), 1)
	assert.Empty(t, lintOne(t, "<h2>Title</h2>", headings))

	unknown := lint.Rule{
		Name: "mystery", Type: lint.Custom, Selector: "a", Condition: "no-such-check", Message: "m",
	}
	findings := lintOne(t, "<a>x</a>", unknown)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "no-such-check")
}

func TestLint_DoctypePresent(t *testing.T) {
	rule := lint.Rule{
		Name: "doctype", Type: lint.DocumentStructure,
		Condition: "doctype-present", Message: "missing doctype",
	}

	findings := lintOne(t, "<html></html>", rule)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Location.Line)

	assert.Empty(t, lintOne(t, "<!DOCTYPE html><html></html>", rule))
}

func TestLint_ElementCount(t *testing.T) {
	maxOne := lint.Rule{
		Name: "single-h1", Type: lint.ElementCount, Selector: "h1", Message: "m",
		Options: lint.Options{"max": 1},
	}
	minTwo := lint.Rule{
		Name: "two-sections", Type: lint.ElementCount, Selector: "section", Message: "m",
		Options: lint.Options{"min": 2},
	}
	unbounded := lint.Rule{
		Name: "bad", Type: lint.ElementCount, Selector: "p", Message: "m",
	}

	findings := lintOne(t, "<h1>a</h1><h1>b</h1>", maxOne)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "found 2, maximum 1")
	assert.Empty(t, lintOne(t, "<h1>a</h1>", maxOne))

	findings = lintOne(t, "<section>a</section>", minTwo)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "found 1, minimum 2")

	findings = lintOne(t, "<p>a</p>", unbounded)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "configuration error")
}

func TestLint_ElementCountInvalidBounds(t *testing.T) {
	tests := []struct {
		name    string
		options lint.Options
		want    string
	}{
		{"negative max", lint.Options{"max": -1}, "must not be negative"},
		{"negative min", lint.Options{"min": -2}, "must not be negative"},
		{"non-numeric max", lint.Options{"max": "three"}, "expected integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := lint.Rule{
				Name: "bad-bounds", Type: lint.ElementCount, Selector: "h1", Message: "m",
				Options: tt.options,
			}
			findings := lintOne(t, "<p>no headings</p>", rule)
			require.Len(t, findings, 1)
			assert.Equal(t, lint.SeverityError, findings[0].Severity)
			assert.Contains(t, findings[0].Message, "configuration error")
			assert.Contains(t, findings[0].Message, tt.want)
		})
	}
}

func TestLint_ElementCase(t *testing.T) {
	rule := lint.Rule{
		Name: "lowercase", Type: lint.ElementCase, Selector: "*", Message: "m",
		Options: lint.Options{"style": "lowercase"},
	}

	findings := lintOne(t, `<DIV Class="x">y</DIV>`, rule)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "element: DIV")
	assert.Contains(t, findings[0].Message, "attributes: Class")

	assert.Empty(t, lintOne(t, `<div class="x">y</div>`, rule))
}

func TestLint_AttributeQuotes(t *testing.T) {
	rule := lint.Rule{
		Name: "double-quotes", Type: lint.AttributeQuotes, Selector: "*", Message: "m",
		Options: lint.Options{"style": "double"},
	}

	findings := lintOne(t, `<a href='x' title="ok" id=plain>y</a>`, rule)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "double quotes")

	single := lint.Rule{
		Name: "single-quotes", Type: lint.AttributeQuotes, Selector: "*", Message: "m",
		Options: lint.Options{"style": "single"},
	}
	assert.Len(t, lintOne(t, `<a href="x">y</a>`, single), 1)
}

func TestLint_InlineStyles(t *testing.T) {
	rule := lint.Rule{
		Name: "no-inline-style", Type: lint.AttributePresence,
		Selector: "*", Condition: "style-attribute", Message: "m",
	}

	src := `<p style="color:red">x</p>`
	l := html.New([]lint.Rule{rule}, lint.LinterOptions{})
	findings, err := l.Lint(src)
	require.NoError(t, err)
	assert.Len(t, findings, 1)

	allowed := html.New([]lint.Rule{rule}, lint.LinterOptions{AllowInlineStyles: true})
	findings, err = allowed.Lint(src)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLint_DuplicateAttributesRule(t *testing.T) {
	rule := lint.Rule{
		Name: "dup-attrs", Type: lint.AttributePresence,
		Selector: "*", Condition: "duplicate-attributes", Message: "m",
	}
	findings := lintOne(t, `<div class="a" class="b">x</div>`, rule)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "class")
}

func TestLint_IgnoreRules(t *testing.T) {
	rules := []lint.Rule{
		{Name: "img-alt", Type: lint.AttributePresence, Selector: "img", Condition: "alt-missing", Message: "m"},
		{Name: "img-title", Type: lint.AttributePresence, Selector: "img", Condition: "title-missing", Message: "m"},
	}
	src := `<img src="a.jpg">`

	l := html.New(rules, lint.LinterOptions{IgnoreRules: []string{"img-title"}})
	findings, err := l.Lint(src)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "img-alt", findings[0].RuleName)

	// Regex entries match by pattern.
	l = html.New(rules, lint.LinterOptions{IgnoreRules: []string{"^img-"}})
	findings, err = l.Lint(src)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLint_SelectorAliases(t *testing.T) {
	rule := lint.Rule{
		Name: "headings", Type: lint.ElementCount, Selector: "$headings", Message: "m",
		Options: lint.Options{"max": 1},
	}
	opts := lint.LinterOptions{
		SelectorAliases: map[string]string{"$headings": "h1,h2,h3"},
	}

	l := html.New([]lint.Rule{rule}, opts)
	findings, err := l.Lint("<h1>a</h1><h2>b</h2>")
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestLint_BadSelectorFailsClosed(t *testing.T) {
	rules := []lint.Rule{
		{Name: "broken", Type: lint.ElementPresence, Selector: "div[", Condition: "required", Message: "m"},
		{Name: "fine", Type: lint.ElementPresence, Selector: "main", Condition: "required", Message: "m"},
	}

	l := html.New(rules, lint.LinterOptions{})
	findings, err := l.Lint("<main>x</main>")
	require.NoError(t, err)

	// The broken rule reports a configuration error on every lint; the
	// healthy rule still runs.
	require.Len(t, findings, 1)
	assert.Equal(t, "broken", findings[0].RuleName)
	assert.Equal(t, lint.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "configuration error")
}

func TestLint_UnknownConditionIsConfigError(t *testing.T) {
	rule := lint.Rule{
		Name: "odd", Type: lint.ElementPresence, Selector: "div",
		Condition: "sometimes", Message: "m", Severity: lint.SeverityInfo,
	}
	findings := lintOne(t, "<div>x</div>", rule)
	require.Len(t, findings, 1)
	// Severity is forced to Error for configuration problems.
	assert.Equal(t, lint.SeverityError, findings[0].Severity)
}
