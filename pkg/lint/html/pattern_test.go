package html_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaphtml/pkg/lint/html"
)

func TestParsePattern_StringIsRegex(t *testing.T) {
	p, err := html.ParsePattern(`^https://`)
	require.NoError(t, err)
	assert.True(t, p.Matches("https://example.com"))
	assert.False(t, p.Matches("http://example.com"))

	_, err = html.ParsePattern(`[unclosed`)
	assert.Error(t, err)
}

func TestPattern_LengthBounds(t *testing.T) {
	minFive, err := html.ParsePattern(map[string]any{"type": "MinLength", "value": 5})
	require.NoError(t, err)
	maxFive, err := html.ParsePattern(map[string]any{"type": "MaxLength", "value": 5})
	require.NoError(t, err)

	tests := []struct {
		candidate string
		wantMin   bool
		wantMax   bool
	}{
		{"", false, true},
		{"abcd", false, true},
		{"abcde", true, true},
		{"abcdef", true, false},
		{"ééééé", true, true}, // five characters, ten bytes
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantMin, minFive.Matches(tt.candidate), "MinLength(5) on %q", tt.candidate)
		assert.Equal(t, tt.wantMax, maxFive.Matches(tt.candidate), "MaxLength(5) on %q", tt.candidate)
	}
}

func TestPattern_LengthRange(t *testing.T) {
	p, err := html.ParsePattern(map[string]any{"type": "LengthRange", "min": 2, "max": 4})
	require.NoError(t, err)
	assert.False(t, p.Matches("a"))
	assert.True(t, p.Matches("ab"))
	assert.True(t, p.Matches("abcd"))
	assert.False(t, p.Matches("abcde"))
}

func TestPattern_ExactAndOneOf(t *testing.T) {
	exact, err := html.ParsePattern(map[string]any{"type": "Exact", "value": "UTF-8"})
	require.NoError(t, err)
	oneOf, err := html.ParsePattern(map[string]any{"type": "OneOf", "value": []any{"UTF-8"}})
	require.NoError(t, err)

	// OneOf([s]) matches exactly the candidates Exact(s) matches.
	for _, candidate := range []string{"UTF-8", "utf-8", "", "UTF-88"} {
		assert.Equal(t, exact.Matches(candidate), oneOf.Matches(candidate), "candidate %q", candidate)
	}
	assert.True(t, exact.Matches("UTF-8"))
	assert.False(t, exact.Matches("utf-8"))
}

func TestPattern_StringVariants(t *testing.T) {
	tests := []struct {
		spec      map[string]any
		candidate string
		want      bool
	}{
		{map[string]any{"type": "NonEmpty"}, "x", true},
		{map[string]any{"type": "NonEmpty"}, "   ", false},
		{map[string]any{"type": "Contains", "value": "lang"}, "language", true},
		{map[string]any{"type": "Contains", "value": "lang"}, "tongue", false},
		{map[string]any{"type": "StartsWith", "value": "en"}, "en-US", true},
		{map[string]any{"type": "StartsWith", "value": "en"}, "den", false},
		{map[string]any{"type": "EndsWith", "value": ".css"}, "main.css", true},
		{map[string]any{"type": "EndsWith", "value": ".css"}, "main.js", false},
		{map[string]any{"type": "one_of", "value": []any{"a", "b"}}, "b", true},
	}

	for _, tt := range tests {
		p, err := html.ParsePattern(tt.spec)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Matches(tt.candidate), "%v on %q", tt.spec, tt.candidate)
	}
}

func TestParsePattern_UnknownType(t *testing.T) {
	_, err := html.ParsePattern(map[string]any{"type": "Glob", "value": "*"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Glob"))
}

func TestParseCheckMode(t *testing.T) {
	tests := []struct {
		in      string
		want    html.CheckMode
		wantErr bool
	}{
		{"", html.CheckModeNormal, false},
		{"normal", html.CheckModeNormal, false},
		{"ensure_existence", html.CheckModeEnsureExistence, false},
		{"ensure_nonexistence", html.CheckModeEnsureNonexistence, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		got, err := html.ParseCheckMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseCheckMode(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseCheckMode(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCheckMode_ShouldReport(t *testing.T) {
	// normal and ensure_nonexistence report on match; ensure_existence on
	// non-match.
	assert.True(t, html.CheckModeNormal.ShouldReport(true))
	assert.False(t, html.CheckModeNormal.ShouldReport(false))
	assert.True(t, html.CheckModeEnsureNonexistence.ShouldReport(true))
	assert.False(t, html.CheckModeEnsureNonexistence.ShouldReport(false))
	assert.False(t, html.CheckModeEnsureExistence.ShouldReport(true))
	assert.True(t, html.CheckModeEnsureExistence.ShouldReport(false))
}
