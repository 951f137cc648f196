package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaphtml/internal/cli/config"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

func TestRuleSpec_ToRule(t *testing.T) {
	tests := []struct {
		name    string
		spec    config.RuleSpec
		want    lint.Rule
		wantErr string
	}{
		{
			name: "full definition",
			spec: config.RuleSpec{
				Name:      "img-alt",
				Type:      "attribute-presence",
				Severity:  "error",
				Selector:  "img",
				Condition: "alt-missing",
				Message:   "images need alt text",
				Options:   map[string]any{"foo": "bar"},
			},
			want: lint.Rule{
				Name:      "img-alt",
				Type:      lint.AttributePresence,
				Severity:  lint.SeverityError,
				Selector:  "img",
				Condition: "alt-missing",
				Message:   "images need alt text",
				Options:   lint.Options{"foo": "bar"},
			},
		},
		{
			name: "severity defaults to warning",
			spec: config.RuleSpec{Name: "p-text", Type: "text-content", Selector: "p"},
			want: lint.Rule{
				Name:     "p-text",
				Type:     lint.TextContent,
				Severity: lint.SeverityWarning,
				Selector: "p",
			},
		},
		{
			name:    "missing name",
			spec:    config.RuleSpec{Type: "element-presence", Selector: "main"},
			wantErr: "has no name",
		},
		{
			name:    "unknown type",
			spec:    config.RuleSpec{Name: "bad", Type: "no-such-type"},
			wantErr: `unknown type "no-such-type"`,
		},
		{
			name:    "unknown severity",
			spec:    config.RuleSpec{Name: "bad", Type: "element-presence", Severity: "fatal"},
			wantErr: `unknown severity "fatal"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := tt.spec.ToRule()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule)
		})
	}
}

func TestBuildRules_InlineAndFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", `
rules:
  - name: unique-ids
    type: unique-ids
    severity: error
    selector: "*"
    message: duplicate id
  - name: no-tabindex
    type: positive-tabindex
    selector: "[tabindex]"
    message: avoid positive tabindex
`)

	cfg := &config.Config{
		RulesFile: rulesPath,
		Rules: []config.RuleSpec{
			{Name: "img-alt", Type: "attribute-presence", Severity: "error", Selector: "img", Condition: "alt-missing", Message: "m"},
		},
	}

	rules, err := config.BuildRules(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	// Inline rules come first, file rules keep their declared order.
	assert.Equal(t, "img-alt", rules[0].Name)
	assert.Equal(t, "unique-ids", rules[1].Name)
	assert.Equal(t, "no-tabindex", rules[2].Name)
	assert.Equal(t, lint.SeverityWarning, rules[2].Severity)
}

func TestBuildRules_InvalidDefinitionFailsLoad(t *testing.T) {
	cfg := &config.Config{
		Rules: []config.RuleSpec{{Name: "bad", Type: "nope"}},
	}
	_, err := config.BuildRules(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestLoadRulesFile_MissingFile(t *testing.T) {
	_, err := config.LoadRulesFile("/does/not/exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading rules file")
}
