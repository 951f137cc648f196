package commands

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaphtml/internal/cli/output"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
	"github.com/leapstack-labs/leaphtml/pkg/lint/html"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Type   string // Filter by rule type
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the configured lint rules",
		Long: `List the rules in the configured rule set along with the custom
validators available to rules of type custom.

Output adapts to environment:
  - Terminal: Styled table
  - JSON: Machine-readable format`,
		Example: `  # List all configured rules
  leaphtml rules

  # List only attribute-presence rules
  leaphtml rules --type attribute-presence

  # Output as JSON
  leaphtml rules --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by rule type")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rules := cmdCtx.Rules
	if opts.Type != "" {
		var filtered []lint.Rule
		for _, rule := range rules {
			if string(rule.Type) == strings.ToLower(opts.Type) {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	validators := html.ValidatorNames()
	sort.Strings(validators)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Rules      []lint.Rule `json:"rules"`
			Validators []string    `json:"custom_validators"`
		}{Rules: rules, Validators: validators})
	}

	if len(rules) == 0 {
		r.Println("No rules configured")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(r.Out())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"NAME", "TYPE", "SEVERITY", "SELECTOR", "CONDITION"})
		for _, rule := range rules {
			t.AppendRow(table.Row{rule.Name, string(rule.Type), rule.Severity.String(), rule.Selector, rule.Condition})
		}
		t.Render()
	}

	r.Println("")
	r.Println(r.Styles().Bold.Render("Custom validators:"), strings.Join(validators, ", "))
	return nil
}
