package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaphtml/internal/cli/config"
	"github.com/leapstack-labs/leaphtml/internal/cli/output"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
	"github.com/leapstack-labs/leaphtml/pkg/lint/html"
)

// CommandContext bundles the dependencies commands need.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Rules    []lint.Rule
	Linter   *html.Linter
}

// NewCommandContext builds the command context: resolved configuration,
// the rule set and a linter compiled from it.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	rules, err := config.BuildRules(cfg)
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Rules:    rules,
		Linter:   html.New(rules, cfg.LinterOptions()),
	}, nil
}

// getConfig returns the current configuration, falling back to defaults
// when no config was loaded (direct command construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		OutputFormat:  config.DefaultOutput,
		Severity:      config.DefaultSeverity,
		MaxLineLength: config.DefaultMaxLineLength,
	}
}
