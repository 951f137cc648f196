package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaphtml/internal/cli/output"
	"github.com/leapstack-labs/leaphtml/pkg/lint"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories to lint
	Format   string   // Output format: text, json
	Severity string   // Minimum severity: error, warning, info
	Watch    bool     // Re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Run lint rules on HTML files",
		Long: `Analyze HTML files against the configured rule set and report
violations with their source location.

Rules are configured in leaphtml.yaml or in a standalone rules file.
Directories are searched recursively for .html and .htm files.

Output adapts to environment:
  - Terminal: Styled output with colors
  - JSON: Machine-readable format`,
		Example: `  # Lint the current directory
  leaphtml lint

  # Lint specific files and directories
  leaphtml lint index.html templates/

  # Output as JSON
  leaphtml lint --format json

  # Only report errors (ignore warnings and info)
  leaphtml lint --severity error

  # Re-lint whenever a file changes
  leaphtml lint --watch templates/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity: error, warning, info")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when files change")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	severity := opts.Severity
	if severity == "" {
		severity = cmdCtx.Cfg.Severity
	}

	if opts.Watch {
		return watchAndLint(cmd, cmdCtx, r, opts.Paths, severity)
	}

	files, err := collectFiles(opts.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no HTML files found under %s", strings.Join(opts.Paths, ", "))
	}

	results, err := lintFiles(cmd, cmdCtx, files, severity)
	if err != nil {
		return err
	}

	if renderLintResults(r, results, len(files)) {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// lintFileResult holds the findings for a single file.
type lintFileResult struct {
	Path     string
	Findings []lint.Finding
}

// collectFiles expands the given paths into the HTML files beneath them.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".html", ".htm":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// lintFiles lints the files concurrently, bounded by the CPU count. The
// linter itself is safe for concurrent use; only result collection needs
// the mutex.
func lintFiles(cmd *cobra.Command, cmdCtx *CommandContext, files []string, severity string) ([]lintFileResult, error) {
	threshold, ok := lint.ParseSeverity(severity)
	if !ok {
		threshold = lint.SeverityInfo
	}

	var mu sync.Mutex
	var results []lintFileResult

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			findings, err := cmdCtx.Linter.Lint(string(src))
			if err != nil {
				return fmt.Errorf("lint %s: %w", path, err)
			}

			var kept []lint.Finding
			for _, f := range findings {
				if f.Severity <= threshold {
					kept = append(kept, f)
				}
			}
			if len(kept) == 0 {
				return nil
			}

			mu.Lock()
			results = append(results, lintFileResult{Path: path, Findings: kept})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// renderLintResults writes the findings and returns whether any exist.
func renderLintResults(r *output.Renderer, results []lintFileResult, filesAnalyzed int) bool {
	if len(results) == 0 {
		r.Success("No lint issues found")
		return false
	}

	summary := output.LintSummary{FilesAnalyzed: filesAnalyzed}
	for _, res := range results {
		summary.TotalFindings += len(res.Findings)
		for _, f := range res.Findings {
			switch f.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			}
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		var files []output.LintFileResult
		for _, res := range results {
			fileResult := output.LintFileResult{Path: res.Path}
			for _, f := range res.Findings {
				fileResult.Findings = append(fileResult.Findings, output.LintFinding{
					Rule:     f.RuleName,
					Severity: f.Severity.String(),
					Message:  f.Message,
					Line:     f.Location.Line,
					Column:   f.Location.Column,
					Element:  f.Location.Element,
					Snippet:  f.Snippet,
				})
			}
			files = append(files, fileResult)
		}
		_ = r.JSON(output.NewLintOutput(summary, files))
		return true
	}

	for _, res := range results {
		r.Println(r.Styles().FilePath.Render(res.Path))
		for _, f := range res.Findings {
			loc := fmt.Sprintf("%d:%d", f.Location.Line, f.Location.Column)
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityStyle(r, f.Severity),
				r.Styles().Bold.Render(f.RuleName),
				f.Message,
			)
		}
		r.Println("")
	}

	summaryParts := []string{fmt.Sprintf("%d findings", summary.TotalFindings)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)

	return true
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// watchAndLint lints once, then re-lints whenever a watched file changes.
// It runs until the command context is canceled.
func watchAndLint(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer, paths []string, severity string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch directories rather than files so newly created files are
	// picked up too.
	dirs := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		dir := p
		if !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !dirs[dir] {
			dirs[dir] = true
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
	}

	relint := func() {
		files, err := collectFiles(paths)
		if err != nil {
			r.Errorf("collect files: %v", err)
			return
		}
		results, err := lintFiles(cmd, cmdCtx, files, severity)
		if err != nil {
			r.Errorf("lint: %v", err)
			return
		}
		renderLintResults(r, results, len(files))
	}

	relint()
	cmdCtx.Logger.Info("watching for changes", "paths", paths)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			switch strings.ToLower(filepath.Ext(event.Name)) {
			case ".html", ".htm":
				cmdCtx.Logger.Debug("file changed", "file", event.Name)
				relint()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Errorf("watch: %v", err)
		}
	}
}
