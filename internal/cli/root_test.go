package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaphtml/internal/cli"
	"github.com/leapstack-labs/leaphtml/internal/cli/config"
	"github.com/leapstack-labs/leaphtml/internal/cli/output"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := cli.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, configYAML string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaphtml.yaml"), []byte(configYAML), 0o644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const imgAltConfig = `
rules:
  - name: img-alt
    type: attribute-presence
    severity: error
    selector: img
    condition: alt-missing
    message: images need alt text
`

func TestLintCommand_JSONReport(t *testing.T) {
	dir := writeProject(t, imgAltConfig, map[string]string{
		"index.html": "<html><body><img src=\"x.png\"></body></html>",
	})

	stdout, _, err := execute(t,
		"lint", dir,
		"--config", filepath.Join(dir, "leaphtml.yaml"),
		"--format", "json",
	)
	require.EqualError(t, err, "lint issues found")

	var report output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Summary.FilesAnalyzed)
	assert.Equal(t, 1, report.Summary.TotalFindings)
	assert.Equal(t, 1, report.Summary.Errors)
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Findings, 1)

	f := report.Files[0].Findings[0]
	assert.Equal(t, "img-alt", f.Rule)
	assert.Equal(t, "error", f.Severity)
	assert.Equal(t, "images need alt text", f.Message)
	assert.Equal(t, "img", f.Element)
}

func TestLintCommand_CleanFile(t *testing.T) {
	dir := writeProject(t, imgAltConfig, map[string]string{
		"index.html": "<html><body><img src=\"x.png\" alt=\"logo\"></body></html>",
	})

	stdout, _, err := execute(t, "lint", dir, "--config", filepath.Join(dir, "leaphtml.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No lint issues found")
}

func TestLintCommand_SeverityThreshold(t *testing.T) {
	cfgYAML := `
rules:
  - name: p-text
    type: text-content
    severity: info
    selector: p
    message: paragraphs should have text
`
	dir := writeProject(t, cfgYAML, map[string]string{
		"page.html": "<html><body><p></p></body></html>",
	})
	cfgPath := filepath.Join(dir, "leaphtml.yaml")

	// At the default threshold the info finding is reported.
	stdout, _, err := execute(t, "lint", dir, "--config", cfgPath)
	require.EqualError(t, err, "lint issues found")
	assert.Contains(t, stdout, "p-text")

	// Raising the threshold to error filters it out.
	stdout, _, err = execute(t, "lint", dir, "--config", cfgPath, "--severity", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No lint issues found")
}

func TestLintCommand_TextOutput(t *testing.T) {
	dir := writeProject(t, imgAltConfig, map[string]string{
		"index.html": "<html>\n<body>\n<img src=\"x.png\">\n</body>\n</html>",
	})

	stdout, _, err := execute(t, "lint", dir, "--config", filepath.Join(dir, "leaphtml.yaml"))
	require.EqualError(t, err, "lint issues found")

	assert.Contains(t, stdout, filepath.Join(dir, "index.html"))
	assert.Contains(t, stdout, "3:1")
	assert.Contains(t, stdout, "img-alt")
	assert.Contains(t, stdout, "Summary: 1 findings, 1 errors in 1 files")
}

func TestLintCommand_NoFiles(t *testing.T) {
	dir := writeProject(t, imgAltConfig, nil)

	_, _, err := execute(t, "lint", dir, "--config", filepath.Join(dir, "leaphtml.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no HTML files found")
}

func TestRulesCommand_ListsRulesAndValidators(t *testing.T) {
	dir := writeProject(t, imgAltConfig, nil)

	stdout, _, err := execute(t, "rules", "--config", filepath.Join(dir, "leaphtml.yaml"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "img-alt")
	assert.Contains(t, stdout, "attribute-presence")
	assert.Contains(t, stdout, "Custom validators:")
	assert.Contains(t, stdout, "no-empty-links")
	assert.Contains(t, stdout, "no-empty-headings")
}

func TestRulesCommand_JSON(t *testing.T) {
	dir := writeProject(t, imgAltConfig, nil)

	stdout, _, err := execute(t, "rules", "--config", filepath.Join(dir, "leaphtml.yaml"), "--format", "json")
	require.NoError(t, err)

	var report struct {
		Rules      []map[string]any `json:"rules"`
		Validators []string         `json:"custom_validators"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Rules, 1)
	assert.Contains(t, report.Validators, "no-empty-links")
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "LeapHTML v")
	assert.Contains(t, stdout, "Declarative HTML linter")
}
