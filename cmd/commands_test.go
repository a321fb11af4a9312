package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/testutil"
)

func setupOptions(t *testing.T, fix *testutil.Fixture, jsonOut, verbose, dry bool) (*config.Options, *bytes.Buffer) {
	t.Helper()
	opts := fix.Options(t, jsonOut, verbose, dry)
	config.SetCurrent(opts)
	t.Cleanup(func() { config.SetCurrent(nil) })
	var buf bytes.Buffer
	return opts, &buf
}

func execute(cmd *cobra.Command, buf *bytes.Buffer, args ...string) error {
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.Execute()
}

func decodeData(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload), buf.String())
	data, _ := payload["data"].(map[string]interface{})
	return data
}

func TestToolsCommand(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	require.NoError(t, execute(newToolsCommand(), buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "docker")
	assert.Contains(t, lines[3], "Infrastructure")

	buf.Reset()
	require.NoError(t, execute(newToolsCommand(), buf, "--category", "INFRASTRUCTURE"))
	assert.Contains(t, buf.String(), "terraform")
	assert.NotContains(t, buf.String(), "docker")

	buf.Reset()
	err := execute(newToolsCommand(), buf, "--category", "Databases")
	assert.Equal(t, ExitCodeNotFound, ExitCode(err))
	assert.Contains(t, err.Error(), "Containers, Infrastructure")

	buf.Reset()
	require.NoError(t, execute(newToolsCommand(), buf, "--categories"))
	assert.Equal(t, "Containers\nInfrastructure\n", buf.String())

	_, jsonBuf := setupOptions(t, fix, true, false, false)
	require.NoError(t, execute(newToolsCommand(), jsonBuf))
	data := decodeData(t, jsonBuf)
	assert.Len(t, data["tools"], 3)
	assert.Len(t, data["categories"], 2)
}

func TestToolsCommandFallsBackToDefaultCatalog(t *testing.T) {
	fix := testutil.NewFixture(t)
	fix.Remove(t, "catalog.yaml")
	_, buf := setupOptions(t, fix, true, false, false)

	require.NoError(t, execute(newToolsCommand(), buf))
	data := decodeData(t, buf)
	assert.Len(t, data["tools"], 19)
}

func TestToolsCommandInvalidCatalog(t *testing.T) {
	fix := testutil.NewFixture(t)
	fix.WriteFile(t, "catalog.yaml", []byte("tools:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"))
	_, buf := setupOptions(t, fix, false, false, false)

	err := execute(newToolsCommand(), buf)
	assert.Equal(t, ExitCodeSchema, ExitCode(err))
	assert.Contains(t, err.Error(), "duplicate of entry 0")
}

func TestGuideCommandText(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	require.NoError(t, execute(newGuideCommand(), buf, "docker"))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Install Docker\n==============\nDocker Engine on Linux\n"), out)
	assert.Contains(t, out, "## Prerequisites\n\nA 64-bit Linux host with **sudo** access.\n")
	assert.Contains(t, out, "1. Update the package index\n   [bash]\n   sudo apt-get update\n")
	assert.Contains(t, out, "3. Install Docker Engine\n   [yaml]\n   services:\n     web:\n       image: nginx\n")
	assert.Contains(t, out, "4. Verify\n")
	assert.NotContains(t, out, "hello-world")

	buf.Reset()
	require.NoError(t, execute(newGuideCommand(), buf, "docker", "--toc"))
	assert.Equal(t, "- Prerequisites (#prerequisites)\n- Installation (#installation)\n"+
		"    - Update the package index\n    - Install Docker Engine\n    - Verify\n", buf.String())
}

func TestGuideCommandJSONAndHTML(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	require.NoError(t, execute(newGuideCommand(), buf, "docker", "--format", "json"))
	var g struct {
		Tool     string `json:"tool"`
		Sections []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Steps   []struct {
				Language string `json:"language"`
			} `json:"steps"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &g), buf.String())
	assert.Equal(t, "docker", g.Tool)
	require.Len(t, g.Sections, 2)
	assert.Equal(t, "<p>A 64-bit Linux host with <strong>sudo</strong> access.</p>\n", g.Sections[0].Content)
	require.Len(t, g.Sections[1].Steps, 4)
	assert.Equal(t, "bash", g.Sections[1].Steps[1].Language)

	buf.Reset()
	require.NoError(t, execute(newGuideCommand(), buf, "kubernetes", "--format", "html"))
	assert.Contains(t, buf.String(), "<title>kubernetes</title>")
	assert.Contains(t, buf.String(), `<code class="language-bash">curl -LO`)

	_, jsonBuf := setupOptions(t, fix, true, false, false)
	require.NoError(t, execute(newGuideCommand(), jsonBuf, "docker", "--toc"))
	data := decodeData(t, jsonBuf)
	assert.Equal(t, "docker", data["tool"])
	assert.Len(t, data["toc"], 2)
}

func TestGuideCommandSanitize(t *testing.T) {
	fix := testutil.NewFixture(t)
	fix.WriteFile(t, filepath.Join("instructions", "helm.md"), []byte("## Intro\n\nHi <script>alert(1)</script> there\n"))
	_, buf := setupOptions(t, fix, false, false, false)

	require.NoError(t, execute(newGuideCommand(), buf, "helm", "--format", "json"))
	assert.Contains(t, buf.String(), "<script>alert(1)</script>")

	buf.Reset()
	require.NoError(t, execute(newGuideCommand(), buf, "helm", "--format", "json", "--sanitize"))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "Hi")
}

func TestGuideCommandErrors(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	err := execute(newGuideCommand(), buf, "terraform")
	assert.Equal(t, ExitCodeNotFound, ExitCode(err))

	err = execute(newGuideCommand(), buf, "Bad_ID")
	assert.Equal(t, ExitCodeValidation, ExitCode(err))

	err = execute(newGuideCommand(), buf, "docker", "--format", "pdf")
	assert.Equal(t, ExitCodeValidation, ExitCode(err))

	err = execute(newGuideCommand(), buf)
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	err := execute(newValidateCommand(), buf)
	assert.Equal(t, ExitCodeValidation, ExitCode(err))
	assert.Contains(t, buf.String(), "terraform:\n  - instructions file missing\n")

	buf.Reset()
	require.NoError(t, execute(newValidateCommand(), buf, "docker"))
	assert.Equal(t, "docker passed validation\n", buf.String())

	err = execute(newValidateCommand(), buf, "nope")
	assert.Equal(t, ExitCodeNotFound, ExitCode(err))

	fix.WriteFile(t, filepath.Join("instructions", "terraform.md"), []byte("## Install\n\n## Install\n\n### Apt\n\n```bash\nsudo apt-get install terraform\n```\n"))
	buf.Reset()
	require.NoError(t, execute(newValidateCommand(), buf, "all"))
	assert.Contains(t, buf.String(), `  ! section "Install" is empty`)
	assert.Contains(t, buf.String(), "Validated 3 tools (2 warnings)")

	buf.Reset()
	err = execute(newValidateCommand(), buf, "all", "--strict")
	assert.Equal(t, ExitCodeValidation, ExitCode(err))

	buf.Reset()
	err = execute(newValidateCommand(), buf, "terraform", "--strict")
	assert.Equal(t, ExitCodeValidation, ExitCode(err))
}

func TestValidateCommandJSON(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, true, false, false)

	require.NoError(t, execute(newValidateCommand(), buf))
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, false, payload["success"])
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(1), data["invalid"])

	buf.Reset()
	require.NoError(t, execute(newValidateCommand(), buf, "kubernetes"))
	data = decodeData(t, buf)
	assert.Equal(t, "Containers", data["category"])
	assert.Empty(t, data["errors"])
}

func TestIndexCommand(t *testing.T) {
	fix := testutil.NewFixture(t)
	opts, buf := setupOptions(t, fix, false, false, false)

	require.NoError(t, execute(newIndexCommand(), buf))
	assert.Contains(t, buf.String(), "✓ 3 added")
	assert.Contains(t, buf.String(), "Total: 3 tools (2 Containers, 1 Infrastructure)")
	assert.Contains(t, buf.String(), "Index written to INDEX.md")
	content, err := os.ReadFile(filepath.Join(opts.RootDir, "INDEX.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "| docker | Docker | [instructions/docker.md](instructions/docker.md) | 2 | 3 |")

	buf.Reset()
	require.NoError(t, execute(newIndexCommand(), buf))
	assert.Contains(t, buf.String(), "✓ No changes (3 tools indexed)")

	buf.Reset()
	require.NoError(t, execute(newIndexCommand(), buf, "--quiet"))
	assert.Empty(t, buf.String())

	fix.WriteFile(t, filepath.Join("instructions", "terraform.md"), []byte("## Install\n\n### Apt\n\n```bash\nsudo apt-get install terraform\n```\n"))
	buf.Reset()
	require.NoError(t, execute(newIndexCommand(), buf, "-v"))
	assert.Contains(t, buf.String(), "Changes detected: 1 changed")
	assert.Contains(t, buf.String(), "terraform")

	buf.Reset()
	require.NoError(t, execute(newIndexCommand(), buf, "--format", "html", "--output", "-"))
	assert.Contains(t, buf.String(), "<h1>Tools Index</h1>")

	err = execute(newIndexCommand(), buf, "--format", "yaml")
	assert.Equal(t, ExitCodeValidation, ExitCode(err))
}

func TestIndexCommandJSONAndDryRun(t *testing.T) {
	fix := testutil.NewFixture(t)
	opts, buf := setupOptions(t, fix, true, false, false)

	require.NoError(t, execute(newIndexCommand(), buf, "--format", "json"))
	data := decodeData(t, buf)
	assert.Equal(t, "json", data["format"])
	assert.Equal(t, false, data["written"])
	assert.Contains(t, data["content"], `"tools"`)

	_, dryBuf := setupOptions(t, fix, false, false, true)
	require.NoError(t, execute(newIndexCommand(), dryBuf))
	assert.Contains(t, dryBuf.String(), "Dry-run: index would be written to INDEX.md")
	_, err := os.Stat(filepath.Join(opts.RootDir, "INDEX.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestServeCommandStopsWithContext(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	serveCmd := newServeCommand()
	serveCmd.SetContext(ctx)
	require.NoError(t, execute(serveCmd, buf, "--addr", "127.0.0.1:0"))
	assert.Contains(t, buf.String(), "Serving guides on http://127.0.0.1:")

	err := execute(newServeCommand(), buf, "--addr", "bad address")
	assert.Equal(t, ExitCodeFilesystem, ExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, buf := setupOptions(t, fix, false, false, false)
	require.NoError(t, execute(newVersionCommand(), buf))
	assert.Equal(t, Version+"\n", buf.String())

	_, jsonBuf := setupOptions(t, fix, true, false, false)
	require.NoError(t, execute(newVersionCommand(), jsonBuf))
	assert.Equal(t, Version, decodeData(t, jsonBuf)["version"])
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := RootCommand()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "tools", "guide", "validate", "index", "serve", "sync", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("dry-run"))
}
