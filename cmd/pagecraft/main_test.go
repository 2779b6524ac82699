package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagecraft/internal/document"
)

// execute runs the root command with a config path inside dir.
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", filepath.Join(dir, "config.toml"), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(code), 0o600))
	return path
}

const buildHero = `
local hero = page.insert(page.root, "section")
page.insert(hero, "heading", {text = "Welcome", level = 1})
page.insert(hero, "button", {label = "Start"})
print("built", #page.children(hero))
`

func TestRunSavesAndShow(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	script := writeScript(t, dir, "hero.lua", buildHero)

	out, errOut, err := execute(t, dir, "-d", doc, "run", script)
	require.NoError(t, err)
	assert.Equal(t, "built\t2\n", out)
	assert.Contains(t, errOut, "saved "+doc)
	assert.FileExists(t, doc)

	out, _, err = execute(t, dir, "show", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "(3 components")
	assert.Contains(t, out, "\nPage\n  Section\n    Heading \"Welcome\"\n    Button \"Start\"\n")

	out, _, err = execute(t, dir, "show", doc, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"heading"`)
	assert.Contains(t, out, "\n  ")
}

func TestRunAppendsToExistingDocument(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	script := writeScript(t, dir, "hero.lua", buildHero)

	_, _, err := execute(t, dir, "-d", doc, "run", script)
	require.NoError(t, err)
	_, _, err = execute(t, dir, "-d", doc, "run", script)
	require.NoError(t, err)

	out, _, err := execute(t, dir, "show", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "(6 components")
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	script := writeScript(t, dir, "hero.lua", buildHero)

	out, _, err := execute(t, dir, "-d", doc, "run", "--dry-run", "--show", script)
	require.NoError(t, err)
	assert.Contains(t, out, "    Button \"Start\"")
	assert.NoFileExists(t, doc)
}

func TestRunFailureSavesNothing(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "home.json")
	good := writeScript(t, dir, "good.lua", buildHero)
	bad := writeScript(t, dir, "bad.lua", `assert(page.insert(page.root, "no-such-kind"), "unknown kind")`)

	_, _, err := execute(t, dir, "-d", doc, "run", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.lua")
	assert.NoFileExists(t, doc)
}

func TestRunRequiresScript(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "run")
	assert.Error(t, err)
}

func TestShowMissingDocument(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, dir, "show", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestComponents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components.yaml"), []byte(`
components:
  - id: card
    name: Card
    acceptsChildren: true
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[registry]
path = "`+filepath.ToSlash(filepath.Join(dir, "components.yaml"))+`"
`), 0o600))

	out, _, err := execute(t, dir, "components")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Card")
	assert.NotContains(t, out, "Page")
}

func TestKeys(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "DOCUMENT")
	assert.Contains(t, out, "Save document")
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[document]")

	out, _, err = execute(t, dir, "config", "--path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
}

func TestBadLogLevel(t *testing.T) {
	var stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "config.toml"), "--log-level", "loud", "version"})
	assert.Error(t, cmd.Execute())
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pagecraft dev")
}

func TestComponentsQuery(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, "components", "btn")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "button"))

	_, _, err = execute(t, dir, "components", "zzzz")
	assert.Error(t, err)
}
