package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_All(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, run("all", "", root))

	for _, name := range []string{
		"docs/cli/index.md",
		"docs/cli/build.md",
		"docs/cli/classify.md",
		"docs/reference/configuration.md",
		"docs/reference/grammar.md",
	} {
		assert.FileExists(t, filepath.Join(root, name))
	}

	index, err := os.ReadFile(filepath.Join(root, "docs/cli/index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "`PHYLOTREE_STATE_PATH`")
	assert.Contains(t, string(index), "[`build`](/cli/build)")
	assert.Contains(t, string(index), "## Typical Workflow")
	assert.Contains(t, string(index), "`--strict` saw advisory warnings")
	assert.Contains(t, string(index), "| `--output` | `-o` | - |")

	build, err := os.ReadFile(filepath.Join(root, "docs/cli/build.md"))
	require.NoError(t, err)
	assert.Contains(t, string(build), "`--shape`")
	assert.Contains(t, string(build), "phylotree build")
}

func TestVisibleCommands(t *testing.T) {
	root := &cobra.Command{Use: "phylotree"}
	root.AddCommand(
		&cobra.Command{Use: "build", Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "__complete", Run: func(*cobra.Command, []string) {}},
	)

	var names []string
	for _, cmd := range visibleCommands(root) {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"build"}, names)
}

func TestWriteFlagsTable(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("shape", "s", "nested", "tree shape")
	flags.Int("workers", 0, "documents built at the same time")
	flags.Bool("hidden", false, "")
	require.NoError(t, flags.MarkHidden("hidden"))

	w := NewMarkdownWriter()
	writeFlagsTable(w, flags)

	assert.Equal(t, "| Option | Short | Default | Description |\n"+
		"| --- | --- | --- | --- |\n"+
		"| `--shape` | `-s` | `nested` | Tree shape |\n"+
		"| `--workers` | - | - | Documents built at the same time |\n\n", string(w.Bytes()))
}

func TestRun_UnknownGenerator(t *testing.T) {
	err := run("lint", t.TempDir(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown -gen value")
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	data, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "| `workers` | int | `4` | `PHYLOTREE_WORKERS` | `--workers` |")
	assert.Contains(t, doc, "| `state_path` | string | `.phylotree/state.db` | `PHYLOTREE_STATE_PATH` | `--state` |")
	assert.Contains(t, doc, "| `inputs` | []string | - | `PHYLOTREE_INPUTS` | - |")
	assert.Contains(t, doc, "`200ms`")
}

func TestGenerateGrammarDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateGrammarDocs(dir))

	data, err := os.ReadFile(filepath.Join(dir, "grammar.md"))
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "| `mt-MRCA` | boundary |")
	assert.Contains(t, doc, "| `C152T T2887C` | conditions |")
	assert.Contains(t, doc, "| `8281-8290d` | irregular |")
	assert.Contains(t, doc, "| (empty) | empty |")
	assert.Contains(t, doc, "- `8289.1CCCCCTCTA`")
}

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Title")
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	w.BulletList([]string{"one"})
	w.CodeBlock("bash", "echo hi\n")

	assert.Equal(t, "## Title\n\n| A | B |\n| --- | --- |\n| x\\|y | z |\n\n- one\n\n```bash\necho hi\n```\n\n", string(w.Bytes()))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "-", cleanDescription("  "))
	assert.Equal(t, "Path to state database", cleanDescription("path to\nstate database"))
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "a\n  b", cleanExample("    a\n      b\n"))
}
