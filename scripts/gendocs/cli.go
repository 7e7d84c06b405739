package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/phylotree/internal/cli"
	"github.com/leapstack-labs/phylotree/internal/cli/config"
)

// exitCodes documents what a non-zero status means for each command.
var exitCodes = [][]string{
	{InlineCode("0"), "The tree was built, rendered or stored"},
	{InlineCode("1"), "A document could not be read, a row named two haplogroups, the state database failed, or `--strict` saw advisory warnings"},
}

// workflow is the walkthrough shown on the index page.
const workflow = `# Build the tree and print it as markdown
phylotree build mtDNA_tree_Build_17.htm -o markdown

# Write both output documents
phylotree build mtDNA_tree_Build_17.htm --out phylotree.json
phylotree build mtDNA_tree_Build_17.htm --shape paths --out phylotree_array.json

# Keep a copy and compare with the previous build
phylotree build mtDNA_tree_Build_17.htm --save
phylotree history
phylotree diff mtDNA_tree_Build_16.htm mtDNA_tree_Build_17.htm`

// generateCLIDocs writes index.md plus one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	root := cli.NewRootCmd()
	cmds := visibleCommands(root)

	if err := writeDoc(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	for _, cmd := range cmds {
		if err := writeDoc(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func writeDoc(outDir, name string, w *MarkdownWriter) error {
	log.Printf("  Generated %s", name)
	return os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600)
}

// visibleCommands skips hidden commands and cobra's own helpers.
func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "__") {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for phylotree")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/phylotree/cmd/phylotree@latest")

	w.Header(2, "Typical Workflow")
	w.CodeBlock("bash", workflow)

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range cmds {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, InlineCode(cmd.UseLine()), cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Usage", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Each configuration key has an environment variable. Flags win over the environment, which wins over `phylotree.yaml`.")
	var envRows [][]string
	for _, opt := range configOptions(config.Default()) {
		envRows = append(envRows, []string{InlineCode(opt.EnvVar()), cleanDescription(opt.Description)})
	}
	w.Table([]string{"Variable", "Description"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, exitCodes)
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	if len(cmd.ValidArgs) > 0 {
		w.Header(2, "Arguments")
		var args []string
		for _, a := range cmd.ValidArgs {
			args = append(args, InlineCode(a))
		}
		w.BulletList(args)
	}

	w.Paragraph("Global options are listed on the [CLI reference](/cli/) page.")
	return w
}

// writeFlagsTable lists flags as option, shorthand, default, description.
// Zero defaults are shown as "-".
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := "-"
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := "-"
		switch f.DefValue {
		case "", "0", "0s", "false", "[]":
		default:
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == -1 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(example)
	}

	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
