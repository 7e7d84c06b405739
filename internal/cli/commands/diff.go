package commands

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phylotree/internal/cli/output"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	var unchanged bool

	cmd := &cobra.Command{
		Use:   "diff <old-document> <new-document>",
		Short: "Compare the trees of two documents",
		Long: `Build both documents and compare their path listings line by line.

Each line is a haplogroup path followed by the haplogroup's branch
conditions, so renamed, moved, added and removed haplogroups as well as
changed conditions all show up.`,
		Example: `  phylotree diff build16.htm build17.htm
  phylotree diff build16.htm build17.htm -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			results, err := cmdCtx.Engine.BuildFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			lines := diffListings(pathListing(results[0].Paths()), pathListing(results[1].Paths()))
			if !unchanged {
				lines = changedOnly(lines)
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(lines)
			case output.ModeYAML:
				return r.YAML(lines)
			}

			r.Diff(lines)
			added, removed := countChanges(lines)
			if added == 0 && removed == 0 {
				r.Success("Trees are identical")
			} else {
				r.Warning(fmt.Sprintf("%d line(s) added, %d line(s) removed", added, removed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unchanged, "unchanged", false, "Also print unchanged lines")
	return cmd
}

// pathListing renders every path as "A > B > C  cond cond".
func pathListing(paths [][]tree.PathEntry) []string {
	lines := make([]string, 0, len(paths))
	for _, path := range paths {
		line := strings.Join(tree.PathNames(path), " > ")
		if conds := path[len(path)-1].Conditions; len(conds) > 0 {
			line += "  " + strings.Join(conds, " ")
		}
		lines = append(lines, line)
	}
	return lines
}

// diffListings computes a line diff of two listings.
func diffListings(oldLines, newLines []string) []output.DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(joinLines(oldLines), joinLines(newLines))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []output.DiffLine
	for _, d := range diffs {
		op := output.DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = output.DiffInsert
		case diffmatchpatch.DiffDelete:
			op = output.DiffDelete
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, output.DiffLine{Op: op, Text: line})
		}
	}
	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func changedOnly(lines []output.DiffLine) []output.DiffLine {
	out := make([]output.DiffLine, 0, len(lines))
	for _, l := range lines {
		if l.Op != output.DiffEqual {
			out = append(out, l)
		}
	}
	return out
}

func countChanges(lines []output.DiffLine) (added, removed int) {
	for _, l := range lines {
		switch l.Op {
		case output.DiffInsert:
			added++
		case output.DiffDelete:
			removed++
		}
	}
	return added, removed
}
