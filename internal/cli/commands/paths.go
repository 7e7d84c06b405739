package commands

import (
	"github.com/spf13/cobra"
)

// NewPathsCommand creates the paths command.
func NewPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <document>",
		Short: "List every root-to-haplogroup path",
		Long: `Build the tree of a document and list every haplogroup with the path
leading to it, in depth-first order.

Each entry carries the names from the top level down to the haplogroup and
the haplogroup's own branch conditions.`,
		Example: `  # Table of paths
  phylotree paths mtDNA_tree.htm

  # Path arrays as JSON
  phylotree paths mtDNA_tree.htm -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Engine.BuildFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Warnings(res.Source, res.Warnings)
			return cmdCtx.Renderer.Paths(res.Paths())
		},
	}
}
