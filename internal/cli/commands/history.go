package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit  int
		remove string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored builds",
		Long: `List the builds stored with "phylotree build --save", newest first.

Use --delete to remove a stored build and its tree.`,
		Example: `  phylotree history
  phylotree history --limit 5 -o json
  phylotree history --delete 0b5c8a2e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			ctx := cmd.Context()

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if remove != "" {
				if err := store.DeleteBuild(ctx, remove); err != nil {
					return err
				}
				cmdCtx.Renderer.Success(fmt.Sprintf("Deleted build %s", remove))
				return nil
			}

			builds, err := store.ListBuilds(ctx, limit)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Builds(builds)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of builds to list")
	cmd.Flags().StringVar(&remove, "delete", "", "Delete the build with this ID")
	return cmd
}
