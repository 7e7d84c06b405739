package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phylotree/internal/state"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var shape string

	cmd := &cobra.Command{
		Use:   "show <build-id|latest>",
		Short: "Render a stored build",
		Long: `Load a build from the state database and render its tree, exactly as
"phylotree build" printed it when it was saved.`,
		Example: `  phylotree show latest
  phylotree show 0b5c8a2e-... --shape paths -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShape(shape); err != nil {
				return err
			}

			cmdCtx := NewCommandContextWithoutEngine(cmd)
			ctx := cmd.Context()

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			build, err := resolveBuild(cmd, store, args[0])
			if err != nil {
				return err
			}
			root, err := store.LoadTree(ctx, build.ID)
			if err != nil {
				return err
			}
			warnings, err := store.LoadWarnings(ctx, build.ID)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			pretty := tree.Prettify(root)
			if shape == shapePaths {
				err = r.Paths(tree.Flatten(pretty, nil))
			} else {
				err = r.Tree(filepath.Base(build.Source), pretty)
			}
			if err != nil {
				return err
			}
			r.Warnings(build.Source, warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&shape, "shape", shapeNested, "Tree shape (nested|paths)")
	return cmd
}

func resolveBuild(cmd *cobra.Command, store state.Store, id string) (*state.Build, error) {
	if id != "latest" {
		return store.GetBuild(cmd.Context(), id)
	}
	builds, err := store.ListBuilds(cmd.Context(), 1)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, fmt.Errorf("%w: no builds stored yet", state.ErrBuildNotFound)
	}
	return builds[0], nil
}
