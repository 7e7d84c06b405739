package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phylotree/internal/cli/output"
	"github.com/leapstack-labs/phylotree/internal/engine"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Shape string
	Out   string
	Save  bool
	Watch bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build [document...]",
		Short: "Build haplogroup trees from phylotree documents",
		Long: `Parse phylotree HTML documents and build their haplogroup trees.

Every document is built on its own, several at a time. The tree is printed
nested (one object per haplogroup with its descendants) or as the list of
root-to-node paths.

Output adapts to environment:
  - Terminal: Styled tree
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Build and print the tree
  phylotree build mtDNA_tree.htm

  # Write the nested JSON tree to a file
  phylotree build mtDNA_tree.htm --out phylotree.json

  # Write the path listing as JSON
  phylotree build mtDNA_tree.htm --shape paths --out phylotree_array.json

  # Rebuild whenever the document changes and keep every build
  phylotree build mtDNA_tree.htm --watch --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Shape, "shape", shapeNested, "Tree shape (nested|paths)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write the tree to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Store the build in the state database")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild when a document changes")
	cmd.Flags().Bool("strict", false, "Fail when advisory warnings were raised")

	_ = cmd.RegisterFlagCompletionFunc("shape", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{shapeNested, shapePaths}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, opts *BuildOptions) error {
	if err := validateShape(opts.Shape); err != nil {
		return err
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	paths, err := inputPaths(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}
	if opts.Out != "" && len(paths) > 1 {
		return fmt.Errorf("--out takes a single document, got %d", len(paths))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := cmdCtx.Engine.BuildFiles(ctx, paths)
	if err != nil {
		return err
	}
	if err := emitResults(ctx, cmdCtx, results, opts); err != nil {
		return err
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := cmdCtx.Renderer
		_, _ = fmt.Fprintln(r.ErrWriter(), r.Muted("Watching for changes (Ctrl+C to stop)"))
		return cmdCtx.Engine.Watch(ctx, paths, cmdCtx.Cfg.WatchDebounce, func(results []*engine.Result, err error) {
			if err != nil {
				r.Error(err.Error())
				return
			}
			if err := emitResults(ctx, cmdCtx, results, opts); err != nil {
				r.Error(err.Error())
			}
		})
	}

	if cmdCtx.Cfg.Strict {
		warnings := 0
		for _, res := range results {
			warnings += len(res.Warnings)
		}
		if warnings > 0 {
			return fmt.Errorf("%d advisory warning(s) raised (strict mode)", warnings)
		}
	}
	return nil
}

// emitResults renders, stores and summarizes one round of builds.
func emitResults(ctx context.Context, cmdCtx *CommandContext, results []*engine.Result, opts *BuildOptions) error {
	r := cmdCtx.Renderer

	for _, res := range results {
		if opts.Out != "" {
			if err := writeResultFile(cmdCtx, res, opts); err != nil {
				return err
			}
		} else if err := renderResult(r, res, opts.Shape); err != nil {
			return err
		}
		r.Warnings(res.Source, res.Warnings)
	}

	if opts.Save {
		if err := saveResults(ctx, cmdCtx, results); err != nil {
			return err
		}
	}

	for _, res := range results {
		r.Success(res.Summary())
	}
	return nil
}

func renderResult(r *output.Renderer, res *engine.Result, shape string) error {
	if shape == shapePaths {
		return r.Paths(res.Paths())
	}
	return r.Tree(filepath.Base(res.Source), res.Pretty())
}

// writeResultFile writes the tree of res to opts.Out. The format follows the
// file extension unless --output names one explicitly.
func writeResultFile(cmdCtx *CommandContext, res *engine.Result, opts *BuildOptions) (err error) {
	mode := output.Mode(cmdCtx.Cfg.OutputFormat)
	if mode == output.ModeAuto || mode == "" {
		mode = modeForFile(opts.Out)
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.Out, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write %s: %w", opts.Out, cerr)
		}
	}()

	fr := output.NewRendererWithTTY(f, cmdCtx.Renderer.ErrWriter(), false, mode)
	if err := renderResult(fr, res, opts.Shape); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}
	cmdCtx.Logger.Info("tree written", "file", opts.Out, "format", string(mode))
	return nil
}

func modeForFile(path string) output.Mode {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return output.ModeJSON
	case ".yaml", ".yml":
		return output.ModeYAML
	case ".md", ".markdown":
		return output.ModeMarkdown
	default:
		return output.ModeText
	}
}

func saveResults(ctx context.Context, cmdCtx *CommandContext, results []*engine.Result) error {
	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	for _, res := range results {
		source, err := filepath.Abs(res.Source)
		if err != nil {
			source = res.Source
		}

		previous, err := store.LatestBuild(ctx, source)
		if err != nil {
			return err
		}
		build, err := store.SaveBuild(ctx, source, res.Tree, res.Warnings)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Saved build %s", build.ID)
		if previous != nil {
			msg += fmt.Sprintf(" (%+d haplogroups since %s)", build.NodeCount-previous.NodeCount, previous.ID)
		}
		cmdCtx.Renderer.Success(msg)
	}
	return nil
}
