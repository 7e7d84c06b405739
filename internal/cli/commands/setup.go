package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phylotree/internal/cli/config"
	"github.com/leapstack-labs/phylotree/internal/cli/output"
	"github.com/leapstack-labs/phylotree/internal/engine"
	"github.com/leapstack-labs/phylotree/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := engine.New(engine.Config{
		Encoding: cmdCtx.Cfg.Encoding,
		Workers:  cmdCtx.Cfg.Workers,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read the state store.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// OpenStore opens and migrates the state database.
// The caller must close the returned store.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLiteStore, error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// getConfig returns the current configuration, or the defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// inputPaths returns the positional arguments, or the configured inputs.
func inputPaths(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Inputs) > 0 {
		return cfg.Inputs, nil
	}
	return nil, fmt.Errorf("no input documents\nHint: pass a file such as mtDNA_tree.htm or set inputs in phylotree.yaml")
}

// Tree shapes accepted by --shape.
const (
	shapeNested = "nested"
	shapePaths  = "paths"
)

func validateShape(shape string) error {
	switch shape {
	case shapeNested, shapePaths:
		return nil
	}
	return fmt.Errorf("invalid shape %q (nested|paths)", shape)
}
