// Package engine turns phylotree documents into haplogroup trees.
//
// Each document is read, decoded and fed row by row, in document order, to
// its own builder. Several documents can be built concurrently because
// builders share nothing but the immutable grammar.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/phylotree/internal/builder"
	"github.com/leapstack-labs/phylotree/internal/source"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// DefaultWorkers bounds concurrent document builds when Config.Workers is 0.
const DefaultWorkers = 4

// Config holds engine configuration.
type Config struct {
	// Encoding is the character set of the input documents (default windows-1252)
	Encoding string
	// Workers bounds the number of documents built at the same time
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine builds trees from documents.
type Engine struct {
	encoding string
	workers  int
	logger   *slog.Logger
}

// Result is the outcome of building one document.
type Result struct {
	Source   string
	Tree     *tree.Node
	Warnings []builder.Warning
	Stats    builder.Stats
	Duration time.Duration
}

// Pretty returns the nested presentation of the tree.
func (r *Result) Pretty() *tree.Pretty {
	return tree.Prettify(r.Tree)
}

// Paths returns every root-to-node path of the tree.
func (r *Result) Paths() [][]tree.PathEntry {
	return tree.Flatten(r.Pretty(), nil)
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"%s: %d haplogroups (depth %d) from %d rows | %d warnings | Duration: %s",
		r.Source, r.Tree.Count(), r.Tree.Depth(), r.Stats.Rows, len(r.Warnings),
		r.Duration.Round(time.Millisecond),
	)
}

// New creates an engine. It fails if the configured encoding is unknown.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if _, err := source.LookupEncoding(cfg.Encoding); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	logger.Debug("initializing engine", "encoding", cfg.Encoding, "workers", workers)

	return &Engine{
		encoding: cfg.Encoding,
		workers:  workers,
		logger:   logger,
	}, nil
}

// BuildFile reads the document at path and builds its tree.
func (e *Engine) BuildFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := source.ReadFile(path, e.encoding)
	if err != nil {
		return nil, err
	}
	return e.BuildDocument(doc)
}

// BuildDocument feeds every row of doc, in order, to a fresh builder.
func (e *Engine) BuildDocument(doc *source.Document) (*Result, error) {
	start := time.Now()
	logger := e.logger.With("source", doc.Path)
	logger.Info("building tree", "tables", len(doc.Tables), "rows", doc.RowCount())

	b := builder.New(builder.WithLogger(logger))
	for row := range doc.Rows() {
		if err := b.ProcessRow(row.Cells, row.Text); err != nil {
			if doc.Path != "" {
				return nil, fmt.Errorf("%s: %w", doc.Path, err)
			}
			return nil, err
		}
	}

	if !b.PastBoundary() {
		logger.Warn("table boundary marker not found, tree is empty")
	}

	result := &Result{
		Source:   doc.Path,
		Tree:     b.Tree(),
		Warnings: b.Warnings(),
		Stats:    b.Stats(),
		Duration: time.Since(start),
	}
	logger.Info("tree built", "haplogroups", result.Tree.Count(), "warnings", len(result.Warnings))
	return result, nil
}

// BuildFiles builds every path on its own builder, at most Workers at a time.
// Results are returned in the order of paths. The first failure cancels the
// builds that have not started yet.
func (e *Engine) BuildFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range paths {
		g.Go(func() error {
			result, err := e.BuildFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
