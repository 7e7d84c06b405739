// Package builder reconstructs the haplogroup tree from table rows.
//
// Hierarchy is implied by column offset: the column holding a row's branch
// conditions fixes the depth of the haplogroup named on that row. A Builder
// keeps the path of names currently open at each depth and must be fed the
// rows of one document strictly in order. It is not safe for concurrent use.
package builder

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/phylotree/pkg/pattern"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// Stats counts what the builder did with the rows it was given.
type Stats struct {
	Rows           int
	BeforeBoundary int
	Structural     int
	NonStructural  int
}

// Builder grows a tree one row at a time.
type Builder struct {
	root         *tree.Node
	pastBoundary bool
	depthPath    []string

	warnings []Warning
	stats    Stats
	err      error
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for advisory warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a builder with an empty tree, a closed boundary gate and an
// empty depth path.
func New(opts ...Option) *Builder {
	b := &Builder{
		root:   tree.NewNode(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessRow consumes one table row. cells are the decoded texts of the
// row's cells in column order and rowText is the row's full text, used only to
// find the table boundary.
//
// Rows up to and including the boundary row are ignored. Rows without a
// branch-condition cell carry no structure and are ignored too. A row with
// two haplogroup names aborts the build with a *DuplicateHaplogroupNameError;
// once aborted, every later call returns the same error.
func (b *Builder) ProcessRow(cells []string, rowText string) error {
	if b.err != nil {
		return b.err
	}
	b.stats.Rows++

	if !b.pastBoundary {
		b.stats.BeforeBoundary++
		if pattern.IsTableBoundaryMarker(rowText) {
			b.pastBoundary = true
			b.logger.Debug("table boundary found", slog.Int("row", b.stats.Rows))
		}
		return nil
	}

	cols := make([]string, len(cells))
	var conditions, candidates []string
	depth := 0
	for i, cell := range cells {
		text := NormalizeCell(cell)
		cols[i] = text
		if text == "" {
			continue
		}
		if pattern.IsBranchConditionSequence(text) {
			conditions = strings.Split(text, " ")
			depth = i - 1
		} else {
			candidates = append(candidates, text)
		}
	}

	if len(conditions) == 0 {
		b.stats.NonStructural++
		return nil
	}

	accessions := ExtractExampleAccessions(cols)
	name, warnings, err := DetectHaplogroup(candidates, accessions)
	if err != nil {
		var dup *DuplicateHaplogroupNameError
		if errors.As(err, &dup) {
			dup.Row = b.stats.Rows
		}
		b.err = err
		b.logger.Error("ambiguous row", slog.Int("row", b.stats.Rows), slog.String("error", err.Error()))
		return err
	}
	for _, w := range warnings {
		w.Row = b.stats.Rows
		b.warnings = append(b.warnings, w)
		b.logger.Warn(w.String(), slog.Int("row", w.Row), slog.String("candidate", w.Candidate))
	}

	b.GrowTree(name, conditions, accessions, depth)
	b.stats.Structural++
	return nil
}

// NormalizeCell trims leading and trailing whitespace and collapses every
// internal whitespace run into a single space.
func NormalizeCell(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ExtractExampleAccessions returns the non-empty values among the two
// rightmost columns, in column order.
func ExtractExampleAccessions(cols []string) []string {
	accessions := []string{}
	for _, offset := range []int{2, 1} {
		i := len(cols) - offset
		if i < 0 || cols[i] == "" {
			continue
		}
		accessions = append(accessions, cols[i])
	}
	return accessions
}

// DetectHaplogroup picks the haplogroup name among the label candidates of a
// row. Candidates equal to one of the accessions are skipped. The first
// remaining candidate is the name; a second one is an error. When no
// candidate remains the name is tree.UnnamedBranch. Names that look like
// mutation notations are accepted with a warning.
func DetectHaplogroup(candidates, accessions []string) (string, []Warning, error) {
	var name string
	var warnings []Warning
	for _, candidate := range candidates {
		if slices.Contains(accessions, candidate) {
			continue
		}
		if name != "" {
			return "", nil, &DuplicateHaplogroupNameError{First: name, Second: candidate}
		}
		if pattern.IsIrregularNotation(candidate) {
			warnings = append(warnings, Warning{Candidate: candidate})
		}
		name = candidate
	}
	if name == "" {
		name = tree.UnnamedBranch
	}
	return name, warnings, nil
}

// GrowTree records name at depth in the depth path, walks the tree along the
// path from the top level down to depth, and sets the self-data of the node
// found there.
//
// Depth is expected to grow by at most one level per row. Other progressions
// are not checked. Levels of the path that no row has opened yet are skipped
// during the walk, so a table whose first data row sits one column to the
// right still hangs from the root. A negative depth is treated as the top
// level.
func (b *Builder) GrowTree(name string, conditions, accessions []string, depth int) {
	depth = max(depth, 0)
	for len(b.depthPath) <= depth {
		b.depthPath = append(b.depthPath, "")
	}
	b.depthPath[depth] = name

	path := make([]string, 0, depth+1)
	for _, open := range b.depthPath[:depth+1] {
		if open != "" {
			path = append(path, open)
		}
	}
	b.root.Grow(path, tree.SelfData{
		Conditions:        conditions,
		ExampleAccessions: accessions,
	})
}

// Tree returns the root of the tree built so far. The root never has
// self-data.
func (b *Builder) Tree() *tree.Node {
	return b.root
}

// Warnings returns the advisory warnings raised so far.
func (b *Builder) Warnings() []Warning {
	return slices.Clone(b.warnings)
}

// Err returns the fatal error that aborted the build, if any.
func (b *Builder) Err() error {
	return b.err
}

// PastBoundary reports whether the table boundary has been seen.
func (b *Builder) PastBoundary() bool {
	return b.pastBoundary
}

// Stats returns row counters.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Prettify returns the nested presentation of the tree.
func (b *Builder) Prettify() *tree.Pretty {
	return tree.Prettify(b.root)
}

// Flatten returns every root-to-node path of the tree.
func (b *Builder) Flatten() [][]tree.PathEntry {
	return tree.Flatten(b.Prettify(), nil)
}
