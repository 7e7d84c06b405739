// Package state persists built haplogroup trees in SQLite.
//
// Every build gets its own UUID. Nodes are stored in depth-first pre-order
// with a reference to their parent's sequence number, so a tree can be
// restored with its sibling order intact.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/phylotree/internal/builder"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// ErrBuildNotFound is returned when no build has the requested ID.
var ErrBuildNotFound = errors.New("build not found")

// Build describes one stored tree.
type Build struct {
	ID           string
	Source       string
	CreatedAt    time.Time
	NodeCount    int
	Depth        int
	WarningCount int
}

// Store is the persistence interface used by the CLI.
type Store interface {
	SaveBuild(ctx context.Context, source string, root *tree.Node, warnings []builder.Warning) (*Build, error)
	GetBuild(ctx context.Context, id string) (*Build, error)
	LatestBuild(ctx context.Context, source string) (*Build, error)
	ListBuilds(ctx context.Context, limit int) ([]*Build, error)
	LoadTree(ctx context.Context, id string) (*tree.Node, error)
	LoadWarnings(ctx context.Context, id string) ([]builder.Warning, error)
	DeleteBuild(ctx context.Context, id string) error
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
