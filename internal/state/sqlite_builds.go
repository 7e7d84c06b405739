package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/phylotree/internal/builder"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

const buildColumns = `id, source, created_at, node_count, depth, warning_count`

// timeFormat sorts lexicographically in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SaveBuild stores root and its warnings as a new build in one transaction.
func (s *SQLiteStore) SaveBuild(ctx context.Context, source string, root *tree.Node, warnings []builder.Warning) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	build := &Build{
		ID:           generateID(),
		Source:       source,
		CreatedAt:    time.Now().UTC(),
		NodeCount:    root.Count(),
		Depth:        root.Depth(),
		WarningCount: len(warnings),
	}

	s.logger.Debug("saving build", slog.String("id", build.ID), slog.String("source", source), slog.Int("nodes", build.NodeCount))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (`+buildColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		build.ID, build.Source, build.CreatedAt.Format(timeFormat), build.NodeCount, build.Depth, build.WarningCount,
	); err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}

	if err := insertNodes(ctx, tx, build.ID, root); err != nil {
		return nil, err
	}

	for _, w := range warnings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (build_id, row_index, candidate) VALUES (?, ?, ?)`,
			build.ID, w.Row, w.Candidate,
		); err != nil {
			return nil, fmt.Errorf("failed to save warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit build: %w", err)
	}
	return build, nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, buildID string, root *tree.Node) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (build_id, seq, parent_seq, name, has_self, conditions, accessions)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	seqByPath := make(map[string]int64)
	var seq int64
	for path, node := range root.All() {
		seq++
		key := pathKey(path)
		seqByPath[key] = seq

		var parent sql.NullInt64
		if len(path) > 1 {
			parent = sql.NullInt64{Int64: seqByPath[pathKey(path[:len(path)-1])], Valid: true}
		}

		var hasSelf bool
		var conditions, accessions sql.NullString
		if node.Self != nil {
			hasSelf = true
			if conditions, err = encodeList(node.Self.Conditions); err != nil {
				return err
			}
			if accessions, err = encodeList(node.Self.ExampleAccessions); err != nil {
				return err
			}
		}

		if _, err := stmt.ExecContext(ctx, buildID, seq, parent, path[len(path)-1], hasSelf, conditions, accessions); err != nil {
			return fmt.Errorf("failed to save node %s: %w", strings.Join(path, "/"), err)
		}
	}
	return nil
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}

func encodeList(values []string) (sql.NullString, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeList(value sql.NullString) ([]string, error) {
	if !value.Valid {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(value.String), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// GetBuild retrieves a build by ID.
func (s *SQLiteStore) GetBuild(ctx context.Context, id string) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}
	return build, nil
}

// LatestBuild retrieves the most recent build of source. It returns nil
// without error when source was never built.
func (s *SQLiteStore) LatestBuild(ctx context.Context, source string) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+buildColumns+` FROM builds WHERE source = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		source)
	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest build: %w", err)
	}
	return build, nil
}

// ListBuilds retrieves the most recent builds up to the given limit.
func (s *SQLiteStore) ListBuilds(ctx context.Context, limit int) ([]*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var builds []*Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, build)
	}
	return builds, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (*Build, error) {
	build := &Build{}
	var createdAt string
	if err := row.Scan(&build.ID, &build.Source, &createdAt, &build.NodeCount, &build.Depth, &build.WarningCount); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	build.CreatedAt = t
	return build, nil
}

// LoadTree restores the tree of a build.
func (s *SQLiteStore) LoadTree(ctx context.Context, id string) (*tree.Node, error) {
	if _, err := s.GetBuild(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, parent_seq, name, has_self, conditions, accessions
		 FROM nodes WHERE build_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	root := tree.NewNode()
	bySeq := make(map[int64]*tree.Node)
	for rows.Next() {
		var (
			seq                    int64
			parentSeq              sql.NullInt64
			name                   string
			hasSelf                bool
			conditions, accessions sql.NullString
		)
		if err := rows.Scan(&seq, &parentSeq, &name, &hasSelf, &conditions, &accessions); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		parent := root
		if parentSeq.Valid {
			p, ok := bySeq[parentSeq.Int64]
			if !ok {
				return nil, fmt.Errorf("node %d of build %s references unknown parent %d", seq, id, parentSeq.Int64)
			}
			parent = p
		}

		node := parent.Descend([]string{name})
		if hasSelf {
			conds, err := decodeList(conditions)
			if err != nil {
				return nil, err
			}
			accs, err := decodeList(accessions)
			if err != nil {
				return nil, err
			}
			node.Self = &tree.SelfData{Conditions: conds, ExampleAccessions: accs}
		}
		bySeq[seq] = node
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	return root, nil
}

// LoadWarnings returns the advisory warnings recorded with a build.
func (s *SQLiteStore) LoadWarnings(ctx context.Context, id string) ([]builder.Warning, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, candidate FROM warnings WHERE build_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load warnings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var warnings []builder.Warning
	for rows.Next() {
		var w builder.Warning
		if err := rows.Scan(&w.Row, &w.Candidate); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// DeleteBuild removes a build with its nodes and warnings.
func (s *SQLiteStore) DeleteBuild(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"warnings", "nodes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE build_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM builds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return tx.Commit()
}
