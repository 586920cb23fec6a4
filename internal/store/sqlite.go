package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/raghavn86/TaskBuddy/internal/domain"
)

// SQLiteStore persists each plan as one JSON document in a versioned row.
// The version column carries the optimistic concurrency check: transactional
// commits are conditional updates on the version read, so two writers racing
// on the same plan serialize and the loser observes ErrConflict.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id       TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	version  INTEGER NOT NULL DEFAULT 1
)`

// OpenSQLite opens (creating if needed) a SQLite-backed plan store at path.
// ":memory:" uses an in-memory database. WAL mode is enabled for concurrent
// readers.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating plans table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	p, _, err := s.getVersioned(ctx, id)
	return p, err
}

func (s *SQLiteStore) getVersioned(ctx context.Context, id string) (*domain.Plan, int64, error) {
	var doc string
	var version int64
	err := s.db.QueryRowContext(ctx,
		"SELECT document, version FROM plans WHERE id = ?", id).Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading plan %s: %w", id, err)
	}
	p, err := decodePlan(doc)
	if err != nil {
		return nil, 0, err
	}
	return p, version, nil
}

func (s *SQLiteStore) Set(ctx context.Context, p *domain.Plan) error {
	doc, err := encodePlan(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, document, version) VALUES (?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			version  = plans.version + 1`,
		p.ID, doc)
	if err != nil {
		return fmt.Errorf("writing plan %s: %w", p.ID, err)
	}
	return nil
}

// Update merges top-level document fields. The read-merge-write runs inside
// one database transaction so it is atomic relative to other writers.
func (s *SQLiteStore) Update(ctx context.Context, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRowContext(ctx, "SELECT document FROM plans WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading plan %s: %w", id, err)
	}

	p, err := decodePlan(doc)
	if err != nil {
		return err
	}
	merged, err := mergeDocument(p, fields)
	if err != nil {
		return err
	}
	out, err := encodePlan(merged)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE plans SET document = ?, version = version + 1 WHERE id = ?", out, id); err != nil {
		return fmt.Errorf("updating plan %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update of plan %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT document FROM plans ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		p, err := decodePlan(doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}
	return plans, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

// RunTransaction executes fn against a handle that records the version of
// every document it reads and buffers every write. The commit phase applies
// the writes in one database transaction, each conditional on the version
// read; any moved version rolls the whole commit back with ErrConflict.
func (s *SQLiteStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	stx := &sqliteTx{store: s, read: make(map[string]int64)}
	if err := fn(ctx, stx); err != nil {
		return err
	}
	if len(stx.writes) == 0 {
		return nil
	}
	return s.commit(ctx, stx)
}

func (s *SQLiteStore) commit(ctx context.Context, stx *sqliteTx) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning commit transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	for _, p := range stx.writes {
		doc, err := encodePlan(p)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		seen, wasRead := stx.read[p.ID]
		if wasRead && seen > 0 {
			res, err := tx.ExecContext(ctx,
				"UPDATE plans SET document = ?, version = version + 1 WHERE id = ? AND version = ?",
				doc, p.ID, seen)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("writing plan %s: %w", p.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("writing plan %s: %w", p.ID, err)
			}
			if n == 0 {
				_ = tx.Rollback()
				return fmt.Errorf("plan %s: %w", p.ID, ErrConflict)
			}
			continue
		}
		// Document was absent (or never read) at transaction time: create
		// it, conflicting if a concurrent writer created it first.
		res, err := tx.ExecContext(ctx,
			"INSERT INTO plans (id, document, version) VALUES (?, ?, 1) ON CONFLICT(id) DO NOTHING",
			p.ID, doc)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("creating plan %s: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("creating plan %s: %w", p.ID, err)
		}
		if n == 0 && wasRead {
			_ = tx.Rollback()
			return fmt.Errorf("plan %s: %w", p.ID, ErrConflict)
		}
		if n == 0 {
			// Blind set of an existing document: last write wins.
			if _, err := tx.ExecContext(ctx,
				"UPDATE plans SET document = ?, version = version + 1 WHERE id = ?", doc, p.ID); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("writing plan %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	store  *SQLiteStore
	read   map[string]int64
	writes []*domain.Plan
}

func (tx *sqliteTx) Get(ctx context.Context, id string) (*domain.Plan, error) {
	p, version, err := tx.store.getVersioned(ctx, id)
	if errors.Is(err, ErrNotFound) {
		tx.read[id] = 0
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	tx.read[id] = version
	return p, nil
}

func (tx *sqliteTx) Set(ctx context.Context, p *domain.Plan) error {
	tx.writes = append(tx.writes, domain.CopyPlan(p))
	return nil
}

func encodePlan(p *domain.Plan) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding plan %s: %w", p.ID, err)
	}
	return string(raw), nil
}

func decodePlan(doc string) (*domain.Plan, error) {
	var p domain.Plan
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decoding plan document: %w", err)
	}
	return &p, nil
}
