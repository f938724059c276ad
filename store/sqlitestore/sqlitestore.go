// Package sqlitestore persists trait assignments in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/oriumgames/traitswap/store"
)

const schema = `CREATE TABLE IF NOT EXISTS player_traits (
	player_id TEXT PRIMARY KEY,
	trait     TEXT NOT NULL
)`

// Store persists trait assignments in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and its table.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads every row.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT player_id, trait FROM player_traits`)
	if err != nil {
		return nil, fmt.Errorf("query traits: %w", err)
	}
	defer rows.Close()

	snap := store.Snapshot{}
	for rows.Next() {
		var id, trait string
		if err := rows.Scan(&id, &trait); err != nil {
			return nil, fmt.Errorf("scan trait: %w", err)
		}
		snap[id] = trait
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traits: %w", err)
	}
	return snap, nil
}

// Save replaces every row in one transaction.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM player_traits`); err != nil {
		return fmt.Errorf("clear traits: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO player_traits (player_id, trait) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, trait := range snap {
		if _, err = stmt.ExecContext(ctx, id, trait); err != nil {
			return fmt.Errorf("insert trait for %s: %w", id, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit traits: %w", err)
	}
	return nil
}
