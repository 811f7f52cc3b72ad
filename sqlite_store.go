package proofset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Import SQLite driver for database/sql
)

type sqliteStore struct{ db *sql.DB }

// OpenSQLiteStore opens/creates a SQLite DB and ensures schema + PRAGMAs.
func OpenSQLiteStore(dsn string) (Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	st := &sqliteStore{db: db}
	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}
	schema := `
CREATE TABLE IF NOT EXISTS proofsets (
  root         TEXT PRIMARY KEY,   -- lowercase hex root hash
  algo         INTEGER NOT NULL,
  created_at   INTEGER NOT NULL,   -- unix seconds, UTC
  entries      INTEGER NOT NULL,
  hash_list    TEXT NOT NULL,
  detail_lines TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS proofsets_created_idx ON proofsets(created_at);
`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

// Save inserts a proofset record. Re-saving an existing root is a no-op:
// the root determines the whole record.
func (s *sqliteStore) Save(rec ProofsetRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO proofsets (root, algo, created_at, entries, hash_list, detail_lines)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(root) DO NOTHING`,
		storeKey(rec.RootHash), int(rec.Algorithm), rec.CreatedAt.Unix(),
		rec.EntryCount, rec.HashList, rec.DetailLines)
	if err != nil {
		return fmt.Errorf("save proofset %s: %w", rec.RootHash, err)
	}
	return nil
}

// Get looks up a proofset by root hash, case-insensitively.
func (s *sqliteStore) Get(rootHash string) (ProofsetRecord, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var rec ProofsetRecord
	var algo int
	var created int64
	err := s.db.QueryRowContext(ctx, `
SELECT root, algo, created_at, entries, hash_list, detail_lines
FROM proofsets WHERE root = ?`, storeKey(rootHash)).
		Scan(&rec.RootHash, &algo, &created, &rec.EntryCount, &rec.HashList, &rec.DetailLines)
	if errors.Is(err, sql.ErrNoRows) {
		return ProofsetRecord{}, false, nil
	}
	if err != nil {
		return ProofsetRecord{}, false, fmt.Errorf("get proofset %s: %w", rootHash, err)
	}
	rec.Algorithm = Algorithm(algo)
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return rec, true, nil
}

// List returns all stored proofsets, oldest first.
func (s *sqliteStore) List() ([]ProofsetRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `
SELECT root, algo, created_at, entries, hash_list, detail_lines
FROM proofsets ORDER BY created_at, root`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProofsetRecord
	for rows.Next() {
		var rec ProofsetRecord
		var algo int
		var created int64
		if err := rows.Scan(&rec.RootHash, &algo, &created, &rec.EntryCount,
			&rec.HashList, &rec.DetailLines); err != nil {
			return nil, err
		}
		rec.Algorithm = Algorithm(algo)
		rec.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
