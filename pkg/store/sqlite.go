package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"causelist/pkg/segment"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	doc_key         TEXT    NOT NULL UNIQUE,
	file_hash       TEXT    NOT NULL,
	engine          TEXT    NOT NULL,
	pages           INTEGER NOT NULL DEFAULT 0,
	raw_text        TEXT    NOT NULL DEFAULT '',
	extraction_time REAL    NOT NULL DEFAULT 0,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_file_hash ON documents(file_hash);
CREATE TABLE IF NOT EXISTS cases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	serial      INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	content     TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_cases_document_id ON cases(document_id);
`

// SQLite stores results in a local database file with the same layout as
// the postgres backend.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path in WAL mode.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(10000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	logger.Info("sqlite store ready", zap.String("path", path))
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (*Result, error) {
	r := &Result{Key: key, Cases: segment.NewCases()}
	var (
		id      int64
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_hash, engine, pages, raw_text, extraction_time, created_at FROM documents WHERE doc_key = ?`, key).
		Scan(&id, &r.FileHash, &r.Engine, &r.Pages, &r.RawText, &r.ExtractionTime, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	r.CreatedAt = time.Unix(0, created)

	rows, err := s.db.QueryContext(ctx, `SELECT serial, content FROM cases WHERE document_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load cases %s: %w", key, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			serial  int
			content string
		)
		if err := rows.Scan(&serial, &content); err != nil {
			return nil, err
		}
		r.Cases.Set(serial, content)
	}
	return r, rows.Err()
}

func (s *SQLite) Put(ctx context.Context, r *Result) error {
	if err := validate(r); err != nil {
		return err
	}
	now := time.Now()
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (doc_key, file_hash, engine, pages, raw_text, extraction_time, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(doc_key) DO UPDATE SET
	file_hash = excluded.file_hash,
	engine = excluded.engine,
	pages = excluded.pages,
	raw_text = excluded.raw_text,
	extraction_time = excluded.extraction_time,
	updated_at = excluded.updated_at`,
		r.Key, r.FileHash, r.Engine, r.Pages, r.RawText, r.ExtractionTime, created.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.Key, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM documents WHERE doc_key = ?`, r.Key).Scan(&id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE document_id = ?`, id); err != nil {
		return err
	}
	for i, m := range r.Cases.Mains() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cases (document_id, serial, position, content) VALUES (?, ?, ?, ?)`,
			id, m, i, r.Cases.Text(m)); err != nil {
			return fmt.Errorf("insert case %d: %w", m, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error { return s.db.Close() }
