// Package sqlite provides a single-file core.Repository on the pure Go SQLite
// driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"fieldops/internal/core"
)

var _ core.Repository = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    kind      TEXT NOT NULL,
    id        TEXT NOT NULL,
    status    TEXT NOT NULL,
    parent_id TEXT NOT NULL DEFAULT '',
    party_id  TEXT NOT NULL DEFAULT '',
    body      TEXT NOT NULL,
    PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(kind, status);
CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents(kind, parent_id);

CREATE TABLE IF NOT EXISTS document_sequences (
    prefix      TEXT PRIMARY KEY,
    last_number INTEGER NOT NULL
);
`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements core.Repository using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite would otherwise return SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, kind core.DocumentKind, id string) (core.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE kind = ? AND id = ?",
		string(kind), id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &core.NotFoundError{Document: kind, ID: id}
		}
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, id, err)
	}
	return core.DecodeDocument(kind, []byte(body))
}

func (s *Store) Put(ctx context.Context, doc core.Document) error {
	return upsert(ctx, s.db, doc)
}

func upsert(ctx context.Context, q querier, doc core.Document) error {
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	m := doc.Meta()
	_, err = q.ExecContext(ctx, `
		INSERT INTO documents (kind, id, status, parent_id, party_id, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE
		SET status = excluded.status,
		    parent_id = excluded.parent_id,
		    party_id = excluded.party_id,
		    body = excluded.body
	`, string(m.Kind), m.ID, m.Status, m.ParentID, m.PartyID, string(body))
	if err != nil {
		return fmt.Errorf("failed to upsert %s %s: %w", m.Kind, m.ID, err)
	}
	return nil
}

func (s *Store) NextSequence(ctx context.Context, prefix string) (string, error) {
	last, err := nextNumber(ctx, s.db, prefix)
	if err != nil {
		return "", err
	}
	return core.FormatSequence(prefix, last), nil
}

// PutNumbered runs the counter update and the document write in one
// transaction; a failed build or write rolls the counter back.
func (s *Store) PutNumbered(ctx context.Context, prefix string, build func(number string) (core.Document, error)) (core.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	last, err := nextNumber(ctx, tx, prefix)
	if err != nil {
		return nil, err
	}
	doc, err := build(core.FormatSequence(prefix, last))
	if err != nil {
		return nil, err
	}
	if err := upsert(ctx, tx, doc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return doc, nil
}

func nextNumber(ctx context.Context, q querier, prefix string) (int64, error) {
	var last int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO document_sequences (prefix, last_number)
		VALUES (?, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_number = last_number + 1
		RETURNING last_number
	`, prefix).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to generate sequence number: %w", err)
	}
	return last, nil
}

func (s *Store) List(ctx context.Context, kind core.DocumentKind, filter core.Filter) ([]core.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT body
		FROM documents
		WHERE kind = ?
		  AND (? = '' OR status = ?)
		  AND (? = '' OR parent_id = ?)
		  AND (? = '' OR party_id = ?)
		ORDER BY id
	`, string(kind),
		filter.Status, filter.Status,
		filter.ParentID, filter.ParentID,
		filter.PartyID, filter.PartyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s documents: %w", kind, err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		doc, err := core.DecodeDocument(kind, []byte(body))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s documents: %w", kind, err)
	}
	return docs, nil
}
