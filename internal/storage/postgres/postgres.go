// Package postgres provides a PostgreSQL core.Repository. Each document is one
// JSONB row keyed by (kind, id) with its header columns copied out for
// filtering.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops/internal/core"
)

var _ core.Repository = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    kind       TEXT        NOT NULL,
    id         TEXT        NOT NULL,
    status     TEXT        NOT NULL,
    parent_id  TEXT        NOT NULL DEFAULT '',
    party_id   TEXT        NOT NULL DEFAULT '',
    body       JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (kind, status);
CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents (kind, parent_id);
CREATE INDEX IF NOT EXISTS idx_documents_party  ON documents (kind, party_id);

CREATE TABLE IF NOT EXISTS document_sequences (
    prefix      TEXT   PRIMARY KEY,
    last_number BIGINT NOT NULL
);
`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps documents in PostgreSQL through a shared pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables the store needs. It is safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, kind core.DocumentKind, id string) (core.Document, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		"SELECT body FROM documents WHERE kind = $1 AND id = $2",
		string(kind), id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Document: kind, ID: id}
		}
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, id, err)
	}
	return core.DecodeDocument(kind, body)
}

func (s *Store) Put(ctx context.Context, doc core.Document) error {
	return upsert(ctx, s.pool, doc)
}

func upsert(ctx context.Context, q querier, doc core.Document) error {
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	m := doc.Meta()
	_, err = q.Exec(ctx, `
		INSERT INTO documents (kind, id, status, parent_id, party_id, body, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (kind, id) DO UPDATE
		SET status = EXCLUDED.status,
		    parent_id = EXCLUDED.parent_id,
		    party_id = EXCLUDED.party_id,
		    body = EXCLUDED.body,
		    updated_at = NOW()
	`, string(m.Kind), m.ID, m.Status, m.ParentID, m.PartyID, body)
	if err != nil {
		return fmt.Errorf("failed to upsert %s %s: %w", m.Kind, m.ID, err)
	}
	return nil
}

// NextSequence increments the per-prefix counter in a single statement, so
// concurrent callers never receive the same number. A number drawn here and
// never used leaves a gap; numbered documents go through PutNumbered.
func (s *Store) NextSequence(ctx context.Context, prefix string) (string, error) {
	last, err := nextNumber(ctx, s.pool, prefix)
	if err != nil {
		return "", err
	}
	return core.FormatSequence(prefix, last), nil
}

// PutNumbered increments the counter and writes the document in one
// transaction. The counter row stays locked until commit, so concurrent
// callers on the same prefix queue behind each other and a rollback returns
// the number.
func (s *Store) PutNumbered(ctx context.Context, prefix string, build func(number string) (core.Document, error)) (core.Document, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

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
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return doc, nil
}

func nextNumber(ctx context.Context, q querier, prefix string) (int64, error) {
	var last int64
	err := q.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, last_number)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, prefix).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to generate sequence number: %w", err)
	}
	return last, nil
}

func (s *Store) List(ctx context.Context, kind core.DocumentKind, filter core.Filter) ([]core.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT body
		FROM documents
		WHERE kind = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR parent_id = $3)
		  AND ($4 = '' OR party_id = $4)
		ORDER BY id
	`, string(kind), filter.Status, filter.ParentID, filter.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s documents: %w", kind, err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		doc, err := core.DecodeDocument(kind, body)
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
