package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is anything the Repository can hold.
type Document interface {
	Meta() DocumentMeta
}

// DocumentMeta is the indexable header of a stored document. Stores persist it
// next to the JSON body so List can filter without decoding.
type DocumentMeta struct {
	Kind     DocumentKind
	ID       string
	Status   string
	ParentID string // quote for a job, job for an invoice or purchase order
	PartyID  string // client or supplier
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Status   string
	ParentID string
	PartyID  string
}

// Matches reports whether m satisfies every non-empty field of f.
func (f Filter) Matches(m DocumentMeta) bool {
	if f.Status != "" && f.Status != m.Status {
		return false
	}
	if f.ParentID != "" && f.ParentID != m.ParentID {
		return false
	}
	if f.PartyID != "" && f.PartyID != m.PartyID {
		return false
	}
	return true
}

// Repository is the backing-store contract. Implementations must return a
// *NotFoundError from Get for absent ids and must hand out values that do not
// alias what they store.
type Repository interface {
	// Get loads a document by kind and id.
	Get(ctx context.Context, kind DocumentKind, id string) (Document, error)

	// Put inserts or replaces a document, keyed by its Meta().Kind and Meta().ID.
	Put(ctx context.Context, doc Document) error

	// NextSequence returns the next number for prefix, formatted as
	// "<prefix>-NNNNN". Numbers are strictly increasing per prefix.
	NextSequence(ctx context.Context, prefix string) (string, error)

	// PutNumbered draws the next number for prefix, passes it to build and
	// stores the result in one atomic step. When build or the write fails the
	// number is not consumed, so numbered documents stay gapless. Errors from
	// build are returned unwrapped.
	PutNumbered(ctx context.Context, prefix string, build func(number string) (Document, error)) (Document, error)

	// List returns every document of kind matching filter, ordered by id.
	List(ctx context.Context, kind DocumentKind, filter Filter) ([]Document, error)
}

// FormatSequence renders sequence n under prefix.
func FormatSequence(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// DecodeDocument rebuilds a typed document from its stored JSON body.
func DecodeDocument(kind DocumentKind, body []byte) (Document, error) {
	var doc Document
	switch kind {
	case KindQuote:
		doc = &Quote{}
	case KindJob:
		doc = &Job{}
	case KindInvoice:
		doc = &Invoice{}
	case KindPurchaseOrder:
		doc = &PurchaseOrder{}
	case KindSupplier:
		doc = &Supplier{}
	case KindTeamMember:
		doc = &TeamMember{}
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return doc, nil
}

// EncodeDocument serialises a document for storage.
func EncodeDocument(doc Document) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Meta().Kind, err)
	}
	return body, nil
}

// load fetches id and asserts it to T.
func load[T Document](ctx context.Context, repo Repository, kind DocumentKind, id string) (T, error) {
	var zero T
	doc, err := repo.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	typed, ok := doc.(T)
	if !ok {
		return zero, fmt.Errorf("%s %s: unexpected type %T", kind, id, doc)
	}
	return typed, nil
}

// listAs lists kind and asserts each result to T.
func listAs[T Document](ctx context.Context, repo Repository, kind DocumentKind, filter Filter) ([]T, error) {
	docs, err := repo.List(ctx, kind, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		typed, ok := d.(T)
		if !ok {
			return nil, fmt.Errorf("list %s: unexpected type %T", kind, d)
		}
		out = append(out, typed)
	}
	return out, nil
}
