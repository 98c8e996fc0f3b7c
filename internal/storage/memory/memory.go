// Package memory provides an in-process core.Repository. Documents are kept
// as encoded JSON so callers never share memory with the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"fieldops/internal/core"
)

var _ core.Repository = (*Store)(nil)

type record struct {
	meta core.DocumentMeta
	body []byte
}

// Store is a map-backed repository. The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	docs      map[core.DocumentKind]map[string]record
	sequences map[string]int64
}

func New() *Store {
	return &Store{
		docs:      make(map[core.DocumentKind]map[string]record),
		sequences: make(map[string]int64),
	}
}

func (s *Store) Get(ctx context.Context, kind core.DocumentKind, id string) (core.Document, error) {
	s.mu.RLock()
	rec, ok := s.docs[kind][id]
	s.mu.RUnlock()
	if !ok {
		return nil, &core.NotFoundError{Document: kind, ID: id}
	}
	return core.DecodeDocument(kind, rec.body)
}

func (s *Store) Put(ctx context.Context, doc core.Document) error {
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(doc.Meta(), body)
	return nil
}

// store must be called with mu held.
func (s *Store) store(meta core.DocumentMeta, body []byte) {
	byID, ok := s.docs[meta.Kind]
	if !ok {
		byID = make(map[string]record)
		s.docs[meta.Kind] = byID
	}
	byID[meta.ID] = record{meta: meta, body: body}
}

func (s *Store) NextSequence(ctx context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[prefix]++
	return core.FormatSequence(prefix, s.sequences[prefix]), nil
}

// PutNumbered holds the write lock across build, so the counter only advances
// once the document is stored.
func (s *Store) PutNumbered(ctx context.Context, prefix string, build func(number string) (core.Document, error)) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.sequences[prefix] + 1
	doc, err := build(core.FormatSequence(prefix, n))
	if err != nil {
		return nil, err
	}
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}
	s.store(doc.Meta(), body)
	s.sequences[prefix] = n
	return doc, nil
}

func (s *Store) List(ctx context.Context, kind core.DocumentKind, filter core.Filter) ([]core.Document, error) {
	s.mu.RLock()
	matched := make([]record, 0, len(s.docs[kind]))
	for _, rec := range s.docs[kind] {
		if filter.Matches(rec.meta) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(a, b int) bool { return matched[a].meta.ID < matched[b].meta.ID })
	out := make([]core.Document, 0, len(matched))
	for _, rec := range matched {
		doc, err := core.DecodeDocument(kind, rec.body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
