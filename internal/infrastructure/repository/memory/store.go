package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

// Store is the default slice-backed document store. It preserves insertion
// order, which the retrievers rely on for stable tie-breaking; reads are
// safe alongside the ingest writer.
type Store struct {
	mu   sync.RWMutex
	docs []domain.Document
	byID map[string]int
}

func New() *Store {
	return &Store{
		byID: make(map[string]int),
	}
}

func (s *Store) Add(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "add document", fmt.Errorf("document id is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[doc.ID]; ok {
		return domain.WrapError(domain.ErrInvalidInput, "add document", fmt.Errorf("duplicate document id %q", doc.ID))
	}
	s.byID[doc.ID] = len(s.docs)
	s.docs = append(s.docs, *doc)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %q", id))
	}
	doc := s.docs[idx]
	return &doc, nil
}

func (s *Store) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}
