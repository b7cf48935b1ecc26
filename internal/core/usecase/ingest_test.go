package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

type storeFake struct {
	added []*domain.Document
	err   error
}

func (f *storeFake) Add(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, doc)
	return nil
}

func (f *storeFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrDocumentNotFound
}

func (f *storeFake) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.added))
	for _, d := range f.added {
		out = append(out, *d)
	}
	return out, nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, docID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, docID)
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(ctx context.Context, docID string) error) error {
	return nil
}

func TestIngestStoresAndPublishes(t *testing.T) {
	store := &storeFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(store, queue)

	doc, err := uc.Ingest(context.Background(), "bonds carry duration risk", []string{" Bonds ", "RISK", ""})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected generated document ID")
	}
	if got, want := doc.Tags, []string{"bonds", "risk"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("normalized tags = %v, want %v", got, want)
	}
	if len(store.added) != 1 {
		t.Fatalf("expected 1 stored document, got %d", len(store.added))
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected ingestion event for %s, got %v", doc.ID, queue.published)
	}
}

func TestIngestRejectsEmptyText(t *testing.T) {
	uc := NewIngestDocumentUseCase(&storeFake{}, &queueFake{})

	_, err := uc.Ingest(context.Background(), "   ", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestPropagatesStoreError(t *testing.T) {
	store := &storeFake{err: errors.New("disk full")}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(store, queue)

	if _, err := uc.Ingest(context.Background(), "text", nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(queue.published) != 0 {
		t.Fatalf("expected no event after store failure, got %v", queue.published)
	}
}
