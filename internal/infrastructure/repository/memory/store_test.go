package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

func TestStoreAddAndGet(t *testing.T) {
	store := New()
	doc := &domain.Document{ID: "doc-1", Text: "liquidity", Tags: []string{"risk"}}

	if err := store.Add(context.Background(), doc); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Text != "liquidity" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestStoreRejectsDuplicateID(t *testing.T) {
	store := New()
	doc := &domain.Document{ID: "doc-1", Text: "a"}
	if err := store.Add(context.Background(), doc); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	err := store.Add(context.Background(), &domain.Document{ID: "doc-1", Text: "b"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate, got %v", err)
	}
}

func TestStoreGetMissingIsNotFound(t *testing.T) {
	store := New()
	_, err := store.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestStoreListPreservesInsertionOrder(t *testing.T) {
	store := New()
	for i := 0; i < 5; i++ {
		doc := &domain.Document{ID: fmt.Sprintf("doc-%d", i), Text: "x"}
		if err := store.Add(context.Background(), doc); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	docs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}
	for i, doc := range docs {
		if want := fmt.Sprintf("doc-%d", i); doc.ID != want {
			t.Errorf("position %d = %s, want %s", i, doc.ID, want)
		}
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	store := New()
	if err := store.Add(context.Background(), &domain.Document{ID: "doc-1", Text: "original"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	docs, _ := store.List(context.Background())
	docs[0].Text = "mutated"

	again, _ := store.List(context.Background())
	if again[0].Text != "original" {
		t.Fatalf("List must return a copy, stored text = %q", again[0].Text)
	}
}
