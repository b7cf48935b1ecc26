package index

import (
	"context"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/repository/memory"
)

func seedStore(t *testing.T, docs ...domain.Document) *memory.Store {
	t.Helper()
	store := memory.New()
	for i := range docs {
		if err := store.Add(context.Background(), &docs[i]); err != nil {
			t.Fatalf("seed %s: %v", docs[i].ID, err)
		}
	}
	return store
}

func TestKeywordRetrieveMatchesTagTokens(t *testing.T) {
	store := seedStore(t,
		domain.Document{ID: "doc-1", Text: "liquidity risk rises when markets thin out", Tags: []string{"liquidity risk", "markets"}},
		domain.Document{ID: "doc-2", Text: "bonds pay coupons", Tags: []string{"bonds"}},
		domain.Document{ID: "doc-3", Text: "funding stress and liquidity", Tags: []string{"liquidity"}},
	)
	r := NewKeywordRetriever(store)

	ranked, err := r.Retrieve(context.Background(), "What is liquidity risk?", 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(ranked))
	}
	if ranked[0].Document.ID != "doc-1" || ranked[1].Document.ID != "doc-3" {
		t.Fatalf("expected insertion order doc-1, doc-3; got %s, %s", ranked[0].Document.ID, ranked[1].Document.ID)
	}
}

func TestKeywordRetrieveNoFalsePositives(t *testing.T) {
	store := seedStore(t,
		domain.Document{ID: "doc-1", Text: "bonds pay coupons", Tags: []string{"bonds"}},
	)
	r := NewKeywordRetriever(store)

	ranked, err := r.Retrieve(context.Background(), "equity options pricing", 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected no matches, got %v", ranked)
	}
}

func TestKeywordRetrieveCaseFolding(t *testing.T) {
	store := seedStore(t,
		domain.Document{ID: "doc-1", Text: "x", Tags: []string{"Bonds"}},
	)
	r := NewKeywordRetriever(store)

	ranked, err := r.Retrieve(context.Background(), "BONDS", 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected case-insensitive match, got %d results", len(ranked))
	}
}

func TestKeywordRetrieveTopKCap(t *testing.T) {
	store := seedStore(t,
		domain.Document{ID: "doc-1", Text: "a", Tags: []string{"risk"}},
		domain.Document{ID: "doc-2", Text: "b", Tags: []string{"risk"}},
		domain.Document{ID: "doc-3", Text: "c", Tags: []string{"risk"}},
	)
	r := NewKeywordRetriever(store)

	ranked, err := r.Retrieve(context.Background(), "risk", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected topK cap of 2, got %d", len(ranked))
	}
	if ranked[0].Document.ID != "doc-1" || ranked[1].Document.ID != "doc-2" {
		t.Fatalf("expected first two in insertion order, got %s, %s", ranked[0].Document.ID, ranked[1].Document.ID)
	}
}

func TestKeywordRetrieveEmptyStore(t *testing.T) {
	r := NewKeywordRetriever(memory.New())

	ranked, err := r.Retrieve(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if ranked != nil {
		t.Fatalf("expected nil result for empty store, got %v", ranked)
	}
}
