package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

// IndexDocumentUseCase embeds a stored document and upserts it into the
// vector store so the semantic retrieval strategy can see it. It runs in
// the worker, off the ingest request path.
type IndexDocumentUseCase struct {
	store    ports.DocumentStore
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewIndexDocumentUseCase(
	store ports.DocumentStore,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *IndexDocumentUseCase {
	return &IndexDocumentUseCase{
		store:    store,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

func (uc *IndexDocumentUseCase) IndexByID(ctx context.Context, documentID string) error {
	doc, err := uc.store.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	vector, err := uc.embedder.EmbedQuery(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	if err := uc.vectorDB.IndexDocument(ctx, doc, vector); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}
