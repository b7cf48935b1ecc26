package ports

import (
	"context"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

// AnswerService is the inbound contract for the retrieve-then-generate
// pipeline with its corrective check.
type AnswerService interface {
	Answer(ctx context.Context, query string, topK int, accept domain.AcceptFunc) (*domain.Answer, error)
}

// DocumentIngestor is the inbound contract for adding corpus documents.
type DocumentIngestor interface {
	Ingest(ctx context.Context, text string, tags []string) (*domain.Document, error)
}

// DocumentReader is the inbound read model for corpus state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}

// DocumentIndexer is the inbound contract for asynchronous semantic indexing.
type DocumentIndexer interface {
	IndexByID(ctx context.Context, documentID string) error
}
