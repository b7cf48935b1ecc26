package ports

import (
	"context"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

// DocumentStore holds the candidate context documents. Listing preserves
// insertion order, which retrieval relies on for stable tie-breaking.
type DocumentStore interface {
	Add(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}

// Retriever narrows the corpus to context relevant for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error)
}

// Generator produces a natural-language answer conditioned on a prompt.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// Embedder builds dense vectors for document and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes documents and performs semantic search.
type VectorStore interface {
	IndexDocument(ctx context.Context, doc *domain.Document, vector []float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RankedDocument, error)
}

// MessageQueue publishes/consumes document ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}
