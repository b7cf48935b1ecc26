package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

// SemanticRetriever embeds the query and searches the external vector store.
// Unlike the in-process strategies it depends on running backend services.
type SemanticRetriever struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewSemanticRetriever(embedder ports.Embedder, vectorDB ports.VectorStore) *SemanticRetriever {
	return &SemanticRetriever{
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.vectorDB.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("search vector store: %w", err)
	}
	return hits, nil
}
