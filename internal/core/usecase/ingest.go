package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

type IngestDocumentUseCase struct {
	store ports.DocumentStore
	queue ports.MessageQueue
}

func NewIngestDocumentUseCase(store ports.DocumentStore, queue ports.MessageQueue) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		store: store,
		queue: queue,
	}
}

func (uc *IngestDocumentUseCase) Ingest(ctx context.Context, text string, tags []string) (*domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest document", errors.New("text is required"))
	}

	doc := &domain.Document{
		ID:        uuid.NewString(),
		Text:      text,
		Tags:      normalizeTags(tags),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return doc, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
