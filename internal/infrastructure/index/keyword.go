package index

import (
	"context"
	"fmt"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

// KeywordRetriever matches documents whose tag set intersects the tokens of
// the lower-cased query. Matches keep corpus insertion order and carry a
// uniform score; there is no ranking beyond that order.
type KeywordRetriever struct {
	store ports.DocumentStore
}

func NewKeywordRetriever(store ports.DocumentStore) *KeywordRetriever {
	return &KeywordRetriever{store: store}
}

func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	queryTokens := toTokenSet(query)
	out := make([]domain.RankedDocument, 0, len(docs))
	for _, doc := range docs {
		if !tagsIntersect(doc.Tags, queryTokens) {
			continue
		}
		out = append(out, domain.RankedDocument{Document: doc, Score: 1})
		if topK > 0 && len(out) == topK {
			break
		}
	}
	return out, nil
}

// tagsIntersect tokenizes each tag so a multiword tag like "liquidity risk"
// matches a query containing either of its words.
func tagsIntersect(tags []string, queryTokens map[string]struct{}) bool {
	if len(queryTokens) == 0 {
		return false
	}
	for _, tag := range tags {
		for _, token := range tokenizeAlphaNum(tag) {
			if _, ok := queryTokens[token]; ok {
				return true
			}
		}
	}
	return false
}
