package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

// TFIDFRetriever ranks documents against the query by cosine similarity of
// TF-IDF vectors. The vocabulary is fitted on the current store snapshot and
// the query is vectorized with the same fitted vocabulary; query terms the
// corpus has never seen contribute nothing. Corpora here are small, so the
// fit happens per call instead of being cached.
type TFIDFRetriever struct {
	store ports.DocumentStore
}

func NewTFIDFRetriever(store ports.DocumentStore) *TFIDFRetriever {
	return &TFIDFRetriever{store: store}
}

func (r *TFIDFRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	model := fitTFIDF(docs)
	queryVec := model.vectorize(tokenizeAlphaNum(query))

	ranked := make([]domain.RankedDocument, 0, len(docs))
	for i, doc := range docs {
		ranked = append(ranked, domain.RankedDocument{
			Document: doc,
			Score:    cosine(queryVec, model.docVectors[i]),
		})
	}

	// Stable sort keeps corpus order for equal scores, including the
	// degenerate all-zero case of a query with no vocabulary overlap.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

type tfidfModel struct {
	idf        map[string]float64
	docVectors []map[string]float64
}

func fitTFIDF(docs []domain.Document) *tfidfModel {
	n := len(docs)
	df := make(map[string]int, 128)
	docTokens := make([][]string, n)

	for i, doc := range docs {
		tokens := tokenizeAlphaNum(doc.Text)
		docTokens[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	// Smoothed IDF keeps weights finite for terms present in every document.
	idf := make(map[string]float64, len(df))
	for token, count := range df {
		idf[token] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	model := &tfidfModel{
		idf:        idf,
		docVectors: make([]map[string]float64, n),
	}
	for i, tokens := range docTokens {
		model.docVectors[i] = model.vectorize(tokens)
	}
	return model
}

// vectorize builds an L2-normalized TF-IDF vector over the fitted
// vocabulary; tokens outside it are dropped.
func (m *tfidfModel) vectorize(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		if _, ok := m.idf[token]; !ok {
			continue
		}
		tf[token]++
	}
	if len(tf) == 0 {
		return nil
	}

	var norm float64
	for token := range tf {
		tf[token] *= m.idf[token]
		norm += tf[token] * tf[token]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for token := range tf {
		tf[token] /= norm
	}
	return tf
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for token, weight := range a {
		dot += weight * b[token]
	}
	return dot
}
