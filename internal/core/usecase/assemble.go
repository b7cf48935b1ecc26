package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

// Assemble joins retrieved document texts in ranked order using separator.
// It does not deduplicate and does not truncate; the only cap on context
// size is the retriever's topK.
func Assemble(ranked []domain.RankedDocument, separator string) string {
	if len(ranked) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range ranked {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(r.Document.Text)
	}
	return b.String()
}

func buildAnswerPrompt(query, context string) string {
	return fmt.Sprintf(`Answer the user question only from the context below.
If the context is insufficient, say it directly.

Question:
%s

Context:
%s
`, query, context)
}
