package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/usecase"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/index"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/repository/memory"
)

type echoGenerator struct {
	prompts []string
}

func (g *echoGenerator) Generate(_ context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	g.prompts = append(g.prompts, req.Prompt)
	return domain.GenerationResult{Text: "Based on the context: " + req.Prompt}, nil
}

// End to end over the keyword retriever: a liquidity question pulls in the
// liquidity-tagged document, its text reaches the generator prompt, and the
// marker check accepts without a retry.
func TestKeywordPipelineAnswersLiquidityQuestion(t *testing.T) {
	store := memory.New()
	docs := []domain.Document{
		{ID: "doc-1", Text: "Liquidity risk is the risk of being unable to trade quickly at fair prices.", Tags: []string{"liquidity risk", "markets"}},
		{ID: "doc-2", Text: "Government bonds pay periodic coupons.", Tags: []string{"bonds"}},
	}
	for i := range docs {
		if err := store.Add(context.Background(), &docs[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	gen := &echoGenerator{}
	uc := usecase.NewAnswerUseCase(index.NewKeywordRetriever(store), gen, usecase.AnswerOptions{})

	answer, err := uc.Answer(context.Background(), "What is liquidity risk?", 0, domain.MarkerAccept("liquidity risk"))
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("expected a single generation, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "unable to trade quickly") {
		t.Errorf("prompt must contain the retrieved document text, got %q", gen.prompts[0])
	}
	if strings.Contains(gen.prompts[0], "coupons") {
		t.Errorf("prompt must not contain the unrelated document, got %q", gen.prompts[0])
	}

	if len(answer.Sources) != 1 || answer.Sources[0].Document.ID != "doc-1" {
		t.Errorf("sources = %+v", answer.Sources)
	}
	if !answer.Accepted || answer.Retried {
		t.Errorf("expected accepted first pass, got accepted=%v retried=%v", answer.Accepted, answer.Retried)
	}
}
