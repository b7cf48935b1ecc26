package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

type correctionState int

const (
	correctionInitial correctionState = iota
	correctionGenerated
	correctionAccepted
	correctionRetrying
	correctionFinal
)

func (s correctionState) String() string {
	switch s {
	case correctionInitial:
		return "initial"
	case correctionGenerated:
		return "generated"
	case correctionAccepted:
		return "accepted"
	case correctionRetrying:
		return "retrying"
	case correctionFinal:
		return "final"
	default:
		return "unknown"
	}
}

type AnswerOptions struct {
	DefaultTopK      int
	ContextSeparator string
	CorrectiveQuery  string
	DefaultAccept    domain.AcceptFunc
	MaxTokens        int
}

type AnswerUseCase struct {
	retriever ports.Retriever
	generator ports.Generator
	opts      AnswerOptions
}

func NewAnswerUseCase(retriever ports.Retriever, generator ports.Generator, opts AnswerOptions) *AnswerUseCase {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.ContextSeparator == "" {
		opts.ContextSeparator = "\n\n"
	}
	return &AnswerUseCase{
		retriever: retriever,
		generator: generator,
		opts:      opts,
	}
}

// Answer runs retrieve, assemble, generate, then the corrective check.
// The check performs at most one re-retrieval and one extra generation;
// whichever result is current after that is final.
func (uc *AnswerUseCase) Answer(
	ctx context.Context,
	query string,
	topK int,
	accept domain.AcceptFunc,
) (*domain.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer", errors.New("query is required"))
	}
	if topK <= 0 {
		topK = uc.opts.DefaultTopK
	}
	if accept == nil {
		accept = uc.opts.DefaultAccept
	}
	if accept == nil {
		accept = domain.MarkerAccept("")
	}

	state := correctionInitial
	ranked, err := uc.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	// Empty retrieval is not an error: the generator still runs with an
	// empty context.
	result, err := uc.generate(ctx, query, ranked)
	if err != nil {
		return nil, domain.WrapError(domain.ErrNoGeneration, "answer", err)
	}
	state = correctionGenerated

	answer := &domain.Answer{
		Query:            query,
		Response:         result.Text,
		Sources:          ranked,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}

	if accept(result.Text) {
		state = correctionAccepted
		slog.Debug("corrective_check", "state", state.String(), "retried", false)
		answer.Accepted = true
		return answer, nil
	}

	state = correctionRetrying
	retryQuery := strings.TrimSpace(uc.opts.CorrectiveQuery)
	if retryQuery == "" {
		retryQuery = query
	}

	reranked, err := uc.retriever.Retrieve(ctx, retryQuery, topK)
	if err != nil {
		// The first generation stands when the retry path fails.
		slog.Warn("corrective_retrieval_failed", "error", err)
		return answer, nil
	}

	retryResult, err := uc.generate(ctx, query, reranked)
	answer.Retried = true
	if err != nil {
		slog.Warn("corrective_generation_failed", "error", err)
		return answer, nil
	}
	answer.PromptTokens += retryResult.PromptTokens
	answer.CompletionTokens += retryResult.CompletionTokens

	answer.Response = retryResult.Text
	answer.Sources = reranked
	answer.Accepted = accept(retryResult.Text)
	state = correctionFinal
	slog.Debug("corrective_check", "state", state.String(), "retried", true, "accepted", answer.Accepted)
	return answer, nil
}

func (uc *AnswerUseCase) generate(
	ctx context.Context,
	query string,
	ranked []domain.RankedDocument,
) (domain.GenerationResult, error) {
	prompt := buildAnswerPrompt(query, Assemble(ranked, uc.opts.ContextSeparator))
	return uc.generator.Generate(ctx, domain.GenerationRequest{
		Prompt:    prompt,
		MaxTokens: uc.opts.MaxTokens,
	})
}
