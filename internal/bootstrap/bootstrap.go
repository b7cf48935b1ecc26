package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/corrective-rag/internal/config"
	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
	"github.com/kirillkom/corrective-rag/internal/core/usecase"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/corpus"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/index"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/queue/nats"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/repository/memory"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/resilience"
	"github.com/kirillkom/corrective-rag/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Store ports.DocumentStore
	Queue ports.MessageQueue

	AnswerUC ports.AnswerService
	IngestUC ports.DocumentIngestor
	IndexUC  ports.DocumentIndexer

	closeFn func()
}

// New wires the full service: document store, message queue, retrieval
// strategy, generator backend, and use cases.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := newCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, executor)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}
	app.Queue = queue
	app.IngestUC = usecase.NewIngestDocumentUseCase(app.Store, queue)

	prevClose := app.closeFn
	app.closeFn = func() {
		queue.Close()
		if prevClose != nil {
			prevClose()
		}
	}
	return app, nil
}

// NewWorker wires the indexing worker. Ingestion events carry only a
// document ID, which the worker resolves against the store the API wrote
// to — that store must be Postgres; a process-local memory store in the
// worker could never contain the API's documents.
func NewWorker(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("worker requires POSTGRES_DSN: ingestion events reference documents in the store shared with the api process")
	}
	return New(ctx, cfg)
}

// NewLocal wires the pipeline without NATS or Postgres for the REPL:
// in-memory store seeded from the corpus file, no ingest path.
func NewLocal(ctx context.Context, cfg config.Config) (*App, error) {
	cfg.PostgresDSN = ""
	return newCore(ctx, cfg)
}

func newCore(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		store := postgres.NewDocumentStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		app.Store = store
		app.closeFn = func() { _ = db.Close() }

		if cfg.CorpusPath != "" {
			slog.Warn("corpus file ignored with postgres store; use the ingest API", "path", cfg.CorpusPath)
		}
	} else {
		store := memory.New()
		docs, err := corpus.Load(cfg.CorpusPath)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		if err := corpus.Seed(ctx, store, docs); err != nil {
			return nil, fmt.Errorf("seed corpus: %w", err)
		}
		app.Store = store
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	ollamaClient := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	generator := ollama.NewGenerator(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)
	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)

	retriever, err := buildRetriever(cfg, app.Store, embedder, vectorDB)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.AnswerUC = usecase.NewAnswerUseCase(retriever, generator, usecase.AnswerOptions{
		DefaultTopK:      cfg.TopK,
		ContextSeparator: cfg.ContextSeparator,
		CorrectiveQuery:  cfg.CorrectiveQuery,
		DefaultAccept:    domain.MarkerAccept(cfg.CorrectiveMarker),
		MaxTokens:        cfg.GenerationMaxTokens,
	})
	app.IndexUC = usecase.NewIndexDocumentUseCase(app.Store, embedder, vectorDB)
	return app, nil
}

func buildRetriever(
	cfg config.Config,
	store ports.DocumentStore,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) (ports.Retriever, error) {
	switch cfg.RetrievalStrategy {
	case "keyword":
		return index.NewKeywordRetriever(store), nil
	case "similarity", "":
		return index.NewTFIDFRetriever(store), nil
	case "semantic":
		return index.NewSemanticRetriever(embedder, vectorDB), nil
	default:
		return nil, fmt.Errorf("unknown retrieval strategy %q", cfg.RetrievalStrategy)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
