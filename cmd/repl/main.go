package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/corrective-rag/internal/adapters/repl"
	"github.com/kirillkom/corrective-rag/internal/bootstrap"
	"github.com/kirillkom/corrective-rag/internal/config"
	"github.com/kirillkom/corrective-rag/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup("repl", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewLocal(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	loop := repl.New(app.AnswerUC, os.Stdin, os.Stdout, cfg.TopK)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("repl error: %v", err)
	}
}
