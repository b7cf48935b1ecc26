package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

func TestGeneratorSendsPromptAndParsesResult(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response":          "  liquidity risk is the risk of not trading quickly  ",
			"prompt_eval_count": 42,
			"eval_count":        17,
		})
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "llama3", "nomic-embed-text"))
	result, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Prompt:    "What is liquidity risk?",
		MaxTokens: 128,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if captured["model"] != "llama3" {
		t.Errorf("model = %v, want llama3", captured["model"])
	}
	if captured["prompt"] != "What is liquidity risk?" {
		t.Errorf("prompt = %v", captured["prompt"])
	}
	if captured["stream"] != false {
		t.Errorf("stream = %v, want false", captured["stream"])
	}
	opts, ok := captured["options"].(map[string]any)
	if !ok || opts["num_predict"] != float64(128) {
		t.Errorf("options = %v, want num_predict 128", captured["options"])
	}

	if result.Text != "liquidity risk is the risk of not trading quickly" {
		t.Errorf("Text = %q, want trimmed response", result.Text)
	}
	if result.PromptTokens != 42 || result.CompletionTokens != 17 {
		t.Errorf("token counts = %d/%d, want 42/17", result.PromptTokens, result.CompletionTokens)
	}
}

func TestGeneratorOmitsOptionsWithoutMaxTokens(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "llama3", "nomic-embed-text"))
	if _, err := gen.Generate(context.Background(), domain.GenerationRequest{Prompt: "q"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, ok := captured["options"]; ok {
		t.Errorf("options must be omitted when MaxTokens is zero, got %v", captured["options"])
	}
}

func TestGeneratorServerErrorIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "llama3", "nomic-embed-text"))
	_, err := gen.Generate(context.Background(), domain.GenerationRequest{Prompt: "q"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Errorf("expected ErrTemporary kind for 500, got %v", err)
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("expected response body in error, got %v", err)
	}
}

func TestGeneratorClientErrorIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid model name"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "llama3", "nomic-embed-text"))
	_, err := gen.Generate(context.Background(), domain.GenerationRequest{Prompt: "q"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Errorf("400 must not be classified as temporary: %v", err)
	}
}

func TestEmbedderBatchesInputs(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "llama3", "nomic-embed-text"))
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if captured["model"] != "nomic-embed-text" {
		t.Errorf("model = %v, want nomic-embed-text", captured["model"])
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("unexpected vectors %v", vectors)
	}
}

func TestEmbedQueryReturnsFirstVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.5, 0.6}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "llama3", "nomic-embed-text"))
	vector, err := embedder.EmbedQuery(context.Background(), "query")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.5 {
		t.Fatalf("unexpected vector %v", vector)
	}
}
