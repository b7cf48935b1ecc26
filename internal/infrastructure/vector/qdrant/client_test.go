package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
)

func TestIndexDocumentEnsuresCollectionAndUpserts(t *testing.T) {
	var ensureBody, upsertBody map[string]any
	ensureCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			ensureCalls++
			json.NewDecoder(r.Body).Decode(&ensureBody)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if r.URL.Query().Get("wait") != "true" {
				t.Errorf("expected wait=true upsert, got %q", r.URL.RawQuery)
			}
			json.NewDecoder(r.Body).Decode(&upsertBody)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Text: "liquidity", Tags: []string{"risk"}}

	if err := client.IndexDocument(context.Background(), doc, []float32{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
	if err := client.IndexDocument(context.Background(), doc, []float32{0.4, 0.5, 0.6}); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}

	if ensureCalls != 1 {
		t.Errorf("collection ensured %d times, want 1", ensureCalls)
	}
	vectors := ensureBody["vectors"].(map[string]any)
	if vectors["size"] != float64(3) || vectors["distance"] != "Cosine" {
		t.Errorf("vectors config = %v", vectors)
	}

	points := upsertBody["points"].([]any)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	point := points[0].(map[string]any)
	if point["id"] == "doc-1" {
		t.Errorf("point id must be mapped to UUID space, got %v", point["id"])
	}
	payload := point["payload"].(map[string]any)
	if payload["document_id"] != "doc-1" || payload["text"] != "liquidity" {
		t.Errorf("payload = %v", payload)
	}
}

func TestIndexDocumentToleratesExistingCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, `{"status":{"error":"already exists"}}`, http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Text: "x"}
	if err := client.IndexDocument(context.Background(), doc, []float32{0.1}); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
}

func TestIndexDocumentSkipsEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	if err := client.IndexDocument(context.Background(), &domain.Document{ID: "doc-1"}, nil); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
}

func TestSearchDecodesRankedDocuments(t *testing.T) {
	var queryBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/docs/points/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&queryBody)
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"points": []map[string]any{
					{
						"score": 0.92,
						"payload": map[string]any{
							"document_id": "doc-1",
							"text":        "liquidity risk",
							"tags":        []string{"risk"},
						},
					},
					{
						"score": 0.61,
						"payload": map[string]any{
							"document_id": "doc-2",
							"text":        "bonds",
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	ranked, err := client.Search(context.Background(), []float32{0.1, 0.2}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if queryBody["limit"] != float64(2) || queryBody["with_payload"] != true {
		t.Errorf("query body = %v", queryBody)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Document.ID != "doc-1" || ranked[0].Score != 0.92 {
		t.Errorf("first result = %+v", ranked[0])
	}
	if len(ranked[0].Document.Tags) != 1 || ranked[0].Document.Tags[0] != "risk" {
		t.Errorf("tags = %v", ranked[0].Document.Tags)
	}
}

func TestSearchErrorIncludesResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"collection not found"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	_, err := client.Search(context.Background(), []float32{0.1}, 1)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPointIDIsDeterministic(t *testing.T) {
	if pointID("doc-1") != pointID("doc-1") {
		t.Fatalf("pointID must be deterministic")
	}
	if pointID("doc-1") == pointID("doc-2") {
		t.Fatalf("distinct documents must map to distinct point IDs")
	}
}
