package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaEmbedding_Defaults(t *testing.T) {
	svc, err := NewOllamaEmbedding("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb := svc.(*OllamaEmbedding)
	if emb.baseURL != "http://localhost:11434" {
		t.Errorf("expected default base URL, got %s", emb.baseURL)
	}
	if emb.model != "nomic-embed-text" {
		t.Errorf("expected default model nomic-embed-text, got %s", emb.model)
	}
}

func TestNewOllamaEmbedding_TrimsTrailingSlash(t *testing.T) {
	svc, err := NewOllamaEmbedding("http://ollama:11434/", "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb := svc.(*OllamaEmbedding)
	if emb.baseURL != "http://ollama:11434" {
		t.Errorf("expected trimmed base URL, got %s", emb.baseURL)
	}
}

func TestOllamaEmbedding_Dimensions(t *testing.T) {
	testCases := []struct {
		model      string
		dimensions int
	}{
		{"nomic-embed-text", 768},
		{"nomic-embed-text:latest", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"unknown-model", 768}, // defaults to 768
	}

	for _, tc := range testCases {
		t.Run(tc.model, func(t *testing.T) {
			svc, err := NewOllamaEmbedding("", tc.model)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if svc.Dimensions() != tc.dimensions {
				t.Errorf("expected dimensions %d, got %d", tc.dimensions, svc.Dimensions())
			}
		})
	}
}

func TestOllamaEmbedding_Embed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/embed" {
			t.Errorf("expected /api/embed, got %s", r.URL.Path)
		}

		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("expected model nomic-embed-text, got %s", req.Model)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected 2 inputs, got %d", len(req.Input))
		}

		resp := ollamaEmbedResponse{
			Model: req.Model,
			Embeddings: [][]float32{
				{0.1, 0.2, 0.3},
				{0.4, 0.5, 0.6},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Embed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("expected 2 embeddings, got %d", len(result))
	}
	if len(result[0]) != 3 || result[0][0] != 0.1 {
		t.Error("unexpected embedding values")
	}
}

func TestOllamaEmbedding_Embed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaEmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Embed(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Error("expected error when embedding count does not match input")
	}
}

func TestOllamaEmbedding_Embed_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`model not loaded`))
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Embed(context.Background(), []string{"test"})
	if err == nil {
		t.Error("expected error for server error response")
	}
}

func TestOllamaEmbedding_EmbedQuery_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaEmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2, 0.3}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.EmbedQuery(context.Background(), "test query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(result))
	}
}

func TestOllamaEmbedding_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}

		// Installed models carry tag suffixes
		_, _ = w.Write([]byte(`{"models":[{"name":"nomic-embed-text:latest"},{"name":"llama3.2:3b"}]}`))
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}
}

func TestOllamaEmbedding_HealthCheck_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:3b"}]}`))
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.HealthCheck(context.Background()); err == nil {
		t.Error("expected error when model is not pulled")
	}
}

func TestOllamaEmbedding_HealthCheck_ServerDown(t *testing.T) {
	svc, err := NewOllamaEmbedding("http://localhost:1", "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.HealthCheck(context.Background()); err == nil {
		t.Error("expected error when server is unreachable")
	}
}

func TestStripModelTag(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"nomic-embed-text:latest", "nomic-embed-text"},
		{"nomic-embed-text", "nomic-embed-text"},
		{"qwen3-embedding:8b", "qwen3-embedding"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := stripModelTag(tc.in); got != tc.want {
			t.Errorf("stripModelTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
