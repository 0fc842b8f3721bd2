package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure OllamaEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*OllamaEmbedding)(nil)

// OllamaEmbedding implements EmbeddingService using a self-hosted
// Ollama instance. No API key is involved; the base URL points at the
// Ollama server.
type OllamaEmbedding struct {
	baseURL    string
	model      string
	dimensions int
	client     *http.Client
}

// Model dimensions for common Ollama embedding models
var ollamaModelDimensions = map[string]int{
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"snowflake-arctic-embed": 1024,
}

// NewOllamaEmbedding creates a new Ollama embedding service
func NewOllamaEmbedding(baseURL, model string) (driven.EmbeddingService, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if model == "" {
		model = "nomic-embed-text"
	}

	dimensions, ok := ollamaModelDimensions[stripModelTag(model)]
	if !ok {
		// Default to 768 for unknown models
		dimensions = 768
	}

	return &OllamaEmbedding{
		baseURL:    baseURL,
		model:      model,
		dimensions: dimensions,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// ollamaEmbedRequest is the request body for Ollama's /api/embed endpoint
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaEmbedResponse is the response from Ollama's /api/embed endpoint
type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates embeddings for multiple texts in one request
func (e *OllamaEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := ollamaEmbedRequest{
		Model: e.model,
		Input: texts,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var embResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(embResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embResp.Embeddings))
	}

	return embResp.Embeddings, nil
}

// EmbedQuery generates an embedding for a search query
func (e *OllamaEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	return embeddings[0], nil
}

// Dimensions returns the embedding dimension size
func (e *OllamaEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *OllamaEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the Ollama server is reachable and has the
// configured model pulled
func (e *OllamaEmbedding) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return fmt.Errorf("failed to parse tags response: %w", err)
	}

	// Compare base names: "nomic-embed-text:latest" matches "nomic-embed-text"
	wanted := stripModelTag(e.model)
	for _, model := range tagsResp.Models {
		if stripModelTag(model.Name) == wanted {
			return nil
		}
	}

	return fmt.Errorf("model %s not found (run: ollama pull %s)", e.model, e.model)
}

// Close releases resources held by the embedding service
func (e *OllamaEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// stripModelTag removes the tag suffix from a model name
// (e.g. "model:latest" -> "model")
func stripModelTag(modelName string) string {
	if idx := strings.IndexByte(modelName, ':'); idx >= 0 {
		return modelName[:idx]
	}
	return modelName
}
