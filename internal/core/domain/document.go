package domain

import (
	"strings"
	"time"
)

// DocumentStatus represents the lifecycle state of an ingested page
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents one ingested page from a crawl
type Document struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	SourceURL    string         `json:"source_url"`
	CrawlJobID   string         `json:"crawl_job_id"` // Groups all pages from one crawl invocation
	Title        string         `json:"title"`
	Status       DocumentStatus `json:"status"`
	WordCount    int            `json:"word_count"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsTerminal reports whether the document has reached a final state
func (d *Document) IsTerminal() bool {
	return d.Status == DocumentStatusReady || d.Status == DocumentStatusFailed
}

// Chunk represents an embeddable slice of a document's text
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Index      int       `json:"index"` // Dense, zero-based position within the document
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentWithChunks combines a document with its chunks
type DocumentWithChunks struct {
	Document *Document `json:"document"`
	Chunks   []*Chunk  `json:"chunks"`
}

// CountWords returns the number of whitespace-separated words in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
