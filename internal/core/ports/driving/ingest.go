package driving

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// ImportRequest describes one URL ingestion attempt
type ImportRequest struct {
	UserID   string `json:"-"`
	URL      string `json:"url"`
	MaxPages int    `json:"max_pages,omitempty"` // 0 means plan ceiling
}

// IngestService runs the URL import pipeline: validate, admit, crawl,
// chunk, embed, persist, and report progress.
type IngestService interface {
	// ImportURL runs one import. A non-nil error means the request was
	// rejected before any progress event was emitted; after admission
	// every outcome (including fatal crawl errors) is reported through
	// emit and the method returns nil.
	ImportURL(ctx context.Context, req ImportRequest, emit domain.ProgressFunc) error
}

// Janitor periodically repairs documents abandoned mid-import
// (client disconnects leave rows in processing status)
type Janitor interface {
	// Start begins the background sweep loop
	Start(ctx context.Context) error

	// Stop stops the sweep loop and waits for the current run
	Stop(ctx context.Context) error
}
