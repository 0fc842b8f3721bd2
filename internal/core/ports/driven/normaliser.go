package driven

import (
	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// Normaliser normalizes raw page content for indexing.
// It transforms fetched formats (HTML first of all) into clean text.
type Normaliser interface {
	// Normalise transforms raw content into normalized text.
	// The mimeType helps determine the appropriate processing.
	Normalise(content string, mimeType string) string

	// SupportedTypes returns MIME types this normaliser handles.
	// Can include wildcards like "text/*" or specific types like "text/html".
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-89:  Format-specific (HTML, Markdown)
	//   10-49:  Generic (basic text processing)
	//   1-9:    Fallback (raw text extraction)
	Priority() int
}

// NormaliserRegistry manages content normalisers.
// When multiple normalisers match a MIME type, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a MIME type.
	// Returns nil if no normaliser is registered for the type.
	// When multiple match, the highest priority normaliser is returned.
	Get(mimeType string) Normaliser

	// GetAll retrieves all normalisers that match a MIME type, sorted by priority (highest first).
	GetAll(mimeType string) []Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered MIME types.
	List() []string
}

// PostProcessor applies post-processing to page content or chunks.
// Processors form a pipeline: Chunker -> Sanitiser -> etc.
type PostProcessor interface {
	// Process applies post-processing to content chunks.
	// The first processor (Chunker) receives a single chunk with the full content.
	// Subsequent processors receive the chunks from the previous stage.
	Process(chunks []Chunk) []Chunk

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the processor order in the pipeline (lower = earlier).
	// Chunker should be 0, subsequent processors increment from there.
	Order() int
}

// Chunk represents a piece of page content moving through the pipeline.
type Chunk struct {
	// Content is the text content of the chunk
	Content string

	// Position is the chunk index within the page (0-based)
	Position int

	// StartOffset is the character offset from content start
	StartOffset int

	// EndOffset is the character offset for chunk end
	EndOffset int
}

// PostProcessorPipeline chains multiple post-processors in order.
type PostProcessorPipeline interface {
	// Process applies all processors in order.
	// Input is the raw page content.
	// Output is the processed chunks ready for embedding.
	Process(content string) []Chunk

	// Add adds a processor to the pipeline.
	// Processors are sorted by Order() before processing.
	Add(processor PostProcessor)

	// List returns processor names in order.
	List() []string
}

// TextChunker turns normalized page text into embeddable chunks.
// This is the orchestrator-facing contract over the pipeline.
type TextChunker interface {
	// ChunkText splits content into chunks with dense indices starting
	// at startIndex. Whitespace-only or empty content yields no chunks.
	ChunkText(content string, startIndex int) []domain.Chunk
}
