package postprocessors

import (
	"strings"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// MaxChunkSize is the maximum characters per chunk
	MaxChunkSize int

	// Overlap is the character overlap between chunks
	Overlap int

	// PreserveSentences tries to break at sentence boundaries
	PreserveSentences bool

	// PreserveParagraphs tries to break at paragraph boundaries
	PreserveParagraphs bool
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize:       1000,
		Overlap:            200,
		PreserveSentences:  true,
		PreserveParagraphs: true,
	}
}

// Chunker splits content into overlapping chunks.
// This is typically the first processor in the pipeline (Order = 0).
type Chunker struct {
	config ChunkConfig
}

// Verify interface compliance
var _ driven.PostProcessor = (*Chunker)(nil)

// NewChunker creates a new chunker with the given config.
func NewChunker(config ChunkConfig) *Chunker {
	return &Chunker{config: config}
}

// Process splits content into chunks.
func (c *Chunker) Process(chunks []driven.Chunk) []driven.Chunk {
	var result []driven.Chunk
	position := 0

	for _, chunk := range chunks {
		newChunks := c.splitContent(chunk.Content, chunk.StartOffset, &position)
		result = append(result, newChunks...)
	}

	return result
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Order returns 0 - chunker should be first.
func (c *Chunker) Order() int {
	return 0
}

// splitContent splits content into overlapping chunks.
func (c *Chunker) splitContent(content string, baseOffset int, position *int) []driven.Chunk {
	if len(content) <= c.config.MaxChunkSize {
		chunk := driven.Chunk{
			Content:     content,
			Position:    *position,
			StartOffset: baseOffset,
			EndOffset:   baseOffset + len(content),
		}
		*position++
		return []driven.Chunk{chunk}
	}

	var chunks []driven.Chunk
	start := 0

	for start < len(content) {
		end := start + c.config.MaxChunkSize
		if end > len(content) {
			end = len(content)
		}

		// Try to find a good break point
		if end < len(content) {
			breakPoint := c.findBreakPoint(content, start, end)
			if breakPoint > start {
				end = breakPoint
			}
		}

		chunk := driven.Chunk{
			Content:     content[start:end],
			Position:    *position,
			StartOffset: baseOffset + start,
			EndOffset:   baseOffset + end,
		}
		chunks = append(chunks, chunk)
		*position++

		// If we've reached the end, stop
		if end >= len(content) {
			break
		}

		// Move start with overlap, ensuring we always advance
		nextStart := end - c.config.Overlap
		if nextStart <= start {
			// Ensure we always make progress
			nextStart = start + 1
		}
		start = nextStart
	}

	return chunks
}

// findBreakPoint finds a good break point for chunking.
// Preference order: paragraph boundary, sentence boundary, word boundary.
func (c *Chunker) findBreakPoint(content string, start, maxEnd int) int {
	searchStart := maxEnd - 100
	if searchStart < start {
		searchStart = start
	}

	searchContent := content[searchStart:maxEnd]

	// Try to break at paragraph boundary (double newline)
	if c.config.PreserveParagraphs {
		if idx := strings.LastIndex(searchContent, "\n\n"); idx != -1 {
			return searchStart + idx + 2 // After the double newline
		}
	}

	// Try to break at sentence boundary
	if c.config.PreserveSentences {
		sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
		bestIdx := -1

		for _, ender := range sentenceEnders {
			if idx := strings.LastIndex(searchContent, ender); idx != -1 {
				endPos := idx + len(ender)
				if endPos > bestIdx {
					bestIdx = endPos
				}
			}
		}

		if bestIdx > 0 {
			return searchStart + bestIdx
		}
	}

	// Try to break at word boundary
	if idx := strings.LastIndex(searchContent, " "); idx != -1 {
		return searchStart + idx + 1
	}

	// No good break point found, hard split at maxEnd
	return maxEnd
}

// EstimateTokens returns a cheap deterministic token estimate for text:
// one token per four characters, rounded up. Not a model tokenizer.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// TextChunker turns normalized page text into embeddable chunks with
// dense indices. It wraps the chunking pipeline and applies the token
// estimate.
type TextChunker struct {
	pipeline driven.PostProcessorPipeline
}

// Verify interface compliance
var _ driven.TextChunker = (*TextChunker)(nil)

// NewTextChunker creates a TextChunker with the given chunk config.
func NewTextChunker(config ChunkConfig) *TextChunker {
	p := NewPipeline()
	p.Add(NewChunker(config))
	p.Add(NewSanitiser())
	return &TextChunker{pipeline: p}
}

// ChunkText splits content into chunks. Indices are dense and continue
// from startIndex regardless of how many pipeline chunks were dropped
// during sanitization. Whitespace-only content yields no chunks.
func (t *TextChunker) ChunkText(content string, startIndex int) []domain.Chunk {
	processed := t.pipeline.Process(content)

	chunks := make([]domain.Chunk, 0, len(processed))
	for _, pc := range processed {
		if strings.TrimSpace(pc.Content) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			Index:      startIndex + len(chunks),
			Content:    pc.Content,
			TokenCount: EstimateTokens(pc.Content),
		})
	}
	return chunks
}
