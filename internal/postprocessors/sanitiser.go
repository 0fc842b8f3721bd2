package postprocessors

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Sanitiser removes control characters and normalizes whitespace so
// persisted chunk text never carries null bytes or terminal escapes.
type Sanitiser struct{}

// Verify interface compliance
var _ driven.PostProcessor = (*Sanitiser)(nil)

// NewSanitiser creates a new sanitiser.
func NewSanitiser() *Sanitiser {
	return &Sanitiser{}
}

// Process sanitizes chunk content and drops chunks left empty.
func (s *Sanitiser) Process(chunks []driven.Chunk) []driven.Chunk {
	result := make([]driven.Chunk, 0, len(chunks))

	for _, chunk := range chunks {
		content := sanitiseText(chunk.Content)
		if len(content) == 0 {
			continue
		}
		newChunk := chunk
		newChunk.Content = content
		result = append(result, newChunk)
	}

	return result
}

// Name returns the processor name.
func (s *Sanitiser) Name() string {
	return "sanitiser"
}

// Order returns 5 - sanitiser runs after the chunker.
func (s *Sanitiser) Order() int {
	return 5
}

func sanitiseText(content string) string {
	// Normalize line endings first
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r == 0 || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	content = b.String()

	// Remove excessive blank lines
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(content)
}
