package domain

import "time"

// SearchOptions configures a search request
type SearchOptions struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:  10,
		Offset: 0,
	}
}

// SearchResult represents the result of a search query
type SearchResult struct {
	Query      string         `json:"query"`
	Results    []*RankedChunk `json:"results"`
	TotalCount int            `json:"total_count"`
	Took       time.Duration  `json:"took" swaggertype:"integer" example:"1500000"`
}

// RankedChunk represents a search result with relevance score
type RankedChunk struct {
	Chunk    *Chunk    `json:"chunk"`
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
}
