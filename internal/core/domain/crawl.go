package domain

import "context"

// ValidatedURL is the outcome of SSRF validation for a seed URL.
// ResolvedIPs is pinned at validation time and reused for every fetch of
// the same crawl so a later DNS answer cannot redirect the crawler
// (DNS rebinding). Treat as immutable after creation.
type ValidatedURL struct {
	NormalizedURL string   `json:"normalized_url"`
	Hostname      string   `json:"hostname"`
	ResolvedIPs   []string `json:"resolved_ips"`
}

// CrawlPage holds the extracted content of one fetched page
type CrawlPage struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"` // Markdown-normalized text
	WordCount int    `json:"word_count"`
	Depth     int    `json:"depth"`
}

// CrawlOptions configures a single site traversal
type CrawlOptions struct {
	MaxPages int // Page budget; the crawler fetches at most this many pages

	// OnPage receives each fetched page in discovery order. Returning a
	// non-nil error stops the traversal; pages already delivered stay
	// delivered.
	OnPage func(ctx context.Context, page *CrawlPage) error

	// OnSkip is called when a fetched URL is discarded without content
	// (unsupported type, empty body, oversize, duplicate content).
	OnSkip func(url, reason string)

	// OnError is called when fetching a single URL fails. The traversal
	// continues with the remaining frontier.
	OnError func(url string, err error)
}

// CrawlResult summarizes one completed traversal
type CrawlResult struct {
	PagesDelivered int  `json:"pages_delivered"`
	PagesSkipped   int  `json:"pages_skipped"`
	PagesFailed    int  `json:"pages_failed"`
	PagesTotal     int  `json:"pages_total"` // Concluded fetch attempts: delivered + skipped + failed
	LimitReached   bool `json:"limit_reached"`
}

// ProgressEventType discriminates crawl progress events
type ProgressEventType string

const (
	ProgressPageFetched   ProgressEventType = "page_fetched"
	ProgressPageSkipped   ProgressEventType = "page_skipped"
	ProgressPageReady     ProgressEventType = "page_ready"
	ProgressPageError     ProgressEventType = "page_error"
	ProgressCrawlComplete ProgressEventType = "crawl_complete"
	ProgressCrawlError    ProgressEventType = "crawl_error"
)

// CrawlProgressEvent is one entry in the progress stream for a crawl.
// Field names are the wire contract consumed by streaming clients;
// clients ignore event types they do not recognize. Counters are
// monotonically non-decreasing within a single crawl.
type CrawlProgressEvent struct {
	Type           ProgressEventType `json:"type"`
	URL            string            `json:"url,omitempty"`
	Title          string            `json:"title,omitempty"`
	DocumentID     string            `json:"documentId,omitempty"`
	Error          string            `json:"error,omitempty"`
	Note           string            `json:"note,omitempty"`
	PagesProcessed int               `json:"pagesProcessed"`
	PagesSkipped   int               `json:"pagesSkipped"`
	PagesFailed    int               `json:"pagesFailed"`
	PagesTotal     int               `json:"pagesTotal"`
}

// ProgressFunc receives progress events as a crawl advances. The
// transport (SSE, WebSocket, buffered) is the caller's concern.
type ProgressFunc func(event CrawlProgressEvent)
