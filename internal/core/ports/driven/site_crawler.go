package driven

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// SiteCrawler traverses a website breadth-first from a validated seed.
// All fetches connect to the seed's pinned IP addresses; the crawler
// never performs its own DNS resolution.
type SiteCrawler interface {
	// Crawl fetches up to opts.MaxPages same-origin pages starting at
	// the seed, delivering each page to opts.OnPage in discovery order.
	// Context cancellation is an early-complete, not an error. A non-nil
	// error from opts.OnPage stops the traversal; the result still
	// reflects everything delivered up to that point.
	Crawl(ctx context.Context, seed *domain.ValidatedURL, opts domain.CrawlOptions) (*domain.CrawlResult, error)
}
