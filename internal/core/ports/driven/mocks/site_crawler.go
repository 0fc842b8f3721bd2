package mocks

import (
	"context"
	"errors"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockSiteCrawler implements SiteCrawler
var _ driven.SiteCrawler = (*MockSiteCrawler)(nil)

// CrawlStep scripts one outcome of a MockSiteCrawler traversal
type CrawlStep struct {
	Page   *domain.CrawlPage // Delivered via OnPage when set
	Skip   string            // URL skipped with SkipReason
	Reason string
	Fail   string // URL failed with Err
	Err    error
}

// MockSiteCrawler replays a scripted traversal through the CrawlOptions
// callbacks, honoring the page budget and cancellation the way the real
// crawler does.
type MockSiteCrawler struct {
	Steps []CrawlStep

	// CrawlErr makes Crawl fail outright (fatal crawl error)
	CrawlErr error

	// LastSeed records the seed of the most recent Crawl call
	LastSeed *domain.ValidatedURL
}

// NewMockSiteCrawler creates a crawler that delivers the given pages
func NewMockSiteCrawler(pages ...*domain.CrawlPage) *MockSiteCrawler {
	m := &MockSiteCrawler{}
	for _, page := range pages {
		m.Steps = append(m.Steps, CrawlStep{Page: page})
	}
	return m
}

func (m *MockSiteCrawler) Crawl(ctx context.Context, seed *domain.ValidatedURL, opts domain.CrawlOptions) (*domain.CrawlResult, error) {
	m.LastSeed = seed
	if m.CrawlErr != nil {
		return nil, m.CrawlErr
	}

	result := &domain.CrawlResult{}
	for i, step := range m.Steps {
		if err := ctx.Err(); err != nil {
			return result, nil // Early-complete on cancellation
		}

		switch {
		case step.Page != nil:
			if opts.MaxPages > 0 && result.PagesDelivered >= opts.MaxPages {
				result.LimitReached = true
				return result, nil
			}
			result.PagesDelivered++
			result.PagesTotal++
			if opts.OnPage != nil {
				if err := opts.OnPage(ctx, step.Page); err != nil {
					if m.remainingPages(i+1) > 0 {
						result.LimitReached = true
					}
					return result, nil
				}
			}
		case step.Skip != "":
			result.PagesSkipped++
			result.PagesTotal++
			if opts.OnSkip != nil {
				opts.OnSkip(step.Skip, step.Reason)
			}
		case step.Fail != "":
			result.PagesFailed++
			result.PagesTotal++
			err := step.Err
			if err == nil {
				err = errors.New("fetch failed")
			}
			if opts.OnError != nil {
				opts.OnError(step.Fail, err)
			}
		}
	}
	return result, nil
}

func (m *MockSiteCrawler) remainingPages(from int) int {
	count := 0
	for _, step := range m.Steps[from:] {
		if step.Page != nil {
			count++
		}
	}
	return count
}
