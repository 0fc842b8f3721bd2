package crawler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/normalisers"
)

// Ensure Crawler implements SiteCrawler
var _ driven.SiteCrawler = (*Crawler)(nil)

// Config holds crawler limits. MaxPages and MaxDepth are hard ceilings
// that apply regardless of the per-crawl budget a caller passes in.
type Config struct {
	MaxPages       int
	MaxDepth       int
	MaxBodyBytes   int64
	RequestsPerSec float64
	FetchTimeout   time.Duration
	UserAgent      string
}

// DefaultConfig returns the default crawler limits.
func DefaultConfig() Config {
	return Config{
		MaxPages:       50,
		MaxDepth:       3,
		MaxBodyBytes:   10 << 20, // 10 MB per page
		RequestsPerSec: 2,
		FetchTimeout:   30 * time.Second,
		UserAgent:      "sitedex-crawler/1.0",
	}
}

// Crawler walks a website breadth-first from a validated seed. Every
// fetch connects to the addresses pinned at validation time, so a DNS
// answer that changes mid-crawl cannot redirect traffic.
type Crawler struct {
	config      Config
	normalisers driven.NormaliserRegistry
}

// New creates a site crawler. Zero-value config fields fall back to
// DefaultConfig; a nil registry gets the default normaliser set.
func New(cfg Config, registry driven.NormaliserRegistry) *Crawler {
	def := DefaultConfig()
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = def.RequestsPerSec
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if registry == nil {
		registry = normalisers.DefaultRegistry()
	}
	return &Crawler{config: cfg, normalisers: registry}
}

// Crawl traverses the site rooted at seed, delivering pages through
// opts.OnPage in discovery order. Cancellation is an early-complete:
// pages already delivered stay delivered and the error is nil.
func (c *Crawler) Crawl(ctx context.Context, seed *domain.ValidatedURL, opts domain.CrawlOptions) (*domain.CrawlResult, error) {
	if seed == nil {
		return nil, errors.New("nil seed")
	}
	origin, err := url.Parse(seed.NormalizedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed url: %w", err)
	}
	if len(seed.ResolvedIPs) == 0 {
		return nil, errors.New("seed has no resolved addresses")
	}

	client := newPinnedClient(seed, c.config.FetchTimeout)
	defer client.CloseIdleConnections()

	budget := c.config.MaxPages
	if opts.MaxPages > 0 && opts.MaxPages < budget {
		budget = opts.MaxPages
	}

	t := &traversal{
		config:      c.config,
		normalisers: c.normalisers,
		client:      client,
		limiter:     rate.NewLimiter(rate.Limit(c.config.RequestsPerSec), 1),
		origin:      origin,
		opts:        opts,
		budget:      budget,
		visited:     make(map[string]bool),
		digests:     make(map[[sha256.Size]byte]bool),
		result:      &domain.CrawlResult{},
	}

	t.visited[seed.NormalizedURL] = true
	t.frontier = append(t.frontier, frontierItem{url: seed.NormalizedURL, depth: 0})

	t.run(ctx)
	return t.result, nil
}

type frontierItem struct {
	url   string
	depth int
}

// visitOutcome tells the traversal loop how to proceed after one URL.
type visitOutcome int

const (
	visitContinue visitOutcome = iota
	visitCanceled              // context canceled mid-fetch
	visitStopped               // OnPage asked to stop
)

// traversal carries the state of one Crawl call. Fetches run
// sequentially, so no locking is needed.
type traversal struct {
	config      Config
	normalisers driven.NormaliserRegistry
	client      *http.Client
	limiter     *rate.Limiter
	origin      *url.URL
	opts        domain.CrawlOptions
	budget      int

	frontier []frontierItem
	visited  map[string]bool
	digests  map[[sha256.Size]byte]bool
	result   *domain.CrawlResult
}

func (t *traversal) run(ctx context.Context) {
	for len(t.frontier) > 0 {
		if ctx.Err() != nil {
			return
		}
		if t.result.PagesDelivered >= t.budget {
			t.result.LimitReached = true
			return
		}

		item := t.frontier[0]
		t.frontier = t.frontier[1:]

		if ext := binaryExtension(item.url); ext != "" {
			t.skip(item.url, "binary file extension "+ext)
			continue
		}

		// Politeness: pace fetches against the same host
		if err := t.limiter.Wait(ctx); err != nil {
			return
		}

		switch t.visit(ctx, item) {
		case visitCanceled:
			return
		case visitStopped:
			if len(t.frontier) > 0 {
				t.result.LimitReached = true
			}
			return
		}
	}
}

// visit fetches one URL and routes the outcome to the right callback.
// Page failures and skips never stop the traversal.
func (t *traversal) visit(ctx context.Context, item frontierItem) visitOutcome {
	fetched, err := t.fetch(ctx, item)
	if err != nil {
		if ctx.Err() != nil {
			return visitCanceled
		}
		t.fail(item.url, err)
		return visitContinue
	}

	// Links are followed even off skipped pages: an index page with no
	// indexable content of its own still leads to pages that have some.
	t.enqueue(fetched.links, item.depth+1)

	if fetched.skipReason != "" {
		t.skip(item.url, fetched.skipReason)
		return visitContinue
	}

	t.result.PagesDelivered++
	t.result.PagesTotal++
	if t.opts.OnPage != nil {
		if err := t.opts.OnPage(ctx, fetched.page); err != nil {
			return visitStopped
		}
	}
	return visitContinue
}

// fetchedURL is the outcome of one fetch: either a deliverable page or
// a skip reason, plus any same-origin links discovered along the way.
type fetchedURL struct {
	page       *domain.CrawlPage
	links      []string
	skipReason string
}

func (t *traversal) fetch(ctx context.Context, item frontierItem) (*fetchedURL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/*;q=0.8")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	mediaType := contentMediaType(resp.Header.Get("Content-Type"))
	if !isCrawlableType(mediaType) {
		return &fetchedURL{skipReason: "unsupported content type " + mediaType}, nil
	}

	limited := io.LimitReader(resp.Body, t.config.MaxBodyBytes+1)

	// Sites serve whatever encoding they like; everything downstream
	// assumes UTF-8, Postgres included.
	decoded, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &fetchedURL{skipReason: "empty body"}, nil
		}
		return nil, fmt.Errorf("decode body: %w", err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > t.config.MaxBodyBytes {
		return &fetchedURL{skipReason: "body exceeds size limit"}, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &fetchedURL{skipReason: "empty body"}, nil
	}

	digest := sha256.Sum256(body)
	if t.digests[digest] {
		return &fetchedURL{skipReason: "duplicate content"}, nil
	}
	t.digests[digest] = true

	var title string
	var links []string
	if isHTMLType(mediaType) {
		title, links = parsePage(t.origin, item.url, body)
	}

	content := t.normalise(string(body), mediaType)
	if content == "" {
		return &fetchedURL{links: links, skipReason: "empty body"}, nil
	}
	if title == "" {
		title = normalisers.MarkdownTitle(content)
	}

	return &fetchedURL{
		page: &domain.CrawlPage{
			URL:       item.url,
			Title:     title,
			Content:   content,
			WordCount: domain.CountWords(content),
			Depth:     item.depth,
		},
		links: links,
	}, nil
}

func (t *traversal) normalise(content, mediaType string) string {
	if n := t.normalisers.Get(mediaType); n != nil {
		return n.Normalise(content, mediaType)
	}
	return strings.TrimSpace(content)
}

func (t *traversal) enqueue(links []string, depth int) {
	if depth > t.config.MaxDepth {
		return
	}
	for _, link := range links {
		if t.visited[link] {
			continue
		}
		t.visited[link] = true
		t.frontier = append(t.frontier, frontierItem{url: link, depth: depth})
	}
}

func (t *traversal) skip(url, reason string) {
	t.result.PagesSkipped++
	t.result.PagesTotal++
	if t.opts.OnSkip != nil {
		t.opts.OnSkip(url, reason)
	}
}

func (t *traversal) fail(url string, err error) {
	t.result.PagesFailed++
	t.result.PagesTotal++
	if t.opts.OnError != nil {
		t.opts.OnError(url, err)
	}
}
