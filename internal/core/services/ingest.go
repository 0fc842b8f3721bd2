package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
	"github.com/custodia-labs/sitedex-core/internal/runtime"
)

// errPageBudgetReached stops the crawler once the import has indexed
// its full page budget. Never surfaces to callers.
var errPageBudgetReached = errors.New("page budget reached")

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService coordinates the URL import pipeline:
//  1. Validate the seed URL (scheme, DNS, address policy)
//  2. Reject duplicates of already-imported source URLs
//  3. Check plan access, embedding credentials, quota, and rate limits
//  4. Crawl same-origin pages through the pinned-address crawler
//  5. Per page: create document, chunk, embed, store chunks, mark ready
//  6. Report progress events and final aggregates
//
// Pages are independent failure domains: one page failing never aborts
// its siblings. A non-nil error from ImportURL means the request was
// rejected before any event was emitted.
type ingestService struct {
	validator        *URLValidator
	crawler          driven.SiteCrawler
	documentStore    driven.DocumentStore
	chunkStore       driven.ChunkStore
	chunker          driven.TextChunker
	batcher          EmbeddingBatcher
	credentialsStore driven.CredentialsStore
	aiFactory        driven.AIServiceFactory
	planService      driven.PlanService
	rateLimiter      driven.RateLimiter
	services         *runtime.Services
	logger           *slog.Logger

	rateWindow time.Duration
}

// IngestServiceConfig holds dependencies for the ingest service.
type IngestServiceConfig struct {
	Validator        *URLValidator
	Crawler          driven.SiteCrawler
	DocumentStore    driven.DocumentStore
	ChunkStore       driven.ChunkStore
	Chunker          driven.TextChunker
	Batcher          EmbeddingBatcher // Zero value falls back to defaults
	CredentialsStore driven.CredentialsStore
	AIFactory        driven.AIServiceFactory
	PlanService      driven.PlanService
	RateLimiter      driven.RateLimiter
	Services         *runtime.Services
	Logger           *slog.Logger
	RateWindow       time.Duration // Trailing window for job admission (default: 1h)
}

// NewIngestService creates a new ingest service.
func NewIngestService(cfg IngestServiceConfig) driving.IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rateWindow := cfg.RateWindow
	if rateWindow == 0 {
		rateWindow = time.Hour
	}

	batcher := cfg.Batcher
	if batcher.BatchSize == 0 && batcher.Concurrency == 0 {
		batcher = DefaultEmbeddingBatcher()
	}

	return &ingestService{
		validator:        cfg.Validator,
		crawler:          cfg.Crawler,
		documentStore:    cfg.DocumentStore,
		chunkStore:       cfg.ChunkStore,
		chunker:          cfg.Chunker,
		batcher:          batcher,
		credentialsStore: cfg.CredentialsStore,
		aiFactory:        cfg.AIFactory,
		planService:      cfg.PlanService,
		rateLimiter:      cfg.RateLimiter,
		services:         cfg.Services,
		logger:           logger,
		rateWindow:       rateWindow,
	}
}

// importJob carries the per-import state threaded through the crawler
// callbacks. Pages arrive sequentially, so counters need no locking.
type importJob struct {
	userID     string
	crawlJobID string
	budget     int
	embedder   driven.EmbeddingService
	emit       domain.ProgressFunc

	processed int // Documents marked ready
	skipped   int
	failed    int
	total     int // Concluded fetch attempts
	limitHit  bool

	lastDocumentID string
}

// event builds a progress event carrying the current counters.
func (j *importJob) event(t domain.ProgressEventType) domain.CrawlProgressEvent {
	return domain.CrawlProgressEvent{
		Type:           t,
		PagesProcessed: j.processed,
		PagesSkipped:   j.skipped,
		PagesFailed:    j.failed,
		PagesTotal:     j.total,
	}
}

// ImportURL runs one import end to end.
func (s *ingestService) ImportURL(ctx context.Context, req driving.ImportRequest, emit domain.ProgressFunc) error {
	if emit == nil {
		emit = func(domain.CrawlProgressEvent) {}
	}
	if req.UserID == "" {
		return fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}

	// Gate 1: seed URL must be valid and publicly routable
	seed, err := s.validator.Validate(ctx, req.URL)
	if err != nil {
		return err
	}

	// Gate 2: one document per (user, source URL)
	existing, err := s.documentStore.FindBySourceURL(ctx, req.UserID, seed.NormalizedURL)
	if err != nil {
		return fmt.Errorf("failed to check for existing document: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSource, seed.NormalizedURL)
	}

	// Gate 3: billing plan must allow imports
	access, err := s.planService.CheckAccess(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to check plan access: %w", err)
	}
	if !access.Allowed {
		if access.Reason != "" {
			return fmt.Errorf("%w: %s", domain.ErrPlanDenied, access.Reason)
		}
		return domain.ErrPlanDenied
	}

	// Gate 4: an embedding service must be reachable for this user
	embedder, owned, err := embeddingForUser(ctx, s.credentialsStore, s.aiFactory, s.services, req.UserID)
	if err != nil {
		return err
	}
	if owned {
		defer func() { _ = embedder.Close() }()
	}

	// Gate 5: remaining document quota caps the page budget
	usedTotal, err := s.documentStore.CountForUser(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	usedToday, err := s.documentStore.CountForUserSince(ctx, req.UserID, utcMidnight(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to count documents for today: %w", err)
	}
	budget := access.Plan.EffectiveBudget(req.MaxPages, usedTotal, usedToday)
	if budget <= 0 {
		return fmt.Errorf("%w: %d of %d documents used", domain.ErrQuotaExceeded, usedTotal, access.Plan.DocumentLimit)
	}

	// Gate 6: cap distinct crawl jobs per trailing window
	admitted, err := s.rateLimiter.TryAdmit(ctx, req.UserID, access.Plan.ImportsPerHour, s.rateWindow)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !admitted {
		return fmt.Errorf("%w: at most %d imports per hour", domain.ErrRateLimited, access.Plan.ImportsPerHour)
	}

	// Admitted: everything from here on is reported through events
	job := &importJob{
		userID:     req.UserID,
		crawlJobID: uuid.NewString(),
		budget:     budget,
		embedder:   embedder,
		emit:       emit,
	}

	s.logger.Info("starting import",
		"user_id", req.UserID,
		"url", seed.NormalizedURL,
		"crawl_job_id", job.crawlJobID,
		"budget", budget,
	)

	s.runCrawl(ctx, seed, job)
	return nil
}

// runCrawl drives the crawler and emits the terminal event.
func (s *ingestService) runCrawl(ctx context.Context, seed *domain.ValidatedURL, job *importJob) {
	startTime := time.Now()

	opts := domain.CrawlOptions{
		MaxPages: job.budget,
		OnPage: func(ctx context.Context, page *domain.CrawlPage) error {
			return s.onPage(ctx, job, page)
		},
		OnSkip: func(url, reason string) {
			job.total++
			job.skipped++
			ev := job.event(domain.ProgressPageSkipped)
			ev.URL = url
			ev.Note = reason
			job.emit(ev)
		},
		OnError: func(url string, err error) {
			job.total++
			job.failed++
			s.logger.Warn("page fetch failed", "crawl_job_id", job.crawlJobID, "url", url, "error", err)
			ev := job.event(domain.ProgressPageError)
			ev.URL = url
			ev.Error = err.Error()
			job.emit(ev)
		},
	}

	result, err := s.crawler.Crawl(ctx, seed, opts)
	if err != nil {
		// Fatal crawl error: documents already marked ready stay valid
		s.logger.Error("crawl failed",
			"crawl_job_id", job.crawlJobID,
			"url", seed.NormalizedURL,
			"error", err,
		)
		job.emit(domain.CrawlProgressEvent{
			Type:  domain.ProgressCrawlError,
			Error: err.Error(),
		})
		return
	}

	if result != nil && result.LimitReached {
		job.limitHit = true
	}

	ev := job.event(domain.ProgressCrawlComplete)
	if job.limitHit {
		ev.Note = "limit reached"
	}
	job.emit(ev)

	s.logger.Info("import completed",
		"crawl_job_id", job.crawlJobID,
		"duration_seconds", time.Since(startTime).Seconds(),
		"pages_processed", job.processed,
		"pages_skipped", job.skipped,
		"pages_failed", job.failed,
		"pages_total", job.total,
		"limit_reached", job.limitHit,
	)
}

// onPage handles one delivered page. Returning a non-nil error stops
// the crawler, which it only does for budget enforcement; page-level
// failures are absorbed here.
func (s *ingestService) onPage(ctx context.Context, job *importJob, page *domain.CrawlPage) error {
	if job.processed >= job.budget {
		job.limitHit = true
		return errPageBudgetReached
	}

	job.total++
	ev := job.event(domain.ProgressPageFetched)
	ev.URL = page.URL
	ev.Title = page.Title
	job.emit(ev)

	// A page already imported by an earlier crawl is skipped, no new row
	existing, err := s.documentStore.FindBySourceURL(ctx, job.userID, page.URL)
	if err == nil && existing != nil {
		job.skipped++
		skip := job.event(domain.ProgressPageSkipped)
		skip.URL = page.URL
		skip.Note = "already imported"
		job.emit(skip)
		return nil
	}

	if err := s.processPage(ctx, job, page); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a race with a concurrent import of the same URL
			job.skipped++
			skip := job.event(domain.ProgressPageSkipped)
			skip.URL = page.URL
			skip.Note = "already imported"
			job.emit(skip)
			return nil
		}

		// Isolated failure: log, emit, continue with siblings
		s.logger.Warn("failed to process page",
			"crawl_job_id", job.crawlJobID,
			"url", page.URL,
			"error", err,
		)
		job.failed++
		fail := job.event(domain.ProgressPageError)
		fail.URL = page.URL
		fail.Error = err.Error()
		job.emit(fail)
		return nil
	}

	job.processed++
	ready := job.event(domain.ProgressPageReady)
	ready.URL = page.URL
	ready.Title = page.Title
	ready.DocumentID = job.lastDocumentID
	job.emit(ready)
	return nil
}

// processPage runs the per-page pipeline: document row, chunking,
// embeddings, atomic chunk insert, ready transition.
func (s *ingestService) processPage(ctx context.Context, job *importJob, page *domain.CrawlPage) error {
	now := time.Now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		UserID:     job.userID,
		SourceURL:  page.URL,
		CrawlJobID: job.crawlJobID,
		Title:      page.Title,
		Status:     domain.DocumentStatusProcessing,
		WordCount:  page.WordCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.documentStore.Insert(ctx, doc); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	job.lastDocumentID = doc.ID

	chunks := s.chunker.ChunkText(page.Content, 0)
	if len(chunks) == 0 {
		return s.failDocument(ctx, doc.ID, errors.New("no content to chunk"))
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.batcher.GenerateEmbeddings(ctx, job.embedder, texts)
	if err != nil {
		return s.failDocument(ctx, doc.ID, fmt.Errorf("failed to generate embeddings: %w", err))
	}

	rows := make([]*domain.Chunk, len(chunks))
	for i := range chunks {
		chunk := chunks[i]
		chunk.ID = uuid.NewString()
		chunk.DocumentID = doc.ID
		chunk.Embedding = vectors[i]
		chunk.CreatedAt = now
		rows[i] = &chunk
	}

	if err := s.chunkStore.InsertBatch(ctx, rows); err != nil {
		return s.failDocument(ctx, doc.ID, fmt.Errorf("failed to store chunks: %w", err))
	}

	if err := s.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusReady, ""); err != nil {
		return s.failDocument(ctx, doc.ID, fmt.Errorf("failed to mark document ready: %w", err))
	}

	return nil
}

// failDocument records a page failure on its document row and returns
// the original error for the caller to report.
func (s *ingestService) failDocument(ctx context.Context, docID string, cause error) error {
	if err := s.documentStore.UpdateStatus(ctx, docID, domain.DocumentStatusFailed, cause.Error()); err != nil {
		s.logger.Warn("failed to mark document failed", "document_id", docID, "error", err)
	}
	return cause
}

// utcMidnight returns the start of the UTC calendar day containing t.
func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
