package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ComponentStatus reports the health of one dependency
// @Description Health of one dependency
type ComponentStatus struct {
	Status string `json:"status" example:"healthy"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse aggregates component health
// @Description Aggregated component health
type HealthResponse struct {
	Status     string                     `json:"status" example:"healthy"`
	Version    string                     `json:"version,omitempty" example:"1.0.0"`
	Components map[string]ComponentStatus `json:"components"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns per-component health. Always 200: the process answered, the body says how well.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := map[string]ComponentStatus{
		"server": {Status: "healthy"},
	}
	status := "healthy"

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			components["database"] = ComponentStatus{Status: "unhealthy", Error: err.Error()}
			status = "degraded"
		} else {
			components["database"] = ComponentStatus{Status: "healthy"}
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx); err != nil {
			components["redis"] = ComponentStatus{Status: "unhealthy", Error: err.Error()}
			status = "degraded"
		} else {
			components["redis"] = ComponentStatus{Status: "healthy"}
		}
	}

	if s.runtimeServices != nil {
		// Absent deployment-default credentials are a normal state:
		// users bring their own keys, so this never degrades health.
		if s.runtimeServices.Config().EmbeddingAvailable() {
			components["embedding"] = ComponentStatus{Status: "configured"}
		} else {
			components["embedding"] = ComponentStatus{Status: "not configured"}
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     status,
		Version:    s.version,
		Components: components,
	})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns 200 once the database answers, 503 before that
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "Database not reachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Ingest endpoint

// ingestRequest is the import submission body
// @Description URL import submission
type ingestRequest struct {
	URL      string `json:"url" example:"https://docs.example.com"`
	MaxPages int    `json:"max_pages,omitempty" example:"25"`
}

// handleIngest godoc
// @Summary      Import a site
// @Description  Validates the URL, admits the import and streams crawl progress as server-sent events. Each event is a `data: <json>` line; the stream ends with `data: [DONE]`. Rejections return plain JSON before any stream output.
// @Tags         Ingest
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        request  body      ingestRequest  true  "URL to import"
// @Success      200      {string}  string         "SSE stream of progress events"
// @Failure      400      {object}  ErrorResponse  "Invalid or blocked URL, missing embedding credentials"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Plan does not allow imports"
// @Failure      409      {object}  ErrorResponse  "URL already imported"
// @Failure      429      {object}  ErrorResponse  "Quota exhausted or rate limited"
// @Failure      500      {object}  ErrorResponse  "Import failed"
// @Router       /ingest [post]
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	// The stream opens lazily on the first progress event. ImportURL
	// returns a non-nil error only before anything was emitted, so
	// rejections still leave as plain JSON.
	var stream *eventStream
	emit := func(event domain.CrawlProgressEvent) {
		if stream == nil {
			stream = newEventStream(w)
		}
		_ = stream.send(event)
		countProgressEvent(event)
	}

	err := s.ingestService.ImportURL(r.Context(), driving.ImportRequest{
		UserID:   authCtx.UserID,
		URL:      req.URL,
		MaxPages: req.MaxPages,
	}, emit)
	if err != nil {
		importsTotal.WithLabelValues("rejected").Inc()
		writeIngestError(w, err)
		return
	}

	if stream == nil {
		stream = newEventStream(w)
	}
	stream.done()
}

// writeIngestError maps admission failures to HTTP statuses
func writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrBlockedURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "no embedding credentials configured")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPlanDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDuplicateSource):
		writeError(w, http.StatusConflict, "url already imported")
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many imports, retry later")
	default:
		writeError(w, http.StatusInternalServerError, "import failed")
	}
}

// Document endpoints

// handleListDocuments godoc
// @Summary      List documents
// @Description  List the caller's documents, optionally restricted to one crawl job
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        crawl_job_id  query     string  false  "Restrict to one crawl job"
// @Param        limit         query     int     false  "Page size (default 50, max 1000)"
// @Param        offset        query     int     false  "Page offset"
// @Success      200  {array}   domain.Document
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	docs, err := s.docService.List(r.Context(), authCtx.UserID, q.Get("crawl_job_id"), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Get one of the caller's documents by ID
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.docService.Get(r.Context(), authCtx.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentChunks godoc
// @Summary      Get document chunks
// @Description  Get one of the caller's documents with all its chunks
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.DocumentWithChunks
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/chunks [get]
func (s *Server) handleGetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.docService.GetWithChunks(r.Context(), authCtx.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document chunks")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Delete one of the caller's documents; its chunks cascade
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := s.docService.Delete(r.Context(), authCtx.UserID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete document")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Search endpoint

// searchRequest represents a search query request
// @Description Search query request
type searchRequest struct {
	Query  string `json:"query" example:"how do I configure the crawler"`
	Limit  int    `json:"limit,omitempty" example:"10"`
	Offset int    `json:"offset,omitempty" example:"0"`
}

// handleSearch godoc
// @Summary      Search documents
// @Description  Embed the query and return the closest chunks from the caller's ready documents
// @Tags         Search
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      searchRequest  true  "Search query"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request, missing query or missing credentials"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Search failed"
// @Router       /search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	opts := domain.SearchOptions{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	result, err := s.searchService.Search(r.Context(), authCtx.UserID, req.Query, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "no embedding credentials configured")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Embedding settings endpoints

// handleGetEmbeddingSettings godoc
// @Summary      Get embedding settings
// @Description  Get the caller's embedding credentials summary. The API key is never returned.
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.EmbeddingSettingsSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /settings/embedding [get]
func (s *Server) handleGetEmbeddingSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := s.settingsService.GetEmbeddingSettings(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get embedding settings")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleUpdateEmbeddingSettings godoc
// @Summary      Update embedding settings
// @Description  Validate new embedding credentials against the provider and store them encrypted
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.UpdateEmbeddingSettingsRequest  true  "New credentials"
// @Success      200      {object}  domain.EmbeddingSettingsSummary
// @Failure      400      {object}  ErrorResponse  "Invalid provider or incomplete credentials"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      503      {object}  ErrorResponse  "Provider rejected the credentials"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /settings/embedding [put]
func (s *Server) handleUpdateEmbeddingSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateEmbeddingSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := s.settingsService.UpdateEmbeddingSettings(r.Context(), authCtx.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProvider):
			writeError(w, http.StatusBadRequest, "unsupported embedding provider")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update embedding settings")
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleDeleteEmbeddingSettings godoc
// @Summary      Delete embedding settings
// @Description  Remove the caller's stored credentials; imports fall back to the deployment default
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /settings/embedding [delete]
func (s *Server) handleDeleteEmbeddingSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.settingsService.DeleteEmbeddingSettings(r.Context(), authCtx.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete embedding settings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
