package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, user_id, source_url, crawl_job_id, title, status, word_count, error_message, created_at, updated_at`

// Insert creates a document row. A (user_id, source_url) collision
// returns domain.ErrAlreadyExists.
func (s *DocumentStore) Insert(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, user_id, source_url, crawl_job_id, title, status, word_count, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.SourceURL,
		doc.CrawlJobID,
		doc.Title,
		string(doc.Status),
		doc.WordCount,
		nullIfEmpty(doc.ErrorMessage),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// UpdateStatus transitions a document's status. The error message is
// stored for failed documents and cleared otherwise.
func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errorMessage string) error {
	if status != domain.DocumentStatusFailed {
		errorMessage = ""
	}

	query := `UPDATE documents SET status = $2, error_message = $3, updated_at = $4 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, string(status), nullIfEmpty(errorMessage), time.Now())
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := s.scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// FindBySourceURL retrieves a user's document for a source URL.
// Returns nil, nil when no document exists.
func (s *DocumentStore) FindBySourceURL(ctx context.Context, userID, sourceURL string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND source_url = $2`

	doc, err := s.scanDocument(s.db.QueryRowContext(ctx, query, userID, sourceURL))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// ListForUser retrieves a user's documents with pagination, newest
// first. A non-empty crawlJobID restricts results to one crawl job.
func (s *DocumentStore) ListForUser(ctx context.Context, userID, crawlJobID string, limit, offset int) ([]*domain.Document, error) {
	var rows *sql.Rows
	var err error

	if crawlJobID == "" {
		query := `
			SELECT ` + documentColumns + `
			FROM documents
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = s.db.QueryContext(ctx, query, userID, limit, offset)
	} else {
		query := `
			SELECT ` + documentColumns + `
			FROM documents
			WHERE user_id = $1 AND crawl_job_id = $2
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`
		rows, err = s.db.QueryContext(ctx, query, userID, crawlJobID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}

// CountForUser returns how many documents a user holds
func (s *DocumentStore) CountForUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// CountForUserSince returns how many documents a user created at or
// after the given time
func (s *DocumentStore) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE user_id = $1 AND created_at >= $2`
	var count int
	err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count)
	return count, err
}

// Delete deletes a document; its chunks cascade
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// FailStaleProcessing marks documents stuck in processing longer than
// olderThan as failed. Returns the number of rows updated.
func (s *DocumentStore) FailStaleProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	query := `
		UPDATE documents
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`

	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		string(domain.DocumentStatusFailed),
		"import interrupted",
		now,
		string(domain.DocumentStatusProcessing),
		now.Add(-olderThan),
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

func (s *DocumentStore) scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var errorMessage sql.NullString

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.SourceURL,
		&doc.CrawlJobID,
		&doc.Title,
		&doc.Status,
		&doc.WordCount,
		&errorMessage,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.ErrorMessage = errorMessage.String
	return &doc, nil
}

func (s *DocumentStore) scanDocuments(rows *sql.Rows) ([]*domain.Document, error) {
	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		var errorMessage sql.NullString

		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.SourceURL,
			&doc.CrawlJobID,
			&doc.Title,
			&doc.Status,
			&doc.WordCount,
			&errorMessage,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		doc.ErrorMessage = errorMessage.String
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
