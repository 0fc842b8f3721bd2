package postgres

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL with the
// pgvector extension. Embeddings live next to the chunk text, so one
// cosine query serves search.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// InsertBatch saves all chunks of a document in one transaction.
// Either every chunk becomes visible or none do.
func (s *ChunkStore) InsertBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunks (id, document_id, chunk_index, content, embedding, token_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			_, err = stmt.ExecContext(ctx,
				chunk.ID,
				chunk.DocumentID,
				chunk.Index,
				chunk.Content,
				pgvector.NewVector(chunk.Embedding),
				chunk.TokenCount,
				chunk.CreatedAt,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByDocument retrieves all chunks for a document ordered by index
func (s *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	query := `
		SELECT id, document_id, chunk_index, content, embedding, token_count, created_at
		FROM chunks
		WHERE document_id = $1
		ORDER BY chunk_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embedding pgvector.Vector

		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Index,
			&chunk.Content,
			&embedding,
			&chunk.TokenCount,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		chunk.Embedding = embedding.Slice()
		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// SearchSimilar returns the chunks of a user's ready documents closest
// to the query embedding, best first. Score is cosine similarity in
// [-1, 1]; pgvector's <=> operator yields cosine distance.
func (s *ChunkStore) SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int) ([]*domain.RankedChunk, error) {
	query := `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.token_count, c.created_at,
		       d.id, d.user_id, d.source_url, d.crawl_job_id, d.title, d.status, d.word_count, d.created_at, d.updated_at,
		       1 - (c.embedding <=> $2) AS score
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = $1 AND d.status = $3 AND c.embedding IS NOT NULL
		ORDER BY c.embedding <=> $2
		LIMIT $4
	`

	rows, err := s.db.QueryContext(ctx, query,
		userID,
		pgvector.NewVector(embedding),
		string(domain.DocumentStatusReady),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*domain.RankedChunk
	for rows.Next() {
		var chunk domain.Chunk
		var doc domain.Document
		var score float64

		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Index,
			&chunk.Content,
			&chunk.TokenCount,
			&chunk.CreatedAt,
			&doc.ID,
			&doc.UserID,
			&doc.SourceURL,
			&doc.CrawlJobID,
			&doc.Title,
			&doc.Status,
			&doc.WordCount,
			&doc.CreatedAt,
			&doc.UpdatedAt,
			&score,
		)
		if err != nil {
			return nil, err
		}

		ranked = append(ranked, &domain.RankedChunk{
			Chunk:    &chunk,
			Document: &doc,
			Score:    score,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ranked, nil
}
