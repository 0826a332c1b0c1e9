package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/nexushr/nexushr/internal/model"
)

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch writes all chunks of one document in a single
// transaction so a failed ingest leaves nothing behind.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	const query = `
		INSERT INTO hr_chunks (id, document_id, filename, page, document_type, content, embedding, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID,
			chunk.DocumentID,
			chunk.Filename,
			chunk.Page,
			chunk.DocumentType,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.UploadedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Nearest returns the limit chunks closest to the query embedding by
// cosine distance, scored as 1 - distance.
func (r *ChunkRepo) Nearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	const query = `
		SELECT id, document_id, filename, page, document_type, content, uploaded_at,
			1 - (embedding <=> $1) AS score
		FROM hr_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*model.ScoredChunk
	for rows.Next() {
		item := &model.ScoredChunk{}
		err := rows.Scan(
			&item.ID,
			&item.DocumentID,
			&item.Filename,
			&item.Page,
			&item.DocumentType,
			&item.Content,
			&item.UploadedAt,
			&item.Score,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hr_chunks`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChunkRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hr_chunks`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
