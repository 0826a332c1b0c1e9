package service

import (
	"context"

	"github.com/nexushr/nexushr/internal/model"
)

// ChunkStore is the vector-store surface the services need.
type ChunkStore interface {
	InsertBatch(ctx context.Context, chunks []*model.DocumentChunk) error
	Nearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *model.UploadedDocument) error
	List(ctx context.Context) ([]*model.UploadedDocument, error)
	ListIDs(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
}
