package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nexushr/nexushr/internal/ai"
	"github.com/nexushr/nexushr/internal/model"
)

type DocumentService struct {
	chunks         ChunkStore
	documents      DocumentStore
	embedder       ai.IEmbedder
	collectionName string
}

func NewDocumentService(chunks ChunkStore, documents DocumentStore, embedder ai.IEmbedder, collectionName string) *DocumentService {
	return &DocumentService{
		chunks:         chunks,
		documents:      documents,
		embedder:       embedder,
		collectionName: collectionName,
	}
}

func (s *DocumentService) List(ctx context.Context) ([]*model.UploadedDocument, error) {
	return s.documents.List(ctx)
}

// Stats reports the chunk count; one uploaded file usually produces
// many chunks and retrieval quality tracks chunks, not files.
func (s *DocumentService) Stats(ctx context.Context) (*model.CollectionStats, error) {
	count, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	return &model.CollectionStats{
		CollectionName: s.collectionName,
		DocumentCount:  count,
		EmbeddingModel: s.embedder.ModelName(),
	}, nil
}

// DeleteAll wipes both the vector store and the document registry.
// Raw files stay on disk until the cleanup job reconciles them.
func (s *DocumentService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.chunks.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	if _, err := s.documents.DeleteAll(ctx); err != nil {
		return deleted, fmt.Errorf("delete documents: %w", err)
	}
	logutil.GetLogger(ctx).Info("collection purged", zap.Int64("chunks_deleted", deleted))
	return deleted, nil
}
