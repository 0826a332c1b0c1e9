package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nexushr/nexushr/internal/ai"
	"github.com/nexushr/nexushr/internal/filestore"
	"github.com/nexushr/nexushr/internal/model"
	"github.com/nexushr/nexushr/internal/pdf"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
	"github.com/nexushr/nexushr/internal/splitter"
)

type IngestService struct {
	chunks      ChunkStore
	documents   DocumentStore
	store       filestore.Store
	embedder    ai.IEmbedder
	maxFileSize int64
	chunkSize   int
	overlap     int
}

func NewIngestService(chunks ChunkStore, documents DocumentStore, store filestore.Store,
	embedder ai.IEmbedder, maxFileSize int64, chunkSize, overlap int) *IngestService {
	return &IngestService{
		chunks:      chunks,
		documents:   documents,
		store:       store,
		embedder:    embedder,
		maxFileSize: maxFileSize,
		chunkSize:   chunkSize,
		overlap:     overlap,
	}
}

// Ingest validates one uploaded pdf, extracts its text, embeds each
// window and persists chunks, document row and raw file. Chunks go in
// first; the raw file and document row follow, so a crash mid-way can
// leave an orphan file for the cleanup job but never unsearchable
// rows.
func (s *IngestService) Ingest(ctx context.Context, filename string, contentType string, data []byte) (*model.IngestResult, error) {
	if err := s.validate(filename, contentType, int64(len(data))); err != nil {
		return nil, err
	}
	pages, err := pdf.ExtractPages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrProcessing, err)
	}
	if !pdf.HasText(pages) {
		return nil, fmt.Errorf("%w: no extractable text", appErr.ErrProcessing)
	}

	now := time.Now()
	docID := now.Format("20060102_150405") + "_" + filepath.Base(filename)
	docType := classifyDocumentType(filename)

	var chunks []*model.DocumentChunk
	for pageIdx, pageText := range pages {
		for _, window := range splitter.Split(pageText, s.chunkSize, s.overlap) {
			embedding, err := s.embedder.Embed(ctx, window, ai.TaskTypeDocument)
			if err != nil {
				return nil, fmt.Errorf("%w: embed chunk: %v", appErr.ErrProcessing, err)
			}
			chunks = append(chunks, &model.DocumentChunk{
				ID:           uuid.NewString(),
				DocumentID:   docID,
				Filename:     filename,
				Page:         pageIdx + 1,
				DocumentType: docType,
				Content:      window,
				Embedding:    embedding,
				UploadedAt:   now.Unix(),
			})
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", appErr.ErrProcessing)
	}
	if err := s.chunks.InsertBatch(ctx, chunks); err != nil {
		return nil, fmt.Errorf("persist chunks: %w", err)
	}
	if err := s.store.Save(ctx, docID, bytes.NewReader(data), int64(len(data))); err != nil {
		logutil.GetLogger(ctx).Error("save raw upload failed", zap.String("document_id", docID), zap.Error(err))
	}
	doc := &model.UploadedDocument{
		ID:           docID,
		Filename:     filename,
		Size:         int64(len(data)),
		Pages:        len(pages),
		Chunks:       len(chunks),
		DocumentType: docType,
		UploadedBy:   usernameFromContext(ctx),
		UploadedAt:   now.Unix(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		logutil.GetLogger(ctx).Error("record document failed", zap.String("document_id", docID), zap.Error(err))
	}
	logutil.GetLogger(ctx).Info("document ingested",
		zap.String("document_id", docID),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)))
	return &model.IngestResult{
		DocumentID:     docID,
		ChunksCreated:  len(chunks),
		PagesProcessed: len(pages),
	}, nil
}

func (s *IngestService) validate(filename, contentType string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return fmt.Errorf("%w: only pdf files are accepted", appErr.ErrInvalid)
	}
	if contentType != "" && contentType != "application/pdf" {
		return fmt.Errorf("%w: content type must be application/pdf", appErr.ErrInvalid)
	}
	if size == 0 {
		return fmt.Errorf("%w: empty file", appErr.ErrInvalid)
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return fmt.Errorf("%w: file exceeds %d bytes", appErr.ErrInvalid, s.maxFileSize)
	}
	return nil
}

// classifyDocumentType keys off common handbook filenames so sources
// can be grouped in the ui.
func classifyDocumentType(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "leave"):
		return "leave_policy"
	case strings.Contains(name, "salary") || strings.Contains(name, "pay"):
		return "compensation"
	case strings.Contains(name, "handbook"):
		return "handbook"
	case strings.Contains(name, "policy"):
		return "policy"
	default:
		return "general"
	}
}

type ctxUsernameKey struct{}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUsernameKey{}, username)
}

func usernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUsernameKey{}).(string); ok {
		return v
	}
	return ""
}
