package service

import (
	"context"
	"errors"
	"sort"

	"github.com/nexushr/nexushr/internal/model"
)

type fakeChunkStore struct {
	chunks  []*model.DocumentChunk
	failNow bool
}

func (f *fakeChunkStore) InsertBatch(ctx context.Context, chunks []*model.DocumentChunk) error {
	if f.failNow {
		return errors.New("insert failed")
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkStore) Nearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	items := make([]*model.ScoredChunk, 0, len(f.chunks))
	for _, chunk := range f.chunks {
		items = append(items, &model.ScoredChunk{DocumentChunk: *chunk, Score: score(embedding, chunk.Embedding)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func score(a, b []float32) float32 {
	var dot float32
	for i := range a {
		if i < len(b) {
			dot += a[i] * b[i]
		}
	}
	return dot
}

func (f *fakeChunkStore) Count(ctx context.Context) (int, error) {
	return len(f.chunks), nil
}

func (f *fakeChunkStore) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(f.chunks))
	f.chunks = nil
	return n, nil
}

type fakeDocumentStore struct {
	docs []*model.UploadedDocument
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *model.UploadedDocument) error {
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeDocumentStore) List(ctx context.Context) ([]*model.UploadedDocument, error) {
	return f.docs, nil
}

func (f *fakeDocumentStore) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.docs))
	for _, doc := range f.docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (f *fakeDocumentStore) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(f.docs))
	f.docs = nil
	return n, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.vector != nil {
		return f.vector, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embedder"
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
