package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nexushr/nexushr/internal/config"
	"github.com/nexushr/nexushr/internal/filestore"
	"github.com/nexushr/nexushr/internal/model"
	"github.com/nexushr/nexushr/internal/service"
)

const testSecret = "test-jwt-secret"

type fakeChunkStore struct {
	chunks []*model.DocumentChunk
}

func (f *fakeChunkStore) InsertBatch(ctx context.Context, chunks []*model.DocumentChunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkStore) Nearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	items := make([]*model.ScoredChunk, 0, len(f.chunks))
	for _, chunk := range f.chunks {
		items = append(items, &model.ScoredChunk{DocumentChunk: *chunk, Score: 1})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
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

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

type fakeGenerator struct{}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "generated answer", nil
}

type testEnv struct {
	router *gin.Engine
	chunks *fakeChunkStore
	docs   *fakeDocumentStore
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chunks := &fakeChunkStore{}
	docs := &fakeDocumentStore{}
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	authService := service.NewAuthService(testSecret, 30*time.Minute)
	ingestService := service.NewIngestService(chunks, docs, store, &fakeEmbedder{}, 10*1024*1024, 1000, 200)
	queryService := service.NewQueryService(chunks, &fakeEmbedder{}, &fakeGenerator{}, 3, 16, time.Minute)
	documentService := service.NewDocumentService(chunks, docs, &fakeEmbedder{}, "hr_documents")

	router := NewRouter(RouterDeps{
		Auth:      NewAuthHandler(authService),
		Documents: NewDocumentHandler(ingestService, documentService),
		Chat:      NewChatHandler(queryService),
		System:    NewSystemHandler(documentService),
		JWTSecret: []byte(testSecret),
	})
	return &testEnv{router: router, chunks: chunks, docs: docs}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	recorder := env.do(t, http.MethodPost, "/api/auth/login", "", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}
