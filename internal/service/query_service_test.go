package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexushr/nexushr/internal/model"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
)

func newQueryService(chunks ChunkStore, embedder *fakeEmbedder, generator *fakeGenerator) *QueryService {
	return NewQueryService(chunks, embedder, generator, 3, 16, time.Minute)
}

func TestClassifyIntent(t *testing.T) {
	s := newQueryService(&fakeChunkStore{}, &fakeEmbedder{}, &fakeGenerator{})
	cases := []struct {
		question string
		intent   string
	}{
		{"What is the sick leave policy?", model.IntentPolicy},
		{"What is my email?", model.IntentPersonalData},
		{"What is my name?", model.IntentPersonalData},
		{"How many working hours per week?", model.IntentPolicy},
		{"Tell me a joke", model.IntentGeneral},
		{"", model.IntentGeneral},
	}
	for _, tc := range cases {
		require.Equal(t, tc.intent, s.ClassifyIntent(tc.question), tc.question)
	}
}

func TestSuggestTopics(t *testing.T) {
	s := newQueryService(&fakeChunkStore{}, &fakeEmbedder{}, &fakeGenerator{})

	leave := s.Suggest("How do I apply for sick leave?")
	require.Contains(t, leave, "Can sick leave be encashed?")

	salary := s.Suggest("When is salary credited?")
	require.Contains(t, salary, "How is the bonus calculated?")

	fallback := s.Suggest("random question")
	require.Len(t, fallback, 4)
	require.Contains(t, fallback, "What is the leave policy?")
}

func seedChunks(store *fakeChunkStore) {
	store.chunks = []*model.DocumentChunk{
		{
			ID: "1", DocumentID: "doc1", Filename: "leave.pdf", Page: 1,
			Content: "Sick Leave: 10 days per year", Embedding: []float32{1, 0, 0},
		},
		{
			ID: "2", DocumentID: "doc1", Filename: "leave.pdf", Page: 2,
			Content: "Privilege leave accrues monthly", Embedding: []float32{0, 1, 0},
		},
	}
}

func TestAnswerGenerated(t *testing.T) {
	store := &fakeChunkStore{}
	seedChunks(store)
	generator := &fakeGenerator{answer: "Employees get 10 days of sick leave."}
	s := newQueryService(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, generator)

	result, err := s.Answer(context.Background(), "How many sick leaves do employees get?", nil, true)
	require.NoError(t, err)
	require.False(t, result.Degraded)
	require.Contains(t, result.Answer, "10 days")
	require.Equal(t, model.IntentPolicy, result.Intent)
	require.NotEmpty(t, result.Suggestions)
	require.NotEmpty(t, result.Sources)
	require.Equal(t, "leave.pdf", result.Sources[0].Filename)
	require.Contains(t, result.Sources[0].Content, "Sick Leave")
}

func TestAnswerFallbackOnGenerationFailure(t *testing.T) {
	store := &fakeChunkStore{}
	seedChunks(store)
	generator := &fakeGenerator{err: errors.New("api incompatibility")}
	s := newQueryService(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, generator)

	result, err := s.Answer(context.Background(), "How many sick leaves do employees get?", nil, true)
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.True(t, strings.HasPrefix(result.Answer, "Based on the company policies:"))
	require.Contains(t, result.Answer, "10 days per year")
}

func TestAnswerEmptyQuestion(t *testing.T) {
	s := newQueryService(&fakeChunkStore{}, &fakeEmbedder{}, &fakeGenerator{})
	_, err := s.Answer(context.Background(), "   ", nil, true)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestAnswerNoDocuments(t *testing.T) {
	generator := &fakeGenerator{answer: "should not be called"}
	s := newQueryService(&fakeChunkStore{}, &fakeEmbedder{}, generator)

	result, err := s.Answer(context.Background(), "What is the leave policy?", nil, true)
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Zero(t, generator.calls)
}

func TestAnswerEmbedderFailure(t *testing.T) {
	s := newQueryService(&fakeChunkStore{}, &fakeEmbedder{err: errors.New("down")}, &fakeGenerator{})
	_, err := s.Answer(context.Background(), "What is the leave policy?", nil, true)
	require.ErrorIs(t, err, appErr.ErrProcessing)
}

func TestAnswerCachesGeneratedAnswers(t *testing.T) {
	store := &fakeChunkStore{}
	seedChunks(store)
	generator := &fakeGenerator{answer: "cached answer"}
	s := newQueryService(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, generator)

	_, err := s.Answer(context.Background(), "What is the leave policy?", nil, false)
	require.NoError(t, err)
	_, err = s.Answer(context.Background(), "What is the leave policy?", nil, false)
	require.NoError(t, err)
	require.Equal(t, 1, generator.calls)
}

func TestAnswerExcludesSourcesWhenAsked(t *testing.T) {
	store := &fakeChunkStore{}
	seedChunks(store)
	s := newQueryService(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeGenerator{answer: "ok"})

	result, err := s.Answer(context.Background(), "What is the leave policy?", nil, false)
	require.NoError(t, err)
	require.Empty(t, result.Sources)
}

func TestAnswerHistoryInPrompt(t *testing.T) {
	history := []model.ChatExchange{
		{Question: "old q1", Answer: "old a1"},
		{Question: "old q2", Answer: "old a2"},
		{Question: "old q3", Answer: "old a3"},
		{Question: "old q4", Answer: "old a4"},
	}
	retrieved := []*model.ScoredChunk{{DocumentChunk: model.DocumentChunk{Content: "ctx"}}}
	prompt := buildPrompt("new question", history, retrieved)
	require.Contains(t, prompt, "old q4")
	require.NotContains(t, prompt, "old q1")
	require.Contains(t, prompt, "new question")
	require.Contains(t, prompt, "ctx")
}
