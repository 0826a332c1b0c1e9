package embedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{1, 2, 3}, nil
}

func (c *countingEmbedder) ModelName() string { return "counting" }

func TestLruEmbedderCachesByTextAndTaskType(t *testing.T) {
	inner := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	res1, err := cached.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	res2, err := cached.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, res1, res2)
	require.Equal(t, 1, inner.calls)

	_, err = cached.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)

	_, err = cached.Embed(context.Background(), "other", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 3, inner.calls)
}

func TestLruEmbedderDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := cached.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestWrapDisabled(t *testing.T) {
	inner := &countingEmbedder{}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
}

func TestCachedValuesAreIsolated(t *testing.T) {
	inner := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	res1, err := cached.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	res1[0] = 99

	res2, err := cached.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, float32(1), res2[0])
}
