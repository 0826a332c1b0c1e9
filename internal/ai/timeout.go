package ai

import (
	"context"
	"time"
)

// WrapTimeoutGenerator bounds every generation call with a deadline so
// a stalled upstream cannot hold a request handler open. The deadline
// covers the whole fallback chain when wrapping a group.
func WrapTimeoutGenerator(g IGenerator, timeout time.Duration) IGenerator {
	if g == nil || timeout <= 0 {
		return g
	}
	return &timeoutGenerator{next: g, timeout: timeout}
}

type timeoutGenerator struct {
	next    IGenerator
	timeout time.Duration
}

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, prompt)
}

func WrapTimeoutEmbedder(e IEmbedder, timeout time.Duration) IEmbedder {
	if e == nil || timeout <= 0 {
		return e
	}
	return &timeoutEmbedder{next: e, timeout: timeout}
}

type timeoutEmbedder struct {
	next    IEmbedder
	timeout time.Duration
}

func (t *timeoutEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Embed(ctx, text, taskType)
}

func (t *timeoutEmbedder) ModelName() string {
	return t.next.ModelName()
}
