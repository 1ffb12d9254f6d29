package embedding

import (
	"context"
	"errors"
	"testing"
)

// countingEmbedder counts provider calls to verify cache hits.
type countingEmbedder struct {
	*FallbackEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.FallbackEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls += len(texts)
	return c.FallbackEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder_hitSkipsProvider(t *testing.T) {
	inner := &countingEmbedder{FallbackEmbedder: NewFallbackEmbedder(8)}
	cached, err := NewCachedEmbedder(inner, 10)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := cached.Embed(ctx, "repeat"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Embed(ctx, "repeat"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}
}

func TestCachedEmbedder_batchOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{FallbackEmbedder: NewFallbackEmbedder(8)}
	cached, _ := NewCachedEmbedder(inner, 10)
	ctx := context.Background()
	_, _ = cached.Embed(ctx, "a")
	vecs, err := cached.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	if inner.calls != 3 { // 1 direct + 2 batch misses
		t.Errorf("provider called %d times, want 3", inner.calls)
	}
}

type failingEmbedder struct {
	dims int
}

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider down")
}

func (f *failingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func (f *failingEmbedder) Dimensions() int { return f.dims }
func (f *failingEmbedder) Close() error    { return nil }
