package embedding

import (
	"context"

	"go.uber.org/zap"
)

// ResilientEmbedder tries the primary embedder and substitutes the
// deterministic fallback on any error, so an embedding outage degrades
// output quality instead of failing a turn. The boolean result makes the
// degradation observable to callers.
type ResilientEmbedder struct {
	primary  Embedder
	fallback Embedder
	logger   *zap.Logger
}

// NewResilientEmbedder combines a primary embedder with a fallback of the
// same dimensionality.
func NewResilientEmbedder(primary, fallback Embedder, logger *zap.Logger) *ResilientEmbedder {
	return &ResilientEmbedder{primary: primary, fallback: fallback, logger: logger}
}

// Embed returns the embedding of text and whether the fallback was used.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, bool) {
	vec, err := r.primary.Embed(ctx, text)
	if err == nil {
		return vec, false
	}
	r.logger.Warn("embedding provider failed, using deterministic fallback", zap.Error(err))
	vec, _ = r.fallback.Embed(ctx, text)
	return vec, true
}

// EmbedBatch embeds all texts, falling back as a whole batch on error.
func (r *ResilientEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, bool) {
	vecs, err := r.primary.EmbedBatch(ctx, texts)
	if err == nil {
		return vecs, false
	}
	r.logger.Warn("embedding provider failed for batch, using deterministic fallback", zap.Error(err))
	vecs, _ = r.fallback.EmbedBatch(ctx, texts)
	return vecs, true
}

// Dimensions returns the embedding dimension.
func (r *ResilientEmbedder) Dimensions() int {
	return r.primary.Dimensions()
}

// Close closes both embedders.
func (r *ResilientEmbedder) Close() error {
	err := r.primary.Close()
	if cerr := r.fallback.Close(); err == nil {
		err = cerr
	}
	return err
}
