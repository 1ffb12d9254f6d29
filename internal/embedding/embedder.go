// Package embedding maps text to fixed-length unit vectors. The external
// provider lives behind a narrow interface so the fusion pipeline never
// depends on it directly and can degrade instead of failing.
package embedding

import "context"

// Embedder produces unit-normalized vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
