package embeddings

import (
	"context"
	"fmt"
)

// Embedder defines the interface for generating text embeddings.
// Implementations hold one loaded model/client and are reused for the
// process lifetime; they do no caching of their own.
type Embedder interface {
	// Embed generates embeddings for one or more texts, one vector per
	// input, order-preserving.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// EmbedOne embeds a single query string.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	results, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
	}
	return results[0], nil
}
