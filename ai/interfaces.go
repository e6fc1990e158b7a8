package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// The embedding capability is optional throughout jiggasa: components accept a
// nil Embedder and degrade to exact-text matching instead of failing.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of texts in one call, returning vectors in
	// input order. Prefer this over repeated EmbedText for bulk work.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
