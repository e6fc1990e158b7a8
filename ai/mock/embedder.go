package mock

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// Embedder is a test double for ai.Embedder. With no function fields set it
// embeds deterministically: the same text always maps to the same unit
// vector, and unrelated texts land nearly orthogonal, so similarity
// thresholds behave the way they do with a real model.
type Embedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewEmbedder creates a mock embedder with the default deterministic
// behavior. It returns the concrete type so tests can inspect call counts
// and inject failures.
func NewEmbedder() *Embedder {
	return &Embedder{}
}

// EmbedText implements ai.Embedder.
func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return DeterministicVector(text, 384), nil
}

// EmbedTexts implements ai.Embedder.
func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = DeterministicVector(text, 384)
	}
	return vectors, nil
}

// CallCount returns how many times either embed method was called.
func (m *Embedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *Embedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// DeterministicVector maps text to a unit vector seeded by its FNV hash.
// Components are drawn symmetrically around zero, so distinct texts have an
// expected cosine similarity of zero rather than a positive bias.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(dim)))

	vector := make([]float32, dim)
	var sumSq float64
	for i := range vector {
		x := rng.Float64()*2 - 1
		vector[i] = float32(x)
		sumSq += x * x
	}
	if sumSq == 0 {
		return vector
	}
	inv := 1 / math.Sqrt(sumSq)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) * inv)
	}
	return vector
}
