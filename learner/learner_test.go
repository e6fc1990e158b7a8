package learner

import (
	"context"
	"errors"
	"testing"

	"github.com/banglabot/jiggasa/ai/mock"
	badgerstore "github.com/banglabot/jiggasa/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLearner(t *testing.T, withEmbedder bool) *Learner {
	t.Helper()

	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	var embedder *mock.Embedder
	if withEmbedder {
		embedder = mock.NewEmbedder()
	}

	if embedder == nil {
		l, err := New(repos.Similarity, nil)
		require.NoError(t, err)
		return l
	}
	l, err := New(repos.Similarity, embedder)
	require.NoError(t, err)
	return l
}

func TestNewRequiresRepository(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrSimilarityRepositoryRequired)
}

func TestRecordAndExactAnswer(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, true)

	require.NoError(t, l.Record(ctx, "তোমার নাম কি?", "আমার নাম জিজ্ঞাসা", "learned"))

	answer, ok := l.AutoAnswer(ctx, "তোমার নাম কি?")
	assert.True(t, ok)
	assert.Equal(t, "আমার নাম জিজ্ঞাসা", answer)
}

func TestExactAnswerWithoutEmbedder(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, false)

	require.NoError(t, l.Record(ctx, "বাংলাদেশের রাজধানী কি?", "ঢাকা", "learned"))

	answer, ok := l.AutoAnswer(ctx, "বাংলাদেশের রাজধানী কি?")
	assert.True(t, ok)
	assert.Equal(t, "ঢাকা", answer)
}

func TestExactAnswerSurvivesColdCache(t *testing.T) {
	ctx := context.Background()

	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	first, err := New(repos.Similarity, nil)
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, "আকাশ নীল কেন?", "আলোর বিচ্ছুরণের কারণে", "learned"))

	// A fresh Learner over the same repository has an empty cache but must
	// still answer from the persisted record.
	second, err := New(repos.Similarity, nil)
	require.NoError(t, err)

	answer, ok := second.AutoAnswer(ctx, "আকাশ নীল কেন?")
	assert.True(t, ok)
	assert.Equal(t, "আলোর বিচ্ছুরণের কারণে", answer)
}

func TestAutoAnswerMiss(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, true)

	answer, ok := l.AutoAnswer(ctx, "অজানা প্রশ্ন")
	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestFindSimilarIdenticalVector(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, true)

	require.NoError(t, l.Record(ctx, "পানি কেন জরুরি?", "শরীরের জন্য অপরিহার্য", "learned"))

	// The deterministic mock embedder gives the same text the same vector,
	// so the identical question scores 1.0 against its stored record.
	match, err := l.FindSimilar(ctx, "পানি কেন জরুরি?", DefaultThreshold)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "শরীরের জন্য অপরিহার্য", match.Answer)
	assert.InDelta(t, 0.8, float64(match.Confidence), 1e-6)
}

func TestFindSimilarBelowThreshold(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, true)

	require.NoError(t, l.Record(ctx, "পানি কেন জরুরি?", "শরীরের জন্য অপরিহার্য", "learned"))

	// Distinct texts get near-orthogonal deterministic vectors.
	match, err := l.FindSimilar(ctx, "ক্রিকেট খেলার নিয়ম কি?", DefaultThreshold)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestFindSimilarWithoutEmbedder(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, false)

	require.NoError(t, l.Record(ctx, "পানি কেন জরুরি?", "শরীরের জন্য অপরিহার্য", "learned"))

	match, err := l.FindSimilar(ctx, "পানি কেন জরুরি?", DefaultThreshold)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestRecordToleratesEmbeddingFailure(t *testing.T) {
	ctx := context.Background()

	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model unavailable")
	}

	l, err := New(repos.Similarity, embedder)
	require.NoError(t, err)

	require.NoError(t, l.Record(ctx, "প্রশ্ন", "উত্তর", "learned"))

	answer, ok := l.AutoAnswer(ctx, "প্রশ্ন")
	assert.True(t, ok)
	assert.Equal(t, "উত্তর", answer)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	l := newTestLearner(t, true)

	require.NoError(t, l.Record(ctx, "প্রশ্ন এক", "উত্তর এক", "learned"))
	require.NoError(t, l.Record(ctx, "প্রশ্ন দুই", "উত্তর দুই", "web_search"))

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 2, stats.UniqueSources)
	assert.Equal(t, 2, stats.CacheSize)
}
