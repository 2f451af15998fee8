package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

// FallbackEmbedder tries a live provider and degrades to the deterministic
// mock on any provider error. The pipeline contract prefers availability over
// strict correctness, so a failure is logged but never surfaced to the caller.
type FallbackEmbedder struct {
	live   domain.Embedder
	mock   *MockEmbedder
	logger *zap.Logger
}

// NewFallbackEmbedder wraps live with a mock fallback. live may be nil, in
// which case every call takes the mock path directly.
func NewFallbackEmbedder(live domain.Embedder, mock *MockEmbedder, logger *zap.Logger) *FallbackEmbedder {
	return &FallbackEmbedder{live: live, mock: mock, logger: logger}
}

// Embed implements domain.Embedder and never returns an error.
func (f *FallbackEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if f.live == nil {
		return f.mock.Embed(ctx, text)
	}

	result, err := f.live.Embed(ctx, text)
	if err != nil {
		f.logger.Warn("Embedding provider failed, using deterministic mock",
			zap.Int("text_len", len(text)),
			zap.Error(err),
		)
		metrics.StageFallbacksTotal.WithLabelValues(domain.StageEmbedding, "provider_error").Inc()
		return f.mock.Embed(ctx, text)
	}
	return result, nil
}

// BatchEmbed embeds a sequence of texts, preserving input order. A live batch
// failure degrades the whole batch to mock vectors.
func (f *FallbackEmbedder) BatchEmbed(ctx context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	if f.live == nil {
		return f.mock.BatchEmbed(ctx, texts)
	}

	if be, ok := f.live.(domain.BatchEmbedder); ok {
		results, err := be.BatchEmbed(ctx, texts)
		if err == nil {
			return results, nil
		}
		f.logger.Warn("Batch embedding failed, using deterministic mock",
			zap.Int("batch_size", len(texts)),
			zap.Error(err),
		)
		metrics.StageFallbacksTotal.WithLabelValues(domain.StageEmbedding, "provider_error").Inc()
		return f.mock.BatchEmbed(ctx, texts)
	}

	results := make([]domain.EmbeddingResult, len(texts))
	for i, text := range texts {
		res, err := f.Embed(ctx, text)
		if err != nil {
			// Embed above cannot fail, but keep the contract explicit.
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}
