package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// MockEmbedder produces deterministic pseudo-random unit vectors seeded from a
// stable hash of the input text. The same text always yields the same vector,
// which keeps retrieval reproducible without a real embedding model.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder creates a deterministic embedder. dimensions <= 0 falls back
// to domain.EmbeddingDimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = domain.EmbeddingDimensions
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed implements domain.Embedder. Never fails.
func (m *MockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := m.Vector(text)
	return domain.EmbeddingResult{
		Embedding:  vec,
		Dimensions: len(vec),
		Mock:       true,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder, preserving input order.
func (m *MockEmbedder) BatchEmbed(ctx context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	return domain.BatchFallback(ctx, m, texts)
}

// Vector returns the deterministic unit vector for text.
func (m *MockEmbedder) Vector(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8])) //nolint:gosec // reproducibility, not security

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic by design
	vec := make([]float32, m.dimensions)
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
	}
	return domain.Normalize(vec)
}
