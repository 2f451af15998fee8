package domain

import (
	"context"
	"fmt"
	"math"
)

// EmbeddingDimensions matches the OpenAI text-embedding vector size.
const EmbeddingDimensions = 1536

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts, preserving input order.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([]EmbeddingResult, error)
}

// EmbeddingResult carries a vector and token usage through the decorator chain.
// Mock reports whether the deterministic fallback produced the vector.
type EmbeddingResult struct {
	Embedding    []float32 `json:"-"`
	Dimensions   int       `json:"dimensions"`
	PromptTokens int       `json:"prompt_tokens,omitempty"`
	TotalTokens  int       `json:"total_tokens,omitempty"`
	Mock         bool      `json:"mock"`
}

// BatchFallback embeds texts one by one. Safety net for providers without a
// native batch endpoint; output order matches input order.
func BatchFallback(ctx context.Context, e Embedder, texts []string) ([]EmbeddingResult, error) {
	results := make([]EmbeddingResult, len(texts))
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

// Dot returns the inner product of two vectors. For unit-normalized vectors
// this equals cosine similarity.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales v to unit L2 norm in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
