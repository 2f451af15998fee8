package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackEmbed_NilLive_UsesMock(t *testing.T) {
	f := NewFallbackEmbedder(nil, NewMockEmbedder(32), zap.NewNop())

	res, err := f.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Mock {
		t.Error("expected mock result")
	}
}

func TestFallbackEmbed_LiveSuccess(t *testing.T) {
	live := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		Dimensions:  2,
		TotalTokens: 7,
	}}
	f := NewFallbackEmbedder(live, NewMockEmbedder(32), zap.NewNop())

	res, err := f.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mock {
		t.Error("live result flagged as mock")
	}
	if res.TotalTokens != 7 {
		t.Errorf("TotalTokens: got %d, want 7", res.TotalTokens)
	}
}

func TestFallbackEmbed_LiveError_DegradesToMock(t *testing.T) {
	live := &stubEmbedder{err: errors.New("provider down")}
	f := NewFallbackEmbedder(live, NewMockEmbedder(32), zap.NewNop())

	res, err := f.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("fallback must absorb provider errors, got: %v", err)
	}
	if !res.Mock {
		t.Error("expected mock result after provider failure")
	}
	if live.calls != 1 {
		t.Errorf("live calls: got %d, want 1", live.calls)
	}
}

func TestFallbackBatchEmbed_NonBatchLive_FallsBackPerItem(t *testing.T) {
	live := &stubEmbedder{err: errors.New("provider down")}
	f := NewFallbackEmbedder(live, NewMockEmbedder(32), zap.NewNop())

	results, err := f.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count: got %d, want 2", len(results))
	}
	for i, r := range results {
		if !r.Mock {
			t.Errorf("result %d: expected mock", i)
		}
	}
}
