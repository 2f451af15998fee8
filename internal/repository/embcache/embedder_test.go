package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/db"
	"github.com/kailas-cloud/ragpipe/internal/domain"
)

type memStore struct {
	data map[string][]byte
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{
		Embedding:   []float32{0.25, -0.5, 1.0},
		Dimensions:  3,
		TotalTokens: 7,
	}, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{}
	cached := New(inner, newMemStore(), time.Minute, nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls after miss: got %d, want 1", inner.calls)
	}

	second, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls after hit: got %d, want 1", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cached tokens: got %d, want 0", second.TotalTokens)
	}
	if len(second.Embedding) != len(first.Embedding) {
		t.Fatalf("vector length: got %d, want %d", len(second.Embedding), len(first.Embedding))
	}
	for i := range first.Embedding {
		if first.Embedding[i] != second.Embedding[i] {
			t.Fatalf("vector[%d]: got %v, want %v", i, second.Embedding[i], first.Embedding[i])
		}
	}
}

func TestCachedEmbedder_DistinctTexts(t *testing.T) {
	inner := &countingEmbedder{}
	cached := New(inner, newMemStore(), time.Minute, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Embed(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls: got %d, want 2", inner.calls)
	}
}

func TestCachedEmbedder_StoreFailure_FallsThrough(t *testing.T) {
	inner := &countingEmbedder{}
	broken := newMemStore()
	broken.err = errors.New("connection refused")
	cached := New(inner, broken, time.Minute, nil, zap.NewNop())

	result, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("store failure should not surface: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls: got %d, want 1", inner.calls)
	}
	if result.TotalTokens != 7 {
		t.Errorf("tokens: got %d, want 7", result.TotalTokens)
	}
}

func TestCachedEmbedder_InnerError(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("rate limited")}
	cached := New(inner, newMemStore(), time.Minute, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected inner error to propagate")
	}
}

func TestCachedEmbedder_CorruptEntry_Recomputes(t *testing.T) {
	inner := &countingEmbedder{}
	s := newMemStore()
	cached := New(inner, s, time.Minute, nil, zap.NewNop())

	s.data[cached.cacheKey("hello")] = []byte{0x01, 0x02, 0x03}

	result, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls: got %d, want 1", inner.calls)
	}
	if result.Dimensions != 3 {
		t.Errorf("dimensions: got %d, want 3", result.Dimensions)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("length: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], in[i])
		}
	}
}
