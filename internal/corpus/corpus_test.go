package corpus

import (
	"context"
	"math"
	"testing"

	embeddinguc "github.com/kailas-cloud/ragpipe/internal/usecase/embedding"
)

func TestSeedDocuments_Shape(t *testing.T) {
	seed := SeedDocuments()

	if len(seed) != 10 {
		t.Fatalf("seed size: got %d, want 10", len(seed))
	}

	ids := make(map[string]struct{}, len(seed))
	for _, d := range seed {
		if d.ID == "" || d.Title == "" || d.Content == "" {
			t.Errorf("incomplete document: %+v", d)
		}
		if _, dup := ids[d.ID]; dup {
			t.Errorf("duplicate id %s", d.ID)
		}
		ids[d.ID] = struct{}{}
		if len(d.Keywords) == 0 {
			t.Errorf("%s: no keywords", d.ID)
		}
		if d.Metadata["date"] == "" {
			t.Errorf("%s: missing date metadata", d.ID)
		}
	}
	if _, ok := ids["doc_001"]; !ok {
		t.Error("missing doc_001")
	}
	if _, ok := ids["doc_010"]; !ok {
		t.Error("missing doc_010")
	}
}

func TestNewStatic_EmbedsAllDocuments(t *testing.T) {
	mock := embeddinguc.NewMockEmbedder(64)

	corp, err := NewStatic(context.Background(), mock, SeedDocuments())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs := corp.ListDocuments()
	if corp.Len() != 10 || len(docs) != 10 {
		t.Fatalf("corpus size: got %d, want 10", corp.Len())
	}
	for _, d := range docs {
		if len(d.Embedding) != 64 {
			t.Fatalf("%s: embedding dimensions %d, want 64", d.ID, len(d.Embedding))
		}
		var sum float64
		for _, v := range d.Embedding {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
			t.Errorf("%s: embedding not unit-normalized", d.ID)
		}
	}
}

func TestNewStatic_DeterministicEmbeddings(t *testing.T) {
	mock := embeddinguc.NewMockEmbedder(32)

	a, err := NewStatic(context.Background(), mock, SeedDocuments())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewStatic(context.Background(), mock, SeedDocuments())
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.ListDocuments() {
		av := a.ListDocuments()[i].Embedding
		bv := b.ListDocuments()[i].Embedding
		for j := range av {
			if av[j] != bv[j] {
				t.Fatalf("document %d embedding differs between runs", i)
			}
		}
	}
}
