package retrieval

import (
	"context"
	"testing"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

type stubCorpus struct {
	docs []domain.Document
}

func (s *stubCorpus) ListDocuments() []domain.Document { return s.docs }

func testDocs() []domain.Document {
	return []domain.Document{
		{
			ID:        "doc_a",
			Title:     "Risk case",
			Content:   "offshore risk",
			Keywords:  []string{"risk", "offshore"},
			Embedding: []float32{1, 0, 0},
		},
		{
			ID:        "doc_b",
			Title:     "Compliance case",
			Content:   "sanctions screening",
			Keywords:  []string{"sanctions", "compliance"},
			Embedding: []float32{0, 1, 0},
		},
		{
			ID:        "doc_c",
			Title:     "Mixed case",
			Content:   "risk and sanctions",
			Keywords:  []string{"risk", "sanctions"},
			Embedding: []float32{0, 0, 1},
		},
	}
}

func TestRetrieve_RanksByHybridScore(t *testing.T) {
	svc := New(NewScanBackend(&stubCorpus{docs: testDocs()}), domain.SearchParams{})

	res, err := svc.Retrieve(context.Background(), []float32{1, 0, 0}, []string{"risk", "offshore"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Documents) != 3 {
		t.Fatalf("document count: got %d, want 3", len(res.Documents))
	}
	// doc_a: vector 1.0, keywords 2/2 -> 0.7 + 0.3
	top := res.Documents[0]
	if top.ID != "doc_a" {
		t.Fatalf("top document: got %s, want doc_a", top.ID)
	}
	if top.VectorScore != 1.0 {
		t.Errorf("vector score: got %v, want 1.0", top.VectorScore)
	}
	if top.KeywordScore != 1.0 {
		t.Errorf("keyword score: got %v, want 1.0", top.KeywordScore)
	}
	if top.HybridScore != 1.0 {
		t.Errorf("hybrid score: got %v, want 1.0", top.HybridScore)
	}
}

func TestRetrieve_KeywordOverlapFraction(t *testing.T) {
	backend := NewScanBackend(&stubCorpus{docs: testDocs()})

	docs, err := backend.Search(context.Background(), []float32{0, 0, 0},
		[]string{"risk", "missing", "offshore", "absent"},
		domain.SearchParams{TopK: 10, EmbeddingWeight: 0.7, KeywordWeight: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range docs {
		if d.ID == "doc_a" {
			// 2 of 4 query keywords present
			if d.KeywordScore != 0.5 {
				t.Errorf("doc_a keyword score: got %v, want 0.5", d.KeywordScore)
			}
		}
	}
}

func TestRetrieve_EmptyKeywords_ScoreZeroNotNaN(t *testing.T) {
	backend := NewScanBackend(&stubCorpus{docs: testDocs()})

	docs, err := backend.Search(context.Background(), []float32{0, 1, 0}, nil,
		domain.SearchParams{TopK: 10, EmbeddingWeight: 0.7, KeywordWeight: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range docs {
		if d.KeywordScore != 0 {
			t.Errorf("%s keyword score: got %v, want 0", d.ID, d.KeywordScore)
		}
	}
}

func TestRetrieve_TopKTruncation(t *testing.T) {
	svc := New(NewScanBackend(&stubCorpus{docs: testDocs()}), domain.SearchParams{TopK: 2})

	res, err := svc.Retrieve(context.Background(), []float32{1, 0, 0}, []string{"risk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) != 2 {
		t.Errorf("topK: got %d documents, want 2", len(res.Documents))
	}
	if res.Params.TopK != 2 {
		t.Errorf("params topK: got %d, want 2", res.Params.TopK)
	}
}

func TestRetrieve_StableOrderAmongTies(t *testing.T) {
	docs := []domain.Document{
		{ID: "first", Content: "x", Title: "x", Keywords: []string{"a"}, Embedding: []float32{0, 1, 0}},
		{ID: "second", Content: "x", Title: "x", Keywords: []string{"a"}, Embedding: []float32{0, 1, 0}},
	}
	backend := NewScanBackend(&stubCorpus{docs: docs})

	out, err := backend.Search(context.Background(), []float32{0, 1, 0}, []string{"a"},
		domain.SearchParams{TopK: 10, EmbeddingWeight: 0.7, KeywordWeight: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].ID != "first" || out[1].ID != "second" {
		t.Errorf("tie order: got %s, %s; want corpus order", out[0].ID, out[1].ID)
	}
}

func TestRetrieve_WeightsShiftRanking(t *testing.T) {
	docs := []domain.Document{
		{ID: "vector_doc", Title: "x", Content: "x",
			Keywords: []string{"other"}, Embedding: []float32{1, 0, 0}},
		{ID: "keyword_doc", Title: "x", Content: "x",
			Keywords: []string{"risk"}, Embedding: []float32{0, 1, 0}},
	}
	backend := NewScanBackend(&stubCorpus{docs: docs})
	query := []float32{1, 0, 0}
	keywords := []string{"risk"}

	embeddingHeavy, err := backend.Search(context.Background(), query, keywords,
		domain.SearchParams{TopK: 10, EmbeddingWeight: 0.9, KeywordWeight: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embeddingHeavy[0].ID != "vector_doc" {
		t.Errorf("embedding-heavy top: got %s, want vector_doc", embeddingHeavy[0].ID)
	}

	keywordHeavy, err := backend.Search(context.Background(), query, keywords,
		domain.SearchParams{TopK: 10, EmbeddingWeight: 0.1, KeywordWeight: 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keywordHeavy[0].ID != "keyword_doc" {
		t.Errorf("keyword-heavy top: got %s, want keyword_doc", keywordHeavy[0].ID)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	svc := New(NewScanBackend(&stubCorpus{}), domain.SearchParams{})

	if svc.defs.TopK != DefaultTopK {
		t.Errorf("default topK: got %d, want %d", svc.defs.TopK, DefaultTopK)
	}
	if svc.defs.EmbeddingWeight != DefaultEmbeddingWeight {
		t.Errorf("default embedding weight: got %v, want %v", svc.defs.EmbeddingWeight, DefaultEmbeddingWeight)
	}
	if svc.defs.KeywordWeight != DefaultKeywordWeight {
		t.Errorf("default keyword weight: got %v, want %v", svc.defs.KeywordWeight, DefaultKeywordWeight)
	}
}
