// Package retrieval implements hybrid search: cosine similarity over document
// embeddings fused with keyword overlap into a single weighted score.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// Default search knobs.
const (
	DefaultTopK            = 10
	DefaultEmbeddingWeight = 0.7
	DefaultKeywordWeight   = 0.3
)

// Service is the retrieval stage. It fills in default parameters and
// delegates scoring to the configured backend.
type Service struct {
	backend Backend
	defs    domain.SearchParams
}

// New creates a retrieval service with the given defaults. Zero fields in defs
// take package defaults.
func New(backend Backend, defs domain.SearchParams) *Service {
	if defs.TopK <= 0 {
		defs.TopK = DefaultTopK
	}
	if defs.EmbeddingWeight <= 0 {
		defs.EmbeddingWeight = DefaultEmbeddingWeight
	}
	if defs.KeywordWeight <= 0 {
		defs.KeywordWeight = DefaultKeywordWeight
	}
	return &Service{backend: backend, defs: defs}
}

// Retrieve runs hybrid search and returns the ranked shortlist. The weights
// need not sum to one.
func (s *Service) Retrieve(
	ctx context.Context, queryVector []float32, queryKeywords []string,
) (domain.RetrievalResult, error) {
	docs, err := s.backend.Search(ctx, queryVector, queryKeywords, s.defs)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("hybrid search: %w", err)
	}
	return domain.RetrievalResult{Documents: docs, Params: s.defs}, nil
}

// ScanBackend scores every corpus document. Fine for demo-scale collections;
// swap in an ANN-backed implementation when the corpus outgrows a linear scan.
type ScanBackend struct {
	corpus Corpus
}

// NewScanBackend creates an exhaustive in-memory backend.
func NewScanBackend(corpus Corpus) *ScanBackend {
	return &ScanBackend{corpus: corpus}
}

// Search implements Backend.
//
// vector_score is the dot product of pre-normalized vectors (cosine
// similarity); keyword_score is query-keyword overlap bounded to [0,1] with a
// max(1, n) denominator so an empty keyword list scores zero rather than
// dividing by zero. The stable sort keeps corpus order among equal scores.
func (b *ScanBackend) Search(
	_ context.Context,
	queryVector []float32,
	queryKeywords []string,
	params domain.SearchParams,
) ([]domain.ScoredDocument, error) {
	queryLower := make([]string, len(queryKeywords))
	for i, kw := range queryKeywords {
		queryLower[i] = strings.ToLower(kw)
	}

	corpus := b.corpus.ListDocuments()
	scored := make([]domain.ScoredDocument, 0, len(corpus))
	for _, doc := range corpus {
		vectorScore := domain.Dot(queryVector, doc.Embedding)
		keywordScore := keywordOverlap(queryLower, doc.Keywords)

		scored = append(scored, domain.ScoredDocument{
			Document:     doc,
			VectorScore:  vectorScore,
			KeywordScore: keywordScore,
			HybridScore:  params.EmbeddingWeight*vectorScore + params.KeywordWeight*keywordScore,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].HybridScore > scored[j].HybridScore
	})

	if len(scored) > params.TopK {
		scored = scored[:params.TopK]
	}
	return scored, nil
}

// keywordOverlap counts query keywords present in the document's keyword set.
func keywordOverlap(queryKeywords []string, docKeywords []string) float64 {
	if len(queryKeywords) == 0 {
		return 0
	}
	docSet := make(map[string]struct{}, len(docKeywords))
	for _, kw := range docKeywords {
		docSet[strings.ToLower(kw)] = struct{}{}
	}
	matches := 0
	for _, kw := range queryKeywords {
		if _, ok := docSet[kw]; ok {
			matches++
		}
	}
	return float64(matches) / float64(max(1, len(queryKeywords)))
}
