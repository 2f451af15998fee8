package retrieval

import (
	"context"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// Backend scores the whole collection for one query and returns candidates in
// descending hybrid-score order. The in-memory scan backend is exhaustive; a
// real ANN index (e.g. HNSW) satisfies the same contract, treating
// params.EFSearch as its search-quality knob.
type Backend interface {
	Search(
		ctx context.Context,
		queryVector []float32,
		queryKeywords []string,
		params domain.SearchParams,
	) ([]domain.ScoredDocument, error)
}

// Corpus reads the retrieval universe.
type Corpus interface {
	ListDocuments() []domain.Document
}
