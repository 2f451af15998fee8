package pipeline

import (
	"context"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/tools"
)

// Embedder produces a query embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// KeywordExtractor produces ranked keywords, entities and domain tags.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string) (domain.KeywordResult, error)
}

// Retriever runs hybrid search over the corpus.
type Retriever interface {
	Retrieve(ctx context.Context, queryVector []float32, queryKeywords []string) (domain.RetrievalResult, error)
}

// Reranker re-scores the retrieval shortlist and returns the top slice.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []domain.ScoredDocument) (domain.RerankResult, error)
}

// Answerer synthesizes a grounded answer over the reranked documents.
type Answerer interface {
	Answer(ctx context.Context, query string, contextDocs []domain.ScoredDocument, stream bool) (domain.AnswerResult, error)
}

// ToolExecutor is the registry boundary used by the non-RAG workflows.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, params map[string]any) tools.Result
	List() []tools.Schema
	Info() map[string]any
}
