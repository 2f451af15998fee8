// Package ragpipe is the embedded client: the full query pipeline wired
// in-process, without the HTTP server. Mock mode needs no external services.
package ragpipe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/corpus"
	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/tools"
	openaiTransport "github.com/kailas-cloud/ragpipe/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragpipe/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragpipe/internal/usecase/embedding"
	keyworduc "github.com/kailas-cloud/ragpipe/internal/usecase/keyword"
	pipelineuc "github.com/kailas-cloud/ragpipe/internal/usecase/pipeline"
	rerankuc "github.com/kailas-cloud/ragpipe/internal/usecase/rerank"
	retrievaluc "github.com/kailas-cloud/ragpipe/internal/usecase/retrieval"
)

// RunResult re-exports the workflow aggregate for SDK callers.
type RunResult = pipelineuc.RunResult

// seedSource provides corpus documents for the embedded client.
type seedSource func() []domain.Document

// Client runs queries through the in-process pipeline.
type Client struct {
	orchestrator *pipelineuc.Orchestrator
	registry     *tools.Registry
	corpus       *corpus.Static
}

// New wires an embedded pipeline client. Defaults: deterministic mock
// providers, the built-in compliance corpus, parallel stage fan-out.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		logger:          zap.NewNop(),
		embeddingModel:  "text-embedding-3-small",
		dimensions:      domain.EmbeddingDimensions,
		llmModel:        "gpt-4o-mini",
		temperature:     0.3,
		maxTokens:       800,
		topK:            retrievaluc.DefaultTopK,
		topN:            rerankuc.DefaultTopN,
		embeddingWeight: retrievaluc.DefaultEmbeddingWeight,
		keywordWeight:   retrievaluc.DefaultKeywordWeight,
		maxKeywords:     keyworduc.DefaultMaxKeywords,
		seed:            corpus.SeedDocuments,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.currentPeriod == "" {
		now := time.Now()
		cfg.currentPeriod = fmt.Sprintf("%d-Q%d", now.Year(), (int(now.Month())-1)/3+1)
	}

	mock := embeddinguc.NewMockEmbedder(cfg.dimensions)
	var live domain.Embedder
	var completer *openaiTransport.Completer
	if cfg.apiKey != "" {
		live = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.apiKey,
			BaseURL:    cfg.baseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.dimensions,
		})
		completer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:      cfg.apiKey,
			BaseURL:     cfg.baseURL,
			Model:       cfg.llmModel,
			Temperature: cfg.temperature,
			MaxTokens:   cfg.maxTokens,
		})
	}
	embedder := embeddinguc.NewFallbackEmbedder(live, mock, cfg.logger)

	corp, err := corpus.NewStatic(context.Background(), embedder, cfg.seed())
	if err != nil {
		return nil, fmt.Errorf("ragpipe: build corpus: %w", err)
	}

	rules := keyworduc.NewExtractor(cfg.maxKeywords)
	var extractor pipelineuc.KeywordExtractor = rules
	if completer != nil {
		extractor = keyworduc.NewLLMExtractor(completer, rules, cfg.logger)
	}

	retriever := retrievaluc.New(retrievaluc.NewScanBackend(corp), domain.SearchParams{
		TopK:            cfg.topK,
		EmbeddingWeight: cfg.embeddingWeight,
		KeywordWeight:   cfg.keywordWeight,
	})

	heuristic := rerankuc.New(cfg.topN, cfg.currentPeriod)
	var reranker pipelineuc.Reranker = heuristic
	if completer != nil {
		reranker = rerankuc.NewLLMJudge(completer, heuristic, cfg.logger)
	}

	var answerCompleter answeruc.Completer
	if completer != nil {
		answerCompleter = completer
	}
	answerer := answeruc.New(answerCompleter, cfg.logger)

	registry := tools.NewRegistry(cfg.logger)
	registry.Register(tools.NewOCRTool())
	registry.Register(tools.NewRiskScoreTool())
	registry.Register(tools.NewReportTool())

	orchestrator := pipelineuc.New(
		embedder, extractor, retriever, reranker, answerer, registry,
		!cfg.sequential, cfg.logger,
	)

	return &Client{
		orchestrator: orchestrator,
		registry:     registry,
		corpus:       corp,
	}, nil
}

// Query runs one orchestrated pipeline query.
func (c *Client) Query(ctx context.Context, query string) (RunResult, error) {
	return c.orchestrator.Run(ctx, query)
}

// Tools returns the registered tool schemas.
func (c *Client) Tools() []tools.Schema {
	return c.registry.List()
}

// CorpusSize returns the number of retrievable documents.
func (c *Client) CorpusSize() int {
	return c.corpus.Len()
}
