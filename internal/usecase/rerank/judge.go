package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

// Completer is the consumer interface for chat completion providers.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

const judgeSystemPrompt = "You are a relevance scoring expert. Given a query and a list of " +
	"documents, score each document's relevance to the query on a scale of 0.0 to 1.0. " +
	"Return ONLY a JSON array of scores in document order, like: [0.95, 0.82, 0.67]"

const judgeContentPreview = 200

// LLMJudge asks a language model to score the shortlist and falls back to the
// heuristic reranker on provider or parse failure. Judge scores need not be
// consistent with hybrid scores; they replace them outright.
type LLMJudge struct {
	completer Completer
	fallback  *Service
	topN      int
	logger    *zap.Logger
}

// NewLLMJudge wraps a completer with the heuristic fallback.
func NewLLMJudge(completer Completer, fallback *Service, logger *zap.Logger) *LLMJudge {
	return &LLMJudge{
		completer: completer,
		fallback:  fallback,
		topN:      fallback.topN,
		logger:    logger,
	}
}

// Rerank implements the rerank stage contract and never fails.
func (j *LLMJudge) Rerank(
	ctx context.Context, query string, candidates []domain.ScoredDocument,
) (domain.RerankResult, error) {
	if len(candidates) == 0 {
		return domain.RerankResult{Judge: j.completer.Model()}, nil
	}

	scores, err := j.judgeScores(ctx, query, candidates)
	if err != nil {
		j.logger.Warn("LLM rerank failed, using heuristic scoring", zap.Error(err))
		reason := "provider_error"
		if errors.Is(err, domain.ErrMalformedResponse) {
			reason = "parse_error"
		}
		metrics.StageFallbacksTotal.WithLabelValues(domain.StageRerank, reason).Inc()
		return j.fallback.Rerank(ctx, query, candidates)
	}

	reranked := make([]domain.ScoredDocument, len(candidates))
	for i, doc := range candidates {
		if i < len(scores) {
			doc.RerankScore = scores[i]
		} else {
			doc.RerankScore = 0.5
		}
		reranked[i] = doc
	}

	sort.SliceStable(reranked, func(a, b int) bool {
		return reranked[a].RerankScore > reranked[b].RerankScore
	})
	if len(reranked) > j.topN {
		reranked = reranked[:j.topN]
	}

	return domain.RerankResult{
		Documents:  reranked,
		InputCount: len(candidates),
		Judge:      j.completer.Model(),
	}, nil
}

func (j *LLMJudge) judgeScores(
	ctx context.Context, query string, candidates []domain.ScoredDocument,
) ([]float64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\nDocuments:\n", query)
	for i, doc := range candidates {
		content := doc.Content
		// Truncate on a rune boundary, not mid-character.
		if runes := []rune(content); len(runes) > judgeContentPreview {
			content = string(runes[:judgeContentPreview]) + "..."
		}
		fmt.Fprintf(&sb, "Document %d:\nTitle: %s\nContent: %s\n\n", i+1, doc.Title, content)
	}

	raw, err := j.completer.Complete(ctx, judgeSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	var scores []float64
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &scores); err != nil {
		return nil, fmt.Errorf("parse score array: %w", domain.ErrMalformedResponse)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("empty score array: %w", domain.ErrMalformedResponse)
	}
	return scores, nil
}
