// Package rerank implements the second-pass relevance scoring over the
// retrieval shortlist: a deterministic heuristic by default, an optional LLM
// judge that degrades to the heuristic on any failure.
package rerank

import (
	"context"
	"sort"
	"strings"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// DefaultTopN bounds the reranked output.
const DefaultTopN = 3

// Bonus weights for the heuristic scorer.
const (
	contentMatchBonus  = 0.05
	titleMatchBonus    = 0.10
	recentPeriodBonus  = 0.05
	metadataPeriodKey  = "date"
	minRerankScore     = 0.0
	maxRerankScore     = 1.0
	heuristicJudgeName = "heuristic"
)

// Service is the heuristic reranker. currentPeriod identifies the quarter
// whose documents earn the recency bonus; it is configuration, not a constant,
// so tests and deployments can pin it.
type Service struct {
	topN          int
	currentPeriod string
}

// New creates a heuristic reranker. topN <= 0 uses the default.
func New(topN int, currentPeriod string) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Service{topN: topN, currentPeriod: currentPeriod}
}

// Rerank re-scores candidates and returns at most topN documents.
//
// Query words are the whitespace-split lowercase tokens of the raw query,
// deliberately not the keyword stage's filtered output, so stop words in the
// title still count. Scores clamp to [0,1]; the stable sort preserves
// retrieval order among ties.
func (s *Service) Rerank(
	_ context.Context, query string, candidates []domain.ScoredDocument,
) (domain.RerankResult, error) {
	queryWords := strings.Fields(strings.ToLower(query))

	reranked := make([]domain.ScoredDocument, len(candidates))
	for i, doc := range candidates {
		base := doc.HybridScore

		content := strings.ToLower(doc.Content)
		title := strings.ToLower(doc.Title)
		contentMatches := 0
		titleMatches := 0
		for _, w := range queryWords {
			if strings.Contains(content, w) {
				contentMatches++
			}
			if strings.Contains(title, w) {
				titleMatches++
			}
		}
		keywordBonus := float64(contentMatches)*contentMatchBonus + float64(titleMatches)*titleMatchBonus

		metadataBonus := 0.0
		if s.currentPeriod != "" && doc.Metadata[metadataPeriodKey] == s.currentPeriod {
			metadataBonus = recentPeriodBonus
		}

		// Clamp to [0,1]: the cap bounds bonus stacking, the floor covers
		// negative hybrid scores from anti-correlated vectors.
		score := base + keywordBonus + metadataBonus
		if score > maxRerankScore {
			score = maxRerankScore
		}
		if score < minRerankScore {
			score = minRerankScore
		}

		doc.RerankScore = score
		doc.Breakdown = &domain.ScoringBreakdown{
			BaseScore:     base,
			KeywordBonus:  keywordBonus,
			MetadataBonus: metadataBonus,
		}
		reranked[i] = doc
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RerankScore > reranked[j].RerankScore
	})

	if len(reranked) > s.topN {
		reranked = reranked[:s.topN]
	}

	return domain.RerankResult{
		Documents:  reranked,
		InputCount: len(candidates),
		Judge:      heuristicJudgeName,
	}, nil
}
