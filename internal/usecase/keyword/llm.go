package keyword

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

// Completer is the consumer interface for chat completion providers.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const llmSystemPrompt = "You extract search keywords from compliance queries. " +
	"Reply with ONLY a JSON array of lowercase keyword strings, most important first."

// LLMExtractor asks a language model for keywords and falls back to the
// rule-based extractor on provider or parse failure. Entities and domain tags
// always come from the rule-based path; the model only replaces ranking.
type LLMExtractor struct {
	completer Completer
	rules     *Extractor
	logger    *zap.Logger
}

// NewLLMExtractor wraps a completer with a rule-based fallback.
func NewLLMExtractor(completer Completer, rules *Extractor, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{completer: completer, rules: rules, logger: logger}
}

// Extract implements the keyword stage contract and never fails.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (domain.KeywordResult, error) {
	keywords, err := e.extractLLM(ctx, text)
	if err != nil {
		e.logger.Warn("LLM keyword extraction failed, using rules", zap.Error(err))
		metrics.StageFallbacksTotal.WithLabelValues(domain.StageKeyword, fallbackReason(err)).Inc()
		return e.rules.Extract(ctx, text)
	}

	if len(keywords) > e.rules.maxKeywords {
		keywords = keywords[:e.rules.maxKeywords]
	}
	return domain.KeywordResult{
		Keywords:   keywords,
		Entities:   extractEntities(text),
		DomainTags: categorize(keywords),
	}, nil
}

func (e *LLMExtractor) extractLLM(ctx context.Context, text string) ([]string, error) {
	raw, err := e.completer.Complete(ctx, llmSystemPrompt,
		fmt.Sprintf("Extract up to %d keywords from:\n%s", e.rules.maxKeywords, text))
	if err != nil {
		return nil, err
	}

	var keywords []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &keywords); err != nil {
		return nil, fmt.Errorf("parse keyword array: %w", domain.ErrMalformedResponse)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("empty keyword array: %w", domain.ErrMalformedResponse)
	}
	for i, k := range keywords {
		keywords[i] = strings.ToLower(strings.TrimSpace(k))
	}
	return keywords, nil
}

func fallbackReason(err error) string {
	if errors.Is(err, domain.ErrMalformedResponse) {
		return "parse_error"
	}
	return "provider_error"
}
