// Package answer implements grounded answer generation: a deterministic
// templated mock and an LLM path that degrades to the mock on failure.
package answer

import (
	"context"
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

const groundingPrompt = `You are a compliance and KYC expert assistant.
Use the provided context documents to answer questions accurately.
If the context doesn't contain relevant information, say so.
Always cite which documents you're referencing.`

// Service is the answer stage. With a nil completer every query takes the
// mock path; with one configured, provider failures fall back to the mock
// rendered over an empty document list.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// New creates an answer service. completer may be nil for mock-only mode.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Answer synthesizes a grounded response with one citation per context
// document, in supplied order. stream is a delivery-mode flag only: the text
// and citations are identical either way.
func (s *Service) Answer(
	ctx context.Context, query string, contextDocs []domain.ScoredDocument, stream bool,
) (domain.AnswerResult, error) {
	text, mock := s.generate(ctx, query, contextDocs)

	citations := make([]domain.Citation, len(contextDocs))
	for i, doc := range contextDocs {
		citations[i] = domain.Citation{
			DocID: doc.ID,
			Title: doc.Title,
			Score: doc.RerankScore,
		}
	}

	return domain.AnswerResult{
		Text:      text,
		Citations: citations,
		Streamed:  stream,
		Mock:      mock,
	}, nil
}

func (s *Service) generate(
	ctx context.Context, query string, docs []domain.ScoredDocument,
) (text string, mock bool) {
	if s.completer == nil {
		return mockAnswer(query, docs), true
	}

	userPrompt := fmt.Sprintf("Context Documents:\n%s\nQuestion: %s\n\n"+
		"Please provide a comprehensive answer based on the context provided.",
		buildContext(docs), query)

	resp, err := s.completer.Complete(ctx, groundingPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("LLM answer generation failed, using mock", zap.Error(err))
		metrics.StageFallbacksTotal.WithLabelValues(domain.StageAnswer, "provider_error").Inc()
		return mockAnswer(query, nil), true
	}
	return resp, false
}

// buildContext concatenates labeled title+content blocks in document order.
func buildContext(docs []domain.ScoredDocument) string {
	var sb strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&sb, "[Document %d] %s\n%s\n\n", i+1, doc.Title, doc.Content)
	}
	return sb.String()
}

// mockAnswer branches on coarse query intent and renders a deterministic
// template over the supplied documents.
func mockAnswer(query string, docs []domain.ScoredDocument) string {
	queryLower := strings.ToLower(query)

	switch {
	case strings.Contains(queryLower, "summary") || strings.Contains(queryLower, "summarize"):
		return summaryAnswer(docs)
	case strings.Contains(queryLower, "risk"):
		return riskAnswer(docs)
	case strings.Contains(queryLower, "kyc") || strings.Contains(queryLower, "onboard"):
		return kycAnswer(docs)
	default:
		return genericAnswer(docs)
	}
}

func riskAnswer(docs []domain.ScoredDocument) string {
	riskDocs := 0
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Content), "risk") {
			riskDocs++
		}
	}
	return fmt.Sprintf(`Based on the analysis of %d similar cases, the risk assessment indicates:

**Risk Level**: Medium

**Key Findings**:
- %d cases with similar risk profiles identified
- Common factors include multiple jurisdictions and cross-border transactions
- Historical precedents suggest enhanced monitoring is appropriate

**Recommendation**:
Enhanced due diligence procedures should be applied, including:
1. Quarterly transaction monitoring
2. Source of funds verification for large transfers
3. Annual compliance review

This assessment is based on %d historical cases retrieved from the compliance database.`,
		len(docs), riskDocs, len(docs))
}

func kycAnswer(docs []domain.ScoredDocument) string {
	return fmt.Sprintf(`**KYC Analysis Summary**

Based on review of %d similar client profiles:

**Client Profile Assessment**:
- Background appears consistent with stated business activities
- Wealth sources align with professional history
- Jurisdictional exposure within acceptable parameters

**Compliance Checks**:
- PEP screening: Clear
- Sanctions screening: Clear
- Adverse media: No significant findings

**Recommendation**: Approve for standard onboarding with routine monitoring procedures.

**Next Steps**:
1. Complete final identity verification
2. Establish account with standard limits
3. Schedule 12-month review`, len(docs))
}

func summaryAnswer(docs []domain.ScoredDocument) string {
	var top domain.ScoredDocument
	if len(docs) > 0 {
		top = docs[0]
	}
	title := top.Title
	if title == "" {
		title = "Document Analysis"
	}
	content := top.Content
	if content == "" {
		content = "Content not available"
	}
	return fmt.Sprintf(`**Document Summary**

%s

%s

**Key Points**:
- Case type: %s
- Risk level: %s
- Reference cases analyzed: %d

This summary is generated from %d related documents in the knowledge base.`,
		title, content,
		metadataOr(top.Metadata, "case_type", "N/A"),
		metadataOr(top.Metadata, "risk_level", "N/A"),
		len(docs), len(docs))
}

func genericAnswer(docs []domain.ScoredDocument) string {
	return fmt.Sprintf(`Based on analysis of %d relevant documents from our knowledge base:

The information retrieved covers various aspects of compliance and KYC procedures. The documents include case studies, risk assessments, and procedural guidelines.

**Key Insights**:
- Multiple precedent cases provide guidance for similar situations
- Risk factors have been evaluated across %d comparable scenarios
- Compliance standards align with regulatory requirements

For more specific analysis, please refine your query to focus on particular aspects such as risk assessment, onboarding procedures, or regulatory compliance.`,
		len(docs), len(docs))
}

func metadataOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}
