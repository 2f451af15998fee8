// Package pipeline coordinates the RAG stages and the tool workflows. The
// orchestrator fans Embedding and Keyword out concurrently, joins them before
// Retrieval, and records a per-run execution trace for rendering.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
	"github.com/kailas-cloud/ragpipe/internal/tools"
)

const (
	kycDocumentPath   = "kyc_form.pdf"
	kycAnalysisPrefix = "Analyze this KYC document: "
	kycExcerptLimit   = 500
	unknownClient     = "Unknown Client"
)

// RunResult is the workflow-level aggregate for one orchestrated run. RAG is
// populated for workflows that invoke the pipeline; the tool fields for the
// workflows that call them.
type RunResult struct {
	RunID    string          `json:"run_id"`
	Query    string          `json:"query"`
	Workflow domain.Workflow `json:"workflow"`

	RAG        *domain.PipelineResult `json:"rag,omitempty"`
	ClientName string                 `json:"client_name,omitempty"`
	OCR        *tools.Result          `json:"ocr,omitempty"`
	Risk       *tools.Result          `json:"risk,omitempty"`
	Report     *tools.Result          `json:"report,omitempty"`

	FinalAnswer string                   `json:"final_answer"`
	Log         []domain.ExecutionStep   `json:"execution_log"`
	Timings     map[string]time.Duration `json:"timings"`
	Duration    time.Duration            `json:"total_duration"`
	StartedAt   time.Time                `json:"started_at"`
}

// Orchestrator wires the five RAG stages and the tool registry into the three
// query workflows.
type Orchestrator struct {
	embedder  Embedder
	keywords  KeywordExtractor
	retriever Retriever
	reranker  Reranker
	answerer  Answerer
	tools     ToolExecutor
	parallel  bool
	logger    *zap.Logger
}

// New creates an orchestrator. parallel controls whether Embedding and
// Keyword run concurrently or sequentially.
func New(
	embedder Embedder,
	keywords KeywordExtractor,
	retriever Retriever,
	reranker Reranker,
	answerer Answerer,
	registry ToolExecutor,
	parallel bool,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		embedder:  embedder,
		keywords:  keywords,
		retriever: retriever,
		reranker:  reranker,
		answerer:  answerer,
		tools:     registry,
		parallel:  parallel,
		logger:    logger,
	}
}

// Run classifies the query intent and executes the selected workflow. A run
// always completes: stage failures are absorbed by the stages' own fallbacks,
// and only contract violations (empty query) surface as errors.
func (o *Orchestrator) Run(ctx context.Context, query string) (RunResult, error) {
	if strings.TrimSpace(query) == "" {
		return RunResult{}, domain.ErrEmptyQuery
	}

	start := time.Now()
	rec := newRecorder()

	intentStart := time.Now()
	workflow := classifyIntent(query)
	rec.add(domain.StageIntent, query, string(workflow), intentStart)

	logger := o.logger.With(
		zap.String("workflow", string(workflow)),
		zap.String("query", query),
	)
	logger.Info("Pipeline run started")

	result := RunResult{
		RunID:     uuid.NewString(),
		Query:     query,
		Workflow:  workflow,
		StartedAt: start,
	}

	var err error
	switch workflow {
	case domain.WorkflowFullKYCReview:
		err = o.runFullKYCReview(ctx, rec, query, &result)
	case domain.WorkflowRiskCheck:
		err = o.runRiskCheck(ctx, rec, query, &result)
	default:
		err = o.runRAGSummary(ctx, rec, query, &result)
	}
	if err != nil {
		return RunResult{}, err
	}

	result.Log = rec.Steps()
	result.Timings = rec.Timings()
	result.Duration = time.Since(start)

	metrics.PipelineRunsTotal.WithLabelValues(string(workflow)).Inc()
	logger.Info("Pipeline run complete",
		zap.String("run_id", result.RunID),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Info summarizes orchestrator configuration for status reporting.
func (o *Orchestrator) Info() map[string]any {
	return map[string]any{
		"parallel_stages": o.parallel,
		"workflows": []string{
			string(domain.WorkflowFullKYCReview),
			string(domain.WorkflowRiskCheck),
			string(domain.WorkflowRAGSummary),
		},
		"tools": o.tools.Info(),
	}
}

// runRAGSummary executes the plain RAG pipeline and surfaces its answer.
func (o *Orchestrator) runRAGSummary(
	ctx context.Context, rec *recorder, query string, out *RunResult,
) error {
	rag, err := o.runRAG(ctx, rec, query)
	if err != nil {
		return err
	}
	out.RAG = &rag
	out.FinalAnswer = rag.Answer.Text
	return nil
}

// runFullKYCReview chains OCR, the RAG pipeline over the extracted text, the
// risk calculator and the report generator.
func (o *Orchestrator) runFullKYCReview(
	ctx context.Context, rec *recorder, query string, out *RunResult,
) error {
	ocr := o.executeTool(ctx, rec, "ocr_document_scanner", map[string]any{
		"document_path": kycDocumentPath,
		"language":      "en",
	})
	out.OCR = &ocr

	excerpt, _ := ocr.Data["extracted_text"].(string)
	if len(excerpt) > kycExcerptLimit {
		excerpt = excerpt[:kycExcerptLimit]
	}
	rag, err := o.runRAG(ctx, rec, kycAnalysisPrefix+excerpt)
	if err != nil {
		return err
	}
	out.RAG = &rag

	out.ClientName = clientNameFromText(excerpt)
	risk := o.executeTool(ctx, rec, "risk_score_calculator", map[string]any{
		"client_name": out.ClientName,
		"client_data": map[string]any{
			"jurisdictions":  []string{"UK", "Monaco"},
			"wealth_sources": []string{"Technology investments"},
		},
	})
	out.Risk = &risk

	report := o.executeTool(ctx, rec, "compliance_report_generator", map[string]any{
		"client_name": out.ClientName,
		"ocr_data":    ocr.Data,
		"risk_data":   risk.Data,
		"report_type": "onboarding",
	})
	out.Report = &report

	out.FinalAnswer = "Review complete. See compliance report for details."
	return nil
}

// runRiskCheck extracts a client name from the query and calls the risk
// calculator directly, skipping the RAG pipeline.
func (o *Orchestrator) runRiskCheck(
	ctx context.Context, rec *recorder, query string, out *RunResult,
) error {
	out.ClientName = clientNameFromText(query)

	risk := o.executeTool(ctx, rec, "risk_score_calculator", map[string]any{
		"client_name": out.ClientName,
		"client_data": map[string]any{},
	})
	out.Risk = &risk

	if risk.Status == tools.StatusSuccess {
		out.FinalAnswer = fmt.Sprintf("%s: %v Risk (Score: %v/100)",
			out.ClientName, risk.Data["risk_level"], risk.Data["risk_score"])
	} else {
		out.FinalAnswer = fmt.Sprintf("Risk check for %s failed: %s", out.ClientName, risk.Error)
	}
	return nil
}

// runRAG executes Embed ∥ Keyword → Retrieve → Rerank → Answer. The two
// front stages share no mutable state; their log entries land in completion
// order.
func (o *Orchestrator) runRAG(
	ctx context.Context, rec *recorder, query string,
) (domain.PipelineResult, error) {
	var (
		embedding domain.EmbeddingResult
		keywords  domain.KeywordResult
	)

	embed := func(ctx context.Context) error {
		start := time.Now()
		res, err := o.embedder.Embed(ctx, query)
		if err != nil {
			return fmt.Errorf("embedding stage: %w", err)
		}
		embedding = res
		rec.add(domain.StageEmbedding, query,
			fmt.Sprintf("%d dimensions", res.Dimensions), start)
		return nil
	}
	extract := func(ctx context.Context) error {
		start := time.Now()
		res, err := o.keywords.Extract(ctx, query)
		if err != nil {
			return fmt.Errorf("keyword stage: %w", err)
		}
		keywords = res
		rec.add(domain.StageKeyword, query,
			fmt.Sprintf("%d keywords", len(res.Keywords)), start)
		return nil
	}

	if o.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return embed(gctx) })
		g.Go(func() error { return extract(gctx) })
		if err := g.Wait(); err != nil {
			return domain.PipelineResult{}, err
		}
	} else {
		if err := embed(ctx); err != nil {
			return domain.PipelineResult{}, err
		}
		if err := extract(ctx); err != nil {
			return domain.PipelineResult{}, err
		}
	}

	start := time.Now()
	retrieval, err := o.retriever.Retrieve(ctx, embedding.Embedding, keywords.Keywords)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("retrieval stage: %w", err)
	}
	rec.add(domain.StageRetrieval,
		fmt.Sprintf("%d keywords", len(keywords.Keywords)),
		fmt.Sprintf("%d documents", len(retrieval.Documents)), start)

	start = time.Now()
	rerank, err := o.reranker.Rerank(ctx, query, retrieval.Documents)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("rerank stage: %w", err)
	}
	rec.add(domain.StageRerank,
		fmt.Sprintf("%d documents", rerank.InputCount),
		fmt.Sprintf("%d documents", len(rerank.Documents)), start)

	start = time.Now()
	answer, err := o.answerer.Answer(ctx, query, rerank.Documents, false)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("answer stage: %w", err)
	}
	rec.add(domain.StageAnswer,
		fmt.Sprintf("%d documents", len(rerank.Documents)),
		fmt.Sprintf("%d characters", len(answer.Text)), start)

	return domain.PipelineResult{
		Query:     query,
		Embedding: embedding,
		Keywords:  keywords,
		Retrieval: retrieval,
		Rerank:    rerank,
		Answer:    answer,
		Log:       rec.Steps(),
		Timings:   rec.Timings(),
	}, nil
}

// executeTool runs a registry tool and records the call in the trace.
func (o *Orchestrator) executeTool(
	ctx context.Context, rec *recorder, name string, params map[string]any,
) tools.Result {
	start := time.Now()
	result := o.tools.Execute(ctx, name, params)
	rec.add(domain.StageTool, name, result.Status, start)

	if result.Status != tools.StatusSuccess {
		o.logger.Warn("Tool call failed",
			zap.String("tool", name),
			zap.String("error", result.Error))
	}
	return result
}

// clientNameFromText pulls the first person-looking entity out of free text.
func clientNameFromText(text string) string {
	if extracted := extractPersonName(text); extracted != "" {
		return extracted
	}
	return unknownClient
}
