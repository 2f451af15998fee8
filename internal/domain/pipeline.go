package domain

import "time"

// Workflow names the execution path chosen by intent classification.
type Workflow string

const (
	WorkflowFullKYCReview Workflow = "full_kyc_review"
	WorkflowRiskCheck     Workflow = "risk_check"
	WorkflowRAGSummary    Workflow = "rag_summary"
)

// Stage names used in execution logs and metrics labels.
const (
	StageIntent    = "intent"
	StageEmbedding = "embedding"
	StageKeyword   = "keyword"
	StageRetrieval = "retrieval"
	StageRerank    = "rerank"
	StageAnswer    = "answer"
	StageTool      = "tool"
)

// ExecutionStep is one record in a run's append-only execution log. Entries
// are appended in stage completion order; the two parallel stages interleave
// by whichever finishes first.
type ExecutionStep struct {
	Step      string        `json:"step"`
	Inputs    string        `json:"inputs,omitempty"`
	Outputs   string        `json:"outputs,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// PipelineResult is the immutable aggregate for one RAG pipeline run.
type PipelineResult struct {
	Query     string          `json:"query"`
	Embedding EmbeddingResult `json:"embedding"`
	Keywords  KeywordResult   `json:"keywords"`
	Retrieval RetrievalResult `json:"retrieval"`
	Rerank    RerankResult    `json:"rerank"`
	Answer    AnswerResult    `json:"answer"`

	Log     []ExecutionStep          `json:"execution_log"`
	Timings map[string]time.Duration `json:"timings"`
}
