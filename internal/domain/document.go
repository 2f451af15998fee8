package domain

import "fmt"

// Document is a unit of retrievable knowledge. Documents are seeded at startup,
// embedded once, and never mutated afterwards, so concurrent queries may share
// the corpus without synchronization.
type Document struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Keywords []string          `json:"keywords"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Embedding is a unit-normalized vector of EmbeddingDimensions length.
	Embedding []float32 `json:"-"`
}

// Validate checks the fields the pipeline depends on. A failure here is a
// programming error in corpus construction, not user input.
func (d Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	if d.Title == "" && d.Content == "" {
		return fmt.Errorf("%w: %s has neither title nor content", ErrInvalidDocument, d.ID)
	}
	if len(d.Embedding) == 0 {
		return fmt.Errorf("%w: %s has no embedding", ErrInvalidDocument, d.ID)
	}
	return nil
}

// ScoringBreakdown records the components of a rerank score for auditability.
type ScoringBreakdown struct {
	BaseScore     float64 `json:"base_hybrid_score"`
	KeywordBonus  float64 `json:"keyword_bonus"`
	MetadataBonus float64 `json:"metadata_bonus"`
}

// ScoredDocument annotates a Document with stage-specific scores. Each stage
// produces fresh copies; the underlying Document is never written to.
type ScoredDocument struct {
	Document

	VectorScore  float64 `json:"vector_score"`
	KeywordScore float64 `json:"keyword_score"`
	HybridScore  float64 `json:"hybrid_score"`

	RerankScore float64           `json:"rerank_score,omitempty"`
	Breakdown   *ScoringBreakdown `json:"scoring_breakdown,omitempty"`
}
