package domain

// Entity is a coarse named-entity match extracted from text.
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"` // organization, person, unknown
}

// Entity types produced by the keyword stage.
const (
	EntityOrganization = "organization"
	EntityPerson       = "person"
	EntityUnknown      = "unknown"
)

// KeywordResult is the keyword stage output: ranked keywords, coarse entities
// and domain category tags.
type KeywordResult struct {
	Keywords   []string `json:"keywords"`
	Entities   []Entity `json:"entities"`
	DomainTags []string `json:"domain_tags"`
}

// SearchParams records the knobs used for one retrieval pass.
type SearchParams struct {
	TopK            int     `json:"top_k"`
	EFSearch        int     `json:"ef_search"`
	EmbeddingWeight float64 `json:"embedding_weight"`
	KeywordWeight   float64 `json:"keyword_weight"`
}

// RetrievalResult is the hybrid search shortlist, ranked by hybrid score.
type RetrievalResult struct {
	Documents []ScoredDocument `json:"documents"`
	Params    SearchParams     `json:"search_parameters"`
}

// RerankResult is the reranked top-N with per-document scoring breakdowns.
type RerankResult struct {
	Documents  []ScoredDocument `json:"documents"`
	InputCount int              `json:"input_count"`
	Judge      string           `json:"judge"` // "heuristic" or the LLM model name
}

// Citation points an answer back at one of its context documents.
type Citation struct {
	DocID string  `json:"doc_id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// AnswerResult is the final grounded answer. Streamed is a delivery-mode flag
// only: text and citations are identical either way.
type AnswerResult struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
	Streamed  bool       `json:"streamed"`
	Mock      bool       `json:"mock"`
}
