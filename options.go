package ragpipe

import "go.uber.org/zap"

type clientConfig struct {
	logger *zap.Logger

	apiKey  string
	baseURL string

	embeddingModel string
	dimensions     int
	llmModel       string
	temperature    float64
	maxTokens      int

	topK            int
	topN            int
	embeddingWeight float64
	keywordWeight   float64
	maxKeywords     int
	currentPeriod   string
	sequential      bool

	seed seedSource
}

// Option configures the embedded client.
type Option func(*clientConfig)

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithOpenAI enables the live embedding and completion providers. Without it
// the client runs fully in deterministic mock mode.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) { c.apiKey = apiKey }
}

// WithBaseURL points the providers at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.baseURL = baseURL }
}

// WithEmbeddingModel overrides the embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *clientConfig) { c.embeddingModel = model }
}

// WithCompletionModel overrides the chat completion model.
func WithCompletionModel(model string) Option {
	return func(c *clientConfig) { c.llmModel = model }
}

// WithTopK sets the retrieval shortlist size.
func WithTopK(topK int) Option {
	return func(c *clientConfig) { c.topK = topK }
}

// WithTopN sets the rerank output size.
func WithTopN(topN int) Option {
	return func(c *clientConfig) { c.topN = topN }
}

// WithWeights sets the hybrid score fusion weights.
func WithWeights(embedding, keyword float64) Option {
	return func(c *clientConfig) {
		c.embeddingWeight = embedding
		c.keywordWeight = keyword
	}
}

// WithCurrentPeriod sets the quarter used for the rerank recency bonus,
// e.g. "2024-Q3". Defaults to the current calendar quarter.
func WithCurrentPeriod(period string) Option {
	return func(c *clientConfig) { c.currentPeriod = period }
}

// WithSequentialStages disables the parallel embedding+keyword fan-out.
func WithSequentialStages() Option {
	return func(c *clientConfig) { c.sequential = true }
}

// WithDocuments replaces the built-in corpus with a custom seed.
func WithDocuments(seed seedSource) Option {
	return func(c *clientConfig) { c.seed = seed }
}
