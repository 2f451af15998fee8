package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func embeddingServer(t *testing.T, vectors ...[]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		for i, vec := range vectors {
			resp.Data = append(resp.Data, struct {
				Object    string    `json:"object"`
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				Object:    "embedding",
				Embedding: vec,
				Index:     i,
			})
		}
		resp.Usage.PromptTokens = 10
		resp.Usage.TotalTokens = 10

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestEmbedder_Embed_NormalizesProviderVector(t *testing.T) {
	// A non-unit vector, as a non-OpenAI base_url backend might return.
	server := embeddingServer(t, []float32{3, 4, 0, 0})
	defer server.Close()

	emb := NewEmbedder(&EmbedderConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: 4,
	})

	result, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if result.Dimensions != 4 {
		t.Errorf("dimensions: got %d, want 4", result.Dimensions)
	}
	if norm := vectorNorm(result.Embedding); math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("vector norm: got %v, want 1.0", norm)
	}
	// 3-4-5 triangle: normalized components are 0.6 and 0.8.
	if math.Abs(float64(result.Embedding[0])-0.6) > 1e-6 {
		t.Errorf("component 0: got %v, want 0.6", result.Embedding[0])
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens: got %d, want 10", result.TotalTokens)
	}
}

func TestEmbedder_BatchEmbed_NormalizesAndPreservesOrder(t *testing.T) {
	server := embeddingServer(t, []float32{2, 0, 0, 0}, []float32{0, 5, 0, 0})
	defer server.Close()

	emb := NewEmbedder(&EmbedderConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: 4,
	})

	results, err := emb.BatchEmbed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count: got %d, want 2", len(results))
	}
	if results[0].Embedding[0] != 1.0 {
		t.Errorf("first vector component: got %v, want 1.0", results[0].Embedding[0])
	}
	if results[1].Embedding[1] != 1.0 {
		t.Errorf("second vector component: got %v, want 1.0", results[1].Embedding[1])
	}
	for i, r := range results {
		if norm := vectorNorm(r.Embedding); math.Abs(norm-1.0) > 1e-6 {
			t.Errorf("vector %d norm: got %v, want 1.0", i, norm)
		}
	}
}

func TestEmbedder_Embed_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"backend down"}`))
	}))
	defer server.Close()

	emb := NewEmbedder(&EmbedderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	})

	if _, err := emb.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error from failing provider")
	}
}
