package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/tools"
	answeruc "github.com/kailas-cloud/ragpipe/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragpipe/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragpipe/internal/usecase/health"
	keyworduc "github.com/kailas-cloud/ragpipe/internal/usecase/keyword"
	pipelineuc "github.com/kailas-cloud/ragpipe/internal/usecase/pipeline"
	rerankuc "github.com/kailas-cloud/ragpipe/internal/usecase/rerank"
	retrievaluc "github.com/kailas-cloud/ragpipe/internal/usecase/retrieval"
)

type memCorpus struct {
	docs []domain.Document
}

func (m *memCorpus) ListDocuments() []domain.Document { return m.docs }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	mock := embeddinguc.NewMockEmbedder(32)

	doc := domain.Document{
		ID: "doc_1", Title: "Risk case", Content: "risk assessment details",
		Keywords: []string{"risk"}, Embedding: mock.Vector("risk assessment details"),
	}

	registry := tools.NewRegistry(logger)
	registry.Register(tools.NewOCRTool())
	registry.Register(tools.NewRiskScoreTool())
	registry.Register(tools.NewReportTool())

	orchestrator := pipelineuc.New(
		embeddinguc.NewFallbackEmbedder(nil, mock, logger),
		keyworduc.NewExtractor(0),
		retrievaluc.New(retrievaluc.NewScanBackend(&memCorpus{docs: []domain.Document{doc}}), domain.SearchParams{}),
		rerankuc.New(3, ""),
		answeruc.New(nil, logger),
		registry,
		true,
		logger,
	)

	server := NewServer(orchestrator, registry, healthuc.New(), 1, logger)
	r := chirouter.NewRouter()
	server.Routes(r)
	return r
}

func TestHandleQuery_OK(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("POST", "/v1/query",
		strings.NewReader(`{"query":"summarize the risk case"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var result pipelineuc.RunResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Workflow != domain.WorkflowRAGSummary {
		t.Errorf("workflow: got %s", result.Workflow)
	}
	if result.FinalAnswer == "" {
		t.Error("missing final answer")
	}
	if len(result.Log) == 0 {
		t.Error("missing execution log")
	}
}

func TestHandleQuery_EmptyQuery_400(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{"query":""}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeBadRequest {
		t.Errorf("error code: got %q, want %q", errResp.Code, codeBadRequest)
	}
}

func TestHandleQuery_MalformedBody_400(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleTools(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("GET", "/v1/tools", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var body struct {
		Tools []tools.Schema `json:"tools"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Tools) != 3 {
		t.Fatalf("tool count: got %d, want 3", len(body.Tools))
	}
	if body.Tools[0].Name != "ocr_document_scanner" {
		t.Errorf("first tool: got %q", body.Tools[0].Name)
	}
}

func TestHandleStatus(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("GET", "/v1/status", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["corpus_size"] != float64(1) {
		t.Errorf("corpus size: got %v, want 1", body["corpus_size"])
	}
	if _, ok := body["orchestrator"]; !ok {
		t.Error("missing orchestrator info")
	}
}

func TestHandleHealth(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHandleHealth_DegradedComponent_503(t *testing.T) {
	logger := zap.NewNop()
	registry := tools.NewRegistry(logger)
	mock := embeddinguc.NewMockEmbedder(32)
	orchestrator := pipelineuc.New(
		embeddinguc.NewFallbackEmbedder(nil, mock, logger),
		keyworduc.NewExtractor(0),
		retrievaluc.New(retrievaluc.NewScanBackend(&memCorpus{}), domain.SearchParams{}),
		rerankuc.New(3, ""),
		answeruc.New(nil, logger),
		registry, true, logger,
	)
	failing := healthuc.New(healthuc.Check{
		Name: "cache",
		Fn:   func(context.Context) error { return context.DeadlineExceeded },
	})
	server := NewServer(orchestrator, registry, failing, 0, logger)
	r := chirouter.NewRouter()
	server.Routes(r)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
