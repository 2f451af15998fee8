package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, "http:\n  port: 8080\n")

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pipeline.TopKRetrieval != 10 {
		t.Errorf("top_k default: got %d, want 10", cfg.Pipeline.TopKRetrieval)
	}
	if cfg.Pipeline.TopNRerank != 3 {
		t.Errorf("top_n default: got %d, want 3", cfg.Pipeline.TopNRerank)
	}
	if cfg.Pipeline.EmbeddingWeight != 0.7 || cfg.Pipeline.KeywordWeight != 0.3 {
		t.Errorf("weight defaults: got %v/%v", cfg.Pipeline.EmbeddingWeight, cfg.Pipeline.KeywordWeight)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model default: got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions default: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm model default: got %q", cfg.LLM.Model)
	}
	if !cfg.Pipeline.ParallelEnabled() {
		t.Error("parallel should default to enabled")
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled without addrs")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test")
	writeConfig(t, `
http:
  port: ${TEST_PORT:-9090}
embedding:
  api_key: ${TEST_API_KEY}
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port with default: got %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("api key: got %q, want sk-test", cfg.Embedding.APIKey)
	}
}

func TestValidate_PortRange(t *testing.T) {
	writeConfig(t, "http:\n  port: 99999\n")

	if _, err := Load("test"); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestValidate_TopNExceedsTopK(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
pipeline:
  top_k_retrieval: 3
  top_n_rerank: 5
`)

	if _, err := Load("test"); err == nil {
		t.Error("expected error for top_n > top_k")
	}
}

func TestValidate_CurrentPeriodFormat(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
pipeline:
  current_period: "Q3-2024"
`)

	if _, err := Load("test"); err == nil {
		t.Error("expected error for malformed current_period")
	}
}

func TestParallelEnabled_ExplicitFalse(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
pipeline:
  parallel: false
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pipeline.ParallelEnabled() {
		t.Error("parallel: false should disable fan-out")
	}
}
