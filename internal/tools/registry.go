// Package tools implements the tool registry: a name-to-callable map with
// discovery schemas, invoked by the orchestrator for non-RAG workflows. Errors
// at this boundary are structured results, not Go errors: callers inspect
// Status instead of matching error values.
package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Schema describes a tool for discovery, shaped like an MCP tool definition.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Result is the structured outcome of one tool execution.
type Result struct {
	Tool           string         `json:"tool"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
	ErrorType      string         `json:"error_type,omitempty"`
	AvailableTools []string       `json:"available_tools,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// Execution is one entry in the registry's execution log.
type Execution struct {
	Tool      string        `json:"tool"`
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Tool is a callable with a discovery schema. Execute returns structured data
// or a Go error that the registry converts into an error Result.
type Tool interface {
	Schema() Schema
	Execute(ctx context.Context, params map[string]any) (map[string]any, error)
}

// Registry holds registered tools and an append-only execution log.
type Registry struct {
	mu     sync.Mutex
	tools  map[string]Tool
	order  []string
	log    []Execution
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register adds a tool. Registering the same name twice replaces the earlier
// tool but keeps its discovery position.
func (r *Registry) Register(t Tool) {
	name := t.Schema().Name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	r.logger.Info("Registered tool", zap.String("tool", name))
}

// List returns discovery schemas in registration order.
func (r *Registry) List() []Schema {
	r.mu.Lock()
	defer r.mu.Unlock()

	schemas := make([]Schema, len(r.order))
	for i, name := range r.order {
		schemas[i] = r.tools[name].Schema()
	}
	return schemas
}

// Execute runs the named tool. An unknown name or a tool failure produces an
// error Result, never a Go error. The registry boundary reports problems as
// data the orchestrator can render.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) Result {
	r.mu.Lock()
	tool, ok := r.tools[name]
	available := make([]string, len(r.order))
	copy(available, r.order)
	r.mu.Unlock()

	if !ok {
		metrics.ToolExecutionsTotal.WithLabelValues(name, StatusError).Inc()
		return Result{
			Tool:           name,
			Status:         StatusError,
			Error:          fmt.Sprintf("tool %q not found", name),
			ErrorType:      "unknown_tool",
			AvailableTools: available,
		}
	}

	start := time.Now()
	data, err := tool.Execute(ctx, params)
	duration := time.Since(start)

	status := StatusSuccess
	result := Result{Tool: name, Status: StatusSuccess, Data: data}
	if err != nil {
		status = StatusError
		result = Result{
			Tool:      name,
			Status:    StatusError,
			Error:     err.Error(),
			ErrorType: "execution_error",
		}
		r.logger.Error("Tool execution failed", zap.String("tool", name), zap.Error(err))
	}

	metrics.ToolExecutionsTotal.WithLabelValues(name, status).Inc()

	r.mu.Lock()
	r.log = append(r.log, Execution{
		Tool:      name,
		Status:    status,
		Timestamp: start,
		Duration:  duration,
	})
	r.mu.Unlock()

	return result
}

// ExecutionLog returns a copy of the execution log.
func (r *Registry) ExecutionLog() []Execution {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Execution, len(r.log))
	copy(out, r.log)
	return out
}

// Info summarizes the registry for status reporting.
func (r *Registry) Info() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return map[string]any{
		"tools_registered": len(names),
		"tool_names":       names,
		"total_executions": len(r.log),
	}
}
