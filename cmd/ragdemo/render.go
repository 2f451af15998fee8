package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kailas-cloud/ragpipe"
	"github.com/kailas-cloud/ragpipe/internal/domain"
)

var (
	header  = color.New(color.FgCyan, color.Bold)
	stage   = color.New(color.FgGreen)
	dim     = color.New(color.FgHiBlack)
	warning = color.New(color.FgYellow)
)

// render prints the run result: workflow, execution trace, and final answer.
func render(w io.Writer, result ragpipe.RunResult) {
	header.Fprintf(w, "\n=== %s ===\n", result.Workflow)
	dim.Fprintf(w, "run %s, %s\n\n", result.RunID, result.Duration.Round(time.Millisecond))

	header.Fprintln(w, "Execution trace:")
	for i, step := range result.Log {
		stage.Fprintf(w, "  %2d. %-10s", i+1, step.Step)
		dim.Fprintf(w, " %s", step.Duration.Round(time.Microsecond))
		if step.Outputs != "" {
			fmt.Fprintf(w, "  %s", step.Outputs)
		}
		fmt.Fprintln(w)
	}

	if result.RAG != nil {
		renderRAG(w, result.RAG)
	}
	if result.Risk != nil && result.Risk.Data != nil {
		header.Fprintln(w, "\nRisk assessment:")
		fmt.Fprintf(w, "  %v (score %v/100)\n", result.Risk.Data["risk_level"], result.Risk.Data["risk_score"])
	}
	if result.Report != nil && result.Report.Data != nil {
		if text, ok := result.Report.Data["report"].(string); ok {
			header.Fprintln(w, "\nCompliance report:")
			fmt.Fprintln(w, text)
		}
	}

	header.Fprintln(w, "\nAnswer:")
	fmt.Fprintln(w, result.FinalAnswer)
}

func renderRAG(w io.Writer, rag *domain.PipelineResult) {
	header.Fprintln(w, "\nRetrieved documents:")
	for _, doc := range rag.Rerank.Documents {
		stage.Fprintf(w, "  %-8s", doc.ID)
		fmt.Fprintf(w, " %s", doc.Title)
		dim.Fprintf(w, "  rerank=%.3f hybrid=%.3f\n", doc.RerankScore, doc.HybridScore)
	}

	if len(rag.Keywords.Keywords) > 0 {
		top := rag.Keywords.Keywords
		if len(top) > 8 {
			top = top[:8]
		}
		dim.Fprintf(w, "  keywords: %s\n", strings.Join(top, ", "))
	}
	if rag.Embedding.Mock {
		warning.Fprintln(w, "  (mock embeddings)")
	}
}
