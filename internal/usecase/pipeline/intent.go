package pipeline

import (
	"strings"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// Fixed trigger phrases for coarse intent routing. Matched against the
// lowercased query; the first set that hits wins, in workflow priority order.
var (
	kycTriggers = []string{
		"review this document",
		"review the document",
		"kyc document",
		"kyc file",
		"onboard",
	}
	riskTriggers = []string{
		"risk score",
		"risk level",
		"risk rating",
		"risk check",
	}
)

// classifyIntent picks the workflow for a query. Anything that matches no
// trigger set falls through to the RAG summary pipeline.
func classifyIntent(query string) domain.Workflow {
	queryLower := strings.ToLower(query)

	for _, t := range kycTriggers {
		if strings.Contains(queryLower, t) {
			return domain.WorkflowFullKYCReview
		}
	}
	for _, t := range riskTriggers {
		if strings.Contains(queryLower, t) {
			return domain.WorkflowRiskCheck
		}
	}
	return domain.WorkflowRAGSummary
}
