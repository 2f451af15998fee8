package tools

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const reportTextPreview = 500

var reportTitles = map[string]string{
	"onboarding":    "CLIENT ONBOARDING COMPLIANCE REPORT",
	"annual_review": "ANNUAL CLIENT REVIEW REPORT",
	"enhanced_dd":   "ENHANCED DUE DILIGENCE REPORT",
}

// ReportTool assembles a formatted compliance report from the outputs of the
// OCR and risk tools. A real deployment would render PDFs and file them with
// a compliance management system.
type ReportTool struct {
	count atomic.Int64
	now   func() time.Time
}

// NewReportTool creates the report generator.
func NewReportTool() *ReportTool {
	return &ReportTool{now: time.Now}
}

// Schema implements Tool.
func (t *ReportTool) Schema() Schema {
	return Schema{
		Name:        "compliance_report_generator",
		Description: "Generates comprehensive compliance reports from OCR, risk scores, and other data sources",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"client_name": map[string]any{
					"type":        "string",
					"description": "Client name for the report",
				},
				"ocr_data": map[string]any{
					"type":        "object",
					"description": "OCR extracted data from documents",
				},
				"risk_data": map[string]any{
					"type":        "object",
					"description": "Risk assessment data",
				},
				"additional_context": map[string]any{
					"type":        "string",
					"description": "Additional context or notes to include",
				},
				"report_type": map[string]any{
					"type":        "string",
					"description": "Type of report: 'onboarding', 'annual_review', 'enhanced_dd'",
					"enum":        []string{"onboarding", "annual_review", "enhanced_dd"},
					"default":     "onboarding",
				},
			},
			"required": []string{"client_name"},
		},
	}
}

// Execute implements Tool.
func (t *ReportTool) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	name, ok := params["client_name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("client_name is required")
	}
	reportType, _ := params["report_type"].(string)
	if reportType == "" {
		reportType = "onboarding"
	}
	ocrData, _ := params["ocr_data"].(map[string]any)
	riskData, _ := params["risk_data"].(map[string]any)
	additional, _ := params["additional_context"].(string)

	n := t.count.Add(1)
	reportID := fmt.Sprintf("RPT-%s-%04d", t.now().Format("20060102"), n)
	report := t.render(reportID, name, reportType, ocrData, riskData, additional)

	return map[string]any{
		"client_name": name,
		"report_type": reportType,
		"report_id":   reportID,
		"report":      report,
	}, nil
}

func (t *ReportTool) render(
	reportID, name, reportType string,
	ocrData, riskData map[string]any, additional string,
) string {
	title, ok := reportTitles[reportType]
	if !ok {
		title = "COMPLIANCE REPORT"
	}

	rule := strings.Repeat("=", 80)
	sep := strings.Repeat("-", 80)
	pad := (80 - len(title)) / 2

	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+"\n", args...)
	}

	line(rule)
	line("%s%s", strings.Repeat(" ", pad), title)
	line(rule)
	line("")
	line("Report ID: %s", reportID)
	line("Generation Date: %s", t.now().Format("2006-01-02 15:04:05"))
	line("Client Name: %s", name)
	line("")
	line(sep)
	line("EXECUTIVE SUMMARY")
	line(sep)
	line("")

	extracted, _ := ocrData["extracted_text"].(string)
	if ocrData != nil {
		docCount := 0
		if extracted != "" {
			docCount = 1
		}
		confidence, _ := ocrData["confidence"].(float64)
		line("Documents Processed: %d", docCount)
		line("OCR Confidence: %.1f%%", confidence*100)
		line("")
	}

	riskLevel := "Not Assessed"
	if riskData != nil {
		riskLevel = stringField(riskData, "risk_level", "Unknown")
		line("RISK ASSESSMENT:")
		line("  Risk Level: %s", riskLevel)
		line("  Risk Score: %v/100", riskData["risk_score"])
		line("  Assessment: %s", stringField(riskData, "analysis", "No analysis available"))
		line("")

		if factors := stringSlice(riskData["risk_factors"]); len(factors) > 0 {
			line("Risk Factors Identified:")
			for i, factor := range factors {
				if i == 5 {
					break
				}
				line("  %d. %s", i+1, factor)
			}
			line("")
		}
	}

	if extracted != "" {
		preview := extracted
		if len(preview) > reportTextPreview {
			preview = preview[:reportTextPreview] + "..."
		}
		line(sep)
		line("DOCUMENT ANALYSIS")
		line(sep)
		line("")
		line("Key Information Extracted:")
		line("")
		line("%s", preview)
		line("")
	}

	line(sep)
	line("RECOMMENDATIONS")
	line(sep)
	line("")
	if riskData != nil {
		line("- %s", stringField(riskData, "recommendation", "Standard procedures apply"))
	}
	for _, rec := range recommendations(riskLevel) {
		line("- %s", rec)
	}

	if additional != "" {
		line("")
		line(sep)
		line("ADDITIONAL NOTES")
		line(sep)
		line("")
		line("%s", additional)
	}

	line("")
	line(sep)
	line("REPORT VALIDATION")
	line(sep)
	line("")
	line("This report was automatically generated by the compliance pipeline.")
	line("Generated at: %s", t.now().Format(time.RFC3339))
	line("")
	line(rule)

	return sb.String()
}

func recommendations(riskLevel string) []string {
	switch riskLevel {
	case "Low":
		return []string{
			"Approve for standard onboarding",
			"Apply standard monitoring procedures",
			"Schedule annual review",
		}
	case "Medium":
		return []string{
			"Approve with enhanced monitoring",
			"Request additional documentation for high-value transactions",
			"Schedule semi-annual reviews",
		}
	default:
		return []string{
			"Conduct enhanced due diligence before approval",
			"Escalate to senior compliance team",
			"Implement continuous monitoring",
			"Document all transactions",
		}
	}
}

func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}
