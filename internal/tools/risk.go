package tools

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// Risk level thresholds over the 0-100 score.
const (
	riskMediumFloor = 30
	riskHighFloor   = 65
)

var jurisdictionRisk = map[string][]string{
	"high":   {"Russia", "Iran", "North Korea", "Syria", "Afghanistan"},
	"medium": {"China", "UAE", "Cayman Islands", "Panama"},
}

var wealthSourceRisk = map[string][]string{
	"high":   {"Cryptocurrency mining", "Unnamed sources", "Cash businesses"},
	"medium": {"Real estate", "Private equity", "Offshore investments"},
}

// RiskScoreTool simulates a client risk model. The base score derives from a
// stable hash of the client name so repeated assessments agree, with
// adjustments for risky jurisdictions and wealth sources.
type RiskScoreTool struct{}

// NewRiskScoreTool creates the mock risk calculator.
func NewRiskScoreTool() *RiskScoreTool { return &RiskScoreTool{} }

// Schema implements Tool.
func (t *RiskScoreTool) Schema() Schema {
	return Schema{
		Name:        "risk_score_calculator",
		Description: "Calculates risk scores for clients based on profile, activity, and external data",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"client_name": map[string]any{
					"type":        "string",
					"description": "Client name to assess",
				},
				"client_data": map[string]any{
					"type":        "object",
					"description": "Client profile data (nationality, jurisdictions, wealth sources, etc.)",
					"properties": map[string]any{
						"nationality":        map[string]any{"type": "string"},
						"jurisdictions":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"wealth_sources":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"transaction_volume": map[string]any{"type": "string"},
					},
				},
			},
			"required": []string{"client_name"},
		},
	}
}

// Execute implements Tool.
func (t *RiskScoreTool) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	name, ok := params["client_name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("client_name is required")
	}

	var jurisdictions, wealthSources []string
	if data, ok := params["client_data"].(map[string]any); ok {
		jurisdictions = stringSlice(data["jurisdictions"])
		wealthSources = stringSlice(data["wealth_sources"])
	}

	score, factors := t.score(name, jurisdictions, wealthSources)
	level, recommendation := classify(score)

	analysis := fmt.Sprintf("Client %s presents a %s risk profile with no significant red flags.",
		name, strings.ToLower(level))
	if len(factors) > 0 {
		top := factors
		if len(top) > 2 {
			top = top[:2]
		}
		analysis = fmt.Sprintf("Client %s presents a %s risk profile. Key factors: %s.",
			name, strings.ToLower(level), strings.Join(top, ", "))
	} else {
		factors = []string{"Clean profile", "Transparent wealth sources", "Low-risk jurisdictions"}
	}

	return map[string]any{
		"client_name":    name,
		"risk_level":     level,
		"risk_score":     score,
		"risk_factors":   factors,
		"analysis":       analysis,
		"recommendation": recommendation,
	}, nil
}

// score computes the deterministic 0-100 risk score and its contributing
// factors. Base range is 10-60 from the name hash.
func (t *RiskScoreTool) score(name string, jurisdictions, wealthSources []string) (int, []string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	score := int(h.Sum32()%50) + 10

	var factors []string
	for _, j := range jurisdictions {
		switch {
		case contains(jurisdictionRisk["high"], j):
			factors = append(factors, "High-risk jurisdiction: "+j)
			score += 20
		case contains(jurisdictionRisk["medium"], j):
			factors = append(factors, "Medium-risk jurisdiction: "+j)
			score += 10
		}
	}
	for _, s := range wealthSources {
		switch {
		case containsSubstring(wealthSourceRisk["high"], s):
			factors = append(factors, "High-risk wealth source: "+s)
			score += 15
		case containsSubstring(wealthSourceRisk["medium"], s):
			factors = append(factors, "Medium-risk wealth source: "+s)
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score, factors
}

func classify(score int) (level, recommendation string) {
	switch {
	case score < riskMediumFloor:
		return "Low", "Standard monitoring procedures recommended"
	case score < riskHighFloor:
		return "Medium", "Enhanced monitoring recommended"
	default:
		return "High", "Enhanced due diligence required before onboarding"
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// containsSubstring reports whether any list entry occurs within s, matching
// the loose "Real estate holdings" style inputs the workflows pass through.
func containsSubstring(list []string, s string) bool {
	for _, item := range list {
		if strings.Contains(s, item) {
			return true
		}
	}
	return false
}
