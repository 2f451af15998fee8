// Package health aggregates component liveness checks for the health endpoint.
package health

import "context"

type Status string

const (
	Healthy  Status = "healthy"
	Degraded Status = "degraded"
)

// Report is the aggregated health check result.
type Report struct {
	Status Status            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Check is one named component probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Service runs the registered probes.
type Service struct {
	checks []Check
}

// New creates a health service over the given probes.
func New(checks ...Check) *Service {
	return &Service{checks: checks}
}

// Check runs all probes. Any failure degrades the overall status; individual
// check results carry the error text.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Status: Healthy,
		Checks: make(map[string]string, len(s.checks)),
	}
	for _, c := range s.checks {
		if err := c.Fn(ctx); err != nil {
			report.Status = Degraded
			report.Checks[c.Name] = err.Error()
			continue
		}
		report.Checks[c.Name] = "ok"
	}
	return report
}
