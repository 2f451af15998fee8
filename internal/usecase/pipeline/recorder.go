package pipeline

import (
	"sync"
	"time"

	"github.com/kailas-cloud/ragpipe/internal/domain"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
)

// recorder is the per-run execution trace. Stages append on completion, so
// the two parallel stages land in whichever order they actually finish.
type recorder struct {
	mu      sync.Mutex
	steps   []domain.ExecutionStep
	timings map[string]time.Duration
}

func newRecorder() *recorder {
	return &recorder{timings: make(map[string]time.Duration)}
}

// add appends one completed step and feeds the stage duration histogram.
// Repeated stages (tool calls) accumulate in the timings map.
func (r *recorder) add(stage, inputs, outputs string, start time.Time) {
	duration := time.Since(start)
	metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, domain.ExecutionStep{
		Step:      stage,
		Inputs:    inputs,
		Outputs:   outputs,
		Timestamp: start,
		Duration:  duration,
	})
	r.timings[stage] += duration
}

// Steps returns a copy of the trace so far.
func (r *recorder) Steps() []domain.ExecutionStep {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ExecutionStep, len(r.steps))
	copy(out, r.steps)
	return out
}

// Timings returns a copy of the accumulated per-stage durations.
func (r *recorder) Timings() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]time.Duration, len(r.timings))
	for k, v := range r.timings {
		out[k] = v
	}
	return out
}
