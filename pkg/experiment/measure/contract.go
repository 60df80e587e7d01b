// Package measure collects per-stage timings for an experiment run:
// how long each stage spends computing and how long it waits on its
// upstream stage.
package measure

import "time"

// Measure aggregates metrics for the run's stages.
type Measure interface {
	AddMetric(stage string, concurrent int) Metric
	GetMetric(stage string) Metric
	AllMetrics() map[string]Metric
}

// Metric records the timings of a single stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddWaitDuration(inputStage string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGWaitDuration() map[string]*WaitInfo
	AllWaits() map[string]*WaitInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
