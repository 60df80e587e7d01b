package measure

import (
	"sync"
)

// DefaultMeasure keeps one metric per stage name.
type DefaultMeasure struct {
	mu     sync.Mutex
	stages map[string]Metric
}

// NewDefaultMeasure creates an empty measure.
func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

// AddMetric registers a metric for a stage running with the given
// number of workers.
func (m *DefaultMeasure) AddMetric(stage string, concurrent int) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		mu:         &sync.Mutex{},
		allWaits:   make(map[string]*WaitInfo),
		concurrent: concurrent,
	}
	m.stages[stage] = mt

	return mt
}

// GetMetric returns the metric for a stage.
func (m *DefaultMeasure) GetMetric(stage string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stages[stage]
}

// AllMetrics returns the metrics of every stage.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stages
}

var _ Measure = (*DefaultMeasure)(nil)
