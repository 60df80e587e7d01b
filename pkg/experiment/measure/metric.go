package measure

import (
	"sync"
	"time"
)

// WaitInfo accumulates how long a stage waited on one upstream stage.
type WaitInfo struct {
	Elapsed time.Duration
	total   int64
}

// DefaultMetric records timings for one stage.
type DefaultMetric struct {
	allWaits     map[string]*WaitInfo
	mu           *sync.Mutex
	EndDuration  time.Duration
	stageElapsed time.Duration
	total        int64
	concurrent   int
}

// AddDuration records one unit of stage computation time.
func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stageElapsed += elapsed
}

// SetTotalDuration records the wall time from run start to the stage
// finishing.
func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

// GetTotalDuration returns the recorded end-to-end duration.
func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

// AddWaitDuration records time spent waiting on an upstream stage.
func (mt *DefaultMetric) AddWaitDuration(inputStage string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allWaits[inputStage] == nil {
		mt.allWaits[inputStage] = &WaitInfo{}
	}
	info := mt.allWaits[inputStage]
	info.Elapsed += elapsed
	info.total++
}

// AVGDuration returns the average computation time per processed item.
func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.total)))
}

// AVGWaitDuration folds the accumulated waits into per-item averages,
// normalised by the stage's worker count.
func (mt *DefaultMetric) AVGWaitDuration() map[string]*WaitInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for stage, info := range mt.allWaits {
		if info.Elapsed == 0 {
			continue
		}
		mt.allWaits[stage].Elapsed = round(time.Duration((float64(info.Elapsed) / float64(info.total)) / float64(mt.concurrent)))
	}

	return mt.allWaits
}

// AllWaits returns the raw per-upstream wait accumulators.
func (mt *DefaultMetric) AllWaits() map[string]*WaitInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.allWaits
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
