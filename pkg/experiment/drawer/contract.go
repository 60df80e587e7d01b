// Package drawer renders the executed experiment plan as a graph, with
// per-stage timings when a measure is attached.
package drawer

import (
	"time"

	"github.com/mjoliard/deconfound/pkg/experiment/measure"
)

// Drawer renders an experiment plan.
type Drawer interface {
	// AddStage adds a stage to the plan graph.
	AddStage(stageName string) error
	// AddLink adds a link between a stage and its downstream stage.
	AddLink(parentStageName, childStageName string) error
	// Draw writes the plan to its destination.
	Draw() error
	// SetTotalTime attaches the elapsed wall time to a stage.
	SetTotalTime(stageName string, startTime time.Time) error
	// AddMeasure decorates the plan with recorded stage timings.
	AddMeasure(msr measure.Measure) error
}
