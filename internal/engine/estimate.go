// internal/engine/estimate.go
package engine

import (
	"github.com/stratum-labs/stratum/internal/models"
)

// Estimate derives the expected completion times for a leveled plan.
// The parallel estimate assumes every node in a level runs at once, so
// each level costs as much as its slowest member; the sequential
// estimate is the plain sum of all node durations. Their ratio is the
// speedup factor, with the divisor clamped to 1 so that a plan of
// all-zero durations stays well defined.
func Estimate(graph *models.TaskGraph, levels [][]string) models.DurationEstimate {
	var parallel int64
	for _, level := range levels {
		var slowest int64
		for _, id := range level {
			if node := graph.Nodes[id]; node != nil && node.EstimatedDurationMs > slowest {
				slowest = node.EstimatedDurationMs
			}
		}
		parallel += slowest
	}

	var sequential int64
	for _, node := range graph.Nodes {
		sequential += node.EstimatedDurationMs
	}

	divisor := parallel
	if divisor < 1 {
		divisor = 1
	}

	return models.DurationEstimate{
		ParallelMs:    parallel,
		SequentialMs:  sequential,
		SpeedupFactor: float64(sequential) / float64(divisor),
	}
}
