// internal/engine/decomposer.go
package engine

import (
	"context"
	"log"

	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/models"
)

// Decomposer wires the planning passes together: build the graph,
// validate it, then compute levels, critical path and duration
// estimates in one shot. It holds no state of its own beyond the
// injected history store, so one instance can serve concurrent
// requests as long as each call supplies its own descriptors.
type Decomposer struct {
	maxParallel int
	maxDepth    int
	history     history.Store
}

// NewDecomposer creates a decomposer with the given scheduling limits.
// history may be nil to disable run recording.
func NewDecomposer(maxParallel, maxDepth int, hist history.Store) *Decomposer {
	return &Decomposer{
		maxParallel: maxParallel,
		maxDepth:    maxDepth,
		history:     hist,
	}
}

// Decompose turns a root task plus its subtasks into an executable
// parallel plan. Validation errors surface as *ValidationError and no
// partial plan is returned. A root with zero subtasks is a legitimate
// trivial plan: one level holding only the root.
func (d *Decomposer) Decompose(ctx context.Context, root models.TaskDescriptor, subtasks []models.TaskDescriptor) (*models.DecompositionResult, error) {
	graph := BuildGraph(root, subtasks)
	if err := Validate(graph); err != nil {
		return nil, err
	}

	levels, err := ComputeLevels(graph, d.maxParallel, d.maxDepth)
	if err != nil {
		return nil, err
	}

	result := models.NewDecompositionResult(graph)
	result.Levels = levels
	result.CriticalPath = CriticalPath(graph)
	result.Estimate = Estimate(graph, levels)

	if d.history != nil {
		if err := d.history.Append(ctx, result.Record()); err != nil {
			// History is observability, not correctness
			log.Printf("Warning: failed to record decomposition %s: %v", result.ID, err)
		}
	}

	return result, nil
}
