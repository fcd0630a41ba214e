// internal/engine/levels.go
package engine

import (
	"github.com/stratum-labs/stratum/internal/models"
)

// ComputeLevels groups the graph's nodes into ordered execution waves
// using Kahn's algorithm. Every node in a level has all of its
// dependencies satisfied by earlier levels, and no level holds more
// than maxParallel nodes: when a wave's candidate pool overflows the
// cap, the overflow is carried into the next wave ahead of any newly
// unblocked nodes, even though its dependencies are already met.
//
// maxParallel <= 0 disables the cap. maxDepth bounds the number of
// levels as a safety valve against pathological fan-out; exceeding it
// returns MAX_DEPTH_EXCEEDED. The graph must already be validated.
func ComputeLevels(graph *models.TaskGraph, maxParallel, maxDepth int) ([][]string, error) {
	inDegree := graph.InDegrees()
	succ := graph.Successors()

	// Seed the first wave with zero in-degree nodes in insertion order
	var candidates []string
	for _, id := range graph.Order {
		if inDegree[id] == 0 {
			candidates = append(candidates, id)
		}
	}

	var levels [][]string
	processed := 0

	for len(candidates) > 0 {
		if maxDepth > 0 && len(levels) >= maxDepth {
			return nil, newValidationError(CodeMaxDepthExceeded,
				"leveling exceeded the configured depth limit of %d", maxDepth)
		}

		level := candidates
		var deferred []string
		if maxParallel > 0 && len(level) > maxParallel {
			deferred = level[maxParallel:]
			level = level[:maxParallel]
		}
		levels = append(levels, level)
		processed += len(level)

		// Deferred overflow re-enters the pool before newly unblocked nodes
		next := deferred
		for _, id := range level {
			for _, dependent := range succ[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		candidates = next
	}

	if processed != len(graph.Nodes) {
		// Unreachable after Validate, but a leftover node here would
		// otherwise silently vanish from the plan.
		return nil, newValidationError(CodeCircularDependency,
			"leveling processed %d of %d tasks", processed, len(graph.Nodes))
	}

	return levels, nil
}
