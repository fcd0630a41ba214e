// internal/engine/validate.go
package engine

import (
	"github.com/stratum-labs/stratum/internal/models"
)

// DFS colors for cycle detection
type visitColor int

const (
	colorWhite visitColor = iota // unvisited
	colorGray                    // on the recursion stack
	colorBlack                   // fully explored
)

// Validate checks a freshly built graph for structural problems:
// duplicate node ids, edges referencing unknown nodes, and cycles.
// Checks run in that order and validation stops at the first error
// class encountered, so callers must not assume all checks ran.
func Validate(graph *models.TaskGraph) error {
	if len(graph.Duplicates) > 0 {
		return newValidationError(CodeDuplicateTaskID,
			"task id %q declared more than once", graph.Duplicates[0])
	}

	if _, ok := graph.Nodes[graph.RootTaskID]; !ok {
		return newValidationError(CodeDependencyNotFound,
			"root task %q is not present in the graph", graph.RootTaskID)
	}

	for _, edge := range graph.Edges {
		if _, ok := graph.Nodes[edge.From]; !ok {
			return newValidationError(CodeDependencyNotFound,
				"task %q depends on unknown task %q", edge.To, edge.From)
		}
		if _, ok := graph.Nodes[edge.To]; !ok {
			return newValidationError(CodeDependencyNotFound,
				"dependent task %q referenced by %q does not exist", edge.To, edge.From)
		}
	}

	return detectCycle(graph)
}

// detectCycle runs a white/gray/black depth-first search from every
// unvisited node. Hitting a gray node means the current path loops.
func detectCycle(graph *models.TaskGraph) error {
	colors := make(map[string]visitColor, len(graph.Nodes))
	succ := graph.Successors()

	var visit func(id string) error
	visit = func(id string) error {
		colors[id] = colorGray
		for _, next := range succ[id] {
			switch colors[next] {
			case colorGray:
				return newValidationError(CodeCircularDependency,
					"circular dependency detected through task %q", next)
			case colorWhite:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		colors[id] = colorBlack
		return nil
	}

	for _, id := range graph.Order {
		if colors[id] == colorWhite {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
