// internal/engine/critical.go
package engine

import (
	"github.com/stratum-labs/stratum/internal/models"
)

// CriticalPath returns the id sequence of the longest duration-weighted
// chain from any source node to a sink. This chain lower-bounds total
// completion time no matter how much parallelism is available.
//
// The search is a memoized longest-path walk keyed by node id, so each
// node is visited once and the whole pass is O(V+E). When two paths tie
// on total duration the first one discovered (in insertion order) wins;
// the choice carries no meaning.
func CriticalPath(graph *models.TaskGraph) []string {
	if len(graph.Order) == 0 {
		return nil
	}

	succ := graph.Successors()
	inDegree := graph.InDegrees()

	// cost[id] is the total duration of the longest chain starting at
	// id; next[id] is the successor that chain continues through.
	cost := make(map[string]int64, len(graph.Nodes))
	next := make(map[string]string, len(graph.Nodes))
	visited := make(map[string]bool, len(graph.Nodes))

	var longest func(id string) int64
	longest = func(id string) int64 {
		if visited[id] {
			return cost[id]
		}
		visited[id] = true

		best := int64(-1)
		for _, child := range succ[id] {
			if c := longest(child); c > best {
				best = c
				next[id] = child
			}
		}
		if best < 0 {
			best = 0 // sink
		}
		cost[id] = graph.Nodes[id].EstimatedDurationMs + best
		return cost[id]
	}

	// The longest chain must start at a source node
	var start string
	var startCost int64 = -1
	for _, id := range graph.Order {
		if inDegree[id] != 0 {
			continue
		}
		if c := longest(id); c > startCost {
			start = id
			startCost = c
		}
	}

	var path []string
	for id := start; ; {
		path = append(path, id)
		child, ok := next[id]
		if !ok {
			break
		}
		id = child
	}
	return path
}
