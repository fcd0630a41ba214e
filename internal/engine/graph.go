// internal/engine/graph.go
package engine

import (
	"github.com/stratum-labs/stratum/internal/models"
)

// BuildGraph converts a root descriptor plus its subtasks into a task
// dependency graph. Construction is pure: no validation happens here.
// Every node starts out PENDING and one edge (dep, id) is synthesized
// for each entry in a descriptor's dependency list. Duplicate ids are
// recorded on the graph and rejected later by Validate.
func BuildGraph(root models.TaskDescriptor, subtasks []models.TaskDescriptor) *models.TaskGraph {
	graph := &models.TaskGraph{
		Nodes:      make(map[string]*models.TaskNode, len(subtasks)+1),
		RootTaskID: root.ID,
	}

	addNode(graph, root)
	for _, desc := range subtasks {
		addNode(graph, desc)
	}

	for _, id := range graph.Order {
		node := graph.Nodes[id]
		for _, dep := range node.Dependencies {
			graph.Edges = append(graph.Edges, models.TaskEdge{From: dep, To: id})
		}
	}

	return graph
}

func addNode(graph *models.TaskGraph, desc models.TaskDescriptor) {
	if _, exists := graph.Nodes[desc.ID]; exists {
		graph.Duplicates = append(graph.Duplicates, desc.ID)
		return
	}
	graph.Nodes[desc.ID] = models.NewTaskNode(desc)
	graph.Order = append(graph.Order, desc.ID)
}
