// internal/engine/tracker.go
package engine

import (
	"fmt"
	"sort"

	"github.com/stratum-labs/stratum/internal/models"
)

// ReadyNodes returns the current execution frontier: every PENDING node
// whose dependencies have all reached COMPLETED. The result is sorted
// by priority descending; ties keep graph insertion order. Callers that
// prefer event-driven dispatch over static levels poll this after each
// status transition.
func ReadyNodes(graph *models.TaskGraph) []*models.TaskNode {
	var ready []*models.TaskNode
	for _, id := range graph.Order {
		node := graph.Nodes[id]
		if node.Status != models.TaskStatusPending {
			continue
		}
		if dependenciesCompleted(graph, node) {
			ready = append(ready, node)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority > ready[j].Priority
	})
	return ready
}

func dependenciesCompleted(graph *models.TaskGraph, node *models.TaskNode) bool {
	for _, dep := range node.Dependencies {
		depNode := graph.Nodes[dep]
		if depNode == nil || depNode.Status != models.TaskStatusCompleted {
			return false
		}
	}
	return true
}

// UpdateStatus records a status transition on a single node, together
// with its result or error payload once the node is terminal. It does
// not validate the transition or cascade to dependents; the caller is
// responsible for only advancing a node whose dependencies are
// actually satisfied, and for serializing writes to any one node.
func UpdateStatus(graph *models.TaskGraph, id string, status models.TaskStatus, result any, taskErr error) error {
	node := graph.Nodes[id]
	if node == nil {
		return fmt.Errorf("task %q not found in graph", id)
	}

	node.Status = status
	switch status {
	case models.TaskStatusCompleted:
		node.Result = result
		node.Error = nil
	case models.TaskStatusFailed:
		if taskErr != nil {
			msg := taskErr.Error()
			node.Error = &msg
		}
	}
	return nil
}
