// internal/models/task.go
package models

// TaskStatus represents the current state of a task node
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusReady     TaskStatus = "READY"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// Terminal reports whether the status is a final state
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskDescriptor is the caller-supplied description of a unit of work.
// Dependencies name other descriptors in the same decomposition request.
type TaskDescriptor struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Dependencies        []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	EstimatedDurationMs int64    `json:"estimatedDurationMs,omitempty" yaml:"estimatedDurationMs,omitempty"`
	Priority            int      `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// TaskNode is a descriptor plus its live execution state within a graph
type TaskNode struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Dependencies        []string   `json:"dependencies,omitempty"`
	EstimatedDurationMs int64      `json:"estimatedDurationMs,omitempty"`
	Priority            int        `json:"priority,omitempty"`
	Status              TaskStatus `json:"status"`
	Result              any        `json:"result,omitempty"`
	Error               *string    `json:"error,omitempty"`
}

// NewTaskNode creates a pending node from a descriptor
func NewTaskNode(desc TaskDescriptor) *TaskNode {
	return &TaskNode{
		ID:                  desc.ID,
		Name:                desc.Name,
		Dependencies:        append([]string(nil), desc.Dependencies...),
		EstimatedDurationMs: desc.EstimatedDurationMs,
		Priority:            desc.Priority,
		Status:              TaskStatusPending,
	}
}

// TaskEdge is a directed dependency: To depends on From
type TaskEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TaskGraph aggregates the nodes and derived edges of one decomposition.
// Topology is fixed after validation; only node Status/Result/Error mutate
// while a plan executes. Order preserves node insertion order so that
// scheduling is deterministic across runs.
type TaskGraph struct {
	Nodes      map[string]*TaskNode `json:"nodes"`
	Order      []string             `json:"order"`
	Edges      []TaskEdge           `json:"edges"`
	RootTaskID string               `json:"rootTaskId"`

	// Duplicates records ids that appeared more than once during
	// construction so validation can reject them.
	Duplicates []string `json:"-"`
}

// Node returns the node with the given id, or nil
func (g *TaskGraph) Node(id string) *TaskNode {
	return g.Nodes[id]
}

// Successors returns, for every node, the ids of its direct dependents
// in edge order.
func (g *TaskGraph) Successors() map[string][]string {
	succ := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		succ[e.From] = append(succ[e.From], e.To)
	}
	return succ
}

// InDegrees returns the incoming-edge count for every node
func (g *TaskGraph) InDegrees() map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for _, id := range g.Order {
		deg[id] = 0
	}
	for _, e := range g.Edges {
		deg[e.To]++
	}
	return deg
}
