// internal/models/decomposition.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DurationEstimate models the expected completion time of a plan
type DurationEstimate struct {
	ParallelMs    int64   `json:"parallelMs"`
	SequentialMs  int64   `json:"sequentialMs"`
	SpeedupFactor float64 `json:"speedupFactor"`
}

// DecompositionResult is the aggregate output of one decomposition
// request: the validated graph plus everything a runner needs to drive
// it (execution levels, critical path, duration estimates).
type DecompositionResult struct {
	ID           string           `json:"id"`
	RootTaskID   string           `json:"rootTaskId"`
	Graph        *TaskGraph       `json:"graph"`
	Levels       [][]string       `json:"levels"`
	CriticalPath []string         `json:"criticalPath"`
	Estimate     DurationEstimate `json:"estimate"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// NewDecompositionResult assigns a fresh run id and timestamp
func NewDecompositionResult(graph *TaskGraph) *DecompositionResult {
	return &DecompositionResult{
		ID:         uuid.New().String(),
		RootTaskID: graph.RootTaskID,
		Graph:      graph,
		CreatedAt:  time.Now(),
	}
}

// Record produces the compact history row for this result
func (r *DecompositionResult) Record() DecompositionRecord {
	return DecompositionRecord{
		ID:            r.ID,
		RootTaskID:    r.RootTaskID,
		NodeCount:     len(r.Graph.Nodes),
		LevelCount:    len(r.Levels),
		SpeedupFactor: r.Estimate.SpeedupFactor,
		CreatedAt:     r.CreatedAt,
	}
}

// ToJSON converts the result to JSON
func (r *DecompositionResult) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON populates the result from JSON
func (r *DecompositionResult) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// DecompositionRecord is the bounded-history view of a past run
type DecompositionRecord struct {
	ID            string    `json:"id"`
	RootTaskID    string    `json:"rootTaskId"`
	NodeCount     int       `json:"nodeCount"`
	LevelCount    int       `json:"levelCount"`
	SpeedupFactor float64   `json:"speedupFactor"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MergeStrategy selects how sibling task results are combined
type MergeStrategy string

const (
	MergeConcat MergeStrategy = "concat"
	MergeReduce MergeStrategy = "reduce"
	MergeFirst  MergeStrategy = "first"
	MergeLast   MergeStrategy = "last"
	MergeCustom MergeStrategy = "custom"
)
