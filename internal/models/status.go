// internal/models/status.go
package models

import (
	"time"
)

// StatusMessage represents a status update message for runs and task nodes
type StatusMessage struct {
	Type      string      `json:"type"`      // "run" or "task"
	ID        string      `json:"id"`        // run id or task node id
	Status    string      `json:"status"`    // current status of the entity
	Timestamp time.Time   `json:"timestamp"` // when the status was updated
	Metadata  interface{} `json:"metadata"`  // additional entity-specific information
}

type RunEventType string

const (
	RunStarted   RunEventType = "STARTED"
	RunCompleted RunEventType = "COMPLETED"
	RunFailed    RunEventType = "FAILED"
)

// NodeStatusEvent is attached as metadata to per-node status messages
type NodeStatusEvent struct {
	RunID  string     `json:"runId"`
	NodeID string     `json:"nodeId"`
	Status TaskStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}
