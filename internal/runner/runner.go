// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stratum-labs/stratum/internal/worker"
)

// StatusPublisher receives run and node status events as execution
// proceeds. The RabbitMQ queue client satisfies this; tests inject
// their own.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, status *models.StatusMessage) error
}

// Runner executes a decomposition plan. The engine only decides what
// can run in which phase; the runner actually dispatches that work,
// resolving each node's name to a registered task function, joining
// each level with a barrier, and recording per-node status on the
// graph as it goes.
//
// Failure policy: a failed node fails its transitive dependents without
// running them, while unrelated branches continue. Aborting a run marks
// the remaining pending nodes FAILED rather than leaving them pending.
type Runner struct {
	id        string
	registry  *worker.Registry
	publisher StatusPublisher // nil disables event publishing
}

func NewRunner(registry *worker.Registry, publisher StatusPublisher) *Runner {
	return &Runner{
		id:        uuid.New().String(),
		registry:  registry,
		publisher: publisher,
	}
}

// ExecutePlan drives the static leveled schedule: all nodes within one
// level run concurrently and the next level starts only once the
// barrier joins. The level width is already bounded by the scheduler's
// parallelism cap. Node failures are recorded on the graph, not
// returned; the returned error reports cancellation or a malformed
// plan only.
func (r *Runner) ExecutePlan(ctx context.Context, result *models.DecompositionResult, data map[string]any) error {
	if result == nil || result.Graph == nil {
		return fmt.Errorf("nil decomposition result")
	}
	graph := result.Graph

	log.Printf("Runner %s executing plan %s (%d levels, %d tasks)",
		r.id, result.ID, len(result.Levels), len(graph.Nodes))
	r.publishRunEvent(ctx, result.ID, models.RunStarted)

	for _, level := range result.Levels {
		select {
		case <-ctx.Done():
			r.abort(ctx, result, ctx.Err())
			return ctx.Err()
		default:
		}

		var wg sync.WaitGroup
		for _, id := range level {
			node := graph.Node(id)
			if node == nil {
				return fmt.Errorf("plan references unknown task %q", id)
			}

			// Dependencies live in earlier levels and are terminal by
			// now; anything short of COMPLETED poisons this node.
			if failedDep := firstIncompleteDependency(graph, node); failedDep != "" {
				r.failNode(ctx, result.ID, graph, node,
					fmt.Errorf("dependency %q did not complete", failedDep))
				continue
			}

			wg.Add(1)
			go func(node *models.TaskNode) {
				defer wg.Done()
				r.runNode(ctx, result.ID, graph, node, data)
			}(node)
		}
		wg.Wait()
	}

	r.finishRun(ctx, result)
	return nil
}

// ExecuteDynamic ignores the static levels and instead polls the ready
// set after every completion, dispatching whatever the frontier offers
// up to maxParallel in-flight nodes. Higher-priority ready nodes are
// dispatched first.
func (r *Runner) ExecuteDynamic(ctx context.Context, result *models.DecompositionResult, maxParallel int, data map[string]any) error {
	if result == nil || result.Graph == nil {
		return fmt.Errorf("nil decomposition result")
	}
	if maxParallel < 1 {
		maxParallel = 1
	}
	graph := result.Graph

	log.Printf("Runner %s executing plan %s dynamically (max %d in flight)",
		r.id, result.ID, maxParallel)
	r.publishRunEvent(ctx, result.ID, models.RunStarted)

	// Worker goroutines never touch the graph: they report outcomes
	// here and this loop stays the only writer of node status, so
	// polling the ready set between dispatches is race-free.
	type outcome struct {
		nodeID string
		value  any
		err    error
	}

	completions := make(chan outcome, len(graph.Nodes))
	inFlight := 0

	apply := func(o outcome) {
		node := graph.Node(o.nodeID)
		if o.err != nil {
			r.failNode(ctx, result.ID, graph, node, o.err)
			return
		}
		engine.UpdateStatus(graph, node.ID, models.TaskStatusCompleted, o.value, nil)
		r.publishNodeEvent(ctx, result.ID, node.ID, models.TaskStatusCompleted, nil)
	}

	drain := func() {
		for inFlight > 0 {
			apply(<-completions)
			inFlight--
		}
	}

	for {
		r.failBlockedNodes(ctx, result.ID, graph)

		for _, node := range engine.ReadyNodes(graph) {
			if inFlight >= maxParallel {
				// Cap reached; the rest of the frontier waits
				break
			}
			engine.UpdateStatus(graph, node.ID, models.TaskStatusRunning, nil, nil)
			r.publishNodeEvent(ctx, result.ID, node.ID, models.TaskStatusRunning, nil)
			inFlight++
			go func(id, name string) {
				value, err := r.execute(ctx, name, data)
				completions <- outcome{nodeID: id, value: value, err: err}
			}(node.ID, node.Name)
		}

		if inFlight == 0 {
			break
		}

		select {
		case <-ctx.Done():
			drain()
			r.abort(ctx, result, ctx.Err())
			return ctx.Err()
		case o := <-completions:
			apply(o)
			inFlight--
		}
	}

	r.finishRun(ctx, result)
	return nil
}

// execute resolves and runs a task function by name
func (r *Runner) execute(ctx context.Context, name string, data map[string]any) (any, error) {
	fn, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return fn(ctx, data)
}

// runNode executes a single node's payload and records the outcome.
// It is the only writer for that node's status.
func (r *Runner) runNode(ctx context.Context, runID string, graph *models.TaskGraph, node *models.TaskNode, data map[string]any) {
	engine.UpdateStatus(graph, node.ID, models.TaskStatusRunning, nil, nil)
	r.publishNodeEvent(ctx, runID, node.ID, models.TaskStatusRunning, nil)

	start := time.Now()
	value, err := r.execute(ctx, node.Name, data)
	if err != nil {
		r.failNode(ctx, runID, graph, node, err)
		return
	}

	engine.UpdateStatus(graph, node.ID, models.TaskStatusCompleted, value, nil)
	r.publishNodeEvent(ctx, runID, node.ID, models.TaskStatusCompleted, nil)
	log.Printf("Task %s completed in %v", node.ID, time.Since(start))
}

func (r *Runner) failNode(ctx context.Context, runID string, graph *models.TaskGraph, node *models.TaskNode, cause error) {
	engine.UpdateStatus(graph, node.ID, models.TaskStatusFailed, nil, cause)
	r.publishNodeEvent(ctx, runID, node.ID, models.TaskStatusFailed, cause)
	log.Printf("Task %s failed: %v", node.ID, cause)
}

// abort marks everything still pending as failed so no node is left
// dangling after cancellation.
func (r *Runner) abort(ctx context.Context, result *models.DecompositionResult, cause error) {
	for _, id := range result.Graph.Order {
		node := result.Graph.Nodes[id]
		if node.Status == models.TaskStatusPending {
			r.failNode(ctx, result.ID, result.Graph, node, fmt.Errorf("run aborted: %w", cause))
		}
	}
	r.publishRunEvent(ctx, result.ID, models.RunFailed)
}

func (r *Runner) finishRun(ctx context.Context, result *models.DecompositionResult) {
	event := models.RunCompleted
	for _, node := range result.Graph.Nodes {
		if node.Status == models.TaskStatusFailed {
			event = models.RunFailed
			break
		}
	}
	r.publishRunEvent(ctx, result.ID, event)
	log.Printf("Run %s finished: %s", result.ID, event)
}

// firstIncompleteDependency returns the id of a dependency that is not
// COMPLETED, or "" when all dependencies completed.
func firstIncompleteDependency(graph *models.TaskGraph, node *models.TaskNode) string {
	for _, dep := range node.Dependencies {
		depNode := graph.Nodes[dep]
		if depNode == nil || depNode.Status != models.TaskStatusCompleted {
			return dep
		}
	}
	return ""
}

// failBlockedNodes fails, to a fixpoint, every pending node with a
// failed dependency; such nodes can never become ready.
func (r *Runner) failBlockedNodes(ctx context.Context, runID string, graph *models.TaskGraph) {
	for {
		progressed := false
		for _, id := range graph.Order {
			node := graph.Nodes[id]
			if node.Status != models.TaskStatusPending {
				continue
			}
			for _, dep := range node.Dependencies {
				depNode := graph.Nodes[dep]
				if depNode != nil && depNode.Status == models.TaskStatusFailed {
					r.failNode(ctx, runID, graph, node,
						fmt.Errorf("dependency %q did not complete", dep))
					progressed = true
					break
				}
			}
		}
		if !progressed {
			return
		}
	}
}

func (r *Runner) publishRunEvent(ctx context.Context, runID string, event models.RunEventType) {
	r.publish(ctx, &models.StatusMessage{
		Type:      "run",
		ID:        runID,
		Status:    string(event),
		Timestamp: time.Now(),
	})
}

func (r *Runner) publishNodeEvent(ctx context.Context, runID, nodeID string, status models.TaskStatus, cause error) {
	meta := models.NodeStatusEvent{
		RunID:  runID,
		NodeID: nodeID,
		Status: status,
	}
	if cause != nil {
		meta.Error = cause.Error()
	}
	r.publish(ctx, &models.StatusMessage{
		Type:      "task",
		ID:        nodeID,
		Status:    string(status),
		Timestamp: time.Now(),
		Metadata:  meta,
	})
}

func (r *Runner) publish(ctx context.Context, msg *models.StatusMessage) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishStatus(ctx, msg); err != nil {
		log.Printf("Warning: failed to publish status for %s: %v", msg.ID, err)
	}
}
