// internal/worker/task_functions.go
package worker

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Built-in task functions. Real deployments register their own; these
// exist so the server can execute plans out of the box and so the
// runner has something to exercise in development.

// Noop completes immediately and echoes the node's input data
func Noop(ctx context.Context, data map[string]any) (any, error) {
	return data, nil
}

// Sleep pauses for data["sleepMs"] milliseconds (default 100) and
// returns how long it slept. Useful for exercising level barriers.
func Sleep(ctx context.Context, data map[string]any) (any, error) {
	ms := 100
	if v, ok := data["sleepMs"].(float64); ok {
		ms = int(v)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Duration(ms) * time.Millisecond):
	}
	return fmt.Sprintf("slept %dms", ms), nil
}

// Echo logs and returns data["message"]
func Echo(ctx context.Context, data map[string]any) (any, error) {
	msg, _ := data["message"].(string)
	log.Printf("echo task: %s", msg)
	return msg, nil
}

// RegisterBuiltins registers the built-in functions on a registry
func RegisterBuiltins(registry *Registry) error {
	builtins := map[string]TaskFunction{
		"noop":  Noop,
		"sleep": Sleep,
		"echo":  Echo,
	}
	for name, fn := range builtins {
		if err := registry.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}
