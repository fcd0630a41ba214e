// internal/engine/errors.go
package engine

import "fmt"

// ValidationCode classifies engine validation failures
type ValidationCode string

const (
	CodeDependencyNotFound   ValidationCode = "DEPENDENCY_NOT_FOUND"
	CodeCircularDependency   ValidationCode = "CIRCULAR_DEPENDENCY"
	CodeMaxDepthExceeded     ValidationCode = "MAX_DEPTH_EXCEEDED"
	CodeDuplicateTaskID      ValidationCode = "DUPLICATE_TASK_ID"
	CodeMergeCombinerMissing ValidationCode = "MERGE_COMBINER_MISSING"
)

// ValidationError is returned for any structural problem with a
// decomposition request. No partial plan accompanies one of these.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
