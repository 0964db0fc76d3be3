package types

import "fmt"

// ErrorKind classifies tool failures into the two kinds callers care about:
// bad input (safe to retry after correcting arguments, never retried
// automatically) and execution failure (the underlying operation broke).
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "VALIDATION"
	ErrorKindExecution  ErrorKind = "EXECUTION"
)

// ToolError is the structured error surfaced by every tool invocation.
// It always carries the tool identity and the failing operation.
type ToolError struct {
	Kind    ErrorKind `json:"kind"`
	Tool    string    `json:"tool"`
	Op      string    `json:"op"`
	Param   string    `json:"param,omitempty"` // offending parameter, validation errors only
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s.%s: %s: %v", e.Kind, e.Tool, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s.%s: %s", e.Kind, e.Tool, e.Op, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error for the given tool.
func NewValidationError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrorKindValidation, Tool: tool, Op: "validate", Message: message}
}

// NewExecutionError creates an execution error for the given tool.
func NewExecutionError(tool, message string) *ToolError {
	return &ToolError{Kind: ErrorKindExecution, Tool: tool, Op: "execute", Message: message}
}

// WithParam records the offending parameter name.
func (e *ToolError) WithParam(param string) *ToolError {
	e.Param = param
	return e
}

// WithOp overrides the operation name.
func (e *ToolError) WithOp(op string) *ToolError {
	e.Op = op
	return e
}

// WithCause attaches the original error.
func (e *ToolError) WithCause(cause error) *ToolError {
	e.Cause = cause
	return e
}

// IsValidation reports whether err is a validation-kind ToolError.
func IsValidation(err error) bool {
	e, ok := err.(*ToolError)
	return ok && e.Kind == ErrorKindValidation
}

// IsExecution reports whether err is an execution-kind ToolError.
func IsExecution(err error) bool {
	e, ok := err.(*ToolError)
	return ok && e.Kind == ErrorKindExecution
}
