// Package tool implements the function-calling subsystem: the Tool contract,
// a validated name-keyed Registry used by the executor for dispatch, a
// generic FunctionTool adapter with schema-validated arguments, and the
// concrete web/places/schedule search tools.
package tool

import (
	"fmt"

	"github.com/hupe1980/confcierge/internal/util"
)

// Tool defines a callable capability exposed to the executor's model.
//
// Implementations should provide clear snake_case names and descriptions (the
// description is what the model sees), declare a minimal JSON schema for
// their arguments, and return their result as a plain string.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description shown to the model.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with parsed arguments. The Context carries the
	// conversation/session id for session-scoped tools.
	Call(toolCtx *Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error represents a failure during tool execution.
type Error struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates an Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
