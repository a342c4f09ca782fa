package tool

import (
	"context"

	"github.com/hupe1980/confcierge/logging"
)

// Context is the constrained surface handed to tool implementations for one
// invocation. It carries the Go context, the owning conversation/session id
// (injected by the executor, never supplied by the model), the function call
// id for correlation, and a logger.
type Context struct {
	ctx        context.Context
	sessionID  string
	toolCallID string
	logger     logging.Logger
}

// NewContext constructs a tool invocation context. A nil logger is replaced
// with a NoOpLogger.
func NewContext(ctx context.Context, sessionID, toolCallID string, logger logging.Logger) *Context {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Context{ctx: ctx, sessionID: sessionID, toolCallID: toolCallID, logger: logger}
}

// Context returns the Go context associated with the invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// SessionID returns the conversation/session id associated with the invocation.
func (tc *Context) SessionID() string { return tc.sessionID }

// ToolCallID returns the function call id associated with the invocation.
func (tc *Context) ToolCallID() string { return tc.toolCallID }

// Logger returns the logger associated with the invocation.
func (tc *Context) Logger() logging.Logger { return tc.logger }
