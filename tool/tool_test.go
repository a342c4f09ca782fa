package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	ft := NewFunctionTool("echo", "Echoes the input", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}, func(toolCtx *Context, args map[string]any) (string, error) {
		return args["text"].(string), nil
	})

	toolCtx := NewContext(context.Background(), "sess-1", "call-1", nil)
	result, err := ft.Call(toolCtx, map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	ft := NewFunctionTool("echo", "Echoes the input", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}, func(toolCtx *Context, args map[string]any) (string, error) {
		return "", nil
	})

	toolCtx := NewContext(context.Background(), "sess-1", "call-1", nil)
	_, err := ft.Call(toolCtx, map[string]any{})
	require.Error(t, err)

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	ft := NewFunctionTool("boom", "Always fails", map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}, func(toolCtx *Context, args map[string]any) (string, error) {
		return "", errors.New("backend unavailable")
	})

	toolCtx := NewContext(context.Background(), "sess-1", "call-1", nil)
	_, err := ft.Call(toolCtx, map[string]any{})
	require.Error(t, err)

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Tool)
}

// -------------------- Context Tests --------------------

func TestContextAccessors(t *testing.T) {
	toolCtx := NewContext(context.Background(), "sess-7", "call-9", nil)
	assert.Equal(t, "sess-7", toolCtx.SessionID())
	assert.Equal(t, "call-9", toolCtx.ToolCallID())
	assert.NotNil(t, toolCtx.Logger())
	assert.NotNil(t, toolCtx.Context())
}

// -------------------- Registry Tests --------------------

func newNoopTool(name string) *FunctionTool {
	return NewFunctionTool(name, "noop", map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}, func(toolCtx *Context, args map[string]any) (string, error) {
		return "", nil
	})
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(newNoopTool("b"), newNoopTool("a"))
	require.NoError(t, err)

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)

	// Names and definitions are sorted for deterministic prompts
	assert.Equal(t, []string{"a", "b"}, r.Names())
	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "a", defs[0].Name)
	assert.Equal(t, "b", defs[1].Name)
}

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(newNoopTool("dup"), newNoopTool("dup"))
	assert.Error(t, err)
}

func TestRegistry_NilTool(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Error(t, r.Register(nil))
}
