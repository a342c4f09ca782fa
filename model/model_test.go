package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/confcierge/core"
)

func TestResponseDecode(t *testing.T) {
	resp := &Response{Content: `{"answer": 42}`}
	var parsed struct {
		Answer int `json:"answer"`
	}
	require.NoError(t, resp.Decode(&parsed))
	assert.Equal(t, 42, parsed.Answer)
}

func TestResponseDecode_RefusalAndBadJSON(t *testing.T) {
	resp := &Response{Refusal: "cannot comply"}
	err := resp.Decode(&struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot comply")

	resp = &Response{Content: "{broken"}
	assert.Error(t, resp.Decode(&struct{}{}))
}

func TestMockModel_Script(t *testing.T) {
	mock := NewMockModel().
		EnqueueText("first").
		EnqueueToolCalls(core.ToolCall{ID: "c1", Name: "echo", Arguments: `{}`}).
		EnqueueError(errors.New("boom"))

	resp, err := mock.Generate(context.Background(), Request{Messages: []core.Message{core.UserMessage("a")}})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	resp, err = mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "echo", resp.ToolCalls[0].Name)

	_, err = mock.Generate(context.Background(), Request{})
	assert.Error(t, err)

	// Exhausted script falls back to a canned echo of the last message
	resp, err = mock.Generate(context.Background(), Request{Messages: []core.Message{core.UserMessage("ping")}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: ping", resp.Content)

	assert.Len(t, mock.Requests(), 4)
}
