package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hupe1980/confcierge/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (minimal subset).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ResponseSchema requests structured output: the model must answer with a
// single JSON object conforming to Schema.
type ResponseSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// Request captures the normalized model input.
type Request struct {
	Instructions   string           `json:"instructions"`
	Messages       []core.Message   `json:"messages"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	ResponseSchema *ResponseSchema  `json:"response_schema,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed assistant turn. Refusal is set when the provider
// declined a structured-output request; callers treat it per their own error
// taxonomy.
type Response struct {
	Content      string          `json:"content"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	Refusal      string          `json:"refusal,omitempty"`
	FinishReason string          `json:"finish_reason"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Decode unmarshals a structured-output response into out. A refusal or an
// unparsable body is an error; the caller decides whether that is fatal.
func (r *Response) Decode(out any) error {
	if r.Refusal != "" {
		return fmt.Errorf("model refused structured output: %s", r.Refusal)
	}
	if err := json.Unmarshal([]byte(r.Content), out); err != nil {
		return fmt.Errorf("parse structured output: %w", err)
	}
	return nil
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal synchronous interface required to drive the agents.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// Embedder generates vector embeddings from text. Documents are embedded in
// bulk during indexing; queries one at a time.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// MockModel is a scripted in-memory Model for tests. Responses are consumed
// in FIFO order; once the script is exhausted a canned text response is
// returned. All received requests are recorded for assertions.
type MockModel struct {
	mu       sync.Mutex
	script   []mockStep
	requests []Request
	info     Info
}

type mockStep struct {
	resp *Response
	err  error
}

// NewMockModel constructs an empty MockModel with tool support enabled.
func NewMockModel() *MockModel {
	return &MockModel{info: Info{Name: "mock", Provider: "mock", SupportsTools: true}}
}

// Enqueue appends a scripted response.
func (m *MockModel) Enqueue(resp *Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockStep{resp: resp})
	return m
}

// EnqueueText appends a scripted plain-text assistant response.
func (m *MockModel) EnqueueText(content string) *MockModel {
	return m.Enqueue(&Response{Content: content, FinishReason: "stop"})
}

// EnqueueToolCalls appends a scripted response containing tool calls.
func (m *MockModel) EnqueueToolCalls(calls ...core.ToolCall) *MockModel {
	return m.Enqueue(&Response{ToolCalls: calls, FinishReason: "tool_calls"})
}

// EnqueueJSON marshals v and appends it as a structured-output response.
func (m *MockModel) EnqueueJSON(v any) *MockModel {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return m.Enqueue(&Response{Content: string(b), FinishReason: "stop"})
}

// EnqueueError appends a scripted transport error.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockStep{err: err})
	return m
}

// Requests returns a copy of all requests seen so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		var last string
		if n := len(req.Messages); n > 0 {
			last = req.Messages[n-1].Content
		}
		return &Response{Content: fmt.Sprintf("Mock response to: %s", last), FinishReason: "stop"}, nil
	}
	step := m.script[0]
	m.script = m.script[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.resp, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
