package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/confcierge/retrieval"
)

type staticEmbedder struct{}

func (staticEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, float32(i + 1), 1}
	}
	return out, nil
}

func (staticEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 1, 1}, nil
}

type keepAllReranker struct{}

func (keepAllReranker) Rerank(_ context.Context, _ string, candidates []retrieval.Candidate) ([]retrieval.RankedEntry, error) {
	entries := make([]retrieval.RankedEntry, len(candidates))
	for i := range candidates {
		entries[i] = retrieval.RankedEntry{Index: i, Score: 10}
	}
	return entries, nil
}

func newTestEngine(t *testing.T) *retrieval.Engine {
	t.Helper()
	e, err := retrieval.NewEngine(staticEmbedder{}, keepAllReranker{})
	require.NoError(t, err)
	return e
}

func TestScheduleSearch_NoSession(t *testing.T) {
	st := NewScheduleSearch(newTestEngine(t))
	toolCtx := NewContext(context.Background(), "", "call-1", nil)

	out, err := st.Call(toolCtx, map[string]any{"query": "RAG"})
	require.NoError(t, err)
	assert.Contains(t, out, "No session context")
}

func TestScheduleSearch_NoIndex(t *testing.T) {
	st := NewScheduleSearch(newTestEngine(t))
	toolCtx := NewContext(context.Background(), "sess-1", "call-1", nil)

	out, err := st.Call(toolCtx, map[string]any{"query": "RAG"})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StatusNoIndex, out)
}

func TestScheduleSearch_FindsIndexedTalks(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Index(context.Background(), "sess-1", []byte(
		`{"days": [{"date": "2025-04-23", "rooms": {"Main": [{"guid": "t-1", "title": "RAG in Production", "track": "MLOps", "start": "09:00"}]}}]}`,
	))
	require.NoError(t, err)

	st := NewScheduleSearch(engine)
	toolCtx := NewContext(context.Background(), "sess-1", "call-1", nil)

	out, err := st.Call(toolCtx, map[string]any{"query": "RAG"})
	require.NoError(t, err)
	assert.Contains(t, out, "RAG in Production")
}

func TestScheduleOverview(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Index(context.Background(), "sess-1", []byte(
		`{"days": [{"date": "2025-04-23", "rooms": {"Main": [{"guid": "t-1", "title": "Keynote", "track": "General", "start": "09:00"}]}}]}`,
	))
	require.NoError(t, err)

	ov := NewScheduleOverview(engine)

	out, err := ov.Call(NewContext(context.Background(), "sess-1", "call-1", nil), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "## 2025-04-23")
	assert.Contains(t, out, "Keynote")

	out, err = ov.Call(NewContext(context.Background(), "other", "call-2", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, retrieval.StatusNoOverview, out)
}
