package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/confcierge/core"
)

func TestLogAppend_SnapshotsAreIsolated(t *testing.T) {
	l := NewLog("conv-1")
	state := core.NewAgentState("conv-1")
	state.AppendUser("hi")

	cp, err := l.Append(state, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cp.StepIndex)

	// Later mutations must not leak into the snapshot
	state.AppendAssistant("hello")
	state.InteractionHistory[0].Content = "mutated"

	entries := l.Entries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].State.InteractionHistory, 1)
	assert.Equal(t, "hi", entries[0].State.InteractionHistory[0].Content)
}

func TestLogStepIndexes(t *testing.T) {
	l := NewLog("conv-1")
	state := core.NewAgentState("conv-1")

	for i := 0; i < 3; i++ {
		cp, err := l.Append(state, "ExecutorAgent", map[string]any{"event": "after_execution"})
		require.NoError(t, err)
		assert.Equal(t, i, cp.StepIndex)
	}
	assert.Equal(t, 3, l.Len())
}

func TestLogStateAt(t *testing.T) {
	l := NewLog("conv-1")
	state := core.NewAgentState("conv-1")

	state.AppendUser("first")
	_, err := l.Append(state, "", nil)
	require.NoError(t, err)

	state.AppendAssistant("second")
	_, err = l.Append(state, "IntakeAgent", nil)
	require.NoError(t, err)

	at := l.StateAt(0)
	require.NotNil(t, at)
	assert.Len(t, at.InteractionHistory, 1)

	assert.Nil(t, l.StateAt(42))
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	l := NewLog("conv-1", func(o *Options) {
		o.Sink = NewFileSink(dir)
	})

	state := core.NewAgentState("conv-1")
	state.AppendUser("hi")
	_, err := l.Append(state, "", nil)
	require.NoError(t, err)
	_, err = l.Append(state, "IntakeAgent", map[string]any{"event": "after_intake"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "conv-1", "checkpoints.json"))
	require.NoError(t, err)

	var entries []Checkpoint
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "IntakeAgent", entries[1].AgentName)
	assert.Equal(t, "after_intake", entries[1].Metadata["event"])
}
