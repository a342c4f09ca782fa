package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/confcierge/core"
)

func TestSnapshotAndRestorePlan(t *testing.T) {
	task := core.NewTask(0, "find talks")
	require.NoError(t, task.Start())
	require.NoError(t, task.Complete("three talks"))
	task.AppendHistory(core.UserMessage("internal context"))

	entries := SnapshotPlan([]*core.Task{task})
	require.Len(t, entries, 1)
	assert.Equal(t, "three talks", entries[0].Result)
	assert.Equal(t, core.TaskStatusCompleted, entries[0].Status)

	restored := RestorePlan(entries)
	require.Len(t, restored, 1)
	assert.Equal(t, "find talks", restored[0].Description)
	// Execution histories are deliberately not persisted
	assert.Empty(t, restored[0].ExecutionHistory)
}

func TestInMemoryStore(t *testing.T) {
	s := NewInMemoryStore()

	history, err := s.LoadHistory("unknown")
	require.NoError(t, err)
	assert.Empty(t, history)

	saved := []core.Message{core.UserMessage("hi"), core.AssistantMessage("hello")}
	require.NoError(t, s.SaveHistory("conv-1", saved))

	loaded, err := s.LoadHistory("conv-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Stored history is isolated from caller mutations
	loaded[0].Content = "mutated"
	again, err := s.LoadHistory("conv-1")
	require.NoError(t, err)
	assert.Equal(t, "hi", again[0].Content)
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	history, err := s.LoadHistory("conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.SaveHistory("conv-1", []core.Message{core.UserMessage("hi")}))
	require.NoError(t, s.SavePlan("conv-1", []PlanEntry{
		{ID: 0, Description: "a", Status: core.TaskStatusCompleted, Result: "r"},
	}))

	// One directory per conversation with flat JSON files
	assert.FileExists(t, filepath.Join(dir, "conv-1", "history.json"))
	assert.FileExists(t, filepath.Join(dir, "conv-1", "plan.json"))

	loadedHistory, err := s.LoadHistory("conv-1")
	require.NoError(t, err)
	require.Len(t, loadedHistory, 1)
	assert.Equal(t, "hi", loadedHistory[0].Content)

	loadedPlan, err := s.LoadPlan("conv-1")
	require.NoError(t, err)
	require.Len(t, loadedPlan, 1)
	assert.Equal(t, core.TaskStatusCompleted, loadedPlan[0].Status)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conv-1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conv-1", "history.json"), []byte("{broken"), 0o644))

	_, err := s.LoadHistory("conv-1")
	assert.Error(t, err)
}
