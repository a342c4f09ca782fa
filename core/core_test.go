package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Task Tests --------------------

func TestTaskLifecycle(t *testing.T) {
	task := NewTask(0, "find RAG talks")
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.False(t, task.Terminal())

	require.NoError(t, task.Start())
	assert.Equal(t, TaskStatusInProgress, task.Status)

	require.NoError(t, task.Complete("three talks found"))
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Equal(t, "three talks found", task.Result)
	assert.True(t, task.Terminal())
}

func TestTaskInvalidTransitions(t *testing.T) {
	task := NewTask(1, "x")

	// Not started yet
	assert.Error(t, task.Complete("r"))
	assert.Error(t, task.Fail())

	require.NoError(t, task.Start())
	assert.Error(t, task.Start())

	require.NoError(t, task.Fail())
	assert.True(t, task.Terminal())
	assert.Empty(t, task.Result)

	// Terminal tasks are never revisited
	assert.Error(t, task.Start())
	assert.Error(t, task.Complete("r"))
}

func TestTaskClone(t *testing.T) {
	task := NewTask(2, "y")
	task.AppendHistory(UserMessage("context"))

	clone := task.Clone()
	clone.ExecutionHistory[0].Content = "mutated"

	assert.Equal(t, "context", task.ExecutionHistory[0].Content)
}

// -------------------- AgentState Tests --------------------

func TestAgentStateTaskFilters(t *testing.T) {
	state := NewAgentState("conv-1")
	state.Plan = []*Task{NewTask(0, "a"), NewTask(1, "b"), NewTask(2, "c")}

	require.NoError(t, state.Plan[0].Start())
	require.NoError(t, state.Plan[0].Complete("done"))
	require.NoError(t, state.Plan[1].Start())
	require.NoError(t, state.Plan[1].Fail())

	assert.Len(t, state.PendingTasks(), 1)
	assert.Equal(t, 2, state.PendingTasks()[0].ID)
	assert.Len(t, state.CompletedTasks(), 1)
	assert.Len(t, state.FailedTasks(), 1)
}

func TestAgentStateClone(t *testing.T) {
	state := NewAgentState("conv-2")
	state.AppendUser("hi")
	state.NecessaryDetailsRequired = []string{"conference"}
	state.Plan = []*Task{NewTask(0, "a")}

	clone := state.Clone()
	clone.InteractionHistory[0].Content = "mutated"
	clone.NecessaryDetailsRequired[0] = "mutated"
	require.NoError(t, clone.Plan[0].Start())

	assert.Equal(t, "hi", state.InteractionHistory[0].Content)
	assert.Equal(t, "conference", state.NecessaryDetailsRequired[0])
	assert.Equal(t, TaskStatusPending, state.Plan[0].Status)
}

func TestAgentStateAppendHelpers(t *testing.T) {
	state := NewAgentState("conv-3")
	state.AppendUser("hello")
	state.AppendAssistant("hi there")

	require.Len(t, state.InteractionHistory, 2)
	assert.Equal(t, RoleUser, state.InteractionHistory[0].Role)
	assert.Equal(t, RoleAssistant, state.InteractionHistory[1].Role)
}
