package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/model"
)

func TestIntakeAgent_Clarify(t *testing.T) {
	mock := model.NewMockModel().EnqueueJSON(map[string]any{
		"action":                     "clarify",
		"necessary_details_required": []string{"conference name", "interests"},
		"optional_details":           []string{"exact dates"},
		"user_message":               "Which conference would you like to attend?",
	})
	a := NewIntakeAgent(mock)

	state := core.NewAgentState("conv-1")
	state.AppendUser("hi")

	require.NoError(t, a.Run(context.Background(), state))
	assert.Equal(t, []string{"conference name", "interests"}, state.NecessaryDetailsRequired)
	assert.Equal(t, []string{"exact dates"}, state.OptionalDetails)
	assert.Empty(t, state.QueryToPlan)

	require.Len(t, state.InteractionHistory, 2)
	last := state.InteractionHistory[1]
	assert.Equal(t, core.RoleAssistant, last.Role)
	assert.Equal(t, "Which conference would you like to attend?", last.Content)
}

func TestIntakeAgent_ClarifyDefaultsAndMergedKeys(t *testing.T) {
	// An empty necessary list still marks the turn as unresolved, and the
	// optional list is accepted under either key.
	mock := model.NewMockModel().EnqueueJSON(map[string]any{
		"action":                    "clarify",
		"optional_details":          []string{"food preferences"},
		"optional_details_required": []string{"accommodation"},
	})
	a := NewIntakeAgent(mock)

	state := core.NewAgentState("conv-1")
	state.AppendUser("hi")

	require.NoError(t, a.Run(context.Background(), state))
	assert.Equal(t, []string{"need_more"}, state.NecessaryDetailsRequired)
	assert.Equal(t, []string{"food preferences", "accommodation"}, state.OptionalDetails)
	// No user_message, so nothing was appended
	assert.Len(t, state.InteractionHistory, 1)
}

func TestIntakeAgent_Plan(t *testing.T) {
	mock := model.NewMockModel().EnqueueJSON(map[string]any{
		"action":  "plan",
		"summary": "PyConDE 2025 in Darmstadt, interested in RAG talks.",
	})
	a := NewIntakeAgent(mock)

	state := core.NewAgentState("conv-1")
	state.NecessaryDetailsRequired = []string{"conference name"}
	state.OptionalDetails = []string{"dates"}
	state.AppendUser("PyConDE 2025 in Darmstadt, RAG topics")

	require.NoError(t, a.Run(context.Background(), state))
	assert.Equal(t, "PyConDE 2025 in Darmstadt, interested in RAG talks.", state.QueryToPlan)
	assert.Empty(t, state.NecessaryDetailsRequired)
	assert.Empty(t, state.OptionalDetails)
	assert.Len(t, state.InteractionHistory, 1)
}

func TestIntakeAgent_Fatal(t *testing.T) {
	a := NewIntakeAgent(model.NewMockModel().EnqueueError(errors.New("rate limited")))
	state := core.NewAgentState("conv-1")
	state.AppendUser("hi")
	assert.Error(t, a.Run(context.Background(), state))

	a = NewIntakeAgent(model.NewMockModel().EnqueueText("not json"))
	state = core.NewAgentState("conv-1")
	state.AppendUser("hi")
	assert.Error(t, a.Run(context.Background(), state))

	a = NewIntakeAgent(model.NewMockModel().Enqueue(&model.Response{Refusal: "declined"}))
	state = core.NewAgentState("conv-1")
	state.AppendUser("hi")
	assert.Error(t, a.Run(context.Background(), state))
}
