package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/model"
)

// Intake actions.
const (
	actionClarify = "clarify"
	actionPlan    = "plan"
)

// intakeDecision is the structured output of the intake agent. Some providers
// have emitted the optional-details list under either key; both are accepted
// and merged.
type intakeDecision struct {
	Action                   string   `json:"action"`
	NecessaryDetailsRequired []string `json:"necessary_details_required"`
	OptionalDetails          []string `json:"optional_details"`
	OptionalDetailsRequired  []string `json:"optional_details_required"`
	UserMessage              string   `json:"user_message"`
	Summary                  string   `json:"summary"`
}

var intakeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"action": map[string]any{
			"type":        "string",
			"enum":        []string{actionClarify, actionPlan},
			"description": "Either 'clarify' (need more from user) or 'plan' (ready to plan).",
		},
		"necessary_details_required": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "When action is 'clarify', list of necessary details still missing.",
		},
		"optional_details": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "When action is 'clarify', list of optional details that are not necessary but can be helpful for the planning agent to build a personal schedule.",
		},
		"user_message": map[string]any{
			"type":        "string",
			"description": "When action is 'clarify', the friendly message to show the user.",
		},
		"summary": map[string]any{
			"type":        "string",
			"description": "When action is 'plan', the concise summary for the planning agent.",
		},
	},
	"required":             []string{"action", "necessary_details_required", "optional_details", "user_message", "summary"},
	"additionalProperties": false,
}

// IntakeAgent inspects the conversation and either asks the user for missing
// necessary details or hands a planning summary to the planner.
type IntakeAgent struct {
	baseAgent
}

// NewIntakeAgent constructs an IntakeAgent over the given model.
func NewIntakeAgent(m model.Model, optFns ...func(o *Options)) *IntakeAgent {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &IntakeAgent{baseAgent: newBaseAgent("IntakeAgent", m, opts.Logger)}
}

// Run classifies the conversation. On clarify it records the missing details
// and appends the clarification question to the interaction history; on plan
// it clears them and sets QueryToPlan. Model failures and unparsable output
// are fatal for the turn.
func (a *IntakeAgent) Run(ctx context.Context, state *core.AgentState) error {
	a.logger.Info("intake.run", "history_len", len(state.InteractionHistory))

	resp, err := a.model.Generate(ctx, model.Request{
		Instructions:   intakeInstructions,
		Messages:       state.InteractionHistory,
		ResponseSchema: &model.ResponseSchema{Name: "intake_decision", Schema: intakeSchema},
	})
	if err != nil {
		return fmt.Errorf("intake: %w", err)
	}

	var decision intakeDecision
	if err := resp.Decode(&decision); err != nil {
		return fmt.Errorf("intake: %w", err)
	}

	if decision.Action == actionClarify {
		state.NecessaryDetailsRequired = decision.NecessaryDetailsRequired
		if len(state.NecessaryDetailsRequired) == 0 {
			state.NecessaryDetailsRequired = []string{"need_more"}
		}
		state.OptionalDetails = append(decision.OptionalDetails, decision.OptionalDetailsRequired...)
		if decision.UserMessage != "" {
			state.AppendAssistant(decision.UserMessage)
		}
		a.logger.Info("intake.clarify",
			"necessary_details_required", state.NecessaryDetailsRequired,
			"optional_details", state.OptionalDetails,
		)
		return nil
	}

	state.NecessaryDetailsRequired = nil
	state.OptionalDetails = nil
	state.QueryToPlan = decision.Summary
	a.logger.Info("intake.plan", "query_to_plan_len", len(state.QueryToPlan))
	return nil
}
