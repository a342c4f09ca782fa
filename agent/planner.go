package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/model"
)

var planSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"plan_description": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "A list of tasks to be executed to build a personal conference schedule.",
		},
	},
	"required":             []string{"plan_description"},
	"additionalProperties": false,
}

// PlanningAgent turns the intake summary into an ordered list of task
// descriptions. The orchestrator materializes the actual tasks from it.
type PlanningAgent struct {
	baseAgent
}

// NewPlanningAgent constructs a PlanningAgent over the given model.
func NewPlanningAgent(m model.Model, optFns ...func(o *Options)) *PlanningAgent {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &PlanningAgent{baseAgent: newBaseAgent("PlanningAgent", m, opts.Logger)}
}

// Run generates the plan from state.QueryToPlan and stores it in
// state.PlanDescription. Model failures and unparsable output are fatal for
// the turn.
func (a *PlanningAgent) Run(ctx context.Context, state *core.AgentState) error {
	a.logger.Info("planner.run", "query_to_plan_len", len(state.QueryToPlan))

	resp, err := a.model.Generate(ctx, model.Request{
		Instructions:   plannerInstructions,
		Messages:       []core.Message{core.UserMessage(state.QueryToPlan)},
		ResponseSchema: &model.ResponseSchema{Name: "plan_description", Schema: planSchema},
	})
	if err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	var parsed struct {
		PlanDescription []string `json:"plan_description"`
	}
	if err := resp.Decode(&parsed); err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	state.PlanDescription = parsed.PlanDescription
	a.logger.Info("planner.done", "tasks", len(state.PlanDescription))
	return nil
}
