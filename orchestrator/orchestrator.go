// Package orchestrator sequences one conversation turn through guardrails,
// intake, planning and task execution, checkpointing the state after every
// mutation and persisting history and plan between turns.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/hupe1980/confcierge/agent"
	"github.com/hupe1980/confcierge/checkpoint"
	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/guardrail"
	"github.com/hupe1980/confcierge/logging"
	"github.com/hupe1980/confcierge/model"
	"github.com/hupe1980/confcierge/session"
	"github.com/hupe1980/confcierge/tool"
)

// progressBufferSize bounds the progress channel. Updates beyond a slow
// consumer's capacity are dropped, never blocked on.
const progressBufferSize = 64

// ProgressUpdate is a streamed status event for UIs. Plan, when set, is a
// snapshot of the task list at the time of the event.
type ProgressUpdate struct {
	Message string              `json:"message,omitempty"`
	Plan    []session.PlanEntry `json:"plan,omitempty"`
}

// Options configure an Orchestrator. Any model left nil falls back to the
// default model passed to New.
type Options struct {
	IntakeModel    model.Model
	PlannerModel   model.Model
	ExecutorModel  model.Model
	Guardrail      guardrail.Guardrail
	Store          session.Store
	CheckpointSink checkpoint.Sink
	Logger         logging.Logger
}

// Orchestrator owns the live AgentState of one conversation and runs it one
// user turn at a time. It is not safe for concurrent RunStep calls.
type Orchestrator struct {
	conversationID string
	state          *core.AgentState
	intake         *agent.IntakeAgent
	planner        *agent.PlanningAgent
	executor       *agent.ExecutorAgent
	guard          guardrail.Guardrail
	checkpoints    *checkpoint.Log
	store          session.Store
	logger         logging.Logger
	progress       chan ProgressUpdate
}

// New creates an orchestrator for a conversation, rehydrating interaction
// history and plan from the session store.
func New(conversationID string, m model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Guardrail: guardrail.AllowAll{},
		Store:     session.NewInMemoryStore(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.IntakeModel == nil {
		opts.IntakeModel = m
	}
	if opts.PlannerModel == nil {
		opts.PlannerModel = m
	}
	if opts.ExecutorModel == nil {
		opts.ExecutorModel = m
	}

	o := &Orchestrator{
		conversationID: conversationID,
		state:          core.NewAgentState(conversationID),
		intake:         agent.NewIntakeAgent(opts.IntakeModel, func(ao *agent.Options) { ao.Logger = opts.Logger }),
		planner:        agent.NewPlanningAgent(opts.PlannerModel, func(ao *agent.Options) { ao.Logger = opts.Logger }),
		executor:       agent.NewExecutorAgent(opts.ExecutorModel, registry, func(ao *agent.Options) { ao.Logger = opts.Logger }),
		guard:          opts.Guardrail,
		checkpoints: checkpoint.NewLog(conversationID, func(co *checkpoint.Options) {
			co.Sink = opts.CheckpointSink
		}),
		store:    opts.Store,
		logger:   opts.Logger,
		progress: make(chan ProgressUpdate, progressBufferSize),
	}

	history, err := opts.Store.LoadHistory(conversationID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.state.InteractionHistory = history

	plan, err := opts.Store.LoadPlan(conversationID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.state.Plan = session.RestorePlan(plan)

	return o, nil
}

// Progress returns the stream of status updates. The channel is never closed;
// consumers select on it alongside their own cancellation.
func (o *Orchestrator) Progress() <-chan ProgressUpdate { return o.progress }

// State returns the live conversation state. Callers must not mutate it.
func (o *Orchestrator) State() *core.AgentState { return o.state }

// Checkpoints returns a copy of the checkpoint sequence recorded so far.
func (o *Orchestrator) Checkpoints() []checkpoint.Checkpoint { return o.checkpoints.Entries() }

// StateAt returns a copy of the state at the given checkpoint step, or nil.
func (o *Orchestrator) StateAt(stepIndex int) *core.AgentState { return o.checkpoints.StateAt(stepIndex) }

// RunStep runs one user turn. The returned state is the live value; agent
// failures abort the turn with the state left as-is and no final checkpoint.
func (o *Orchestrator) RunStep(ctx context.Context, userQuery string) (*core.AgentState, error) {
	o.logger.Info("run_step", "conversation_id", o.conversationID, "query_len", len(userQuery))

	o.state.AppendUser(userQuery)
	if allowed, rejectMsg := o.guard.CheckInput(ctx, userQuery); !allowed {
		o.state.AppendAssistant(rejectMsg)
		o.saveCheckpoint("", nil)
		o.persist()
		return o.state, nil
	}
	o.saveCheckpoint("", nil)

	for {
		if o.state.QueryToPlan == "" {
			o.report("Understanding your request…")
			if err := o.intake.Run(ctx, o.state); err != nil {
				return o.state, err
			}
			o.saveCheckpoint(o.intake.Name(), map[string]any{"event": "after_intake"})
			o.guardLastAssistantMessage(ctx)
			if o.state.QueryToPlan == "" {
				o.persist()
				return o.state, nil
			}
			continue
		}

		o.report("Planning your schedule…")
		if err := o.planner.Run(ctx, o.state); err != nil {
			return o.state, err
		}
		o.saveCheckpoint(o.planner.Name(), map[string]any{
			"event":    "after_planning",
			"has_plan": len(o.state.Plan) > 0,
		})

		o.constructPlan()
		o.reportPlan()
		o.report("Searching for sessions and building your schedule…")

		for _, task := range o.state.PendingTasks() {
			o.report(fmt.Sprintf("Executing task %d: %s", task.ID, truncate(task.Description, 80)))
			if err := task.Start(); err != nil {
				return o.state, fmt.Errorf("orchestrator: %w", err)
			}
			o.reportPlan()
			for !task.Terminal() {
				if err := o.executor.Run(ctx, o.state, task); err != nil {
					return o.state, err
				}
				o.saveCheckpoint(o.executor.Name(), map[string]any{
					"event":   "after_execution",
					"task_id": task.ID,
				})
				o.reportPlan()
			}
		}

		content := o.state.SynthesizedSchedule
		if allowed, checkMsg := o.guard.CheckOutput(ctx, content); !allowed {
			content = checkMsg
		}
		o.state.AppendAssistant(content)
		o.persist()
		return o.state, nil
	}
}

// guardLastAssistantMessage output-checks the clarification question the
// intake just appended, substituting the guardrail message when rejected.
func (o *Orchestrator) guardLastAssistantMessage(ctx context.Context) {
	n := len(o.state.InteractionHistory)
	if n == 0 || o.state.InteractionHistory[n-1].Role != core.RoleAssistant {
		return
	}
	last := &o.state.InteractionHistory[n-1]
	if allowed, checkMsg := o.guard.CheckOutput(ctx, last.Content); !allowed {
		last.Content = checkMsg
		o.saveCheckpoint("", nil)
	}
}

// constructPlan materializes the task list from the planner's descriptions,
// replacing any previous plan. Ids are positional, 0..N-1 in plan order.
func (o *Orchestrator) constructPlan() {
	plan := make([]*core.Task, len(o.state.PlanDescription))
	for i, description := range o.state.PlanDescription {
		plan[i] = core.NewTask(i, description)
	}
	o.state.Plan = plan
}

func (o *Orchestrator) saveCheckpoint(agentName string, metadata map[string]any) {
	if _, err := o.checkpoints.Append(o.state, agentName, metadata); err != nil {
		o.logger.Warn("checkpoint.save_failed", "error", err.Error())
	}
}

func (o *Orchestrator) persist() {
	if err := o.store.SaveHistory(o.conversationID, o.state.InteractionHistory); err != nil {
		o.logger.Warn("session.save_history_failed", "error", err.Error())
	}
	if err := o.store.SavePlan(o.conversationID, session.SnapshotPlan(o.state.Plan)); err != nil {
		o.logger.Warn("session.save_plan_failed", "error", err.Error())
	}
}

func (o *Orchestrator) report(message string) {
	o.send(ProgressUpdate{Message: message})
}

func (o *Orchestrator) reportPlan() {
	o.send(ProgressUpdate{Plan: session.SnapshotPlan(o.state.Plan)})
}

// send never blocks; a full buffer drops the update.
func (o *Orchestrator) send(update ProgressUpdate) {
	select {
	case o.progress <- update:
	default:
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
