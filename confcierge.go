// Package confcierge provides a high-level façade over the conversation
// orchestrator and retrieval engine for building a conference schedule
// concierge. Most applications interact with this package by:
//  1. Creating a Concierge via New() with a model and a tool registry
//  2. Optionally uploading a conference schedule (UploadSchedule)
//  3. Driving the conversation one user message at a time (RunStep)
//
// The façade delegates sequencing to orchestrator.Orchestrator while keeping
// setup concise. All defaults are safe for local development and testing;
// production deployments typically supply a file-backed session store, a
// checkpoint sink and a structured logger.
package confcierge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/confcierge/checkpoint"
	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/guardrail"
	"github.com/hupe1980/confcierge/logging"
	"github.com/hupe1980/confcierge/model"
	"github.com/hupe1980/confcierge/orchestrator"
	"github.com/hupe1980/confcierge/retrieval"
	"github.com/hupe1980/confcierge/session"
	"github.com/hupe1980/confcierge/tool"
)

// Options configures the Concierge instance.
type Options struct {
	// ConversationID identifies the conversation; a random UUID is generated
	// when empty.
	ConversationID string

	// Engine, when set, enables schedule upload and backs the rag_search and
	// get_schedule_overview tools.
	Engine *retrieval.Engine

	// Per-agent model overrides (default to the model passed to New).
	IntakeModel   model.Model
	PlannerModel  model.Model
	ExecutorModel model.Model

	// Guardrail gates user input and the final output (defaults to AllowAll).
	Guardrail guardrail.Guardrail

	// Store persists history and plan between turns (defaults to in-memory).
	Store session.Store

	// CheckpointSink, when set, persists the checkpoint log after each append.
	CheckpointSink checkpoint.Sink

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Concierge is the high-level façade aggregating the orchestrator and the
// optional retrieval engine.
type Concierge struct {
	conversationID string
	orch           *orchestrator.Orchestrator
	engine         *retrieval.Engine
}

// New creates a Concierge for one conversation.
func New(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*Concierge, error) {
	opts := Options{
		ConversationID: uuid.NewString(),
		Guardrail:      guardrail.AllowAll{},
		Store:          session.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch, err := orchestrator.New(opts.ConversationID, m, registry, func(o *orchestrator.Options) {
		o.IntakeModel = opts.IntakeModel
		o.PlannerModel = opts.PlannerModel
		o.ExecutorModel = opts.ExecutorModel
		o.Guardrail = opts.Guardrail
		o.Store = opts.Store
		o.CheckpointSink = opts.CheckpointSink
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Concierge{
		conversationID: opts.ConversationID,
		orch:           orch,
		engine:         opts.Engine,
	}, nil
}

// ConversationID returns the id of the conversation this instance drives.
func (c *Concierge) ConversationID() string { return c.conversationID }

// RunStep runs one user turn and returns the updated conversation state.
func (c *Concierge) RunStep(ctx context.Context, userQuery string) (*core.AgentState, error) {
	return c.orch.RunStep(ctx, userQuery)
}

// UploadSchedule indexes a conference schedule JSON export for this
// conversation and returns a human-readable status message.
func (c *Concierge) UploadSchedule(ctx context.Context, scheduleJSON []byte) (string, error) {
	if c.engine == nil {
		return "", fmt.Errorf("confcierge: no retrieval engine configured")
	}
	return c.engine.Index(ctx, c.conversationID, scheduleJSON)
}

// Progress returns the stream of status updates for UIs.
func (c *Concierge) Progress() <-chan orchestrator.ProgressUpdate { return c.orch.Progress() }

// State returns the live conversation state. Callers must not mutate it.
func (c *Concierge) State() *core.AgentState { return c.orch.State() }

// Checkpoints returns the checkpoint sequence recorded so far.
func (c *Concierge) Checkpoints() []checkpoint.Checkpoint { return c.orch.Checkpoints() }

// StateAt returns a copy of the state at the given checkpoint step, or nil.
func (c *Concierge) StateAt(stepIndex int) *core.AgentState { return c.orch.StateAt(stepIndex) }
