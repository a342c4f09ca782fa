package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/model"
	"github.com/hupe1980/confcierge/tool"
)

const (
	// maxTaskTurns bounds the tool-calling loop per task. A task that has not
	// reached a terminal tool call by then is marked failed, not errored.
	maxTaskTurns = 20

	// maxToolErrors is how many per-task tool errors are recorded back into
	// the execution history before the next one aborts the turn.
	maxToolErrors = 5
)

// Terminal and synthesis control tools, offered alongside the registry tools.
const (
	submitTaskResultToolName = "submit_task_result"
	generateScheduleToolName = "generate_schedule"
)

var submitTaskResultDefinition = model.ToolDefinition{
	Name: submitTaskResultToolName,
	Description: "Call this when the task is fully complete. " +
		"Pass the complete result so it can be used by later steps. Do not use plain text to finish; you must call this tool.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"result": map[string]any{"type": "string", "description": "The full task result (all gathered information)."},
		},
		"required":             []string{"result"},
		"additionalProperties": false,
	},
}

var generateScheduleDefinition = model.ToolDefinition{
	Name: generateScheduleToolName,
	Description: "Generate schedule from the gathered information so far into a personal schedule for the user. " +
		"Can be called multiple times to refine the schedule.",
	Parameters: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	},
}

// ExecutorAgent drives one task at a time through a bounded tool-calling
// loop. Real tools come from the registry; submit_task_result and
// generate_schedule are handled inline, the former completing the task and
// the latter rewriting the shared synthesized schedule.
type ExecutorAgent struct {
	baseAgent
	registry *tool.Registry
}

// NewExecutorAgent constructs an ExecutorAgent over the given model and tool
// registry.
func NewExecutorAgent(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) *ExecutorAgent {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ExecutorAgent{
		baseAgent: newBaseAgent("ExecutorAgent", m, opts.Logger),
		registry:  registry,
	}
}

// Run executes the task until it reaches a terminal status. Hitting the turn
// limit fails the task and returns nil; exceeding the tool error budget or a
// model transport failure aborts with an error, leaving the task in progress.
func (a *ExecutorAgent) Run(ctx context.Context, state *core.AgentState, task *core.Task) error {
	a.logger.Info("executor.run", "task_id", task.ID, "description", truncateDescription(task.Description))

	errorCount := 0
	for turn := 1; ; turn++ {
		if turn > maxTaskTurns {
			a.logger.Warn("executor.max_turns", "task_id", task.ID, "max_turns", maxTaskTurns)
			if err := task.Fail(); err != nil {
				return fmt.Errorf("executor: %w", err)
			}
			return nil
		}

		a.logger.Debug("executor.turn", "task_id", task.ID, "turn", turn)
		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: executorInstructions,
			Messages:     a.taskMessages(state, task),
			Tools:        a.toolDefinitions(),
		})
		if err != nil {
			return fmt.Errorf("executor: %w", err)
		}

		task.ExecutionHistory = append(task.ExecutionHistory, core.Message{
			Role:      core.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		if len(resp.ToolCalls) == 0 {
			a.logger.Debug("executor.no_tool_calls", "task_id", task.ID)
			continue
		}

		for _, call := range resp.ToolCalls {
			if task.Terminal() {
				break
			}
			result, err := a.dispatch(ctx, state, task, call)
			if err != nil {
				errorCount++
				if errorCount > maxToolErrors {
					return fmt.Errorf("executor: tool error budget exhausted on task %d: %w", task.ID, err)
				}
				a.logger.Warn("executor.tool_error", "task_id", task.ID, "tool", call.Name, "error", err.Error())
				task.ExecutionHistory = append(task.ExecutionHistory, core.ToolMessage("Error: "+err.Error(), call.ID))
				continue
			}
			if task.Terminal() {
				break
			}
			task.ExecutionHistory = append(task.ExecutionHistory, core.ToolMessage(result, call.ID))
		}

		if task.Terminal() {
			return nil
		}
	}
}

// dispatch routes one tool call. It returns the tool output to record, or no
// output when the call completed the task.
func (a *ExecutorAgent) dispatch(ctx context.Context, state *core.AgentState, task *core.Task, call core.ToolCall) (string, error) {
	args, err := decodeArguments(call.Arguments)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", call.Name, err)
	}

	switch call.Name {
	case submitTaskResultToolName:
		result, _ := args["result"].(string)
		if err := task.Complete(strings.TrimSpace(result)); err != nil {
			return "", err
		}
		a.logger.Info("executor.task_completed", "task_id", task.ID, "result_len", len(task.Result))
		return "", nil

	case generateScheduleToolName:
		return a.synthesize(ctx, state, task)

	default:
		t, ok := a.registry.Get(call.Name)
		if !ok {
			return "", fmt.Errorf("unknown tool %q", call.Name)
		}
		a.logger.Info("executor.tool_call", "task_id", task.ID, "tool", call.Name)
		tctx := tool.NewContext(ctx, state.ConversationID, call.ID, a.logger)
		return t.Call(tctx, args)
	}
}

// synthesize regenerates the personal schedule from all completed task
// results plus the current task's history, overwriting the previous version.
func (a *ExecutorAgent) synthesize(ctx context.Context, state *core.AgentState, task *core.Task) (string, error) {
	history, err := json.Marshal(task.ExecutionHistory)
	if err != nil {
		return "", fmt.Errorf("marshal execution history: %w", err)
	}
	content := completedTaskLines(state) + "\n" +
		"Synthesized schedule so far: " + state.SynthesizedSchedule + "\n" +
		"Current task execution history: " + string(history)

	resp, err := a.model.Generate(ctx, model.Request{
		Instructions: synthesizerInstructions,
		Messages:     []core.Message{core.UserMessage(content)},
	})
	if err != nil {
		return "", err
	}

	state.SynthesizedSchedule = resp.Content
	a.logger.Info("executor.schedule_synthesized", "task_id", task.ID, "schedule_len", len(state.SynthesizedSchedule))
	return state.SynthesizedSchedule, nil
}

// taskMessages builds the fresh per-turn context: a user message carrying
// prior results, the schedule so far and the current task, followed by the
// task's own execution history.
func (a *ExecutorAgent) taskMessages(state *core.AgentState, task *core.Task) []core.Message {
	content := "Previous tasks descriptions and their results:\n" +
		completedTaskLines(state) + "\n" +
		"Synthesized schedule so far: " + state.SynthesizedSchedule + "\n" +
		"Current task: " + task.Description + "\n"

	messages := make([]core.Message, 0, len(task.ExecutionHistory)+1)
	messages = append(messages, core.UserMessage(content))
	return append(messages, task.ExecutionHistory...)
}

func (a *ExecutorAgent) toolDefinitions() []model.ToolDefinition {
	defs := a.registry.Definitions()
	return append(defs, submitTaskResultDefinition, generateScheduleDefinition)
}

func completedTaskLines(state *core.AgentState) string {
	var lines []string
	for _, t := range state.CompletedTasks() {
		lines = append(lines, fmt.Sprintf("Task %d: %s: %s", t.ID, t.Description, t.Result))
	}
	return strings.Join(lines, "\n")
}

func decodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	return args, nil
}

func truncateDescription(s string) string {
	if len(s) <= 80 {
		return s
	}
	return s[:80] + "..."
}
