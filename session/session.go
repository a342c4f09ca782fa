// Package session persists the durable pieces of a conversation between
// turns: the interaction history and the last plan snapshot, keyed by
// conversation id. The orchestrator rehydrates AgentState from these at the
// start of each turn. Implementations: volatile in-memory and flat JSON
// files.
package session

import "github.com/hupe1980/confcierge/core"

// PlanEntry is the persisted shape of one task: its id, description, terminal
// status and result. Execution histories are deliberately not persisted.
type PlanEntry struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Status      core.TaskStatus `json:"status"`
	Result      string          `json:"result"`
}

// Store persists conversation history and plan snapshots.
type Store interface {
	LoadHistory(conversationID string) ([]core.Message, error)
	SaveHistory(conversationID string, history []core.Message) error
	LoadPlan(conversationID string) ([]PlanEntry, error)
	SavePlan(conversationID string, plan []PlanEntry) error
}

// SnapshotPlan converts live tasks to their persisted shape.
func SnapshotPlan(tasks []*core.Task) []PlanEntry {
	out := make([]PlanEntry, len(tasks))
	for i, t := range tasks {
		out[i] = PlanEntry{ID: t.ID, Description: t.Description, Status: t.Status, Result: t.Result}
	}
	return out
}

// RestorePlan converts persisted entries back to tasks (without execution
// histories).
func RestorePlan(entries []PlanEntry) []*core.Task {
	out := make([]*core.Task, len(entries))
	for i, e := range entries {
		out[i] = &core.Task{ID: e.ID, Description: e.Description, Status: e.Status, Result: e.Result}
	}
	return out
}
