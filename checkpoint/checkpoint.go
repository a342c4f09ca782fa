// Package checkpoint implements the append-only log of immutable AgentState
// snapshots the orchestrator writes after every mutation. Each entry owns its
// own deep copy; nothing aliases the live state. An optional Sink persists
// the log per conversation.
package checkpoint

import (
	"sync"
	"time"

	"github.com/hupe1980/confcierge/core"
)

// Checkpoint is one immutable snapshot of conversation state. StepIndex is
// assigned by the owning Log and increases by one per append.
type Checkpoint struct {
	StepIndex int              `json:"step_index"`
	State     *core.AgentState `json:"state"`
	AgentName string           `json:"agent_name,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

// Sink persists the full checkpoint sequence of a conversation. Append-only
// semantics are guaranteed by the Log; the sink just stores what it is given.
type Sink interface {
	SaveCheckpoints(conversationID string, entries []Checkpoint) error
}

// Log is the append-only in-memory checkpoint sequence for one conversation.
type Log struct {
	mu             sync.Mutex
	conversationID string
	entries        []Checkpoint
	nextStep       int
	sink           Sink
}

// Options configure a Log.
type Options struct {
	// Sink, when set, receives the full entry list after every append.
	Sink Sink
}

// NewLog creates an empty checkpoint log for a conversation.
func NewLog(conversationID string, optFns ...func(o *Options)) *Log {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Log{conversationID: conversationID, sink: opts.Sink}
}

// Append records a deep snapshot of state, assigning the next step index.
// agentName is empty for checkpoints not produced by an agent (user input,
// guardrail rejection). The snapshot error from the sink is returned but the
// entry is kept either way; persistence is best-effort on top of the
// in-memory log.
func (l *Log) Append(state *core.AgentState, agentName string, metadata map[string]any) (Checkpoint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := Checkpoint{
		StepIndex: l.nextStep,
		State:     state.Clone(),
		AgentName: agentName,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	l.entries = append(l.entries, cp)
	l.nextStep++
	if l.sink != nil {
		entries := make([]Checkpoint, len(l.entries))
		copy(entries, l.entries)
		return cp, l.sink.SaveCheckpoints(l.conversationID, entries)
	}
	return cp, nil
}

// Entries returns a copy of the checkpoint sequence in step order.
func (l *Log) Entries() []Checkpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Checkpoint, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of checkpoints recorded.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StateAt returns a copy of the state at the given step index, or nil if no
// such checkpoint exists.
func (l *Log) StateAt(stepIndex int) *core.AgentState {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, cp := range l.entries {
		if cp.StepIndex == stepIndex {
			return cp.State.Clone()
		}
	}
	return nil
}
