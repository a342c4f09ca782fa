// Package core contains the shared data model of the concierge: conversation
// messages, the per-turn AgentState threaded through agents, and plan tasks
// with their private execution histories. All types are plain values with
// explicit deep-copy support so the orchestrator can checkpoint immutable
// snapshots after every mutation.
package core
