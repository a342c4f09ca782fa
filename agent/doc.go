// Package agent implements the three model-driven agents of the concierge
// pipeline: intake (clarify or summarize), planner (summary to task list) and
// executor (bounded tool-calling loop per task, including on-demand schedule
// synthesis). Agents mutate the shared core.AgentState; the orchestrator owns
// sequencing and checkpointing.
package agent
