package tool

import "github.com/hupe1980/confcierge/retrieval"

// ScheduleSearch is the semantic search tool over the session's indexed
// schedule. The session id comes from the tool Context, never from the model.
type ScheduleSearch struct {
	engine *retrieval.Engine
}

// NewScheduleSearch constructs the schedule search tool.
func NewScheduleSearch(engine *retrieval.Engine) *ScheduleSearch {
	return &ScheduleSearch{engine: engine}
}

// Name implements Tool.
func (t *ScheduleSearch) Name() string { return "rag_search" }

// Description implements Tool.
func (t *ScheduleSearch) Description() string {
	return "Semantic search over the user's uploaded conference schedule. " +
		"Use this to find talks/sessions by topic, track, or keyword. " +
		"Returns matching sessions with title, room, time, and excerpt."
}

// Parameters implements Tool.
func (t *ScheduleSearch) Parameters() map[string]any {
	return queryOnlySchema("Search query (e.g. 'RAG', 'machine learning', 'keynote') to find relevant sessions in the schedule.")
}

// Call implements Tool.
func (t *ScheduleSearch) Call(toolCtx *Context, args map[string]any) (string, error) {
	if toolCtx.SessionID() == "" {
		return "No session context. Use this tool from the concierge with a session that has an uploaded schedule.", nil
	}
	return t.engine.Query(toolCtx.Context(), toolCtx.SessionID(), stringArg(args, "query"), retrieval.DefaultTopK)
}

// ScheduleOverview returns the compact overview of the whole uploaded
// program, for tasks that need the schedule at a glance rather than a
// topic-specific search.
type ScheduleOverview struct {
	engine *retrieval.Engine
}

// NewScheduleOverview constructs the schedule overview tool.
func NewScheduleOverview(engine *retrieval.Engine) *ScheduleOverview {
	return &ScheduleOverview{engine: engine}
}

// Name implements Tool.
func (t *ScheduleOverview) Name() string { return "get_schedule_overview" }

// Description implements Tool.
func (t *ScheduleOverview) Description() string {
	return "Retrieve the full schedule overview for the user's uploaded conference. " +
		"Returns a compact list of all sessions (title, time, room, track) so you can see the whole program at a glance. " +
		"Call this when you need the full schedule structure; use rag_search for topic-specific sessions."
}

// Parameters implements Tool.
func (t *ScheduleOverview) Parameters() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"required":             []string{},
		"additionalProperties": false,
	}
}

// Call implements Tool.
func (t *ScheduleOverview) Call(toolCtx *Context, _ map[string]any) (string, error) {
	if toolCtx.SessionID() == "" {
		return "No session context.", nil
	}
	return t.engine.Overview(toolCtx.SessionID()), nil
}
