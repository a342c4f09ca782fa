package core

// AgentState is the mutable conversation state threaded through the agents for
// the duration of one turn. The orchestrator exclusively owns the live value;
// agents receive it, mutate it, and return it, never retaining a reference
// across turns. Checkpoints hold deep snapshots taken via Clone.
type AgentState struct {
	ConversationID string `json:"conversation_id"`

	// Intake output: details still missing before planning can start.
	NecessaryDetailsRequired []string `json:"necessary_details_required,omitempty"`
	OptionalDetails          []string `json:"optional_details,omitempty"`

	// Intake summary handed to the planner. Empty while clarification is
	// still needed.
	QueryToPlan string `json:"query_to_plan"`

	// Planner output and the orchestrator-constructed task list.
	PlanDescription []string `json:"plan_description,omitempty"`
	Plan            []*Task  `json:"plan,omitempty"`

	// Last synthesized schedule; overwritten by each generate_schedule call.
	SynthesizedSchedule string `json:"synthesized_schedule"`

	InteractionHistory []Message `json:"interaction_history"`
}

// NewAgentState creates an empty state for a conversation.
func NewAgentState(conversationID string) *AgentState {
	return &AgentState{ConversationID: conversationID}
}

// AppendUser appends a user message to the interaction history.
func (s *AgentState) AppendUser(content string) {
	s.InteractionHistory = append(s.InteractionHistory, UserMessage(content))
}

// AppendAssistant appends an assistant message to the interaction history.
func (s *AgentState) AppendAssistant(content string) {
	s.InteractionHistory = append(s.InteractionHistory, AssistantMessage(content))
}

// PendingTasks returns the plan tasks still waiting to run, in plan order.
func (s *AgentState) PendingTasks() []*Task {
	return s.tasksWithStatus(TaskStatusPending)
}

// CompletedTasks returns the completed tasks in ascending id order.
func (s *AgentState) CompletedTasks() []*Task {
	return s.tasksWithStatus(TaskStatusCompleted)
}

// FailedTasks returns the failed tasks in ascending id order.
func (s *AgentState) FailedTasks() []*Task {
	return s.tasksWithStatus(TaskStatusFailed)
}

func (s *AgentState) tasksWithStatus(status TaskStatus) []*Task {
	var out []*Task
	for _, t := range s.Plan {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy of the state. Checkpoint entries own their clone;
// no aliasing with the live state remains.
func (s *AgentState) Clone() *AgentState {
	c := *s
	c.NecessaryDetailsRequired = cloneStrings(s.NecessaryDetailsRequired)
	c.OptionalDetails = cloneStrings(s.OptionalDetails)
	c.PlanDescription = cloneStrings(s.PlanDescription)
	c.InteractionHistory = CloneMessages(s.InteractionHistory)
	if s.Plan != nil {
		c.Plan = make([]*Task, len(s.Plan))
		for i, t := range s.Plan {
			c.Plan[i] = t.Clone()
		}
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
