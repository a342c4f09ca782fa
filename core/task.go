package core

import "fmt"

// TaskStatus is the lifecycle state of a plan task. Transitions are monotonic:
// pending -> in_progress -> completed or failed. A terminal task is never
// revisited.
type TaskStatus string

// Task lifecycle states.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is one unit of plan work. IDs are positional (0..N-1 in plan order) and
// immutable. ExecutionHistory is private to the task and never shared with
// other tasks; Result is set exactly once, by the transition to completed.
type Task struct {
	ID               int        `json:"id"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	ExecutionHistory []Message  `json:"execution_history,omitempty"`
	Result           string     `json:"result"`
}

// NewTask creates a pending task with the given positional id.
func NewTask(id int, description string) *Task {
	return &Task{ID: id, Description: description, Status: TaskStatusPending}
}

// Terminal reports whether the task reached a final status.
func (t *Task) Terminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// Start moves the task from pending to in_progress.
func (t *Task) Start() error {
	if t.Status != TaskStatusPending {
		return fmt.Errorf("task %d: cannot start from status %q", t.ID, t.Status)
	}
	t.Status = TaskStatusInProgress
	return nil
}

// Complete moves an in_progress task to completed and records its result.
func (t *Task) Complete(result string) error {
	if t.Status != TaskStatusInProgress {
		return fmt.Errorf("task %d: cannot complete from status %q", t.ID, t.Status)
	}
	t.Status = TaskStatusCompleted
	t.Result = result
	return nil
}

// Fail moves an in_progress task to failed. The result stays empty.
func (t *Task) Fail() error {
	if t.Status != TaskStatusInProgress {
		return fmt.Errorf("task %d: cannot fail from status %q", t.ID, t.Status)
	}
	t.Status = TaskStatusFailed
	return nil
}

// AppendHistory appends a message to the task's private execution history.
func (t *Task) AppendHistory(m Message) {
	t.ExecutionHistory = append(t.ExecutionHistory, m)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.ExecutionHistory = CloneMessages(t.ExecutionHistory)
	return &c
}
