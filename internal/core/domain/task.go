package domain

import "time"

// TaskPriority orders tasks on the board.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Task is a unit of work assigned from one staff member to another.
// Status follows the same transition map as care plan steps.
type Task struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	AssignedTo  string       `json:"assigned_to" bson:"assigned_to"`
	AssignedBy  string       `json:"assigned_by" bson:"assigned_by"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	Status      StepStatus   `json:"status" bson:"status"`
	Deadline    time.Time    `json:"deadline" bson:"deadline"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	CompletedAt time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
