package ports

import (
	"context"
	"time"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// CreateTaskInput carries new-task fields. AssignedBy comes from the
// authenticated identity, never from the request body.
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	AssignedBy  string
	Priority    domain.TaskPriority
	Deadline    time.Time
}

// TaskService manages the staff task board.
type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	// ListTasks returns every task for admins and only the caller's
	// assignments for everyone else.
	ListTasks(ctx context.Context, callerID, callerRole string) ([]*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.StepStatus) (*domain.Task, error)
}

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
}
