package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// TaskService manages the staff task board.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  in.AssignedBy,
		Priority:    priority,
		Status:      domain.StepPending,
		Deadline:    in.Deadline,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Str("task_id", created.ID).Str("assigned_to", in.AssignedTo).Msg("task created")
	return created, nil
}

// ListTasks returns the whole board for admins and only the caller's own
// assignments for every other role.
func (s *TaskService) ListTasks(ctx context.Context, callerID, callerRole string) ([]*domain.Task, error) {
	if callerRole == domain.RoleAdmin {
		return s.repo.List(ctx)
	}
	return s.repo.ListByAssignee(ctx, callerID)
}

// UpdateTaskStatus moves a task through the status state machine.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID string, status domain.StepStatus) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, task.Status, status)
	}

	task.Status = status
	if status == domain.StepCompleted {
		task.CompletedAt = time.Now().UTC()
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	return task, nil
}
