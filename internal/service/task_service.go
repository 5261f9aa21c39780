package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/authz"
	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
)

type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

func (s *TaskService) Create(ctx context.Context, owner *domain.User, input CreateTaskInput) (*domain.Task, error) {
	if input.Status == "" {
		input.Status = domain.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	}

	var verrs domain.ValidationErrors
	if fe := domain.ValidateTitle(input.Title); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidateDescription(input.Description); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidateStatus(input.Status); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidatePriority(input.Priority); fe != nil {
		verrs = append(verrs, *fe)
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Get returns the task only when it exists and belongs to the user. A task
// owned by someone else is reported as not found, so existence of foreign
// tasks never leaks. The same policy applies to Update and Delete.
func (s *TaskService) Get(ctx context.Context, user *domain.User, taskID uuid.UUID) (*domain.Task, error) {
	return s.getOwned(ctx, user, taskID)
}

func (s *TaskService) List(ctx context.Context, user *domain.User, filter repository.TaskFilter) ([]*domain.Task, error) {
	var verrs domain.ValidationErrors
	if filter.Status != nil {
		if fe := domain.ValidateStatus(*filter.Status); fe != nil {
			verrs = append(verrs, *fe)
		}
	}
	if filter.Priority != nil {
		if fe := domain.ValidatePriority(*filter.Priority); fe != nil {
			verrs = append(verrs, *fe)
		}
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByOwnerID(ctx, user.ID, filter)
}

func (s *TaskService) Update(ctx context.Context, user *domain.User, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.getOwned(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	var verrs domain.ValidationErrors
	if fe := domain.ValidateTitle(task.Title); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidateDescription(task.Description); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidateStatus(task.Status); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidatePriority(task.Priority); fe != nil {
		verrs = append(verrs, *fe)
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, user *domain.User, taskID uuid.UUID) error {
	if _, err := s.getOwned(ctx, user, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

func (s *TaskService) getOwned(ctx context.Context, user *domain.User, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if err := authz.EnforceTask(user, task); err != nil {
		// Foreign tasks are hidden rather than revealed as forbidden.
		return nil, domain.ErrTaskNotFound
	}

	return task, nil
}
