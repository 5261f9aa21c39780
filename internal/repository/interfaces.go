package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/domain"
)

var (
	// ErrNotFound is returned by every implementation when a record is absent,
	// so the services never depend on a particular storage backend's errors.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, such as two registrations racing on the same email.
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TaskFilter narrows a task listing. Nil fields match everything.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Limit    int
	Offset   int
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User UserRepository
	Task TaskRepository
}
