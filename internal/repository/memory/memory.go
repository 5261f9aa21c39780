// Package memory provides in-memory repository implementations used by the
// service unit tests. Behavior mirrors the postgres package, including the
// repository.ErrNotFound contract and list ordering.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
)

type Repositories struct {
	User *UserRepository
	Task *TaskRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		User: NewUserRepository(),
		Task: NewTaskRepository(),
	}
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user outright. Not part of the repository interface;
// the tests use it to simulate an identity that vanished after a token
// was issued.
func (r *UserRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[uuid.UUID]domain.Task)}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &task, nil
}

func (r *TaskRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		t := task
		tasks = append(tasks, &t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}

	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
