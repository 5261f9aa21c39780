package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
	"github.com/mpetrov/taskhub/internal/repository/postgres"
	"github.com/mpetrov/taskhub/internal/testutil"
)

func TestTaskRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	task := &domain.Task{
		OwnerID:  owner.ID,
		Title:    "Buy milk",
		Status:   domain.TaskStatusPending,
		Priority: domain.TaskPriorityMedium,
	}
	require.NoError(t, repo.Create(ctx, task))
	require.NotEqual(t, uuid.Nil, task.ID)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, owner.ID, got.OwnerID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepository_GetByOwnerID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.NewTaskBuilder(alice.ID).
		WithTitle("Alice pending").
		WithStatus(domain.TaskStatusPending).
		Build(t, testDB.DB)
	testutil.NewTaskBuilder(alice.ID).
		WithTitle("Alice completed").
		WithStatus(domain.TaskStatusCompleted).
		WithPriority(domain.TaskPriorityHigh).
		Build(t, testDB.DB)
	testutil.NewTaskBuilder(bob.ID).
		WithTitle("Bob task").
		Build(t, testDB.DB)

	completed := domain.TaskStatusCompleted
	high := domain.TaskPriorityHigh

	tests := []struct {
		name           string
		ownerID        uuid.UUID
		filter         repository.TaskFilter
		expectedTitles []string
	}{
		{
			name:           "all tasks for owner",
			ownerID:        alice.ID,
			expectedTitles: []string{"Alice pending", "Alice completed"},
		},
		{
			name:           "status filter",
			ownerID:        alice.ID,
			filter:         repository.TaskFilter{Status: &completed},
			expectedTitles: []string{"Alice completed"},
		},
		{
			name:           "priority filter",
			ownerID:        alice.ID,
			filter:         repository.TaskFilter{Priority: &high},
			expectedTitles: []string{"Alice completed"},
		},
		{
			name:           "other owner sees only their own",
			ownerID:        bob.ID,
			expectedTitles: []string{"Bob task"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.GetByOwnerID(ctx, tt.ownerID, tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tt.expectedTitles, titles)
		})
	}

	t.Run("limit and offset", func(t *testing.T) {
		page, err := repo.GetByOwnerID(ctx, alice.ID, repository.TaskFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, page, 1)

		rest, err := repo.GetByOwnerID(ctx, alice.ID, repository.TaskFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.NotEqual(t, page[0].ID, rest[0].ID)
	})
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	task := testutil.NewTaskBuilder(owner.ID).WithTitle("Original").Build(t, testDB.DB)

	task.Title = "Renamed"
	task.Status = domain.TaskStatusInProgress
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, domain.TaskStatusInProgress, got.Status)

	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err = repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), repository.ErrNotFound)
}
