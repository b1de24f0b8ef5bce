package task

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// Repository defines the storage contract for tasks.
type Repository interface {
	Create(ctx context.Context, t domtask.Task) error
	Get(ctx context.Context, userID, id string) (domtask.Task, error)
	Update(ctx context.Context, t domtask.Task) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]domtask.Task, error)
	StatusCounts(ctx context.Context, userID string) (map[domtask.Status]int, error)
}

// SubtaskCleaner removes a task's subtasks when the task is deleted.
type SubtaskCleaner interface {
	DeleteByParent(ctx context.Context, userID, parentTaskID string) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
