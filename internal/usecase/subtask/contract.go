package subtask

import (
	"context"

	domsub "github.com/tasknest/tasknest/internal/domain/subtask"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// Repository defines the storage contract for subtasks.
type Repository interface {
	Create(ctx context.Context, s domsub.Subtask) error
	Get(ctx context.Context, userID, id string) (domsub.Subtask, error)
	Update(ctx context.Context, s domsub.Subtask) error
	Delete(ctx context.Context, userID, id string) error
	ListByParent(ctx context.Context, userID, parentTaskID string, limit int) ([]domsub.Subtask, error)
}

// TaskReader checks parent task ownership before touching subtasks.
type TaskReader interface {
	Get(ctx context.Context, userID, id string) (domtask.Task, error)
}
