package backfill

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// Repository defines the storage contract for the backfill batch.
type Repository interface {
	ListMissingEmbedding(ctx context.Context, userID string, limit int) ([]domtask.Task, error)
	SetVector(ctx context.Context, userID, id string, vector []float32) error
}

// Embedder vectorizes task titles.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
