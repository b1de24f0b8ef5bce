package search

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	domsearch "github.com/tasknest/tasknest/internal/domain/search"
)

// Repository defines the storage contract for semantic search.
type Repository interface {
	SearchByUser(ctx context.Context, userID string, vector []float32, topK int) ([]domsearch.Result, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
