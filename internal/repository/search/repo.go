// Package search runs KNN queries against the task FT index and maps hits
// into domain search results.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tasknest/tasknest/internal/db"
	"github.com/tasknest/tasknest/internal/domain"
	domsearch "github.com/tasknest/tasknest/internal/domain/search"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

const (
	taskKeyPrefix = domain.KeyPrefix + "task:"
	taskIndexName = domain.KeyPrefix + "task:idx"
)

var knnReturnFields = []string{"title", "priority", "status", "category", "created_at", db.KNNScoreField}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the semantic search repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchByUser runs a KNN query over the user's tasks. The user_id pre-filter
// runs inside FT.SEARCH, so the K nearest hits are the K nearest among that
// user's tasks only.
func (r *Repo) SearchByUser(ctx context.Context, userID string, vector []float32, topK int) ([]domsearch.Result, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    taskIndexName,
		Filters:      []db.TagMatch{{Field: "user_id", Value: userID}},
		Vector:       vector,
		K:            topK,
		ReturnFields: knnReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn tasks: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]domsearch.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, parseEntry(entry))
	}
	return results, nil
}

func parseEntry(entry db.SearchEntry) domsearch.Result {
	createdAt, _ := strconv.ParseInt(entry.Fields["created_at"], 10, 64)
	return domsearch.New(
		strings.TrimPrefix(entry.Key, taskKeyPrefix),
		entry.Fields["title"],
		domtask.Priority(entry.Fields["priority"]),
		domtask.Status(entry.Fields["status"]),
		entry.Fields["category"],
		entry.Score,
		createdAt,
	)
}
