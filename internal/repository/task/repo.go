// Package task persists tasks as Redis hashes under tasknest:task:<id>,
// indexed by an FT index for listing, counting and vector search.
package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/db"
	"github.com/tasknest/tasknest/internal/domain"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

const (
	keyPrefix = domain.KeyPrefix + "task:"
	// IndexName is the FT index over task hashes.
	IndexName = domain.KeyPrefix + "task:idx"

	// maxListLimit caps FT.SEARCH page size when callers pass no limit.
	maxListLimit = 1000
)

// listReturnFields are the hash fields fetched by list queries. The embedding
// blob is excluded; list consumers never need it.
var listReturnFields = []string{
	fieldTitle, fieldPriority, fieldStatus, fieldCategory,
	fieldUserID, fieldCreatedAt, fieldUpdatedAt,
}

// IndexDefinition returns the FT index created at startup for task hashes.
func IndexDefinition(vectorDim int) *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Tag(fieldUserID).
		Tag(fieldStatus).
		Tag(fieldPriority).
		Tag(fieldCategory).
		Tag(fieldHasEmbedding).
		Numeric(fieldCreatedAt).
		VectorHNSW(fieldEmbedding, vectorDim, db.DistanceCosine, 16, 200).
		MustBuild()
}

// store is the consumer interface for task persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filters []db.TagMatch) (int, error)
}

// Repo implements the task repository over Redis hashes.
type Repo struct {
	store store
}

// New creates a task repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new task.
func (r *Repo) Create(ctx context.Context, t domtask.Task) error {
	if err := r.store.HSet(ctx, taskKey(t.ID()), buildHashFields(t)); err != nil {
		return fmt.Errorf("hset task %s: %w", t.ID(), err)
	}
	return nil
}

// Get returns a task owned by userID. A missing key or a foreign owner both
// report not found so task IDs cannot be probed across users.
func (r *Repo) Get(ctx context.Context, userID, id string) (domtask.Task, error) {
	m, err := r.store.HGetAll(ctx, taskKey(id))
	if err != nil {
		return domtask.Task{}, fmt.Errorf("hgetall task %s: %w", id, err)
	}
	if len(m) == 0 || m[fieldUserID] != userID {
		return domtask.Task{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// Update overwrites a task's fields. When the task has no vector the embedding
// fields are removed so the hash does not keep a stale vector.
func (r *Repo) Update(ctx context.Context, t domtask.Task) error {
	key := taskKey(t.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(t)); err != nil {
		return fmt.Errorf("hset task %s: %w", t.ID(), err)
	}
	if !t.HasVector() {
		if err := r.store.HDel(ctx, key, fieldEmbedding); err != nil {
			return fmt.Errorf("hdel embedding %s: %w", t.ID(), err)
		}
	}
	return nil
}

// Delete removes a task owned by userID.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, taskKey(id)); err != nil {
		return fmt.Errorf("del task %s: %w", id, err)
	}
	return nil
}

// ListByUser returns the user's tasks, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domtask.Task, error) {
	if limit <= 0 {
		limit = maxListLimit
	}
	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    IndexName,
		Filters:      []db.TagMatch{{Field: fieldUserID, Value: userID}},
		SortBy:       fieldCreatedAt,
		SortDesc:     true,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: listReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", userID, err)
	}
	return entriesToTasks(result), nil
}

// ListMissingEmbedding returns the user's tasks that have no stored vector.
func (r *Repo) ListMissingEmbedding(ctx context.Context, userID string, limit int) ([]domtask.Task, error) {
	if limit <= 0 {
		limit = maxListLimit
	}
	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: IndexName,
		Filters: []db.TagMatch{
			{Field: fieldUserID, Value: userID},
			{Field: fieldHasEmbedding, Value: "0"},
		},
		SortBy:       fieldCreatedAt,
		SortDesc:     false,
		Limit:        limit,
		ReturnFields: listReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("list unembedded tasks for %s: %w", userID, err)
	}
	return entriesToTasks(result), nil
}

// SetVector stores a computed embedding for a task the user owns. Only the
// vector fields change; updated_at stays as the last content edit.
func (r *Repo) SetVector(ctx context.Context, userID, id string, vector []float32) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	fields := map[string]string{
		fieldEmbedding:    vectorToBytes(vector),
		fieldHasEmbedding: "1",
	}
	if err := r.store.HSet(ctx, taskKey(id), fields); err != nil {
		return fmt.Errorf("hset embedding %s: %w", id, err)
	}
	return nil
}

// StatusCounts returns the user's task counts per status.
func (r *Repo) StatusCounts(ctx context.Context, userID string) (map[domtask.Status]int, error) {
	counts := make(map[domtask.Status]int, len(domtask.Statuses))
	for _, st := range domtask.Statuses {
		n, err := r.store.SearchCount(ctx, IndexName, []db.TagMatch{
			{Field: fieldUserID, Value: userID},
			{Field: fieldStatus, Value: string(st)},
		})
		if err != nil {
			return nil, fmt.Errorf("count %s tasks for %s: %w", st, userID, err)
		}
		counts[st] = n
	}
	return counts, nil
}

func taskKey(id string) string {
	return keyPrefix + id
}

func extractTaskID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

func entriesToTasks(result *db.SearchResult) []domtask.Task {
	if result == nil {
		return nil
	}
	tasks := make([]domtask.Task, 0, len(result.Entries))
	for _, entry := range result.Entries {
		tasks = append(tasks, parseHashFields(extractTaskID(entry.Key), entry.Fields))
	}
	return tasks
}
