// Package subtask persists subtasks as Redis hashes under tasknest:subtask:<id>.
package subtask

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tasknest/tasknest/internal/db"
	"github.com/tasknest/tasknest/internal/domain"
	domsub "github.com/tasknest/tasknest/internal/domain/subtask"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

const (
	keyPrefix = domain.KeyPrefix + "subtask:"
	// IndexName is the FT index over subtask hashes.
	IndexName = domain.KeyPrefix + "subtask:idx"

	// maxListLimit caps FT.SEARCH page size when callers pass no limit.
	maxListLimit = 1000
)

const (
	fieldTitle     = "title"
	fieldStatus    = "status"
	fieldParentID  = "parent_task_id"
	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

var returnFields = []string{
	fieldTitle, fieldStatus, fieldParentID, fieldUserID, fieldCreatedAt, fieldUpdatedAt,
}

// IndexDefinition returns the FT index created at startup for subtask hashes.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Tag(fieldUserID).
		Tag(fieldParentID).
		Tag(fieldStatus).
		Numeric(fieldCreatedAt).
		MustBuild()
}

type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements the subtask repository over Redis hashes.
type Repo struct {
	store store
}

// New creates a subtask repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new subtask.
func (r *Repo) Create(ctx context.Context, s domsub.Subtask) error {
	if err := r.store.HSet(ctx, subtaskKey(s.ID()), buildHashFields(s)); err != nil {
		return fmt.Errorf("hset subtask %s: %w", s.ID(), err)
	}
	return nil
}

// Get returns a subtask owned by userID.
func (r *Repo) Get(ctx context.Context, userID, id string) (domsub.Subtask, error) {
	m, err := r.store.HGetAll(ctx, subtaskKey(id))
	if err != nil {
		return domsub.Subtask{}, fmt.Errorf("hgetall subtask %s: %w", id, err)
	}
	if len(m) == 0 || m[fieldUserID] != userID {
		return domsub.Subtask{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// Update overwrites a subtask's fields.
func (r *Repo) Update(ctx context.Context, s domsub.Subtask) error {
	if err := r.store.HSet(ctx, subtaskKey(s.ID()), buildHashFields(s)); err != nil {
		return fmt.Errorf("hset subtask %s: %w", s.ID(), err)
	}
	return nil
}

// Delete removes a subtask owned by userID.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, subtaskKey(id)); err != nil {
		return fmt.Errorf("del subtask %s: %w", id, err)
	}
	return nil
}

// ListByParent returns a task's subtasks, oldest first.
func (r *Repo) ListByParent(ctx context.Context, userID, parentTaskID string, limit int) ([]domsub.Subtask, error) {
	if limit <= 0 {
		limit = maxListLimit
	}
	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: IndexName,
		Filters: []db.TagMatch{
			{Field: fieldUserID, Value: userID},
			{Field: fieldParentID, Value: parentTaskID},
		},
		SortBy:       fieldCreatedAt,
		SortDesc:     false,
		Limit:        limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("list subtasks of %s: %w", parentTaskID, err)
	}
	if result == nil {
		return nil, nil
	}
	subs := make([]domsub.Subtask, 0, len(result.Entries))
	for _, entry := range result.Entries {
		subs = append(subs, parseHashFields(extractSubtaskID(entry.Key), entry.Fields))
	}
	return subs, nil
}

// DeleteByParent removes all subtasks of a task. Used when the parent is deleted.
func (r *Repo) DeleteByParent(ctx context.Context, userID, parentTaskID string) (int, error) {
	subs, err := r.ListByParent(ctx, userID, parentTaskID, 0)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, s := range subs {
		if err := r.store.Del(ctx, subtaskKey(s.ID())); err != nil {
			return deleted, fmt.Errorf("del subtask %s: %w", s.ID(), err)
		}
		deleted++
	}
	return deleted, nil
}

func subtaskKey(id string) string {
	return keyPrefix + id
}

func extractSubtaskID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

func buildHashFields(s domsub.Subtask) map[string]string {
	return map[string]string{
		fieldTitle:     s.Title(),
		fieldStatus:    string(s.Status()),
		fieldParentID:  s.ParentTaskID(),
		fieldUserID:    s.UserID(),
		fieldCreatedAt: strconv.FormatInt(s.CreatedAt(), 10),
		fieldUpdatedAt: strconv.FormatInt(s.UpdatedAt(), 10),
	}
}

func parseHashFields(id string, m map[string]string) domsub.Subtask {
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	updatedAt, _ := strconv.ParseInt(m[fieldUpdatedAt], 10, 64)
	return domsub.Reconstruct(
		id,
		m[fieldTitle],
		m[fieldParentID],
		m[fieldUserID],
		domtask.Status(m[fieldStatus]),
		createdAt,
		updatedAt,
	)
}
