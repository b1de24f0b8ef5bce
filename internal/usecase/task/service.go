// Package task implements task CRUD, listing and status stats.
//
// Title embeddings are computed best effort: a provider failure never blocks
// a create or update, the task is stored without a vector and the embedding
// backfill pass picks it up later.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// Stats summarizes a user's tasks per status.
type Stats struct {
	Total      int
	Pending    int
	InProgress int
	Done       int
}

// Service handles task operations.
type Service struct {
	repo     Repository
	subtasks SubtaskCleaner
	embed    Embedder
	logger   *zap.Logger
}

// New creates a task service. embed may be nil when no provider is configured;
// tasks are then created without vectors.
func New(repo Repository, subtasks SubtaskCleaner, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, subtasks: subtasks, embed: embed, logger: logger}
}

// Create validates and stores a new task, embedding the title best effort.
func (s *Service) Create(ctx context.Context, title, priority, status, category, userID string) (domtask.Task, error) {
	if priority == "" {
		priority = string(domtask.PriorityMedium)
	}
	if status == "" {
		status = string(domtask.StatusPending)
	}

	now := time.Now().UnixMilli()
	t, err := domtask.New(uuid.NewString(), title, domtask.Priority(priority), domtask.Status(status), category, userID, now)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	t = s.tryEmbed(ctx, t)

	if err := s.repo.Create(ctx, t); err != nil {
		return domtask.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get returns a task owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (domtask.Task, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns the user's tasks, newest first.
func (s *Service) List(ctx context.Context, userID string, offset, limit int) ([]domtask.Task, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

// Update applies a partial update. A title change drops the stored vector and
// re-embeds best effort, so search results never score against a stale title.
func (s *Service) Update(ctx context.Context, userID, id string, p domtask.Patch) (domtask.Task, error) {
	if p.IsEmpty() {
		return domtask.Task{}, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return domtask.Task{}, err
	}

	updated, err := p.Apply(current, time.Now().UnixMilli())
	if err != nil {
		return domtask.Task{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if !updated.HasVector() {
		updated = s.tryEmbed(ctx, updated)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

// Delete removes a task and all its subtasks.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.subtasks.DeleteByParent(ctx, userID, id); err != nil {
		s.logger.Warn("Failed to delete subtasks of removed task",
			zap.String("task_id", id), zap.Error(err))
	}
	return nil
}

// Stats returns the user's task counts per status.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	counts, err := s.repo.StatusCounts(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("status counts: %w", err)
	}
	st := Stats{
		Pending:    counts[domtask.StatusPending],
		InProgress: counts[domtask.StatusInProgress],
		Done:       counts[domtask.StatusDone],
	}
	st.Total = st.Pending + st.InProgress + st.Done
	return st, nil
}

// tryEmbed computes the title vector, returning t unchanged on any failure.
func (s *Service) tryEmbed(ctx context.Context, t domtask.Task) domtask.Task {
	if s.embed == nil {
		return t
	}
	result, err := s.embed.Embed(ctx, t.Title())
	if err != nil {
		s.logger.Warn("Failed to embed task title, leaving for backfill",
			zap.String("task_id", t.ID()), zap.Error(err))
		return t
	}
	return t.WithVector(result.Embedding)
}
