// Package subtask implements subtask CRUD under an owned parent task.
package subtask

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
	domsub "github.com/tasknest/tasknest/internal/domain/subtask"
)

// Service handles subtask operations.
type Service struct {
	repo  Repository
	tasks TaskReader
}

// New creates a subtask service.
func New(repo Repository, tasks TaskReader) *Service {
	return &Service{repo: repo, tasks: tasks}
}

// Create adds a subtask under a task the user owns.
func (s *Service) Create(ctx context.Context, userID, parentTaskID, title string) (domsub.Subtask, error) {
	if _, err := s.tasks.Get(ctx, userID, parentTaskID); err != nil {
		return domsub.Subtask{}, err
	}

	sub, err := domsub.New(uuid.NewString(), title, parentTaskID, userID, time.Now().UnixMilli())
	if err != nil {
		return domsub.Subtask{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return domsub.Subtask{}, fmt.Errorf("create subtask: %w", err)
	}
	return sub, nil
}

// ListForTask returns a task's subtasks, oldest first.
func (s *Service) ListForTask(ctx context.Context, userID, parentTaskID string) ([]domsub.Subtask, error) {
	if _, err := s.tasks.Get(ctx, userID, parentTaskID); err != nil {
		return nil, err
	}
	return s.repo.ListByParent(ctx, userID, parentTaskID, 0)
}

// Update applies a partial update to a subtask the user owns.
func (s *Service) Update(ctx context.Context, userID, id string, p domsub.Patch) (domsub.Subtask, error) {
	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return domsub.Subtask{}, err
	}

	updated, err := p.Apply(current, time.Now().UnixMilli())
	if err != nil {
		return domsub.Subtask{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domsub.Subtask{}, fmt.Errorf("update subtask: %w", err)
	}
	return updated, nil
}

// Delete removes a subtask the user owns.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
