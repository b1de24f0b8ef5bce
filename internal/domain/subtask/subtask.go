// Package subtask holds the subtask aggregate.
package subtask

import (
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/domain/task"
)

// MaxTitleLen bounds subtask titles.
const MaxTitleLen = 500

// Subtask is a single step under a parent task.
type Subtask struct {
	id           string
	title        string
	parentTaskID string
	userID       string
	status       task.Status
	createdAt    int64
	updatedAt    int64
}

// New validates and creates a pending Subtask.
func New(id, title, parentTaskID, userID string, now int64) (Subtask, error) {
	title = strings.TrimSpace(title)
	if id == "" {
		return Subtask{}, fmt.Errorf("subtask ID is required")
	}
	if title == "" {
		return Subtask{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return Subtask{}, fmt.Errorf("title too long (max %d)", MaxTitleLen)
	}
	if parentTaskID == "" {
		return Subtask{}, fmt.Errorf("parent task is required")
	}
	if userID == "" {
		return Subtask{}, fmt.Errorf("owner is required")
	}

	return Subtask{
		id: id, title: title, parentTaskID: parentTaskID, userID: userID,
		status: task.StatusPending, createdAt: now, updatedAt: now,
	}, nil
}

// Reconstruct creates a Subtask without validation (storage hydration).
func Reconstruct(id, title, parentTaskID, userID string, status task.Status, createdAt, updatedAt int64) Subtask {
	return Subtask{
		id: id, title: title, parentTaskID: parentTaskID, userID: userID,
		status: status, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the subtask identifier.
func (s *Subtask) ID() string { return s.id }

// Title returns the subtask title.
func (s *Subtask) Title() string { return s.title }

// ParentTaskID returns the owning task's identifier.
func (s *Subtask) ParentTaskID() string { return s.parentTaskID }

// UserID returns the owning user's identifier.
func (s *Subtask) UserID() string { return s.userID }

// Status returns the completion state.
func (s *Subtask) Status() task.Status { return s.status }

// CreatedAt returns the creation time in unix milliseconds.
func (s *Subtask) CreatedAt() int64 { return s.createdAt }

// UpdatedAt returns the last update time in unix milliseconds.
func (s *Subtask) UpdatedAt() int64 { return s.updatedAt }

// Patch holds optional field updates; nil means "leave unchanged".
type Patch struct {
	Title  *string
	Status *string
}

// Apply validates the patch against s and returns the updated subtask.
func (p *Patch) Apply(s Subtask, now int64) (Subtask, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Subtask{}, fmt.Errorf("title cannot be empty")
		}
		if len(title) > MaxTitleLen {
			return Subtask{}, fmt.Errorf("title too long (max %d)", MaxTitleLen)
		}
		s.title = title
	}
	if p.Status != nil {
		st, err := task.ParseStatus(*p.Status)
		if err != nil {
			return Subtask{}, err
		}
		s.status = st
	}
	s.updatedAt = now
	return s, nil
}
