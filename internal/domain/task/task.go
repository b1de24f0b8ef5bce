// Package task holds the task aggregate and its value types.
package task

import (
	"fmt"
	"strings"
)

// MaxTitleLen bounds task titles; anything longer is almost certainly pasted junk.
const MaxTitleLen = 500

// Priority is the task urgency level.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("priority must be low, medium or high, got %q", s)
}

// Status is the task completion state.
type Status string

// Status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists all valid statuses, in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("status must be pending, in_progress or done, got %q", s)
}

// Task is the task aggregate (immutable value object).
//
// The vector, when present, is the embedding of the title at the time it was
// computed. A later title edit clears it so the backfill pass recomputes it;
// it is never served as fresh data.
type Task struct {
	id        string
	title     string
	priority  Priority
	status    Status
	category  string
	userID    string
	createdAt int64 // unix milli
	updatedAt int64
	vector    []float32
}

// New validates and creates a Task without a vector.
func New(id, title string, priority Priority, status Status, category, userID string, now int64) (Task, error) {
	title = strings.TrimSpace(title)
	if id == "" {
		return Task{}, fmt.Errorf("task ID is required")
	}
	if title == "" {
		return Task{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return Task{}, fmt.Errorf("title too long (max %d)", MaxTitleLen)
	}
	if userID == "" {
		return Task{}, fmt.Errorf("owner is required")
	}
	if _, err := ParsePriority(string(priority)); err != nil {
		return Task{}, err
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return Task{}, err
	}

	return Task{
		id: id, title: title, priority: priority, status: status,
		category: strings.TrimSpace(category), userID: userID,
		createdAt: now, updatedAt: now,
	}, nil
}

// Reconstruct creates a Task without validation (storage hydration).
func Reconstruct(
	id, title string, priority Priority, status Status, category, userID string,
	createdAt, updatedAt int64, vector []float32,
) Task {
	return Task{
		id: id, title: title, priority: priority, status: status,
		category: category, userID: userID,
		createdAt: createdAt, updatedAt: updatedAt, vector: vector,
	}
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// Title returns the task title.
func (t *Task) Title() string { return t.title }

// Priority returns the urgency level.
func (t *Task) Priority() Priority { return t.priority }

// Status returns the completion state.
func (t *Task) Status() Status { return t.status }

// Category returns the optional category tag.
func (t *Task) Category() string { return t.category }

// UserID returns the owning user's identifier.
func (t *Task) UserID() string { return t.userID }

// CreatedAt returns the creation time in unix milliseconds.
func (t *Task) CreatedAt() int64 { return t.createdAt }

// UpdatedAt returns the last update time in unix milliseconds.
func (t *Task) UpdatedAt() int64 { return t.updatedAt }

// Vector returns the title embedding, or nil if not yet computed.
func (t *Task) Vector() []float32 { return t.vector }

// HasVector reports whether a title embedding is stored.
func (t *Task) HasVector() bool { return len(t.vector) > 0 }

// WithVector returns a copy with the given embedding set.
func (t *Task) WithVector(v []float32) Task {
	c := *t
	c.vector = v
	return c
}

// Patch holds optional field updates; nil means "leave unchanged".
type Patch struct {
	Title    *string
	Priority *string
	Status   *string
	Category *string
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Priority == nil && p.Status == nil && p.Category == nil
}

// Apply validates the patch against t and returns the updated task.
// A title change clears the stored vector; callers re-embed or leave it for backfill.
func (p *Patch) Apply(t Task, now int64) (Task, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Task{}, fmt.Errorf("title cannot be empty")
		}
		if len(title) > MaxTitleLen {
			return Task{}, fmt.Errorf("title too long (max %d)", MaxTitleLen)
		}
		if title != t.title {
			t.title = title
			t.vector = nil
		}
	}
	if p.Priority != nil {
		pr, err := ParsePriority(*p.Priority)
		if err != nil {
			return Task{}, err
		}
		t.priority = pr
	}
	if p.Status != nil {
		st, err := ParseStatus(*p.Status)
		if err != nil {
			return Task{}, err
		}
		t.status = st
	}
	if p.Category != nil {
		t.category = strings.TrimSpace(*p.Category)
	}
	t.updatedAt = now
	return t, nil
}
