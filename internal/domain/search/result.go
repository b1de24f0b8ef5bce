// Package search holds the semantic search result type and ranking rules.
package search

import (
	"sort"

	"github.com/tasknest/tasknest/internal/domain/task"
)

// Result is a single semantic search hit. Derived per query, never persisted.
type Result struct {
	id        string
	title     string
	priority  task.Priority
	status    task.Status
	category  string
	score     float64 // similarity in [0,1]
	createdAt int64
}

// New creates a Result.
func New(id, title string, priority task.Priority, status task.Status, category string, score float64, createdAt int64) Result {
	return Result{
		id: id, title: title, priority: priority, status: status,
		category: category, score: score, createdAt: createdAt,
	}
}

// ID returns the matched task identifier.
func (r *Result) ID() string { return r.id }

// Title returns the matched task title.
func (r *Result) Title() string { return r.title }

// Priority returns the matched task priority.
func (r *Result) Priority() task.Priority { return r.priority }

// Status returns the matched task status.
func (r *Result) Status() task.Status { return r.status }

// Category returns the matched task category.
func (r *Result) Category() string { return r.category }

// Score returns the similarity score in [0,1].
func (r *Result) Score() float64 { return r.score }

// CreatedAt returns the matched task creation time in unix milliseconds.
func (r *Result) CreatedAt() int64 { return r.createdAt }

// Rank drops hits below minScore, orders the rest by descending score with
// descending creation time as the stable tie-break, and truncates to limit.
func Rank(results []Result, minScore float64, limit int) []Result {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.score >= minScore {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].createdAt > kept[j].createdAt
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
