package search

import (
	"context"
	"testing"

	"github.com/tasknest/tasknest/internal/db"
)

type mockStore struct {
	lastQuery *db.KNNQuery
	result    *db.SearchResult
	err       error
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	return m.result, m.err
}

func TestSearchByUserRequestsScoreField(t *testing.T) {
	store := &mockStore{result: &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{{
			Key:   "tasknest:task:t1",
			Score: 0.92,
			Fields: map[string]string{
				"title":      "Buy groceries",
				"priority":   "high",
				"status":     "pending",
				"created_at": "1700000000",
			},
		}},
	}}
	repo := New(store)

	results, err := repo.SearchByUser(context.Background(), "u1", []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("SearchByUser() error = %v", err)
	}

	// The RETURN clause must list the score attribute; with a RETURN clause
	// present FT.SEARCH only yields requested attributes, so omitting it
	// leaves every hit at score zero.
	found := false
	for _, f := range store.lastQuery.ReturnFields {
		if f == db.KNNScoreField {
			found = true
		}
	}
	if !found {
		t.Errorf("ReturnFields = %v, missing %s", store.lastQuery.ReturnFields, db.KNNScoreField)
	}

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.Score() != 0.92 {
		t.Errorf("score = %v, want 0.92 carried from the entry", r.Score())
	}
	if r.ID() != "t1" {
		t.Errorf("id = %q, want key prefix stripped", r.ID())
	}
	if r.Title() != "Buy groceries" || string(r.Priority()) != "high" {
		t.Errorf("fields not mapped: %s/%s", r.Title(), r.Priority())
	}
}

func TestSearchByUserScopesToOwner(t *testing.T) {
	store := &mockStore{result: &db.SearchResult{}}
	repo := New(store)

	if _, err := repo.SearchByUser(context.Background(), "u1", []float32{0.1}, 5); err != nil {
		t.Fatalf("SearchByUser() error = %v", err)
	}

	q := store.lastQuery
	if len(q.Filters) != 1 || q.Filters[0].Field != "user_id" || q.Filters[0].Value != "u1" {
		t.Errorf("filters = %v, want owner pre-filter", q.Filters)
	}
	if q.K != 5 {
		t.Errorf("K = %d, want 5", q.K)
	}
}
