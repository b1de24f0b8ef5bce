package search

import (
	"context"
	"errors"
	"testing"

	"github.com/tasknest/tasknest/internal/domain"
	domsearch "github.com/tasknest/tasknest/internal/domain/search"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// --- Mocks ---

type mockRepo struct {
	results []domsearch.Result
	err     error
	called  bool
	lastK   int
}

func (m *mockRepo) SearchByUser(_ context.Context, _ string, _ []float32, topK int) ([]domsearch.Result, error) {
	m.called = true
	m.lastK = topK
	return m.results, m.err
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	return domain.EmbeddingResult{Embedding: m.vec}, m.err
}

func mkResult(id string, score float64, createdAt int64) domsearch.Result {
	return domsearch.New(id, "title", domtask.PriorityMedium, domtask.StatusPending, "", score, createdAt)
}

// --- Tests ---

func TestSearch_EmptyQuery(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, emb, 0.7, 5)

	_, err := svc.Search(context.Background(), "u1", "   ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if emb.called {
		t.Error("embedder must not be called for an empty query")
	}
	if repo.called {
		t.Error("repo must not be called for an empty query")
	}
}

func TestSearch_NoProvider(t *testing.T) {
	svc := New(&mockRepo{}, nil, 0.7, 5)

	_, err := svc.Search(context.Background(), "u1", "groceries")
	if !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestSearch_EmbedderError(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{err: domain.ErrProviderUnavailable}
	svc := New(repo, emb, 0.7, 5)

	_, err := svc.Search(context.Background(), "u1", "groceries")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if repo.called {
		t.Error("repo must not be called when embedding fails")
	}
}

func TestSearch_RanksAndFilters(t *testing.T) {
	repo := &mockRepo{results: []domsearch.Result{
		mkResult("below", 0.5, 1),
		mkResult("top", 0.95, 2),
		mkResult("mid", 0.8, 3),
	}}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, emb, 0.7, 5)

	out, err := svc.Search(context.Background(), "u1", "groceries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastK != 5 {
		t.Errorf("expected K=5, got %d", repo.lastK)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(out))
	}
	if out[0].ID() != "top" || out[1].ID() != "mid" {
		t.Errorf("wrong order: %s, %s", out[0].ID(), out[1].ID())
	}
}

func TestSearch_NoMatches(t *testing.T) {
	repo := &mockRepo{results: []domsearch.Result{mkResult("far", 0.2, 1)}}
	emb := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, emb, 0.7, 5)

	out, err := svc.Search(context.Background(), "u1", "unrelated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no results, got %d", len(out))
	}
}
