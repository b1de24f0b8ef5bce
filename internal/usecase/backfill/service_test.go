package backfill

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

// --- Mocks ---

type mockRepo struct {
	mu         sync.Mutex
	candidates []domtask.Task
	listErr    error
	setErrFor  map[string]error
	setCalls   []string
}

func (m *mockRepo) ListMissingEmbedding(_ context.Context, _ string, _ int) ([]domtask.Task, error) {
	return m.candidates, m.listErr
}

func (m *mockRepo) SetVector(_ context.Context, _, id string, _ []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls = append(m.setCalls, id)
	return m.setErrFor[id]
}

type mockEmbedder struct {
	mu     sync.Mutex
	errFor map[string]error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errFor[text]; err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func mkTask(t *testing.T, id, title string) domtask.Task {
	t.Helper()
	tk, err := domtask.New(id, title, domtask.PriorityMedium, domtask.StatusPending, "", "u1", 1000)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return tk
}

// --- Tests ---

func TestRun_NoProvider(t *testing.T) {
	svc := New(&mockRepo{}, nil, 1, zap.NewNop())

	_, err := svc.Run(context.Background(), "u1")
	if !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestRun_NothingToDo(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{}, 1, zap.NewNop())

	report, err := svc.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestRun_AllSucceed(t *testing.T) {
	repo := &mockRepo{candidates: []domtask.Task{
		mkTask(t, "t1", "first"),
		mkTask(t, "t2", "second"),
	}}
	svc := New(repo, &mockEmbedder{}, 1, zap.NewNop())

	report, err := svc.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Updated != 2 || report.Failed != 0 || report.Total != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(repo.setCalls) != 2 {
		t.Errorf("expected 2 vector writes, got %d", len(repo.setCalls))
	}
}

func TestRun_PartialFailureContinues(t *testing.T) {
	repo := &mockRepo{candidates: []domtask.Task{
		mkTask(t, "t1", "good"),
		mkTask(t, "t2", "bad"),
		mkTask(t, "t3", "also good"),
	}}
	emb := &mockEmbedder{errFor: map[string]error{"bad": domain.ErrProviderUnavailable}}
	svc := New(repo, emb, 1, zap.NewNop())

	report, err := svc.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("partial failure must not fail the batch: %v", err)
	}
	if report.Updated != 2 || report.Failed != 1 || report.Total != 3 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Updated >= report.Total {
		t.Error("updated must be below total on partial failure")
	}
	if emb.calls != 3 {
		t.Errorf("every candidate must be attempted, got %d calls", emb.calls)
	}
}

func TestRun_StoreFailureCountsAsFailed(t *testing.T) {
	repo := &mockRepo{
		candidates: []domtask.Task{mkTask(t, "t1", "title")},
		setErrFor:  map[string]error{"t1": errors.New("write failed")},
	}
	svc := New(repo, &mockEmbedder{}, 1, zap.NewNop())

	report, err := svc.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed != 1 || report.Updated != 0 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestRun_ConcurrentWorkers(t *testing.T) {
	candidates := make([]domtask.Task, 20)
	for i := range candidates {
		candidates[i] = mkTask(t, string(rune('a'+i)), "title")
	}
	repo := &mockRepo{candidates: candidates}
	svc := New(repo, &mockEmbedder{}, 4, zap.NewNop())

	report, err := svc.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Updated != 20 || report.Total != 20 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestRun_ListError(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("db down")}
	svc := New(repo, &mockEmbedder{}, 1, zap.NewNop())

	if _, err := svc.Run(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when listing fails")
	}
}
