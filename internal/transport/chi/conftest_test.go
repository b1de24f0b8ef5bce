package chi

import (
	"context"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
	domsearch "github.com/tasknest/tasknest/internal/domain/search"
	domsub "github.com/tasknest/tasknest/internal/domain/subtask"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
	"github.com/tasknest/tasknest/internal/token"
	authuc "github.com/tasknest/tasknest/internal/usecase/auth"
	backfilluc "github.com/tasknest/tasknest/internal/usecase/backfill"
	healthuc "github.com/tasknest/tasknest/internal/usecase/health"
	profileuc "github.com/tasknest/tasknest/internal/usecase/profile"
	searchuc "github.com/tasknest/tasknest/internal/usecase/search"
	subtaskuc "github.com/tasknest/tasknest/internal/usecase/subtask"
	suggestuc "github.com/tasknest/tasknest/internal/usecase/suggest"
	taskuc "github.com/tasknest/tasknest/internal/usecase/task"
)

// --- In-memory stores ---

type memUsers struct {
	mu    sync.Mutex
	users map[string]domuser.User // by email
}

func newMemUsers() *memUsers { return &memUsers{users: make(map[string]domuser.User)} }

func (m *memUsers) Create(_ context.Context, u domuser.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email()]; ok {
		return domain.ErrEmailTaken
	}
	m.users[u.Email()] = u
	return nil
}

func (m *memUsers) Get(_ context.Context, id string) (domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return domuser.User{}, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[domuser.NormalizeEmail(email)]
	if !ok {
		return domuser.User{}, domain.ErrNotFound
	}
	return u, nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]domprofile.Profile
}

func newMemProfiles() *memProfiles { return &memProfiles{profiles: make(map[string]domprofile.Profile)} }

func (m *memProfiles) Get(_ context.Context, userID string) (domprofile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return domprofile.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p domprofile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID()] = p
	return nil
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[string]domtask.Task
}

func newMemTasks() *memTasks { return &memTasks{tasks: make(map[string]domtask.Task)} }

func (m *memTasks) Create(_ context.Context, t domtask.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID()] = t
	return nil
}

func (m *memTasks) Get(_ context.Context, userID, id string) (domtask.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID() != userID {
		return domtask.Task{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTasks) Update(_ context.Context, t domtask.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID()] = t
	return nil
}

func (m *memTasks) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID() != userID {
		return domain.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTasks) ListByUser(_ context.Context, userID string, _, _ int) ([]domtask.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domtask.Task
	for _, t := range m.tasks {
		if t.UserID() == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) ListMissingEmbedding(_ context.Context, userID string, _ int) ([]domtask.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domtask.Task
	for _, t := range m.tasks {
		if t.UserID() == userID && !t.HasVector() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) SetVector(_ context.Context, userID, id string, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID() != userID {
		return domain.ErrNotFound
	}
	m.tasks[id] = t.WithVector(vector)
	return nil
}

func (m *memTasks) StatusCounts(_ context.Context, userID string) (map[domtask.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[domtask.Status]int)
	for _, t := range m.tasks {
		if t.UserID() == userID {
			counts[t.Status()]++
		}
	}
	return counts, nil
}

type memSubtasks struct {
	mu   sync.Mutex
	subs map[string]domsub.Subtask
}

func newMemSubtasks() *memSubtasks { return &memSubtasks{subs: make(map[string]domsub.Subtask)} }

func (m *memSubtasks) Create(_ context.Context, s domsub.Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.ID()] = s
	return nil
}

func (m *memSubtasks) Get(_ context.Context, userID, id string) (domsub.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok || s.UserID() != userID {
		return domsub.Subtask{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSubtasks) Update(_ context.Context, s domsub.Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.ID()] = s
	return nil
}

func (m *memSubtasks) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok || s.UserID() != userID {
		return domain.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *memSubtasks) ListByParent(_ context.Context, userID, parentTaskID string, _ int) ([]domsub.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domsub.Subtask
	for _, s := range m.subs {
		if s.UserID() == userID && s.ParentTaskID() == parentTaskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubtasks) DeleteByParent(_ context.Context, userID, parentTaskID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.subs {
		if s.UserID() == userID && s.ParentTaskID() == parentTaskID {
			delete(m.subs, id)
			n++
		}
	}
	return n, nil
}

// --- Provider stubs ---

type stubSearchRepo struct {
	results []domsearch.Result
	err     error
}

func (s *stubSearchRepo) SearchByUser(_ context.Context, _ string, _ []float32, _ int) ([]domsearch.Result, error) {
	return s.results, s.err
}

type stubEmbedder struct {
	vec    []float32
	err    error
	called int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.called++
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: s.vec}, nil
}

type stubCompleter struct {
	reply  string
	err    error
	called int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.called++
	return s.reply, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

// --- Test environment ---

type testEnv struct {
	tasks      *memTasks
	subtasks   *memSubtasks
	users      *memUsers
	profiles   *memProfiles
	searchRepo *stubSearchRepo
	embedder   *stubEmbedder
	completer  *stubCompleter
	tokens     *token.Manager
	server     *httptest.Server
}

// aiOff builds the environment without a configured provider.
type envOption func(*testEnv)

func withoutProvider() envOption {
	return func(e *testEnv) {
		e.embedder = nil
		e.completer = nil
	}
}

func withEmbedderErr(err error) envOption {
	return func(e *testEnv) { e.embedder.err = err }
}

func withCompleterReply(reply string, err error) envOption {
	return func(e *testEnv) {
		e.completer.reply = reply
		e.completer.err = err
	}
}

func withSearchResults(results []domsearch.Result) envOption {
	return func(e *testEnv) { e.searchRepo.results = results }
}

func newTestEnv(opts ...envOption) *testEnv {
	env := &testEnv{
		tasks:      newMemTasks(),
		subtasks:   newMemSubtasks(),
		users:      newMemUsers(),
		profiles:   newMemProfiles(),
		searchRepo: &stubSearchRepo{},
		embedder:   &stubEmbedder{vec: []float32{0.1, 0.2}},
		completer:  &stubCompleter{reply: `["Step one","Step two"]`},
		tokens:     token.NewManager("test-secret", time.Hour),
	}
	for _, opt := range opts {
		opt(env)
	}

	logger := zap.NewNop()

	var embedder taskuc.Embedder
	var searchEmbedder searchuc.Embedder
	var backfillEmbedder backfilluc.Embedder
	if env.embedder != nil {
		embedder = env.embedder
		searchEmbedder = env.embedder
		backfillEmbedder = env.embedder
	}
	var completer suggestuc.Completer
	if env.completer != nil {
		completer = env.completer
	}

	authSvc := authuc.New(env.users, env.profiles, env.tokens, logger)
	taskSvc := taskuc.New(env.tasks, env.subtasks, embedder, logger)
	subtaskSvc := subtaskuc.New(env.subtasks, env.tasks)
	profileSvc := profileuc.New(env.profiles, env.users)
	searchSvc := searchuc.New(env.searchRepo, searchEmbedder, 0.7, 5)
	backfillSvc := backfilluc.New(env.tasks, backfillEmbedder, 1, logger)
	suggestSvc := suggestuc.New(completer)
	healthSvc := healthuc.New(&stubPinger{}, nil)

	server := NewServer(
		authSvc, taskSvc, subtaskSvc, profileSvc,
		searchSvc, backfillSvc, suggestSvc, healthSvc,
		env.tokens, logger,
	)

	r := chi.NewRouter()
	server.RegisterRoutes(r)
	env.server = httptest.NewServer(r)
	return env
}

func (e *testEnv) close() { e.server.Close() }
