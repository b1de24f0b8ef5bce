package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/tasknest/internal/domain"
	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
)

// --- Mocks ---

type mockRepo struct {
	users     map[string]domuser.User // by email
	createErr error
	created   []domuser.User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]domuser.User)}
}

func (m *mockRepo) Create(_ context.Context, u domuser.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[u.Email()]; ok {
		return domain.ErrEmailTaken
	}
	m.users[u.Email()] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domuser.User, error) {
	for _, u := range m.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return domuser.User{}, domain.ErrNotFound
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (domuser.User, error) {
	u, ok := m.users[domuser.NormalizeEmail(email)]
	if !ok {
		return domuser.User{}, domain.ErrNotFound
	}
	return u, nil
}

type mockProfiles struct {
	upserts []domprofile.Profile
	err     error
}

func (m *mockProfiles) Upsert(_ context.Context, p domprofile.Profile) error {
	m.upserts = append(m.upserts, p)
	return m.err
}

type mockTokens struct {
	err error
}

func (m *mockTokens) Issue(userID string) (string, time.Time, error) {
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	return "token-for-" + userID, time.Now().Add(time.Hour), nil
}

func newService(repo *mockRepo) (*Service, *mockProfiles) {
	profiles := &mockProfiles{}
	return New(repo, profiles, &mockTokens{}, zap.NewNop()), profiles
}

// --- Tests ---

func TestSignup_Success(t *testing.T) {
	repo := newMockRepo()
	svc, profiles := newService(repo)

	session, err := svc.Signup(context.Background(), "Alex@Example.com", "hunter2secret", "Alex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a token")
	}
	if session.User.Email() != "alex@example.com" {
		t.Errorf("expected normalized email, got %q", session.User.Email())
	}
	if session.User.PasswordHash() == "hunter2secret" {
		t.Error("password must be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(session.User.PasswordHash()), []byte("hunter2secret")) != nil {
		t.Error("stored hash must verify the password")
	}
	if len(profiles.upserts) != 1 {
		t.Errorf("expected profile seeded once, got %d", len(profiles.upserts))
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newService(newMockRepo())

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter2secret"},
		{"empty password", "a@b.com", ""},
		{"short password", "a@b.com", "short"},
		{"invalid email", "not-an-email", "hunter2secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.email, tc.password, "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newService(repo)

	if _, err := svc.Signup(context.Background(), "a@b.com", "hunter2secret", ""); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(context.Background(), "A@B.com", "otherpassword", "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignup_ProfileFailureDoesNotFailSignup(t *testing.T) {
	repo := newMockRepo()
	profiles := &mockProfiles{err: errors.New("db down")}
	svc := New(repo, profiles, &mockTokens{}, zap.NewNop())

	if _, err := svc.Signup(context.Background(), "a@b.com", "hunter2secret", ""); err != nil {
		t.Fatalf("profile failure must not fail signup: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newService(repo)
	if _, err := svc.Signup(context.Background(), "a@b.com", "hunter2secret", "Alex"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	session, err := svc.Login(context.Background(), "A@B.com", "hunter2secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newService(repo)
	if _, err := svc.Signup(context.Background(), "a@b.com", "hunter2secret", ""); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@b.com", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService(newMockRepo())

	_, err := svc.Login(context.Background(), "ghost@b.com", "hunter2secret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}
