package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/tasknest/tasknest/internal/logger"
	authuc "github.com/tasknest/tasknest/internal/usecase/auth"
)

// TokenVerifier checks an access token and returns the user it belongs to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type contextKey string

const userIDKey contextKey = "user_id"

// RequireAuth validates the Bearer token and puts the user ID in the context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
			return
		}

		userID, err := s.verifier.Verify(auth[len(bearerPrefix):])
		if err != nil {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token")
			return
		}

		ctx := logpkg.With(r.Context(), zap.String("user_id", userID))
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userIDKey, userID)))
	})
}

// userID returns the authenticated user ID set by RequireAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Signup handles POST /api/v1/auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := s.auth.Signup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionToResponse(session))
}

// Login handles POST /api/v1/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

func sessionToResponse(session authuc.Session) sessionResponse {
	return sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: userResponse{
			ID:        session.User.ID(),
			Email:     session.User.Email(),
			FullName:  session.User.FullName(),
			CreatedAt: time.UnixMilli(session.User.CreatedAt()).UTC(),
		},
	}
}
