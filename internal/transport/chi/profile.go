package chi

import (
	"encoding/json"
	"net/http"
	"time"

	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
)

type updateProfileRequest struct {
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
}

type profileResponse struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetProfile handles GET /api/v1/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// UpdateProfile handles PATCH /api/v1/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.profiles.Update(r.Context(), userID(r), domprofile.Patch{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(p))
}

func profileToResponse(p domprofile.Profile) profileResponse {
	return profileResponse{
		UserID:    p.UserID(),
		FullName:  p.FullName(),
		AvatarURL: p.AvatarURL(),
		UpdatedAt: time.UnixMilli(p.UpdatedAt()).UTC(),
	}
}
