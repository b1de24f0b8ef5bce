package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domsub "github.com/tasknest/tasknest/internal/domain/subtask"
)

type createSubtaskRequest struct {
	Title string `json:"title"`
}

type updateSubtaskRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

type subtaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TaskID    string    `json:"taskId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type subtaskListResponse struct {
	Subtasks []subtaskResponse `json:"subtasks"`
	Total    int               `json:"total"`
}

// CreateSubtask handles POST /api/v1/tasks/{id}/subtasks.
func (s *Server) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var req createSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sub, err := s.subtasks.Create(r.Context(), userID(r), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, subtaskToResponse(sub))
}

// ListSubtasks handles GET /api/v1/tasks/{id}/subtasks.
func (s *Server) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	subs, err := s.subtasks.ListForTask(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]subtaskResponse, len(subs))
	for i := range subs {
		items[i] = subtaskToResponse(subs[i])
	}

	writeJSON(w, http.StatusOK, subtaskListResponse{Subtasks: items, Total: len(items)})
}

// UpdateSubtask handles PATCH /api/v1/subtasks/{id}.
func (s *Server) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var req updateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sub, err := s.subtasks.Update(r.Context(), userID(r), chi.URLParam(r, "id"), domsub.Patch{
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, subtaskToResponse(sub))
}

// DeleteSubtask handles DELETE /api/v1/subtasks/{id}.
func (s *Server) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := s.subtasks.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func subtaskToResponse(sub domsub.Subtask) subtaskResponse {
	return subtaskResponse{
		ID:        sub.ID(),
		Title:     sub.Title(),
		TaskID:    sub.ParentTaskID(),
		Status:    string(sub.Status()),
		CreatedAt: time.UnixMilli(sub.CreatedAt()).UTC(),
		UpdatedAt: time.UnixMilli(sub.UpdatedAt()).UTC(),
	}
}
