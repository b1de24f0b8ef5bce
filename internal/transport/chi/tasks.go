package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

type createTaskRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

type updateTaskRequest struct {
	Title    *string `json:"title"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
	Category *string `json:"category"`
}

type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Total int            `json:"total"`
}

type taskStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// CreateTask handles POST /api/v1/tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	t, err := s.tasks.Create(r.Context(), req.Title, req.Priority, req.Status, req.Category, userID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, taskToResponse(t))
}

// ListTasks handles GET /api/v1/tasks.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	tasks, err := s.tasks.List(r.Context(), userID(r), offset, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]taskResponse, len(tasks))
	for i := range tasks {
		items[i] = taskToResponse(tasks[i])
	}

	writeJSON(w, http.StatusOK, taskListResponse{Tasks: items, Total: len(items)})
}

// GetTask handles GET /api/v1/tasks/{id}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(t))
}

// UpdateTask handles PATCH /api/v1/tasks/{id}.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	t, err := s.tasks.Update(r.Context(), userID(r), chi.URLParam(r, "id"), domtask.Patch{
		Title:    req.Title,
		Priority: req.Priority,
		Status:   req.Status,
		Category: req.Category,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(t))
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TaskStats handles GET /api/v1/tasks/stats.
func (s *Server) TaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tasks.Stats(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Done:       stats.Done,
	})
}

func taskToResponse(t domtask.Task) taskResponse {
	return taskResponse{
		ID:        t.ID(),
		Title:     t.Title(),
		Priority:  string(t.Priority()),
		Status:    string(t.Status()),
		Category:  t.Category(),
		CreatedAt: time.UnixMilli(t.CreatedAt()).UTC(),
		UpdatedAt: time.UnixMilli(t.UpdatedAt()).UTC(),
	}
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
