package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domsearch "github.com/tasknest/tasknest/internal/domain/search"
)

type suggestRequest struct {
	TaskTitle string `json:"taskTitle"`
}

type suggestResponse struct {
	Subtasks []string `json:"subtasks"`
}

type backfillResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
	Total   int    `json:"total"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResultItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Category  string    `json:"category,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
}

// SuggestSubtasks handles POST /api/v1/ai/suggest-subtasks.
func (s *Server) SuggestSubtasks(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	titles, err := s.suggest.Suggest(r.Context(), req.TaskTitle)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Subtasks: titles})
}

// BackfillEmbeddings handles POST /api/v1/ai/backfill-embeddings.
func (s *Server) BackfillEmbeddings(w http.ResponseWriter, r *http.Request) {
	report, err := s.backfill.Run(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, backfillResponse{
		Message: fmt.Sprintf("Backfilled embeddings for %d of %d tasks", report.Updated, report.Total),
		Updated: report.Updated,
		Total:   report.Total,
	})
}

// SearchTasks handles POST /api/v1/ai/search.
func (s *Server) SearchTasks(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), userID(r), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToItem(&results[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: items})
}

func searchResultToItem(r *domsearch.Result) searchResultItem {
	return searchResultItem{
		ID:        r.ID(),
		Title:     r.Title(),
		Priority:  string(r.Priority()),
		Status:    string(r.Status()),
		Category:  r.Category(),
		Score:     r.Score(),
		CreatedAt: time.UnixMilli(r.CreatedAt()).UTC(),
	}
}
