// Package search implements semantic task search.
//
// The query is embedded, the K nearest task vectors are fetched scoped to the
// calling user, and hits below the similarity floor are dropped before
// ranking. An empty query is rejected before any provider call.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/domain"
	domsearch "github.com/tasknest/tasknest/internal/domain/search"
)

// Service handles semantic search over a user's tasks.
type Service struct {
	repo     Repository
	embed    Embedder
	minScore float64
	limit    int
}

// New creates a search service.
func New(repo Repository, embed Embedder, minScore float64, limit int) *Service {
	return &Service{repo: repo, embed: embed, minScore: minScore, limit: limit}
}

// Search returns the user's tasks most similar to the query, best first.
func (s *Service) Search(ctx context.Context, userID, query string) ([]domsearch.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if s.embed == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.repo.SearchByUser(ctx, userID, embResult.Embedding, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	return domsearch.Rank(hits, s.minScore, s.limit), nil
}
