// Package backfill computes missing title embeddings for a user's tasks.
//
// Each candidate is processed independently: one provider failure marks that
// task failed and the batch moves on, so a partial run still reports progress
// and a rerun converges on the remainder.
package backfill

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	dombackfill "github.com/tasknest/tasknest/internal/domain/backfill"
	domtask "github.com/tasknest/tasknest/internal/domain/task"
	"github.com/tasknest/tasknest/internal/metrics"
)

// Service runs the embedding backfill batch.
type Service struct {
	repo        Repository
	embed       Embedder
	concurrency int
	logger      *zap.Logger
}

// New creates a backfill service. embed may be nil when no provider is
// configured; Run then fails up front without touching storage.
func New(repo Repository, embed Embedder, concurrency int, logger *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{repo: repo, embed: embed, concurrency: concurrency, logger: logger}
}

// Run embeds every task of the user that has no stored vector and reports
// per-item counts. Rerunning after a full success is a no-op with Total 0.
func (s *Service) Run(ctx context.Context, userID string) (dombackfill.Report, error) {
	if s.embed == nil {
		return dombackfill.Report{}, domain.ErrProviderNotConfigured
	}

	candidates, err := s.repo.ListMissingEmbedding(ctx, userID, 0)
	if err != nil {
		return dombackfill.Report{}, fmt.Errorf("list unembedded tasks: %w", err)
	}
	if len(candidates) == 0 {
		return dombackfill.Report{}, nil
	}

	outcomes := s.processAll(ctx, userID, candidates)

	report := dombackfill.Reduce(outcomes)
	for _, o := range outcomes {
		metrics.BackfillTasksTotal.WithLabelValues(string(o.Status())).Inc()
		if o.Err() != nil {
			s.logger.Warn("Failed to backfill task embedding",
				zap.String("task_id", o.TaskID()), zap.Error(o.Err()))
		}
	}
	s.logger.Info("Embedding backfill finished",
		zap.String("user_id", userID),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("total", report.Total))

	return report, nil
}

// processAll fans candidates out over a bounded worker pool, keeping outcome
// order aligned with the candidate order.
func (s *Service) processAll(ctx context.Context, userID string, candidates []domtask.Task) []dombackfill.Outcome {
	outcomes := make([]dombackfill.Outcome, len(candidates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.processOne(ctx, userID, candidates[i])
		}(i)
	}
	wg.Wait()

	return outcomes
}

func (s *Service) processOne(ctx context.Context, userID string, t domtask.Task) dombackfill.Outcome {
	result, err := s.embed.Embed(ctx, t.Title())
	if err != nil {
		return dombackfill.NewFailed(t.ID(), fmt.Errorf("embed title: %w", err))
	}
	if err := s.repo.SetVector(ctx, userID, t.ID(), result.Embedding); err != nil {
		return dombackfill.NewFailed(t.ID(), fmt.Errorf("store vector: %w", err))
	}
	return dombackfill.NewUpdated(t.ID())
}
