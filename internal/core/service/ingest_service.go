package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// DedupChecker abstracts the snapshot idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, handle string, capturedAt time.Time) (bool, error)
	Mark(ctx context.Context, handle string, capturedAt time.Time) error
}

type ingestService struct {
	accounts   ports.AccountRepository
	metricRepo ports.MetricRepository
	dedup      DedupChecker
	log        zerolog.Logger
}

// NewIngestService returns an IngestService implementation.
func NewIngestService(
	accounts ports.AccountRepository,
	metricRepo ports.MetricRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.IngestService {
	return &ingestService{
		accounts:   accounts,
		metricRepo: metricRepo,
		dedup:      dedup,
		log:        log,
	}
}

// Process deduplicates and persists a single scraped metric snapshot.
func (s *ingestService) Process(ctx context.Context, in ports.MetricSnapshotInput) error {
	start := time.Now()

	// 1. Idempotency check — silently skip replayed snapshots.
	isDup, err := s.dedup.IsDuplicate(ctx, in.Handle, in.CapturedAt)
	if err != nil {
		s.log.Warn().Err(err).Str("handle", in.Handle).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.SnapshotsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("handle", in.Handle).Time("captured_at", in.CapturedAt).Msg("duplicate snapshot skipped")
		return nil
	}
	metrics.SnapshotsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Resolve the account; snapshots for unmanaged handles are rejected.
	acct, err := s.accounts.FindByHandle(ctx, in.Handle)
	if err != nil {
		metrics.SnapshotsErrorsTotal.WithLabelValues("unknown_account").Inc()
		return fmt.Errorf("ingest snapshot: %w", err)
	}

	// 3. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.Handle, in.CapturedAt); markErr != nil {
		s.log.Warn().Err(markErr).Str("handle", in.Handle).Msg("failed to set dedup key")
	}

	// 4. Persist the snapshot.
	point := &domain.MetricPoint{
		AccountID:  acct.ID,
		Handle:     acct.Handle,
		CapturedAt: in.CapturedAt.UTC(),
		Followers:  in.Followers,
		Posts:      in.Posts,
		Following:  in.Following,
		Views:      in.Views,
	}
	if err := s.metricRepo.Insert(ctx, point); err != nil {
		metrics.SnapshotsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("ingest snapshot: insert: %w", err)
	}

	metrics.SnapshotsIngestedTotal.Inc()
	metrics.SnapshotProcessingDuration.Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("handle", in.Handle).
		Time("captured_at", in.CapturedAt).
		Int64("followers", in.Followers).
		Msg("snapshot ingested")

	return nil
}
