package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

func newTestIngestService() (ports.IngestService, *stubMetricRepo, *stubDedup) {
	accounts := newStubAccountRepo(
		&domain.SocialAccount{ID: "a1", Handle: "Interbank", CompanyID: 1},
	)
	metricRepo := &stubMetricRepo{}
	dedup := newStubDedup()
	return NewIngestService(accounts, metricRepo, dedup, zerolog.Nop()), metricRepo, dedup
}

func snapshot(at time.Time) ports.MetricSnapshotInput {
	return ports.MetricSnapshotInput{
		Handle:     "Interbank",
		CapturedAt: at,
		Followers:  150000,
		Posts:      3200,
		Following:  12,
		Views:      900000,
	}
}

func TestIngestService_PersistsSnapshot(t *testing.T) {
	svc, metricRepo, dedup := newTestIngestService()
	at := time.Date(2025, 5, 2, 23, 0, 0, 0, time.UTC)

	if err := svc.Process(context.Background(), snapshot(at)); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(metricRepo.points) != 1 {
		t.Fatalf("expected 1 persisted point, got %d", len(metricRepo.points))
	}
	p := metricRepo.points[0]
	if p.AccountID != "a1" || p.Handle != "Interbank" || p.Followers != 150000 {
		t.Fatalf("unexpected point: %+v", p)
	}
	if dedup.marks != 1 {
		t.Fatalf("expected dedup mark, got %d", dedup.marks)
	}
}

func TestIngestService_SkipsDuplicate(t *testing.T) {
	svc, metricRepo, _ := newTestIngestService()
	at := time.Date(2025, 5, 2, 23, 0, 0, 0, time.UTC)

	if err := svc.Process(context.Background(), snapshot(at)); err != nil {
		t.Fatalf("first process failed: %v", err)
	}
	if err := svc.Process(context.Background(), snapshot(at)); err != nil {
		t.Fatalf("duplicate process errored: %v", err)
	}
	if len(metricRepo.points) != 1 {
		t.Fatalf("duplicate was persisted, %d points", len(metricRepo.points))
	}
}

func TestIngestService_UnknownAccount(t *testing.T) {
	svc, metricRepo, _ := newTestIngestService()
	in := snapshot(time.Now())
	in.Handle = "NoSuchHandle"

	if err := svc.Process(context.Background(), in); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if len(metricRepo.points) != 0 {
		t.Fatalf("snapshot for unknown account was persisted")
	}
}

func TestIngestService_DedupFailureStillProcesses(t *testing.T) {
	svc, metricRepo, dedup := newTestIngestService()
	dedup.fail = true

	if err := svc.Process(context.Background(), snapshot(time.Now())); err != nil {
		t.Fatalf("process failed with broken dedup: %v", err)
	}
	if len(metricRepo.points) != 1 {
		t.Fatalf("snapshot lost when dedup store was down")
	}
}
