package ports

import (
	"context"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// AccountRepository defines persistence for managed social accounts.
type AccountRepository interface {
	FindByHandle(ctx context.Context, handle string) (*domain.SocialAccount, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*domain.SocialAccount, error)
}

// MetricRepository stores scraped metric snapshots.
type MetricRepository interface {
	Insert(ctx context.Context, point *domain.MetricPoint) error
	// ListByHandle returns snapshots newest first. limit <= 0 means no limit.
	ListByHandle(ctx context.Context, handle string, limit int64) ([]*domain.MetricPoint, error)
}

// PostRepository stores published content records.
type PostRepository interface {
	Insert(ctx context.Context, post *domain.Post) error
	ListByHandle(ctx context.Context, handle string) ([]*domain.Post, error)
}

// ModelRepository stores trained model artifacts. Every training run inserts a
// new artifact; the newest one per (handle, kind) is the live model.
type ModelRepository interface {
	Save(ctx context.Context, artifact *domain.ModelArtifact) error
	FindLatest(ctx context.Context, handle string, kind domain.ModelKind) (*domain.ModelArtifact, error)
	ListByHandle(ctx context.Context, handle string, kind domain.ModelKind) ([]*domain.ModelArtifact, error)
	// DeleteByHandle removes all artifacts for (handle, kind) and reports how
	// many were removed.
	DeleteByHandle(ctx context.Context, handle string, kind domain.ModelKind) (int64, error)
}
