package ports

import (
	"context"
	"time"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// PostInput is the DTO for submitting one published post.
type PostInput struct {
	Handle         string
	PublishedAt    time.Time
	Content        string
	Likes          int64
	Retweets       int64
	Views          int64
	EngagementRate float64
}

// ContentService serves account-scoped reads of stored posts and metric
// snapshots, and accepts post writes.
type ContentService interface {
	ListPosts(ctx context.Context, handle string) ([]*domain.Post, error)
	AddPost(ctx context.Context, in PostInput) (*domain.Post, error)
	// ListMetrics returns snapshots newest first. limit <= 0 means no limit.
	ListMetrics(ctx context.Context, handle string, limit int64) ([]*domain.MetricPoint, error)
}
