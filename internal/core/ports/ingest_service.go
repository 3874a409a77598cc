package ports

import (
	"context"
	"time"
)

// MetricSnapshotInput is the DTO passed from the transport layer to the
// ingestion pipeline.
type MetricSnapshotInput struct {
	Handle     string
	CapturedAt time.Time
	Followers  int64
	Posts      int64
	Following  int64
	Views      int64
}

// IngestService processes scraped metric snapshots.
type IngestService interface {
	Process(ctx context.Context, snap MetricSnapshotInput) error
}
