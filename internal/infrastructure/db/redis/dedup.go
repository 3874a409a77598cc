package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides snapshot idempotency checks backed by Redis.
// Key format: dedup:<handle>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact snapshot has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, handle string, capturedAt time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(handle, capturedAt)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this snapshot has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, handle string, capturedAt time.Time) error {
	return d.client.Set(ctx, d.key(handle, capturedAt), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(handle string, capturedAt time.Time) string {
	return fmt.Sprintf("dedup:%s:%d", handle, capturedAt.Unix())
}
