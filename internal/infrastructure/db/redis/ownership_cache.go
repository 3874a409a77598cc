package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ownershipTTL = 5 * time.Minute

// OwnershipCache caches which company owns a handle. Entries are short-lived
// so an account transfer is picked up within ownershipTTL at worst; negative
// results are never cached.
type OwnershipCache struct {
	client *redis.Client
}

// NewOwnershipCache creates an OwnershipCache wrapping the given Redis client.
func NewOwnershipCache(client *redis.Client) *OwnershipCache {
	return &OwnershipCache{client: client}
}

// Get returns the cached owning company for handle, if present.
func (c *OwnershipCache) Get(ctx context.Context, handle string) (int64, bool, error) {
	id, err := c.client.Get(ctx, c.key(handle)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ownership cache get: %w", err)
	}
	return id, true, nil
}

// Set records the owning company for handle (expires after ownershipTTL).
func (c *OwnershipCache) Set(ctx context.Context, handle string, companyID int64) error {
	return c.client.Set(ctx, c.key(handle), companyID, ownershipTTL).Err()
}

func (c *OwnershipCache) key(handle string) string {
	return fmt.Sprintf("acl:%s", handle)
}
