package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tijara-app/tijara-api/internal/application/branches"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
)

const branchCacheTTL = 30 * time.Minute

var _ branches.Cache = (*BranchCache)(nil)

// BranchCache Redis-backed tenant branch list cache under
// tenant_{id}_branches, 30 minute TTL, JSON payload.
type BranchCache struct {
	rdb *redis.Client
}

// NewBranchCache builds the cache.
func NewBranchCache(rdb *redis.Client) *BranchCache {
	return &BranchCache{rdb: rdb}
}

// GetTenantBranches returns the cached list, or nil on a miss.
func (c *BranchCache) GetTenantBranches(ctx context.Context, tenantID string) ([]*entity.Branch, error) {
	raw, err := c.rdb.Get(ctx, branchCacheKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get tenant branches: %w", err)
	}
	var list []*entity.Branch
	if err := json.Unmarshal(raw, &list); err != nil {
		// A corrupt entry behaves like a miss; the caller refills it.
		return nil, nil
	}
	return list, nil
}

// SetTenantBranches stores the list with its TTL.
func (c *BranchCache) SetTenantBranches(ctx context.Context, tenantID string, branches []*entity.Branch) error {
	raw, err := json.Marshal(branches)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, branchCacheKey(tenantID), raw, branchCacheTTL).Err()
}

// Invalidate drops the cached list after a branch write.
func (c *BranchCache) Invalidate(ctx context.Context, tenantID string) error {
	return c.rdb.Del(ctx, branchCacheKey(tenantID)).Err()
}

func branchCacheKey(tenantID string) string {
	return fmt.Sprintf("tenant_%s_branches", tenantID)
}
