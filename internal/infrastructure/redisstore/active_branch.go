package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
)

// TTLs for the two active-branch keys. The selection is the user's durable
// choice for the working day; the cache key mirrors it for fast resolution.
const (
	selectionTTL = 24 * time.Hour
	cachedTTL    = 24 * time.Hour
)

var _ branchctx.Store = (*ActiveBranchStore)(nil)

// ActiveBranchStore Redis-backed implementation of the resolver's store:
// per-user selection under active_branch:{user_id}, cached value under
// user_{user_id}_active_branch. Misses return empty string, not errors.
type ActiveBranchStore struct {
	rdb *redis.Client
}

// NewActiveBranchStore builds the store.
func NewActiveBranchStore(rdb *redis.Client) *ActiveBranchStore {
	return &ActiveBranchStore{rdb: rdb}
}

// GetSelection returns the user's stored branch choice, or "" on a miss.
func (s *ActiveBranchStore) GetSelection(ctx context.Context, userID string) (string, error) {
	return s.get(ctx, selectionKey(userID))
}

// SetSelection stores the user's branch choice.
func (s *ActiveBranchStore) SetSelection(ctx context.Context, userID, branchID string) error {
	return s.rdb.Set(ctx, selectionKey(userID), branchID, selectionTTL).Err()
}

// GetCached returns the cached resolution, or "" on a miss.
func (s *ActiveBranchStore) GetCached(ctx context.Context, userID string) (string, error) {
	return s.get(ctx, cachedKey(userID))
}

// SetCached stores the cached resolution with its 24h TTL.
func (s *ActiveBranchStore) SetCached(ctx context.Context, userID, branchID string) error {
	return s.rdb.Set(ctx, cachedKey(userID), branchID, cachedTTL).Err()
}

func (s *ActiveBranchStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func selectionKey(userID string) string {
	return "active_branch:" + userID
}

func cachedKey(userID string) string {
	return fmt.Sprintf("user_%s_active_branch", userID)
}
