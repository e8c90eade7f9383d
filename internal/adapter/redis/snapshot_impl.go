package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/pkg/utils"
)

const snapshotPrefix = "contextmenu:"

// SnapshotRepoImpl provides a concrete implementation for the SnapshotRepository interface using Redis.
type SnapshotRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepo creates a new instance of SnapshotRepoImpl. Snapshots expire after ttl.
func NewSnapshotRepo(client *redis.Client, ttl time.Duration) *SnapshotRepoImpl {
	return &SnapshotRepoImpl{client: client, ttl: ttl}
}

// generateKey creates a consistent Redis key for a page by hashing its URL.
func (r *SnapshotRepoImpl) generateKey(pageURL string) string {
	return fmt.Sprintf("%s%s", snapshotPrefix, utils.HashURL(pageURL))
}

// Save overwrites the snapshot for the page. SET replaces any previous value atomically.
func (r *SnapshotRepoImpl) Save(ctx context.Context, snapshot *entity.ContextMenuSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return r.client.Set(ctx, r.generateKey(snapshot.PageURL), payload, r.ttl).Err()
}

// Latest returns the last snapshot stored for pageURL.
func (r *SnapshotRepoImpl) Latest(ctx context.Context, pageURL string) (*entity.ContextMenuSnapshot, error) {
	payload, err := r.client.Get(ctx, r.generateKey(pageURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snapshot entity.ContextMenuSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Ping checks the connection for health reporting.
func (r *SnapshotRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
