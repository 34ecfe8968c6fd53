package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/repository/player"
)

// repo mirrors published snapshots to redis so processes other than the one
// hosting the bridge can observe them. Entries expire; nothing is read back
// to rebuild player state.
type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getValueKey(playerID string) string {
	return "player:" + playerID + ":value"
}

func (r repo) getChannel(playerID string) string {
	return "player:" + playerID + ":values"
}

func (r repo) SaveSnapshot(ctx context.Context, playerID string, value domain.PlayerValue) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := r.getValueKey(playerID)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, key,
		"is_ready", value.IsReady,
		"player_state", value.PlayerState.String(),
		"position_ms", value.Position.Milliseconds(),
		"video_id", value.MetaData.VideoID,
		"snapshot", data,
	)
	pipe.Expire(ctx, key, r.expireDuration)
	pipe.Publish(ctx, r.getChannel(playerID), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r repo) RemoveSnapshot(ctx context.Context, playerID string) error {
	res, err := r.rc.Del(ctx, r.getValueKey(playerID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}

	if res == 0 {
		return player.ErrSnapshotNotFound
	}

	return nil
}
