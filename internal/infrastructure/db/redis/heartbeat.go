package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const heartbeatTTL = 24 * time.Hour

// HeartbeatTracker records staff liveness in Redis so high-frequency
// presence touches stay off the primary store.
// Key format: presence:active:<user_id> → unix seconds of the last touch.
type HeartbeatTracker struct {
	client *redis.Client
}

// NewHeartbeatTracker creates a HeartbeatTracker wrapping the given Redis client.
func NewHeartbeatTracker(client *redis.Client) *HeartbeatTracker {
	return &HeartbeatTracker{client: client}
}

// Touch records activity for the user at the given time.
func (h *HeartbeatTracker) Touch(ctx context.Context, userID string, at time.Time) error {
	return h.client.Set(ctx, h.key(userID), at.Unix(), heartbeatTTL).Err()
}

// LastSeen returns the time of the user's last touch, or the zero time
// when no heartbeat is recorded.
func (h *HeartbeatTracker) LastSeen(ctx context.Context, userID string) (time.Time, error) {
	val, err := h.client.Get(ctx, h.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("heartbeat get: %w", err)
	}

	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("heartbeat parse: %w", err)
	}
	return time.Unix(ts, 0).UTC(), nil
}

func (h *HeartbeatTracker) key(userID string) string {
	return "presence:active:" + userID
}
