package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"video-scheduler/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	recentVideosTTL = 30 * time.Minute
	maxRecentVideos = 20
)

// RecentVideoCache stores the per-(user, channel) recent uploads list in
// Redis, capped at maxRecentVideos entries. A nil client degrades to a no-op
// cache so the service runs without Redis.
type RecentVideoCache struct {
	client *redis.Client
}

func NewRecentVideoCache(client *redis.Client) *RecentVideoCache {
	return &RecentVideoCache{client: client}
}

func recentVideosKey(userID, channelID string) string {
	return fmt.Sprintf("recent_videos:%s:%s", userID, channelID)
}

// Get returns (nil, nil) on cache miss or when Redis is not configured.
func (c *RecentVideoCache) Get(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error) {
	if c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, recentVideosKey(userID, channelID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading recent videos cache: %w", err)
	}
	var videos []*model.RecentVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decoding recent videos cache: %w", err)
	}
	return videos, nil
}

func (c *RecentVideoCache) Set(ctx context.Context, userID, channelID string, videos []*model.RecentVideo) error {
	if c.client == nil {
		return nil
	}
	if len(videos) > maxRecentVideos {
		videos = videos[:maxRecentVideos]
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encoding recent videos cache: %w", err)
	}
	if err := c.client.Set(ctx, recentVideosKey(userID, channelID), data, recentVideosTTL).Err(); err != nil {
		return fmt.Errorf("writing recent videos cache: %w", err)
	}
	return nil
}
