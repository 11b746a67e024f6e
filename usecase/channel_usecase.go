package usecase

import (
	"context"
	"fmt"

	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/logger"
)

const recentVideosLimit = 20

// IChannelUseCase serves the channel-facing read endpoints: connected
// channels, recent uploads, and the failed-publish log.
type IChannelUseCase interface {
	ListChannels(ctx context.Context, userID string) ([]*model.YouTubeChannel, error)
	// RecentVideos serves from cache when possible and refreshes on a miss.
	RecentVideos(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error)
	// RefreshRecentVideos bypasses the cache and repopulates it.
	RefreshRecentVideos(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error)
	FailedVideos(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error)
}

type ChannelUseCase struct {
	tokens   repository.IChannelToken
	provider repository.IYouTubeProvider
	failures repository.IFailureLog
	cache    repository.IRecentVideoCache
}

func NewChannelUseCase(
	tokens repository.IChannelToken,
	provider repository.IYouTubeProvider,
	failures repository.IFailureLog,
	cache repository.IRecentVideoCache,
) IChannelUseCase {
	return &ChannelUseCase{
		tokens:   tokens,
		provider: provider,
		failures: failures,
		cache:    cache,
	}
}

// ListChannels resolves every connected channel against the platform. A
// channel whose lookup fails is reported from its stored token instead of
// dropping the whole list.
func (u *ChannelUseCase) ListChannels(ctx context.Context, userID string) ([]*model.YouTubeChannel, error) {
	tokens, err := u.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing channels for user %s: %w", userID, err)
	}

	channels := make([]*model.YouTubeChannel, 0, len(tokens))
	for _, tok := range tokens {
		client, err := u.provider.ClientFor(ctx, userID, tok.ChannelID)
		if err == nil {
			if ch, err := client.GetMyChannel(ctx); err == nil {
				channels = append(channels, ch)
				continue
			}
		}
		logger.GetLogger().WithField("channelId", tok.ChannelID).
			Warn("Channel lookup failed, reporting stored identity only")
		channels = append(channels, &model.YouTubeChannel{
			ID:    tok.ChannelID,
			Title: tok.ChannelName,
		})
	}
	return channels, nil
}

func (u *ChannelUseCase) RecentVideos(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error) {
	if u.cache != nil {
		cached, err := u.cache.Get(ctx, userID, channelID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Recent video cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return u.RefreshRecentVideos(ctx, userID, channelID)
}

func (u *ChannelUseCase) RefreshRecentVideos(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error) {
	client, err := u.provider.ClientFor(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	videos, err := client.ListRecentVideos(ctx, recentVideosLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent videos: %w", err)
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, userID, channelID, videos); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Recent video cache write failed")
		}
	}
	return videos, nil
}

func (u *ChannelUseCase) FailedVideos(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error) {
	records, err := u.failures.ListByChannel(ctx, userID, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing failed videos: %w", err)
	}
	return records, nil
}
