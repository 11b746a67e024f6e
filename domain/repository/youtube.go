package repository

import (
	"context"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
)

// IYouTube is a channel-bound view of the platform API. Instances are
// produced by IYouTubeProvider with the credential already resolved.
type IYouTube interface {
	// ListScheduled returns every video the platform itself still considers
	// scheduled: privacy private/unlisted with a publish instant set.
	ListScheduled(ctx context.Context) ([]*model.RemoteVideoState, error)
	// GetVideoStatus returns (nil, nil) when the platform does not know the id.
	GetVideoStatus(ctx context.Context, videoID string) (*model.RemoteVideoState, error)
	// UploadVideo pushes the file as a private upload with the platform's
	// native schedule set to in.PublishAt.
	UploadVideo(ctx context.Context, in *dto.VideoUploadInput) (*model.RemoteVideoState, error)
	SetThumbnail(ctx context.Context, videoID, filePath string) error
	// UpdateVideoPrivacy flips the stored privacy; used by the backstop to
	// force publication.
	UpdateVideoPrivacy(ctx context.Context, videoID, privacy string) error
	GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error)
	ListRecentVideos(ctx context.Context, maxResults int64) ([]*model.RecentVideo, error)
}

// IYouTubeProvider resolves per-(user, channel) credentials into ready
// clients, refreshing silently when needed. Refresh failure surfaces as
// model.ErrAuthExpired, a missing credential as model.ErrChannelNotFound.
type IYouTubeProvider interface {
	ClientFor(ctx context.Context, userID, channelID string) (IYouTube, error)
	// RetrieverFor builds a file retriever backed by the same credential.
	RetrieverFor(ctx context.Context, userID, channelID string) (IFileRetriever, error)
}

// IFileRetriever resolves a storage URL to a local transient file. The
// returned cleanup removes the file and must run on every exit path.
type IFileRetriever interface {
	Fetch(ctx context.Context, url string) (path string, cleanup func(), err error)
}

// IChannelToken persists OAuth credentials per (user, channel).
type IChannelToken interface {
	Upsert(ctx context.Context, token *model.ChannelToken) error
	// Get returns (nil, nil) when no token is stored for the pair.
	Get(ctx context.Context, userID, channelID string) (*model.ChannelToken, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ChannelToken, error)
}

// IRecentVideoCache caches the recent-uploads list per (user, channel).
type IRecentVideoCache interface {
	// Get returns (nil, nil) on cache miss.
	Get(ctx context.Context, userID, channelID string) ([]*model.RecentVideo, error)
	Set(ctx context.Context, userID, channelID string, videos []*model.RecentVideo) error
}
