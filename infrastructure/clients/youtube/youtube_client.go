package youtube

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// Client is a channel-bound YouTube API client. Credential resolution and
// refresh happen in the Provider before a Client is handed out.
type Client struct {
	service   *youtube.Service
	channelID string
}

func NewClient(service *youtube.Service, channelID string) *Client {
	return &Client{service: service, channelID: channelID}
}

// ListScheduled returns the videos the platform itself still considers
// scheduled: privacy private/unlisted with a publish instant set.
func (c *Client) ListScheduled(ctx context.Context) ([]*model.RemoteVideoState, error) {
	search, err := c.service.Search.List([]string{"id"}).
		ForMine(true).
		Type("video").
		Order("date").
		MaxResults(50).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("listing videos", err)
	}

	var videoIDs []string
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	details, err := c.service.Videos.List([]string{"snippet", "status"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("fetching video details", err)
	}

	var scheduled []*model.RemoteVideoState
	for _, video := range details.Items {
		state := convertToRemoteState(video)
		if state.Privacy != model.PrivacyPrivate && state.Privacy != model.PrivacyUnlisted {
			continue
		}
		if state.PublishAt == nil {
			continue
		}
		scheduled = append(scheduled, state)
	}
	return scheduled, nil
}

// GetVideoStatus returns (nil, nil) when the platform does not know the id.
func (c *Client) GetVideoStatus(ctx context.Context, videoID string) (*model.RemoteVideoState, error) {
	response, err := c.service.Videos.List([]string{"snippet", "status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("fetching video status", err)
	}
	if len(response.Items) == 0 {
		return nil, nil
	}
	return convertToRemoteState(response.Items[0]), nil
}

// UploadVideo pushes the file as a private upload with the platform's native
// schedule set to in.PublishAt.
func (c *Client) UploadVideo(ctx context.Context, in *dto.VideoUploadInput) (*model.RemoteVideoState, error) {
	file, err := os.Open(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening upload file: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       in.Title,
			Description: in.Description,
			Tags:        in.Tags,
			CategoryId:  in.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           model.PrivacyPrivate,
			PublishAt:               in.PublishAt.UTC().Format(time.RFC3339),
			SelfDeclaredMadeForKids: in.MadeForKids,
		},
	}

	response, err := c.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("uploading video", err)
	}
	return convertToRemoteState(response), nil
}

func (c *Client) SetThumbnail(ctx context.Context, videoID, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening thumbnail file: %w", err)
	}
	defer file.Close()

	if _, err := c.service.Thumbnails.Set(videoID).Media(file).Context(ctx).Do(); err != nil {
		return remoteErr("setting thumbnail", err)
	}
	return nil
}

// UpdateVideoPrivacy fetches the current status first so unrelated status
// fields are preserved by the update call.
func (c *Client) UpdateVideoPrivacy(ctx context.Context, videoID, privacy string) error {
	response, err := c.service.Videos.List([]string{"status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return remoteErr("fetching video for privacy update", err)
	}
	if len(response.Items) == 0 {
		return fmt.Errorf("%w: video %s", model.ErrNotFound, videoID)
	}

	video := response.Items[0]
	video.Status.PrivacyStatus = privacy
	if privacy == model.PrivacyPublic {
		// A pending platform schedule must be cleared or the update is rejected.
		video.Status.PublishAt = ""
	}

	if _, err := c.service.Videos.Update([]string{"status"}, video).Context(ctx).Do(); err != nil {
		return remoteErr("updating video privacy", err)
	}
	return nil
}

func (c *Client) GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error) {
	response, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("fetching channel", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: no channel for authenticated user", model.ErrChannelNotFound)
	}

	channel := response.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, channel.Snippet.PublishedAt)
	result := &model.YouTubeChannel{
		ID:          channel.Id,
		Title:       channel.Snippet.Title,
		Description: channel.Snippet.Description,
		CustomURL:   channel.Snippet.CustomUrl,
		PublishedAt: publishedAt,
	}
	if channel.Statistics != nil {
		result.VideoCount = int64(channel.Statistics.VideoCount)
	}
	return result, nil
}

func (c *Client) ListRecentVideos(ctx context.Context, maxResults int64) ([]*model.RecentVideo, error) {
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 20
	}
	search, err := c.service.Search.List([]string{"id"}).
		ForMine(true).
		Type("video").
		Order("date").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("listing recent videos", err)
	}

	var videoIDs []string
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	details, err := c.service.Videos.List([]string{"snippet", "status"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteErr("fetching recent video details", err)
	}

	var recent []*model.RecentVideo
	for _, video := range details.Items {
		publishedAt, _ := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
		item := &model.RecentVideo{
			VideoID:     video.Id,
			Title:       video.Snippet.Title,
			Privacy:     video.Status.PrivacyStatus,
			PublishedAt: publishedAt,
		}
		if video.Status.PublishAt != "" {
			if at, err := time.Parse(time.RFC3339, video.Status.PublishAt); err == nil {
				item.PublishAt = &at
			}
		}
		if video.Snippet.Thumbnails != nil && video.Snippet.Thumbnails.Default != nil {
			item.Thumbnail = video.Snippet.Thumbnails.Default.Url
		}
		recent = append(recent, item)
	}
	return recent, nil
}

func convertToRemoteState(video *youtube.Video) *model.RemoteVideoState {
	state := &model.RemoteVideoState{
		VideoID: video.Id,
	}
	if video.Snippet != nil {
		state.Title = video.Snippet.Title
		state.Description = video.Snippet.Description
	}
	if video.Status != nil {
		state.Privacy = video.Status.PrivacyStatus
		if video.Status.PublishAt != "" {
			if at, err := time.Parse(time.RFC3339, video.Status.PublishAt); err == nil {
				utc := at.UTC()
				state.PublishAt = &utc
			}
		}
	}
	return state
}

// remoteErr maps platform call failures onto the domain taxonomy: expired
// credentials surface as ErrAuthExpired, everything else degrades as
// ErrRemoteUnavailable.
func remoteErr(action string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: %v", model.ErrAuthExpired, action, err)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrRemoteUnavailable, action, err)
}
