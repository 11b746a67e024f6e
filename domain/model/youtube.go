package model

import "time"

// Privacy values as reported by the platform.
const (
	PrivacyPublic   = "public"
	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
)

// RemoteVideoState is a live snapshot of one video on the platform. It is
// fetched on demand and never persisted.
type RemoteVideoState struct {
	VideoID     string     `json:"video_id"`
	Privacy     string     `json:"privacy"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
}

// ScheduledForFuture reports whether the platform itself still plans to
// publish this video after now.
func (r *RemoteVideoState) ScheduledForFuture(now time.Time) bool {
	if r.Privacy != PrivacyPrivate && r.Privacy != PrivacyUnlisted {
		return false
	}
	return r.PublishAt != nil && r.PublishAt.After(now)
}

// YouTubeChannel describes a channel resolved via the platform API.
type YouTubeChannel struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CustomURL   string    `json:"custom_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	VideoCount  int64     `json:"video_count"`
}

// ChannelToken is the stored OAuth credential for one (user, channel) pair.
type ChannelToken struct {
	UserID       string     `json:"user_id"`
	ChannelID    string     `json:"channel_id"`
	ChannelName  string     `json:"channel_name"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	Scopes       string     `json:"scopes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RecentVideo is one item of the cached per-channel recent uploads list.
type RecentVideo struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Privacy     string     `json:"privacy"`
	PublishedAt time.Time  `json:"published_at"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
}
