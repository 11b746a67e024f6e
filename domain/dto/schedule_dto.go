package dto

import (
	"fmt"
	"time"

	"video-scheduler/domain/model"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 5000
	defaultCategoryID    = "22"
)

// ScheduleVideoInput is one video inside a batch schedule request.
type ScheduleVideoInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"video_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	PublishAt    string   `json:"publish_datetime"`
	Tags         []string `json:"tags"`
	CategoryID   string   `json:"category_id"`
	MadeForKids  bool     `json:"made_for_kids"`
}

// Validate checks the entry and returns the parsed publish instant. All
// failures wrap model.ErrValidation so the handler can map them to 400.
func (in *ScheduleVideoInput) Validate() (time.Time, error) {
	if in.Title == "" || len(in.Title) > maxTitleLength {
		return time.Time{}, fmt.Errorf("%w: title must be 1-%d characters", model.ErrValidation, maxTitleLength)
	}
	if len(in.Description) > maxDescriptionLength {
		return time.Time{}, fmt.Errorf("%w: description exceeds %d characters", model.ErrValidation, maxDescriptionLength)
	}
	if in.VideoURL == "" {
		return time.Time{}, fmt.Errorf("%w: video_url is required", model.ErrValidation)
	}
	if in.PublishAt == "" {
		return time.Time{}, fmt.Errorf("%w: publish_datetime is required", model.ErrValidation)
	}
	publishAt, err := time.Parse(time.RFC3339, in.PublishAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: publish_datetime must be RFC3339: %v", model.ErrValidation, err)
	}
	return publishAt.UTC(), nil
}

// Category returns the category id, defaulting when the request omits it.
func (in *ScheduleVideoInput) Category() string {
	if in.CategoryID == "" {
		return defaultCategoryID
	}
	return in.CategoryID
}

// ScheduleRequest is the batch payload of POST /api/videos/schedule.
type ScheduleRequest struct {
	Videos []ScheduleVideoInput `json:"videos"`
}

// ScheduledVideoResult reports one successfully scheduled video.
type ScheduledVideoResult struct {
	JobID     string    `json:"job_id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	PublishAt time.Time `json:"publish_at"`
}

// FailedVideoResult reports one video that could not be scheduled.
type FailedVideoResult struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// ScheduleResult is the per-item outcome of a batch schedule request.
type ScheduleResult struct {
	Scheduled      []ScheduledVideoResult `json:"scheduled"`
	Failed         []FailedVideoResult    `json:"failed"`
	ScheduledCount int                    `json:"scheduled_count"`
	FailedCount    int                    `json:"failed_count"`
}

// VideoUploadInput is what the upload collaborator needs to push one video to
// the platform as a private, platform-scheduled upload.
type VideoUploadInput struct {
	FilePath    string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	PublishAt   time.Time
	MadeForKids bool
}

// SyncResult reports how many persisted job statuses changed during syncAll.
type SyncResult struct {
	Changed int `json:"changed"`
}
