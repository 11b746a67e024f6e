package model

import "time"

// JobStatus is the lifecycle state of a scheduled publish job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusUploaded  JobStatus = "uploaded"
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusPublished JobStatus = "published"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusPublished || s == JobStatusFailed
}

// CanTransition reports whether moving to next respects the monotonic
// pending -> uploaded -> scheduled -> published order. Any non-terminal
// state may divert to failed.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s == next {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == JobStatusFailed {
		return true
	}
	rank := map[JobStatus]int{
		JobStatusPending:   0,
		JobStatusUploaded:  1,
		JobStatusScheduled: 2,
		JobStatusPublished: 3,
	}
	from, ok := rank[s]
	if !ok {
		return false
	}
	to, ok := rank[next]
	if !ok {
		return false
	}
	return to > from
}

// JobMetadata carries the optional descriptive fields of a schedule request.
type JobMetadata struct {
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	MadeForKids bool     `json:"made_for_kids,omitempty"`
	VideoURL    string   `json:"video_url,omitempty"`
}

// Job is one request to publish a specific video at a specific future instant.
type Job struct {
	ID           string       `json:"job_id"`
	UserID       string       `json:"user_id"`
	ChannelID    string       `json:"channel_id"`
	VideoID      *string      `json:"video_id,omitempty"`
	VideoTitle   string       `json:"video_title"`
	Status       JobStatus    `json:"status"`
	PublishAt    time.Time    `json:"publish_at"`
	CreatedAt    time.Time    `json:"created_at"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	Metadata     *JobMetadata `json:"metadata,omitempty"`
}

// MaxFailureRecords bounds the per-channel failure log.
const MaxFailureRecords = 20

// FailureRecord is one entry in the bounded most-recent-first failure log.
type FailureRecord struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	ChannelID          string    `json:"channel_id"`
	Title              string    `json:"title"`
	AttemptedPublishAt time.Time `json:"attempted_publish_at"`
	FailedAt           time.Time `json:"failed_at"`
	Reason             string    `json:"reason"`
	JobID              string    `json:"job_id"`
	VideoID            *string   `json:"video_id,omitempty"`
}

// JobStatusEvent is the payload published to the video-jobs topic whenever a
// job's persisted status changes.
type JobStatusEvent struct {
	JobID        string    `json:"job_id"`
	UserID       string    `json:"user_id"`
	ChannelID    string    `json:"channel_id"`
	VideoID      string    `json:"video_id,omitempty"`
	Status       JobStatus `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
