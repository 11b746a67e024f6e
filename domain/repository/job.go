package repository

import (
	"context"

	"video-scheduler/domain/model"
)

// IJobStore persists scheduled publish jobs.
type IJobStore interface {
	// Create fails with model.ErrDuplicateJobID when the id already exists.
	Create(ctx context.Context, job *model.Job) error
	// Get returns (nil, nil) when the job does not exist.
	Get(ctx context.Context, jobID string) (*model.Job, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Job, error)
	// UpdateStatus is a field-granular partial update: nil errMsg and nil
	// videoID leave the stored values untouched. An absent job id is a
	// silent no-op.
	UpdateStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg *string, videoID *string) error
}

// IFailureLog is the bounded most-recent-first log of failed attempts.
type IFailureLog interface {
	// Append records a failure and trims the per-channel log to
	// model.MaxFailureRecords entries.
	Append(ctx context.Context, rec *model.FailureRecord) error
	ListByChannel(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error)
}
