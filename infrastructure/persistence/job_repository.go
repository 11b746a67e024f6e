package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"video-scheduler/domain/model"

	"github.com/lib/pq"
)

const jobColumns = `job_id, user_id, channel_id, video_id, video_title, status, publish_at, created_at, error_message, metadata`

// JobRepository implements the job store on PostgreSQL.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository { return &JobRepository{db: db} }

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	var metadata []byte
	if job.Metadata != nil {
		b, err := json.Marshal(job.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling job metadata: %w", err)
		}
		metadata = b
	}
	q := `INSERT INTO scheduled_jobs (` + jobColumns + `)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, q,
		job.ID, job.UserID, job.ChannelID, job.VideoID, job.VideoTitle,
		string(job.Status), job.PublishAt, job.CreatedAt, job.ErrorMessage, metadata,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %s", model.ErrDuplicateJobID, job.ID)
		}
		return fmt.Errorf("creating job %s: %w", job.ID, err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, jobID string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs WHERE job_id=$1`, jobID)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting job %s: %w", jobID, err)
	}
	return job, nil
}

func (r *JobRepository) ListByUser(ctx context.Context, userID string) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for user %s: %w", userID, err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateStatus is field-granular: nil errMsg and nil videoID keep the stored
// values. An absent job id affects zero rows and is not an error.
func (r *JobRepository) UpdateStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg *string, videoID *string) error {
	q := `UPDATE scheduled_jobs
		  SET status=$1,
			  error_message=COALESCE($2, error_message),
			  video_id=COALESCE($3, video_id)
		  WHERE job_id=$4`
	_, err := r.db.ExecContext(ctx, q, string(status), errMsg, videoID, jobID)
	if err != nil {
		return fmt.Errorf("updating status of job %s: %w", jobID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	job := &model.Job{}
	var (
		videoID  sql.NullString
		status   string
		errMsg   sql.NullString
		metadata []byte
	)
	if err := row.Scan(
		&job.ID, &job.UserID, &job.ChannelID, &videoID, &job.VideoTitle,
		&status, &job.PublishAt, &job.CreatedAt, &errMsg, &metadata,
	); err != nil {
		return nil, err
	}
	job.Status = model.JobStatus(status)
	if videoID.Valid {
		v := videoID.String
		job.VideoID = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		job.ErrorMessage = &v
	}
	if len(metadata) > 0 {
		meta := &model.JobMetadata{}
		if err := json.Unmarshal(metadata, meta); err == nil {
			job.Metadata = meta
		}
	}
	return job, nil
}
