package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"video-scheduler/domain/model"
)

// FailureRepository is the bounded per-channel log of failed attempts.
type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

// Append inserts the record and trims the per-channel log beyond
// model.MaxFailureRecords, newest kept.
func (r *FailureRepository) Append(ctx context.Context, rec *model.FailureRecord) error {
	if rec.FailedAt.IsZero() {
		rec.FailedAt = time.Now().UTC()
	}
	q := `INSERT INTO failed_videos (user_id, channel_id, title, attempted_publish_at, failed_at, reason, job_id, video_id)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.ChannelID, rec.Title, rec.AttemptedPublishAt,
		rec.FailedAt, rec.Reason, rec.JobID, rec.VideoID,
	); err != nil {
		return fmt.Errorf("appending failure record: %w", err)
	}

	trim := `DELETE FROM failed_videos WHERE id IN (
				SELECT id FROM failed_videos
				WHERE user_id=$1 AND channel_id=$2
				ORDER BY failed_at DESC
				OFFSET $3)`
	if _, err := r.db.ExecContext(ctx, trim, rec.UserID, rec.ChannelID, model.MaxFailureRecords); err != nil {
		return fmt.Errorf("trimming failure log: %w", err)
	}
	return nil
}

func (r *FailureRepository) ListByChannel(ctx context.Context, userID, channelID string) ([]*model.FailureRecord, error) {
	q := `SELECT id, user_id, channel_id, title, attempted_publish_at, failed_at, reason, job_id, video_id
		  FROM failed_videos
		  WHERE user_id=$1 AND channel_id=$2
		  ORDER BY failed_at DESC
		  LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, userID, channelID, model.MaxFailureRecords)
	if err != nil {
		return nil, fmt.Errorf("listing failure records: %w", err)
	}
	defer rows.Close()

	var list []*model.FailureRecord
	for rows.Next() {
		rec := &model.FailureRecord{}
		var videoID sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ChannelID, &rec.Title,
			&rec.AttemptedPublishAt, &rec.FailedAt, &rec.Reason, &rec.JobID, &videoID,
		); err != nil {
			return nil, fmt.Errorf("scanning failure record: %w", err)
		}
		if videoID.Valid {
			v := videoID.String
			rec.VideoID = &v
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
