package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"video-scheduler/domain/model"
)

func TestFailureRepository_Append_TrimsBeyondCap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewFailureRepository(db)

	rec := &model.FailureRecord{
		UserID:             "user-1",
		ChannelID:          "chan-1",
		Title:              "Broken upload",
		AttemptedPublishAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		FailedAt:           time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Reason:             "upload failed",
		JobID:              "job-1",
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO failed_videos`)).
		WithArgs(rec.UserID, rec.ChannelID, rec.Title, rec.AttemptedPublishAt,
			rec.FailedAt, rec.Reason, rec.JobID, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM failed_videos`)).
		WithArgs(rec.UserID, rec.ChannelID, model.MaxFailureRecords).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repository.Append(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureRepository_ListByChannel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewFailureRepository(db)

	failedAt := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	attempted := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "channel_id", "title", "attempted_publish_at",
		"failed_at", "reason", "job_id", "video_id",
	}).AddRow(int64(7), "user-1", "chan-1", "Broken upload", attempted, failedAt, "upload failed", "job-1", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, channel_id, title, attempted_publish_at, failed_at, reason, job_id, video_id`)).
		WithArgs("user-1", "chan-1", model.MaxFailureRecords).
		WillReturnRows(rows)

	list, err := repository.ListByChannel(context.Background(), "user-1", "chan-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "upload failed", list[0].Reason)
	require.Equal(t, int64(7), list[0].ID)
	require.Nil(t, list[0].VideoID)
	require.NoError(t, mock.ExpectationsWereMet())
}
