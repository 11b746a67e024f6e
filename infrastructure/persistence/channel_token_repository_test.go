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

func TestChannelTokenRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelTokenRepository(db)

	tok := &model.ChannelToken{
		UserID:       "user-1",
		ChannelID:    "chan-1",
		ChannelName:  "My Channel",
		AccessToken:  "access",
		RefreshToken: "refresh",
		Scopes:       "youtube youtube.upload",
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO channel_tokens`)).
		WithArgs(tok.UserID, tok.ChannelID, tok.ChannelName, tok.AccessToken,
			tok.RefreshToken, nil, tok.Scopes, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repository.Upsert(context.Background(), tok))
	require.False(t, tok.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelTokenRepository_Get_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, channel_id, channel_name`)).
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "channel_id", "channel_name", "access_token", "refresh_token",
			"token_expiry", "scopes", "created_at", "updated_at",
		}))

	tok, err := repository.Get(context.Background(), "user-1", "missing")
	require.NoError(t, err)
	require.Nil(t, tok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelTokenRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelTokenRepository(db)

	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"user_id", "channel_id", "channel_name", "access_token", "refresh_token",
		"token_expiry", "scopes", "created_at", "updated_at",
	}).AddRow("user-1", "chan-1", "My Channel", "access", "refresh", nil, "", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, channel_id, channel_name`)).
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := repository.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "chan-1", list[0].ChannelID)
	require.Nil(t, list[0].TokenExpiry)
	require.NoError(t, mock.ExpectationsWereMet())
}
