package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"video-scheduler/domain/model"
)

// ChannelTokenRepository stores OAuth credentials per (user, channel).
type ChannelTokenRepository struct {
	db *sql.DB
}

func NewChannelTokenRepository(db *sql.DB) *ChannelTokenRepository {
	return &ChannelTokenRepository{db: db}
}

func (r *ChannelTokenRepository) Upsert(ctx context.Context, t *model.ChannelToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	q := `INSERT INTO channel_tokens (user_id, channel_id, channel_name, access_token, refresh_token, token_expiry, scopes, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		  ON CONFLICT (user_id, channel_id) DO UPDATE SET
			channel_name=EXCLUDED.channel_name,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			token_expiry=EXCLUDED.token_expiry,
			scopes=EXCLUDED.scopes,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q,
		t.UserID, t.ChannelID, t.ChannelName, t.AccessToken, t.RefreshToken,
		t.TokenExpiry, t.Scopes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting channel token: %w", err)
	}
	return nil
}

func (r *ChannelTokenRepository) Get(ctx context.Context, userID, channelID string) (*model.ChannelToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, channel_id, channel_name, access_token, refresh_token, token_expiry, scopes, created_at, updated_at
		 FROM channel_tokens WHERE user_id=$1 AND channel_id=$2`, userID, channelID)
	tok, err := scanChannelToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel token: %w", err)
	}
	return tok, nil
}

func (r *ChannelTokenRepository) ListByUser(ctx context.Context, userID string) ([]*model.ChannelToken, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, channel_id, channel_name, access_token, refresh_token, token_expiry, scopes, created_at, updated_at
		 FROM channel_tokens WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing channel tokens: %w", err)
	}
	defer rows.Close()

	var list []*model.ChannelToken
	for rows.Next() {
		tok, err := scanChannelToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning channel token: %w", err)
		}
		list = append(list, tok)
	}
	return list, rows.Err()
}

func scanChannelToken(row rowScanner) (*model.ChannelToken, error) {
	tok := &model.ChannelToken{}
	var expiry sql.NullTime
	if err := row.Scan(
		&tok.UserID, &tok.ChannelID, &tok.ChannelName, &tok.AccessToken,
		&tok.RefreshToken, &expiry, &tok.Scopes, &tok.CreatedAt, &tok.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if expiry.Valid {
		tok.TokenExpiry = &expiry.Time
	}
	return tok, nil
}
