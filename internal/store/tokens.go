package store

import (
	"context"
	"time"
)

const authTokenColumns = `id, user_id, token_hash, expires_at, created_at`

func scanAuthToken(row rowScanner) (AuthToken, error) {
	var t AuthToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

type CreateAuthTokenParams struct {
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (q *Queries) CreateAuthToken(ctx context.Context, arg CreateAuthTokenParams) (AuthToken, error) {
	id, err := q.insertID(ctx, `INSERT INTO auth_tokens (user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)`, arg.UserID, arg.TokenHash, dbTime(arg.ExpiresAt), dbTime(arg.CreatedAt))
	if err != nil {
		return AuthToken{}, err
	}
	return scanAuthToken(q.db.QueryRowContext(ctx,
		`SELECT `+authTokenColumns+` FROM auth_tokens WHERE id = ?`, id))
}

// GetValidAuthToken returns the stored token with hash if it has not expired at now.
func (q *Queries) GetValidAuthToken(ctx context.Context, hash string, now time.Time) (AuthToken, error) {
	return scanAuthToken(q.db.QueryRowContext(ctx,
		`SELECT `+authTokenColumns+` FROM auth_tokens WHERE token_hash = ? AND expires_at > ?`, hash, dbTime(now)))
}

func (q *Queries) DeleteAuthTokenByHash(ctx context.Context, hash string) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM auth_tokens WHERE token_hash = ?`, hash)
}

// DeleteUserAuthTokensExcept revokes every token of userID other than keepHash.
func (q *Queries) DeleteUserAuthTokensExcept(ctx context.Context, userID int64, keepHash string) (int64, error) {
	return q.execAffected(ctx,
		`DELETE FROM auth_tokens WHERE user_id = ? AND token_hash <> ?`, userID, keepHash)
}

func (q *Queries) DeleteUserAuthTokens(ctx context.Context, userID int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM auth_tokens WHERE user_id = ?`, userID)
}

func (q *Queries) DeleteExpiredAuthTokens(ctx context.Context, now time.Time) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM auth_tokens WHERE expires_at <= ?`, dbTime(now))
}
