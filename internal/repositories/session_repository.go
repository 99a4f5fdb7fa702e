package repositories

import (
	"context"
	"database/sql"

	"bandofmen/internal/models"
)

type SessionRepository interface {
	Replace(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{DB: db}
}

// Replace — одним запросом вытесняет прежнюю сессию пользователя: upsert по
// уникальному индексу user_id, поэтому гонка двух входов оставляет ровно одну
// строку (побеждает последний коммит).
func (r *sessionRepository) Replace(ctx context.Context, session *models.Session) error {
	const q = `
		INSERT INTO sessions (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = NOW()
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, q, session.UserID, session.Token, session.ExpiresAt).
		Scan(&session.ID, &session.CreatedAt)
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	const q = `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`
	var s models.Session
	err := r.DB.QueryRowContext(ctx, q, token).
		Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}
