package repositories

import (
	"context"
	"database/sql"
	"time"

	"bandofmen/internal/models"
)

type LoginAttemptRepository interface {
	PurgeStale(ctx context.Context, cutoff time.Time) error
	GetByEmail(ctx context.Context, email string) (*models.LoginAttempt, error)
	Increment(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, email, ip string) error
	DeleteByEmail(ctx context.Context, email string) error
}

type loginAttemptRepository struct {
	DB *sql.DB
}

func NewLoginAttemptRepository(db *sql.DB) LoginAttemptRepository {
	return &loginAttemptRepository{DB: db}
}

// PurgeStale — чистим устаревшие записи целиком, не только по одному email.
func (r *loginAttemptRepository) PurgeStale(ctx context.Context, cutoff time.Time) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM login_attempts WHERE last_attempt_at < $1`, cutoff)
	return err
}

func (r *loginAttemptRepository) GetByEmail(ctx context.Context, email string) (*models.LoginAttempt, error) {
	const q = `
		SELECT id, email, ip_address, attempt_count, last_attempt_at
		FROM login_attempts
		WHERE email = $1
	`
	var a models.LoginAttempt
	var ip sql.NullString
	err := r.DB.QueryRowContext(ctx, q, email).
		Scan(&a.ID, &a.Email, &ip, &a.AttemptCount, &a.LastAttemptAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if ip.Valid {
		a.IPAddress = ip.String
	}
	return &a, nil
}

// Increment возвращает число затронутых строк: 0 значит записи ещё нет.
func (r *loginAttemptRepository) Increment(ctx context.Context, email string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE login_attempts
		SET attempt_count = attempt_count + 1, last_attempt_at = NOW()
		WHERE email = $1
	`, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *loginAttemptRepository) Create(ctx context.Context, email, ip string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO login_attempts (email, ip_address, attempt_count, last_attempt_at)
		VALUES ($1, $2, 1, NOW())
	`, email, ip)
	return err
}

func (r *loginAttemptRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM login_attempts WHERE email=$1`, email)
	return err
}
