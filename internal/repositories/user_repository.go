package repositories

import (
	"context"
	"database/sql"

	"bandofmen/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id int) error

	UpdatePassword(ctx context.Context, userID int, newHash string) error
	SetEmailVerified(ctx context.Context, email string) error
	SetTwoFactor(ctx context.Context, userID int, enabled bool) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, name, email_verified, two_factor_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at
	`
	verified := user.EmailVerified != nil && *user.EmailVerified
	return r.DB.QueryRowContext(ctx, q,
		user.Email,
		user.PasswordHash,
		user.Name,
		verified,
		user.TwoFactorEnabled,
	).Scan(&user.ID, &user.CreatedAt)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		verified  sql.NullBool
		twoFactor sql.NullBool
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&verified, &twoFactor, &u.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if verified.Valid {
		v := verified.Bool
		u.EmailVerified = &v
	}
	if twoFactor.Valid {
		u.TwoFactorEnabled = twoFactor.Bool
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash, name, email_verified, two_factor_enabled, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash, name, email_verified, two_factor_enabled, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int, newHash string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET password_hash=$1, updated_at=NOW()
		WHERE id=$2
	`, newHash, userID)
	return err
}

func (r *userRepository) SetEmailVerified(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET email_verified=TRUE, updated_at=NOW()
		WHERE email=$1
	`, email)
	return err
}

func (r *userRepository) SetTwoFactor(ctx context.Context, userID int, enabled bool) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET two_factor_enabled=$1, updated_at=NOW()
		WHERE id=$2
	`, enabled, userID)
	return err
}
