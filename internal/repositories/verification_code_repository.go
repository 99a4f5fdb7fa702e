package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"bandofmen/internal/models"
)

type VerificationCodeRepository interface {
	Issue(ctx context.Context, code *models.VerificationCode) error
	GetLatestUnused(ctx context.Context, email, code string, purpose models.Purpose) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id int64) error
}

type verificationCodeRepository struct {
	DB *sql.DB
}

func NewVerificationCodeRepository(db *sql.DB) VerificationCodeRepository {
	return &verificationCodeRepository{DB: db}
}

// Issue — вытеснение прежних кодов пары (email, purpose) и вставка нового в
// одной транзакции: промежуточного состояния без живого кода снаружи не видно.
func (r *verificationCodeRepository) Issue(ctx context.Context, code *models.VerificationCode) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("verification_code issue: %w", err)
	}
	defer tx.Rollback()

	const invalidate = `
		UPDATE verification_codes
		SET used = TRUE
		WHERE email = $1 AND type = $2 AND used = FALSE
	`
	if _, err := tx.ExecContext(ctx, invalidate, code.Email, code.Purpose); err != nil {
		return fmt.Errorf("verification_code invalidate: %w", err)
	}

	const insert = `
		INSERT INTO verification_codes (email, code, type, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insert, code.Email, code.Code, code.Purpose, code.ExpiresAt).
		Scan(&code.ID, &code.CreatedAt); err != nil {
		return fmt.Errorf("verification_code create: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("verification_code issue: %w", err)
	}
	return nil
}

// GetLatestUnused — последняя по created_at неиспользованная запись с точным
// совпадением (email, code, type). Просроченность здесь не проверяем.
func (r *verificationCodeRepository) GetLatestUnused(ctx context.Context, email, code string, purpose models.Purpose) (*models.VerificationCode, error) {
	const q = `
		SELECT id, email, code, type, expires_at, used, created_at
		FROM verification_codes
		WHERE email = $1 AND code = $2 AND type = $3 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRowContext(ctx, q, email, code, purpose)
	var v models.VerificationCode
	if err := row.Scan(&v.ID, &v.Email, &v.Code, &v.Purpose, &v.ExpiresAt, &v.Used, &v.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("verification_code latest: %w", err)
	}
	return &v, nil
}

func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE verification_codes SET used=TRUE WHERE id=$1`, id); err != nil {
		return fmt.Errorf("verification_code mark used: %w", err)
	}
	return nil
}
