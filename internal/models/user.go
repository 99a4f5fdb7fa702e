package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // не отдаём наружу

	// NULL у аккаунтов, созданных до ввода верификации; считаем их верифицированными
	EmailVerified    *bool `json:"email_verified,omitempty"`
	TwoFactorEnabled bool  `json:"two_factor_enabled"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Verified reports whether the account may log in. Only an explicit FALSE
// blocks: legacy rows with a NULL flag predate email verification.
func (u *User) Verified() bool {
	return u.EmailVerified == nil || *u.EmailVerified
}

type SignupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	VerificationCode string `json:"verificationCode"`
}

type LoginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"twoFactorCode"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Toggle2FARequest struct {
	Enable           *bool  `json:"enable"`
	VerificationCode string `json:"verificationCode"`
}
