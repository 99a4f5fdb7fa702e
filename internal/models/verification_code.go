package models

import "time"

// Purpose scopes a verification code to one flow; codes never cross purposes.
type Purpose string

const (
	PurposeSignup         Purpose = "signup"
	PurposeLogin2FA       Purpose = "login_2fa"
	PurposePasswordChange Purpose = "password_change"
	PurposeEnable2FA      Purpose = "enable_2fa"
	PurposeDisable2FA     Purpose = "disable_2fa"
)

func ValidPurpose(p Purpose) bool {
	switch p {
	case PurposeSignup, PurposeLogin2FA, PurposePasswordChange, PurposeEnable2FA, PurposeDisable2FA:
		return true
	}
	return false
}

// VerificationCode — отдельная строка на каждую выдачу кода.
// Used=TRUE либо после успешной проверки, либо когда код вытеснен новой выдачей.
type VerificationCode struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"` // 6 цифр, наружу только в письме
	Purpose   Purpose   `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *VerificationCode) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
