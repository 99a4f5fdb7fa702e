package services

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Ошибки, по которым хендлеры выбирают HTTP-статус.
var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 characters")
	ErrSamePassword       = errors.New("new password must be different from the current one")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrInvalidPurpose     = errors.New("invalid verification type")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrUnauthenticated    = errors.New("invalid or expired session")
	ErrSessionExpired     = errors.New("session expired")
	ErrDeliveryFailure    = errors.New("failed to send verification email")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TooManyAttemptsError — блокировка входа с оценкой времени до снятия.
type TooManyAttemptsError struct {
	RetryAfterMinutes int
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many login attempts, please try again in %d minutes", e.RetryAfterMinutes)
}

// storageErr — единая обработка ошибок хранилища: таймауты наружу уходят как
// ErrStorageUnavailable, остальное логируем и заворачиваем. Секретов в op нет.
func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Printf("[storage][%s] timeout: %v", op, err)
		return ErrStorageUnavailable
	}
	log.Printf("[storage][%s] error: %v", op, err)
	return fmt.Errorf("%s: %w", op, err)
}
