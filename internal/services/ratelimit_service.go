package services

import (
	"log"
	"math"
	"strings"
	"time"

	"bandofmen/internal/repositories"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// RateLimitService — лимит по email; IP пишем только для разбора инцидентов.
type RateLimitService interface {
	Check(email string) error
	RecordFailure(email, ip string) error
	Clear(email string) error
}

type rateLimitService struct {
	repo repositories.LoginAttemptRepository
	now  func() time.Time
}

func NewRateLimitService(repo repositories.LoginAttemptRepository) RateLimitService {
	return &rateLimitService{repo: repo, now: time.Now}
}

// Check — сначала глобальная чистка устаревших записей, потом проверка счётчика.
// При блокировке возвращает TooManyAttemptsError с оценкой минут до снятия.
func (s *rateLimitService) Check(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := storeContext()
	defer cancel()

	now := s.now()
	if err := s.repo.PurgeStale(ctx, now.Add(-lockoutWindow)); err != nil {
		return storageErr("ratelimit.purge", err)
	}

	attempt, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return storageErr("ratelimit.lookup", err)
	}
	if attempt == nil || attempt.AttemptCount < maxLoginAttempts {
		return nil
	}

	elapsed := now.Sub(attempt.LastAttemptAt)
	minutesLeft := int(math.Ceil((lockoutWindow - elapsed).Minutes()))
	if minutesLeft < 1 {
		minutesLeft = 1
	}
	log.Printf("[ratelimit][check] blocked email=%s attempts=%d retry_in=%dm", email, attempt.AttemptCount, minutesLeft)
	return &TooManyAttemptsError{RetryAfterMinutes: minutesLeft}
}

// RecordFailure — upsert: инкремент существующей строки либо новая с count=1.
func (s *rateLimitService) RecordFailure(email, ip string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := storeContext()
	defer cancel()

	rows, err := s.repo.Increment(ctx, email)
	if err != nil {
		return storageErr("ratelimit.increment", err)
	}
	if rows == 0 {
		if err := s.repo.Create(ctx, email, ip); err != nil {
			return storageErr("ratelimit.create", err)
		}
	}
	return nil
}

func (s *rateLimitService) Clear(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := storeContext()
	defer cancel()

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return storageErr("ratelimit.clear", err)
	}
	return nil
}
