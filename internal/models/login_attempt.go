package models

import "time"

// LoginAttempt — счётчик неудачных входов по email; IP храним для форензики,
// по IP отдельно не блокируем.
type LoginAttempt struct {
	ID            int       `json:"id"`
	Email         string    `json:"email"`
	IPAddress     string    `json:"ip_address"`
	AttemptCount  int       `json:"attempt_count"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}
