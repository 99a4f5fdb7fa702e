package models

import "time"

// Session — одна живая сессия на пользователя; новый вход удаляет прежние.
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"` // opaque, наружу уходит только при выдаче
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
