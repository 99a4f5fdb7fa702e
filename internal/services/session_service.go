package services

import (
	"log"
	"time"

	"bandofmen/internal/models"
	"bandofmen/internal/repositories"
	"bandofmen/internal/utils"
)

const sessionTTL = 7 * 24 * time.Hour

type SessionService interface {
	Create(userID int) (string, error)
	Resolve(token string) (*models.User, error)
	Revoke(token string) error
}

type sessionService struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	now      func() time.Time
}

func NewSessionService(sessions repositories.SessionRepository, users repositories.UserRepository) SessionService {
	return &sessionService{sessions: sessions, users: users, now: time.Now}
}

// Create — одна живая сессия на пользователя: атомарный upsert по user_id
// вытесняет прежнюю, при гонке двух входов выживает ровно одна строка.
func (s *sessionService) Create(userID int) (string, error) {
	ctx, cancel := storeContext()
	defer cancel()

	token, err := utils.NewSessionToken(32)
	if err != nil {
		return "", err
	}
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(sessionTTL),
	}
	if err := s.sessions.Replace(ctx, session); err != nil {
		return "", storageErr("session.replace", err)
	}
	log.Printf("[session][create] userID=%d exp_at=%s", userID, session.ExpiresAt.Format(time.RFC3339))
	return token, nil
}

// Resolve — ленивое истечение: просроченная строка удаляется при первом чтении.
func (s *sessionService) Resolve(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := storeContext()
	defer cancel()

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, storageErr("session.lookup", err)
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			return nil, storageErr("session.delete_expired", err)
		}
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, storageErr("session.load_user", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Revoke идемпотентен: удаление несуществующего токена не ошибка.
func (s *sessionService) Revoke(token string) error {
	ctx, cancel := storeContext()
	defer cancel()

	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return storageErr("session.revoke", err)
	}
	return nil
}
