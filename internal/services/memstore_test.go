package services

import (
	"context"
	"errors"
	"time"

	"bandofmen/internal/models"
)

// Управляемые часы для проверок истечения и окон блокировки.
type clock struct{ t time.Time }

func newClock() *clock                   { return &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)} }
func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ---- in-memory репозитории

type memUserRepo struct {
	nextID int
	users  map[int]*models.User
	clk    *clock
}

func newMemUserRepo(clk *clock) *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[int]*models.User{}, clk: clk}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = r.clk.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Delete(_ context.Context, id int) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID int, newHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = newHash
	now := r.clk.Now()
	u.UpdatedAt = &now
	return nil
}

func (r *memUserRepo) SetEmailVerified(_ context.Context, email string) error {
	for _, u := range r.users {
		if u.Email == email {
			v := true
			u.EmailVerified = &v
		}
	}
	return nil
}

func (r *memUserRepo) SetTwoFactor(_ context.Context, userID int, enabled bool) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.TwoFactorEnabled = enabled
	return nil
}

type memCodeRepo struct {
	nextID int64
	codes  []*models.VerificationCode
	clk    *clock
}

func newMemCodeRepo(clk *clock) *memCodeRepo { return &memCodeRepo{nextID: 1, clk: clk} }

func (r *memCodeRepo) Issue(_ context.Context, code *models.VerificationCode) error {
	for _, c := range r.codes {
		if c.Email == code.Email && c.Purpose == code.Purpose && !c.Used {
			c.Used = true
		}
	}
	code.ID = r.nextID
	r.nextID++
	code.CreatedAt = r.clk.Now()
	cp := *code
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *memCodeRepo) GetLatestUnused(_ context.Context, email, code string, purpose models.Purpose) (*models.VerificationCode, error) {
	var latest *models.VerificationCode
	for _, c := range r.codes {
		if c.Email == email && c.Code == code && c.Purpose == purpose && !c.Used {
			if latest == nil || c.ID > latest.ID {
				latest = c
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memCodeRepo) MarkUsed(_ context.Context, id int64) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.Used = true
			return nil
		}
	}
	return errors.New("no such code")
}

// unusedCount — сколько живых (used=FALSE) кодов осталось у пары.
func (r *memCodeRepo) unusedCount(email string, purpose models.Purpose) int {
	n := 0
	for _, c := range r.codes {
		if c.Email == email && c.Purpose == purpose && !c.Used {
			n++
		}
	}
	return n
}

type memSessionRepo struct {
	nextID   int
	sessions []*models.Session
	clk      *clock
}

func newMemSessionRepo(clk *clock) *memSessionRepo { return &memSessionRepo{nextID: 1, clk: clk} }

func (r *memSessionRepo) Replace(_ context.Context, s *models.Session) error {
	out := r.sessions[:0]
	for _, old := range r.sessions {
		if old.UserID != s.UserID {
			out = append(out, old)
		}
	}
	r.sessions = out
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = r.clk.Now()
	cp := *s
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	for _, s := range r.sessions {
		if s.Token == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) DeleteByToken(_ context.Context, token string) error {
	out := r.sessions[:0]
	for _, s := range r.sessions {
		if s.Token != token {
			out = append(out, s)
		}
	}
	r.sessions = out
	return nil
}

type memAttemptRepo struct {
	nextID   int
	attempts map[string]*models.LoginAttempt
	clk      *clock
}

func newMemAttemptRepo(clk *clock) *memAttemptRepo {
	return &memAttemptRepo{nextID: 1, attempts: map[string]*models.LoginAttempt{}, clk: clk}
}

func (r *memAttemptRepo) PurgeStale(_ context.Context, cutoff time.Time) error {
	for email, a := range r.attempts {
		if a.LastAttemptAt.Before(cutoff) {
			delete(r.attempts, email)
		}
	}
	return nil
}

func (r *memAttemptRepo) GetByEmail(_ context.Context, email string) (*models.LoginAttempt, error) {
	a, ok := r.attempts[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAttemptRepo) Increment(_ context.Context, email string) (int64, error) {
	a, ok := r.attempts[email]
	if !ok {
		return 0, nil
	}
	a.AttemptCount++
	a.LastAttemptAt = r.clk.Now()
	return 1, nil
}

func (r *memAttemptRepo) Create(_ context.Context, email, ip string) error {
	r.attempts[email] = &models.LoginAttempt{
		ID:            r.nextID,
		Email:         email,
		IPAddress:     ip,
		AttemptCount:  1,
		LastAttemptAt: r.clk.Now(),
	}
	r.nextID++
	return nil
}

func (r *memAttemptRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(r.attempts, email)
	return nil
}

// ---- коллабораторы

// fakeEmail перехватывает доставку: коды достаются тестам отсюда, как
// пользователю — из письма.
type fakeEmail struct {
	sent map[models.Purpose]string
	fail bool
}

func newFakeEmail() *fakeEmail { return &fakeEmail{sent: map[models.Purpose]string{}} }

func (f *fakeEmail) SendVerificationCode(_ string, purpose models.Purpose, code string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent[purpose] = code
	return nil
}

// fastAuth — без bcrypt, чтобы не замедлять тесты оркестратора.
type fastAuth struct{}

func (fastAuth) HashPassword(plain string) (string, error) { return "hashed:" + plain, nil }
func (fastAuth) CheckPassword(hash, plain string) bool     { return hash == "hashed:"+plain }

// ---- сборка стека

type testEnv struct {
	clk      *clock
	users    *memUserRepo
	codes    *memCodeRepo
	sessions *memSessionRepo
	attempts *memAttemptRepo
	email    *fakeEmail

	verification VerificationService
	rateLimit    RateLimitService
	sessionSvc   SessionService
	accounts     AccountService
}

func newTestEnv() *testEnv {
	clk := newClock()
	env := &testEnv{
		clk:      clk,
		users:    newMemUserRepo(clk),
		codes:    newMemCodeRepo(clk),
		sessions: newMemSessionRepo(clk),
		attempts: newMemAttemptRepo(clk),
		email:    newFakeEmail(),
	}
	env.verification = &verificationService{repo: env.codes, emails: env.email, now: clk.Now}
	env.rateLimit = &rateLimitService{repo: env.attempts, now: clk.Now}
	env.sessionSvc = &sessionService{sessions: env.sessions, users: env.users, now: clk.Now}
	env.accounts = NewAccountService(env.users, env.verification, env.rateLimit, env.sessionSvc, fastAuth{})
	return env
}
