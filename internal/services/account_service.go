package services

import (
	"log"
	"regexp"
	"strings"

	"bandofmen/internal/models"
	"bandofmen/internal/repositories"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 8
	// предел bcrypt: байты сверх 72 он не принимает
	maxPasswordLen = 72
)

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}

type SignupResult struct {
	RequiresVerification bool
	User                 *models.User
	Token                string
}

type LoginResult struct {
	Requires2FA bool
	User        *models.User
	Token       string
}

type Toggle2FAResult struct {
	RequiresVerification bool
	Enabled              bool
}

// AccountService координирует регистрацию, вход, смену пароля и 2FA поверх
// хранилища, кодов, лимитера и сессий. Обход проверок отсюда невозможен.
type AccountService interface {
	Signup(email, password, name, verificationCode string) (*SignupResult, error)
	Login(email, password, twoFactorCode, ip string) (*LoginResult, error)
	SendCode(email string, purpose models.Purpose) error
	ConfirmCode(email, code string, purpose models.Purpose) error
	ChangePassword(user *models.User, currentPassword, newPassword string) error
	Toggle2FA(user *models.User, enable bool, verificationCode string) (*Toggle2FAResult, error)
}

type accountService struct {
	users     repositories.UserRepository
	codes     VerificationService
	rateLimit RateLimitService
	sessions  SessionService
	auth      AuthService
}

func NewAccountService(
	users repositories.UserRepository,
	codes VerificationService,
	rateLimit RateLimitService,
	sessions SessionService,
	auth AuthService,
) AccountService {
	return &accountService{
		users:     users,
		codes:     codes,
		rateLimit: rateLimit,
		sessions:  sessions,
		auth:      auth,
	}
}

// Signup — двухшаговая регистрация. Без кода: только валидация и проверка
// конфликта, пользователь не создаётся. С кодом: проверка кода purpose=signup,
// создание пользователя сразу с email_verified=TRUE и выдача сессии.
func (s *accountService) Signup(email, password, name, verificationCode string) (*SignupResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext()
	defer cancel()

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr("signup.lookup", err)
	}
	if existing != nil {
		if existing.Verified() {
			return nil, ErrEmailTaken
		}
		// брошенная незавершённая регистрация вытесняется свежей
		if err := s.users.Delete(ctx, existing.ID); err != nil {
			return nil, storageErr("signup.supersede", err)
		}
		log.Printf("[account][signup] superseded unverified userID=%d", existing.ID)
	}

	if verificationCode == "" {
		return &SignupResult{RequiresVerification: true}, nil
	}

	if _, err := s.codes.Validate(email, verificationCode, models.PurposeSignup); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	verified := true
	user := &models.User{
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		EmailVerified: &verified,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storageErr("signup.create", err)
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[account][signup] created userID=%d", user.ID)
	return &SignupResult{User: user, Token: token}, nil
}

// Login — порядок фиксированный: лимитер, поиск пользователя, флаг верификации,
// пароль, сброс лимитера, 2FA, сессия. Неизвестный email и неверный пароль
// дают один и тот же ответ, чтобы не раскрывать существование аккаунта.
func (s *accountService) Login(email, password, twoFactorCode, ip string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.rateLimit.Check(email); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext()
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr("login.lookup", err)
	}
	if user == nil {
		if err := s.rateLimit.RecordFailure(email, ip); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if !user.Verified() {
		return nil, ErrEmailNotVerified
	}

	if !s.auth.CheckPassword(user.PasswordHash, password) {
		if err := s.rateLimit.RecordFailure(email, ip); err != nil {
			return nil, err
		}
		log.Printf("[account][login] password mismatch userID=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.rateLimit.Clear(email); err != nil {
		return nil, err
	}

	if user.TwoFactorEnabled {
		if twoFactorCode == "" {
			return &LoginResult{Requires2FA: true}, nil
		}
		if _, err := s.codes.Validate(email, twoFactorCode, models.PurposeLogin2FA); err != nil {
			return nil, err
		}
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[account][login] success userID=%d", user.ID)
	return &LoginResult{User: user, Token: token}, nil
}

func (s *accountService) SendCode(email string, purpose models.Purpose) error {
	return s.codes.Issue(email, purpose)
}

// ConfirmCode — проверка кода вне основного потока; для purpose=signup заодно
// проставляем email_verified.
func (s *accountService) ConfirmCode(email, code string, purpose models.Purpose) error {
	if _, err := s.codes.Validate(email, code, purpose); err != nil {
		return err
	}
	if purpose == models.PurposeSignup {
		ctx, cancel := storeContext()
		defer cancel()
		email = strings.ToLower(strings.TrimSpace(email))
		if err := s.users.SetEmailVerified(ctx, email); err != nil {
			return storageErr("confirm.set_verified", err)
		}
	}
	return nil
}

// ChangePassword не трогает текущую сессию: политика одной сессии и так
// ограничивает риск.
func (s *accountService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if newPassword == currentPassword {
		return ErrSamePassword
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	ctx, cancel := storeContext()
	defer cancel()

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return storageErr("password.update", err)
	}
	log.Printf("[account][change-password] updated userID=%d", user.ID)
	return nil
}

// Toggle2FA — переключение требует кода с purpose, совпадающим с целевым
// состоянием (enable_2fa либо disable_2fa).
func (s *accountService) Toggle2FA(user *models.User, enable bool, verificationCode string) (*Toggle2FAResult, error) {
	if verificationCode == "" {
		return &Toggle2FAResult{RequiresVerification: true}, nil
	}

	purpose := models.PurposeDisable2FA
	if enable {
		purpose = models.PurposeEnable2FA
	}
	if _, err := s.codes.Validate(user.Email, verificationCode, purpose); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext()
	defer cancel()

	if err := s.users.SetTwoFactor(ctx, user.ID, enable); err != nil {
		return nil, storageErr("twofactor.update", err)
	}
	log.Printf("[account][toggle-2fa] userID=%d enabled=%t", user.ID, enable)
	return &Toggle2FAResult{Enabled: enable}, nil
}
