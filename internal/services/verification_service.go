package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"bandofmen/internal/models"
	"bandofmen/internal/repositories"
)

const codeTTL = 10 * time.Minute

type VerificationService interface {
	Issue(email string, purpose models.Purpose) error
	Validate(email, code string, purpose models.Purpose) (*models.VerificationCode, error)
}

type verificationService struct {
	repo   repositories.VerificationCodeRepository
	emails EmailService
	now    func() time.Time
}

func NewVerificationService(repo repositories.VerificationCodeRepository, emails EmailService) VerificationService {
	return &verificationService{
		repo:   repo,
		emails: emails,
		now:    time.Now,
	}
}

// generateCode — 6 цифр, равномерно на [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue вытесняет прежние коды пары (email, purpose), сохраняет новый и
// отправляет его письмом. Если письмо не ушло, код в БД остаётся — повторная
// отправка возможна, а ErrDeliveryFailure уходит вызывающему.
func (s *verificationService) Issue(email string, purpose models.Purpose) error {
	if !models.ValidPurpose(purpose) {
		return ErrInvalidPurpose
	}
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := storeContext()
	defer cancel()

	code, err := generateCode()
	if err != nil {
		return err
	}
	vc := &models.VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(codeTTL),
	}
	if err := s.repo.Issue(ctx, vc); err != nil {
		return storageErr("verification.issue", err)
	}

	if err := s.emails.SendVerificationCode(email, purpose, code); err != nil {
		// сам код не логируем
		log.Printf("[verify][issue] email delivery failed for %s purpose=%s: %v", email, purpose, err)
		return ErrDeliveryFailure
	}
	log.Printf("[verify][issue] code sent email=%s purpose=%s", email, purpose)
	return nil
}

// Validate — одноразовая проверка: успех помечает код использованным, повтор
// с тем же кодом даёт ErrCodeInvalid. Просроченный код остаётся used=FALSE.
func (s *verificationService) Validate(email, code string, purpose models.Purpose) (*models.VerificationCode, error) {
	if !models.ValidPurpose(purpose) {
		return nil, ErrInvalidPurpose
	}
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := storeContext()
	defer cancel()

	vc, err := s.repo.GetLatestUnused(ctx, email, code, purpose)
	if err != nil {
		return nil, storageErr("verification.lookup", err)
	}
	if vc == nil {
		return nil, ErrCodeInvalid
	}
	if vc.Expired(s.now()) {
		return nil, ErrCodeExpired
	}
	if err := s.repo.MarkUsed(ctx, vc.ID); err != nil {
		return nil, storageErr("verification.mark_used", err)
	}
	vc.Used = true
	return vc, nil
}
