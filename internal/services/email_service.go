package services

import (
	"fmt"

	"bandofmen/internal/models"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email string, purpose models.Purpose, code string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

var codeSubjects = map[models.Purpose]string{
	models.PurposeSignup:         "Verify your email - Band of Men",
	models.PurposeLogin2FA:       "Login verification code - Band of Men",
	models.PurposePasswordChange: "Password change verification - Band of Men",
	models.PurposeEnable2FA:      "Enable 2FA verification - Band of Men",
	models.PurposeDisable2FA:     "Disable 2FA verification - Band of Men",
}

var codeIntros = map[models.Purpose]string{
	models.PurposeSignup:         "Complete your registration",
	models.PurposeLogin2FA:       "Complete your login",
	models.PurposePasswordChange: "Confirm your password change",
	models.PurposeEnable2FA:      "Confirm enabling two-factor authentication",
	models.PurposeDisable2FA:     "Confirm disabling two-factor authentication",
}

// SendVerificationCode — единственный канал, по которому код покидает систему.
func (s *emailService) SendVerificationCode(email string, purpose models.Purpose, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", codeSubjects[purpose])

	body := fmt.Sprintf(`
		<h2>Band of Men</h2>
		<p>%s</p>
		<p>Enter this verification code:</p>
		<p style="font-size:32px;font-weight:700;letter-spacing:0.3em;">%s</p>
		<p>This code expires in 10 minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, codeIntros[purpose], code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
