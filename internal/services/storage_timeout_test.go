package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"bandofmen/internal/models"
)

// Репозитории, у которых хранилище не отвечает: каждый вызов заканчивается
// истёкшим дедлайном.

type timeoutSessionRepo struct{}

func (timeoutSessionRepo) Replace(context.Context, *models.Session) error {
	return context.DeadlineExceeded
}

func (timeoutSessionRepo) GetByToken(context.Context, string) (*models.Session, error) {
	return nil, context.DeadlineExceeded
}

func (timeoutSessionRepo) DeleteByToken(context.Context, string) error {
	return context.DeadlineExceeded
}

type timeoutCodeRepo struct{}

func (timeoutCodeRepo) Issue(context.Context, *models.VerificationCode) error {
	return context.DeadlineExceeded
}

func (timeoutCodeRepo) GetLatestUnused(context.Context, string, string, models.Purpose) (*models.VerificationCode, error) {
	return nil, context.DeadlineExceeded
}

func (timeoutCodeRepo) MarkUsed(context.Context, int64) error {
	return context.DeadlineExceeded
}

func TestSessionService_StorageTimeout(t *testing.T) {
	clk := newClock()
	svc := &sessionService{sessions: timeoutSessionRepo{}, users: newMemUserRepo(clk), now: clk.Now}

	_, err := svc.Create(1)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.Resolve("some-token")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = svc.Revoke("some-token")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestVerificationService_StorageTimeout(t *testing.T) {
	clk := newClock()
	svc := &verificationService{repo: timeoutCodeRepo{}, emails: newFakeEmail(), now: clk.Now}

	err := svc.Issue("a@x.com", models.PurposeSignup)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.Validate("a@x.com", "123456", models.PurposeSignup)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStorageErr_WrapsOtherErrors(t *testing.T) {
	// обычная ошибка БД не маскируется под недоступность хранилища
	err := storageErr("test.op", assert.AnError)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStorageErr_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := storageErr("test.op", ctx.Err())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
