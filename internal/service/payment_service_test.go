package service

import (
	"regexp"
	"testing"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(db, repository.NewPaymentRepository(db), repository.NewCategoryRepository(db))
}

var txnPattern = regexp.MustCompile(`^TXN_[0-9A-F]{12}$`)

func TestPurchaseCategoryGrantsAccess(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newPaymentService(db)

	f.category.IsPaid = true
	f.category.Price = 19.50
	require.NoError(t, db.Save(f.category).Error)

	payment, access, err := svc.PurchaseCategory(f.user.ID, f.category.ID)
	require.NoError(t, err)

	assert.Regexp(t, txnPattern, payment.TransactionID)
	assert.InDelta(t, 19.50, payment.Amount, 0.001)
	require.NotNil(t, access)
	assert.True(t, access.IsActive)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, util.AccessGrantDays), access.ExpiresAt, time.Minute)

	categorySvc := NewCategoryService(repository.NewCategoryRepository(db))
	hasAccess, err := categorySvc.HasAccess(f.user.ID, f.category.ID)
	require.NoError(t, err)
	assert.True(t, hasAccess)
}

func TestPurchaseFreeCategoryRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newPaymentService(db)

	_, _, err := svc.PurchaseCategory(f.user.ID, f.category.ID)
	assert.ErrorIs(t, err, util.ErrCategoryFree)
}

func TestPurchaseWithActiveAccessRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newPaymentService(db)

	f.category.IsPaid = true
	require.NoError(t, db.Save(f.category).Error)

	_, _, err := svc.PurchaseCategory(f.user.ID, f.category.ID)
	require.NoError(t, err)

	_, _, err = svc.PurchaseCategory(f.user.ID, f.category.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyPurchased)
}

func TestPurchaseExtendsExpiredAccessInPlace(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newPaymentService(db)

	f.category.IsPaid = true
	require.NoError(t, db.Save(f.category).Error)

	expired := &model.UserCategoryAccess{
		UserID:     f.user.ID,
		CategoryID: f.category.ID,
		GrantedAt:  time.Now().AddDate(0, 0, -60),
		ExpiresAt:  time.Now().AddDate(0, 0, -30),
		IsActive:   true,
	}
	require.NoError(t, db.Create(expired).Error)

	_, access, err := svc.PurchaseCategory(f.user.ID, f.category.ID)
	require.NoError(t, err)

	assert.Equal(t, expired.ID, access.ID, "the expired grant is renewed, not duplicated")
	assert.True(t, access.ExpiresAt.After(time.Now()))

	var count int64
	require.NoError(t, db.Model(&model.UserCategoryAccess{}).
		Where("user_id = ? AND category_id = ?", f.user.ID, f.category.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAccessExpiry(t *testing.T) {
	now := time.Now()
	active := &model.UserCategoryAccess{IsActive: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, active.IsAccessActive(now))

	expired := &model.UserCategoryAccess{IsActive: true, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, expired.IsAccessActive(now))

	revoked := &model.UserCategoryAccess{IsActive: false, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, revoked.IsAccessActive(now))
}
