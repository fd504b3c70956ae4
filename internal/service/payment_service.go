package service

import (
	"errors"
	"strings"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB           *gorm.DB
	PaymentRepo  *repository.PaymentRepository
	CategoryRepo *repository.CategoryRepository
}

func NewPaymentService(db *gorm.DB, paymentRepo *repository.PaymentRepository, categoryRepo *repository.CategoryRepository) *PaymentService {
	return &PaymentService{
		DB:           db,
		PaymentRepo:  paymentRepo,
		CategoryRepo: categoryRepo,
	}
}

// newTransactionID builds ids like TXN_3F2A9C41B7D0.
func newTransactionID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TXN_" + hex[:12]
}

// PurchaseCategory records a payment and grants 30 days of access. An
// existing expired grant is extended in place rather than duplicated.
func (s *PaymentService) PurchaseCategory(userID, categoryID uint) (*model.Payment, *model.UserCategoryAccess, error) {
	category, err := s.CategoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCategoryNotFound
		}
		return nil, nil, err
	}
	if !category.IsPaid {
		return nil, nil, util.ErrCategoryFree
	}

	now := time.Now()
	access, err := s.CategoryRepo.FindAccess(userID, categoryID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if err == nil && access.IsAccessActive(now) {
		return nil, nil, util.ErrAlreadyPurchased
	}

	payment := &model.Payment{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        category.Price,
		TransactionID: newTransactionID(),
		Description:   "Access to category: " + category.Title,
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		accessRepo := repository.NewCategoryRepository(tx)
		expires := now.AddDate(0, 0, util.AccessGrantDays)
		if access != nil && access.ID != 0 {
			access.GrantedAt = now
			access.ExpiresAt = expires
			access.IsActive = true
			if err := accessRepo.SaveAccess(access); err != nil {
				return err
			}
			return accessRepo.DeleteDuplicateAccess(userID, categoryID, access.ID)
		}
		access = &model.UserCategoryAccess{
			UserID:     userID,
			CategoryID: categoryID,
			GrantedAt:  now,
			ExpiresAt:  expires,
			IsActive:   true,
		}
		return accessRepo.CreateAccess(access)
	})
	if txErr != nil {
		return nil, nil, txErr
	}
	return payment, access, nil
}

func (s *PaymentService) History(userID uint) ([]model.Payment, error) {
	return s.PaymentRepo.ListByUser(userID)
}

func (s *PaymentService) Get(id, userID uint) (*model.Payment, error) {
	payment, err := s.PaymentRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}
