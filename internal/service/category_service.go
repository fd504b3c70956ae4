package service

import (
	"errors"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"gorm.io/gorm"
)

type CategoryService struct {
	CategoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{CategoryRepo: categoryRepo}
}

// CategoryView decorates a category with the caller's access state.
type CategoryView struct {
	model.Category
	HasAccess       bool       `json:"hasAccess"`
	AccessExpiresAt *time.Time `json:"accessExpiresAt,omitempty"`
}

func (s *CategoryService) List(userID uint) ([]CategoryView, error) {
	categories, err := s.CategoryRepo.List()
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	now := time.Now()
	for _, category := range categories {
		views = append(views, s.buildView(category, userID, now))
	}
	return views, nil
}

func (s *CategoryService) Get(id, userID uint) (*CategoryView, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	view := s.buildView(*category, userID, time.Now())
	return &view, nil
}

func (s *CategoryService) buildView(category model.Category, userID uint, now time.Time) CategoryView {
	view := CategoryView{Category: category}
	if !category.IsPaid {
		view.HasAccess = true
		return view
	}
	access, err := s.CategoryRepo.FindAccess(userID, category.ID)
	if err == nil && access.IsAccessActive(now) {
		view.HasAccess = true
		view.AccessExpiresAt = &access.ExpiresAt
	}
	return view
}

// HasAccess is the entitlement gate used before starting an attempt.
// Free categories are always accessible.
func (s *CategoryService) HasAccess(userID, categoryID uint) (bool, error) {
	category, err := s.CategoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrCategoryNotFound
		}
		return false, err
	}
	if !category.IsPaid {
		return true, nil
	}
	return s.CategoryRepo.HasActiveAccess(userID, categoryID, time.Now())
}

func (s *CategoryService) Create(category *model.Category) error {
	return s.CategoryRepo.Create(category)
}

func (s *CategoryService) Update(category *model.Category) error {
	return s.CategoryRepo.Update(category)
}

func (s *CategoryService) Delete(id uint) error {
	return s.CategoryRepo.Delete(id)
}
