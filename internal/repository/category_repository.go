package repository

import (
	"time"

	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.DB.Create(category).Error
}

func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.DB.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("title ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(category *model.Category) error {
	return r.DB.Save(category).Error
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Category{}, id).Error
}

// HasActiveAccess reports whether the user holds an unexpired, active
// grant for the category.
func (r *CategoryRepository) HasActiveAccess(userID, categoryID uint, now time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserCategoryAccess{}).
		Where("user_id = ? AND category_id = ? AND is_active = ? AND expires_at > ?",
			userID, categoryID, true, now).
		Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) FindAccess(userID, categoryID uint) (*model.UserCategoryAccess, error) {
	var access model.UserCategoryAccess
	err := r.DB.Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order("granted_at DESC").
		First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (r *CategoryRepository) SaveAccess(access *model.UserCategoryAccess) error {
	return r.DB.Save(access).Error
}

func (r *CategoryRepository) CreateAccess(access *model.UserCategoryAccess) error {
	return r.DB.Create(access).Error
}

// DeleteDuplicateAccess removes every access row for (user, category)
// except the one being kept.
func (r *CategoryRepository) DeleteDuplicateAccess(userID, categoryID, keepID uint) error {
	return r.DB.Where("user_id = ? AND category_id = ? AND id != ?", userID, categoryID, keepID).
		Delete(&model.UserCategoryAccess{}).Error
}
