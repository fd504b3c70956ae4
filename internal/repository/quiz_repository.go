package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByIDInCategory(id, categoryID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("id = ? AND category_id = ?", id, categoryID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListByCategory returns the category's quizzes, newest first,
// optionally filtered by quiz type.
func (r *QuizRepository) ListByCategory(categoryID uint, quizType string) ([]model.Quiz, error) {
	q := r.DB.Where("category_id = ?", categoryID)
	if quizType != "" {
		q = q.Where("quiz_type = ?", quizType)
	}
	var quizzes []model.Quiz
	err := q.Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) CountQuestions(quizID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return int(count), err
}

func (r *QuizRepository) TotalScore(quizID uint) (int, error) {
	var total *int
	err := r.DB.Model(&model.Question{}).
		Where("quiz_id = ?", quizID).
		Select("SUM(score)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
