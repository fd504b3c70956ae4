package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answer_options.`order` ASC")
	}).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListByQuiz returns the quiz catalog in ascending order slots.
func (r *QuestionRepository) ListByQuiz(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answer_options.`order` ASC")
	}).Where("quiz_id = ?", quizID).
		Order("`order` ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

// Delete removes the question and its options. Remaining questions are
// never renumbered; order gaps are expected.
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.AnswerOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

func (r *QuestionRepository) CreateOption(option *model.AnswerOption) error {
	return r.DB.Create(option).Error
}

func (r *QuestionRepository) DeleteOption(id uint) error {
	res := r.DB.Delete(&model.AnswerOption{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuestionRepository) ListOptions(questionID uint) ([]model.AnswerOption, error) {
	var options []model.AnswerOption
	err := r.DB.Where("question_id = ?", questionID).
		Order("`order` ASC").
		Find(&options).Error
	return options, err
}
